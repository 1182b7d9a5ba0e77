// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clustersRequest struct {
	Distance float64 `validate:"gt=0"`
	Limit    int     `validate:"min=1,max=50000"`
}

type regionsRequest struct {
	Level    string  `validate:"region_level"`
	Distance float64 `validate:"gt=0"`
}

type photoRequest struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
}

func TestValidateStructPasses(t *testing.T) {
	assert.Nil(t, ValidateStruct(&clustersRequest{Distance: 250, Limit: 5000}))
	assert.Nil(t, ValidateStruct(&regionsRequest{Level: "admin1", Distance: 120}))
	assert.Nil(t, ValidateStruct(&regionsRequest{Level: "", Distance: 120}))
	assert.Nil(t, ValidateStruct(&photoRequest{Latitude: 48.86, Longitude: 2.35}))
}

func TestValidateStructSingleError(t *testing.T) {
	err := ValidateStruct(&clustersRequest{Distance: 250, Limit: 0})
	require.NotNil(t, err)
	require.Len(t, err.Errors(), 1)

	fe := err.Errors()[0]
	assert.Equal(t, "Limit", fe.Field())
	assert.Equal(t, "min", fe.Tag())
	assert.Equal(t, "Limit must be at least 1", fe.Error())

	apiErr := err.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "Limit must be at least 1", apiErr.Message)
	assert.Equal(t, "Limit", apiErr.Details["field"])
}

func TestValidateStructMultipleErrors(t *testing.T) {
	err := ValidateStruct(&clustersRequest{Distance: -1, Limit: 100000})
	require.NotNil(t, err)
	require.Len(t, err.Errors(), 2)

	apiErr := err.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Message, "Distance")
	assert.Contains(t, apiErr.Message, "Limit")
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, fields, 2)
}

func TestRegionLevelValidator(t *testing.T) {
	err := ValidateStruct(&regionsRequest{Level: "continent", Distance: 120})
	require.NotNil(t, err)
	assert.Equal(t, "Level must be one of: auto, country, admin1", err.Errors()[0].Error())
}

func TestCoordinateValidators(t *testing.T) {
	err := ValidateStruct(&photoRequest{Latitude: 95, Longitude: 2.35})
	require.NotNil(t, err)
	assert.Equal(t, "Latitude must be a valid latitude (-90 to 90)", err.Errors()[0].Error())

	err = ValidateStruct(&photoRequest{Latitude: 48.86, Longitude: 181})
	require.NotNil(t, err)
	assert.Equal(t, "Longitude must be a valid longitude (-180 to 180)", err.Errors()[0].Error())
}
