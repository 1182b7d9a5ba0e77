// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

// Package boundaries fetches region boundary GeoJSON datasets over HTTP,
// persists them in a local Badger store, and serves parsed region indexes
// through a stale-while-revalidate cache. Boundary upstreams being down is
// never fatal: the last persisted copy keeps serving, and region endpoints
// degrade to "unavailable" only when no copy has ever been fetched.
package boundaries

import (
	"fmt"

	"github.com/dmaier-io/photoglobe/internal/region"
)

// Dataset identifies one boundary GeoJSON upstream.
type Dataset string

const (
	// DatasetCountriesCoarse is the low-resolution country polygon set used
	// at far camera distances.
	DatasetCountriesCoarse Dataset = "countries-coarse"

	// DatasetCountriesFine is the high-resolution country polygon set used
	// when the camera is close.
	DatasetCountriesFine Dataset = "countries-fine"

	// DatasetAdmin1 is the first-level subdivision polygon set.
	DatasetAdmin1 Dataset = "admin1"
)

// AllDatasets lists every dataset the background refresh service maintains.
var AllDatasets = []Dataset{DatasetCountriesCoarse, DatasetCountriesFine, DatasetAdmin1}

// Level returns the region index level the dataset builds.
func (d Dataset) Level() region.Level {
	if d == DatasetAdmin1 {
		return region.LevelAdmin1
	}
	return region.LevelCountry
}

// Valid reports whether d names a known dataset.
func (d Dataset) Valid() bool {
	switch d {
	case DatasetCountriesCoarse, DatasetCountriesFine, DatasetAdmin1:
		return true
	}
	return false
}

// ErrUnavailable is returned when a dataset has never been fetched and the
// upstream cannot be reached.
var ErrUnavailable = fmt.Errorf("boundary dataset unavailable")
