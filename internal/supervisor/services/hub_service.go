// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package services

import "context"

// Runner is anything with a blocking, context-aware run loop (the websocket
// hub).
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerService adapts a Runner onto suture.Service.
type RunnerService struct {
	name   string
	runner Runner
}

// NewRunnerService names and wraps a run loop for supervision.
func NewRunnerService(name string, runner Runner) *RunnerService {
	return &RunnerService{name: name, runner: runner}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	return s.runner.Run(ctx)
}

func (s *RunnerService) String() string {
	return s.name
}
