// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package lod

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultEvaluateInterval is how often a stream of distance observations may
// actually update LOD state. 150ms keeps switching responsive while bounding
// recomputation cost, and behaves the same regardless of how fast the client
// reports camera movement.
const DefaultEvaluateInterval = 150 * time.Millisecond

// Evaluator throttles Policy.Observe to wall time.
//
// Clients report camera distance on every interaction frame; re-deriving LOD
// (and invalidating downstream caches) that often would be wasted work. The
// evaluator admits at most one observation per interval and returns the last
// computed state in between. Throttling is time-based on purpose: a
// frame-counter gate would tie LOD cadence to the client's refresh rate.
type Evaluator struct {
	policy *Policy
	gate   rate.Sometimes

	mu   sync.Mutex
	last State
	seen bool
}

// NewEvaluator wraps a policy with a wall-time gate. A non-positive interval
// selects DefaultEvaluateInterval.
func NewEvaluator(policy *Policy, interval time.Duration) *Evaluator {
	if interval <= 0 {
		interval = DefaultEvaluateInterval
	}
	return &Evaluator{
		policy: policy,
		gate:   rate.Sometimes{Interval: interval},
	}
}

// Observe records a distance sample. The first sample always computes; later
// samples within the interval return the previous state unchanged.
func (e *Evaluator) Observe(distance float64) State {
	e.gate.Do(func() {
		state := e.policy.Observe(distance)
		e.mu.Lock()
		e.last = state
		e.seen = true
		e.mu.Unlock()
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Last returns the most recent state and whether any sample was admitted yet.
func (e *Evaluator) Last() (State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last, e.seen
}
