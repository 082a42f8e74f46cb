// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"errors"
	"fmt"
	"time"
)

// Result is the outcome of one target.
type Result struct {
	Target  string
	Dir     string   // output directory, empty for stdout
	Files   []string // file names relative to Dir
	Err     error
	Elapsed time.Duration
}

// Summary collects the results of a run in request order.
type Summary struct {
	Results []Result
}

// Succeeded returns the targets that produced output.
func (s *Summary) Succeeded() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Err == nil {
			out = append(out, r)
		}
	}
	return out
}

// Failed returns the targets that failed.
func (s *Summary) Failed() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Err joins the errors of every failed target, or returns nil.
func (s *Summary) Err() error {
	var errs []error
	for _, r := range s.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", r.Target, r.Err))
	}
	return errors.Join(errs...)
}
