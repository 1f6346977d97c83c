// The MIT License (MIT)

// Copyright (c) 2017-2020 Uber Technologies Inc.

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package config

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

type (
	// Throttle is the per-target admission control table. Targets without an
	// entry in Targets are governed by Default.
	Throttle struct {
		// Default applies to every target without a specific override
		Default TargetThrottle `yaml:"default"`
		// Targets maps a target name (usually a remote service) to its policy
		Targets map[string]TargetThrottle `yaml:"targets"`
	}

	// TargetThrottle describes the admission policy of one target.
	//
	// shouldWrap=false disables admission control entirely. Otherwise a positive
	// maxConcurrent selects a concurrency limit, and interval/number select a
	// rolling window of `interval` milliseconds admitting at most `number` calls.
	TargetThrottle struct {
		ShouldWrap    bool `yaml:"shouldWrap"`
		Interval      int  `yaml:"interval" validate:"min=0"`
		Number        int  `yaml:"number" validate:"min=0"`
		MaxConcurrent int  `yaml:"maxConcurrent" validate:"min=0"`
	}
)

const (
	defaultIntervalMillis = 1000
	defaultNumber         = 10
)

// DefaultThrottle returns the table applied when no configuration is provided:
// every target is limited to 10 calls per second.
func DefaultThrottle() Throttle {
	return Throttle{
		Default: TargetThrottle{
			ShouldWrap: true,
			Interval:   defaultIntervalMillis,
			Number:     defaultNumber,
		},
	}
}

// TargetNames returns the names of all targets with a specific entry, sorted
func (t *Throttle) TargetNames() []string {
	names := make([]string, 0, len(t.Targets))
	for name := range t.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the default and every target entry
func (t *Throttle) Validate() error {
	var errs error
	if err := t.Default.Validate(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("default: %w", err))
	}
	for _, name := range t.TargetNames() {
		tt := t.Targets[name]
		if err := tt.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("target %q: %w", name, err))
		}
	}
	return errs
}

// Validate checks that a wrapped target admits at least one call
func (t *TargetThrottle) Validate() error {
	if !t.ShouldWrap {
		return nil
	}
	if t.MaxConcurrent < 0 {
		return fmt.Errorf("maxConcurrent must not be negative, got %d", t.MaxConcurrent)
	}
	if t.MaxConcurrent > 0 {
		return nil
	}
	var errs error
	if t.Interval <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("interval must be positive, got %d", t.Interval))
	}
	if t.Number <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("number must be positive, got %d", t.Number))
	}
	return errs
}
