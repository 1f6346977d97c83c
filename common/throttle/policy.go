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

package throttle

import (
	"fmt"
	"time"

	"github.com/uber/throttler/common/config"
)

// PolicyKind selects the admission discipline of a Policy
type PolicyKind int

const (
	// PolicyKindUnthrottled admits every call immediately
	PolicyKindUnthrottled PolicyKind = iota
	// PolicyKindInterval limits dispatches within a trailing time window
	PolicyKindInterval
	// PolicyKindConcurrency limits the number of calls in flight
	PolicyKindConcurrency
)

func (k PolicyKind) String() string {
	switch k {
	case PolicyKindUnthrottled:
		return "unthrottled"
	case PolicyKindInterval:
		return "interval"
	case PolicyKindConcurrency:
		return "concurrency"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Policy is the immutable admission configuration of one target.
// Only the fields relevant to Kind are used.
type Policy struct {
	Kind PolicyKind
	// Window and MaxPerWindow apply to PolicyKindInterval
	Window       time.Duration
	MaxPerWindow int
	// MaxConcurrent applies to PolicyKindConcurrency
	MaxConcurrent int
}

// IntervalPolicy admits at most maxPerWindow dispatches within any trailing window
func IntervalPolicy(window time.Duration, maxPerWindow int) Policy {
	return Policy{
		Kind:         PolicyKindInterval,
		Window:       window,
		MaxPerWindow: maxPerWindow,
	}
}

// ConcurrencyPolicy admits at most maxConcurrent calls in flight
func ConcurrencyPolicy(maxConcurrent int) Policy {
	return Policy{
		Kind:          PolicyKindConcurrency,
		MaxConcurrent: maxConcurrent,
	}
}

// UnthrottledPolicy admits everything
func UnthrottledPolicy() Policy {
	return Policy{Kind: PolicyKindUnthrottled}
}

// PolicyFromConfig converts a per-target config entry into a Policy
func PolicyFromConfig(cfg config.TargetThrottle) (Policy, error) {
	var p Policy
	switch {
	case !cfg.ShouldWrap:
		p = UnthrottledPolicy()
	case cfg.MaxConcurrent != 0:
		p = ConcurrencyPolicy(cfg.MaxConcurrent)
	default:
		p = IntervalPolicy(time.Duration(cfg.Interval)*time.Millisecond, cfg.Number)
	}
	return p, p.Validate()
}

// Validate returns a configuration error for policies that are unknown or
// that could never admit a call. Zero limits are rejected rather than left to
// starve every submission.
func (p Policy) Validate() error {
	switch p.Kind {
	case PolicyKindUnthrottled:
		return nil
	case PolicyKindInterval:
		if p.Window <= 0 {
			return fmt.Errorf("%w: interval window must be positive, got %v", ErrInvalidPolicy, p.Window)
		}
		if p.MaxPerWindow <= 0 {
			return fmt.Errorf("%w: max per window must be positive, got %d", ErrInvalidPolicy, p.MaxPerWindow)
		}
		return nil
	case PolicyKindConcurrency:
		if p.MaxConcurrent <= 0 {
			return fmt.Errorf("%w: max concurrent must be positive, got %d", ErrInvalidPolicy, p.MaxConcurrent)
		}
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnknownPolicy, p.Kind)
	}
}

func (p Policy) String() string {
	switch p.Kind {
	case PolicyKindInterval:
		return fmt.Sprintf("interval(%d per %v)", p.MaxPerWindow, p.Window)
	case PolicyKindConcurrency:
		return fmt.Sprintf("concurrency(%d)", p.MaxConcurrent)
	default:
		return p.Kind.String()
	}
}
