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
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

func TestTargetThrottle_Validate(t *testing.T) {
	tests := map[string]struct {
		input   TargetThrottle
		wantErr bool
	}{
		"unwrapped ignores limits": {
			input: TargetThrottle{ShouldWrap: false, Interval: -5},
		},
		"interval": {
			input: TargetThrottle{ShouldWrap: true, Interval: 1000, Number: 3},
		},
		"concurrency": {
			input: TargetThrottle{ShouldWrap: true, MaxConcurrent: 2},
		},
		"zero number starves": {
			input:   TargetThrottle{ShouldWrap: true, Interval: 1000},
			wantErr: true,
		},
		"zero interval": {
			input:   TargetThrottle{ShouldWrap: true, Number: 3},
			wantErr: true,
		},
		"negative concurrency": {
			input:   TargetThrottle{ShouldWrap: true, MaxConcurrent: -1, Interval: 1000, Number: 3},
			wantErr: true,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestThrottle_ValidateReportsEveryTarget(t *testing.T) {
	cfg := Throttle{
		Default: TargetThrottle{ShouldWrap: true},
		Targets: map[string]TargetThrottle{
			"ok":  {ShouldWrap: true, MaxConcurrent: 1},
			"bad": {ShouldWrap: true, Interval: 10},
		},
	}
	err := cfg.Validate()
	assert.Error(t, err)
	// one entry per broken target, each wrapping its own problems
	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), `target "bad"`)
}

func TestDefaultThrottle(t *testing.T) {
	cfg := DefaultThrottle()
	assert.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.TargetNames())
}
