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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uber/throttler/common/config"
)

func TestPolicyValidate(t *testing.T) {
	tests := map[string]struct {
		policy  Policy
		wantErr error
	}{
		"unthrottled":             {policy: UnthrottledPolicy()},
		"interval":                {policy: IntervalPolicy(time.Second, 10)},
		"concurrency":             {policy: ConcurrencyPolicy(4)},
		"interval without window": {policy: IntervalPolicy(0, 10), wantErr: ErrInvalidPolicy},
		"interval without calls":  {policy: IntervalPolicy(time.Second, 0), wantErr: ErrInvalidPolicy},
		"negative calls":          {policy: IntervalPolicy(time.Second, -1), wantErr: ErrInvalidPolicy},
		"zero concurrency":        {policy: ConcurrencyPolicy(0), wantErr: ErrInvalidPolicy},
		"unknown kind":            {policy: Policy{Kind: PolicyKind(7)}, wantErr: ErrUnknownPolicy},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPolicyFromConfig(t *testing.T) {
	tests := map[string]struct {
		cfg     config.TargetThrottle
		want    Policy
		wantErr error
	}{
		"not wrapped": {
			cfg:  config.TargetThrottle{ShouldWrap: false, Interval: 1000, Number: 5},
			want: UnthrottledPolicy(),
		},
		"interval": {
			cfg:  config.TargetThrottle{ShouldWrap: true, Interval: 1500, Number: 5},
			want: IntervalPolicy(1500*time.Millisecond, 5),
		},
		"concurrency wins over interval": {
			cfg:  config.TargetThrottle{ShouldWrap: true, Interval: 1000, Number: 5, MaxConcurrent: 3},
			want: ConcurrencyPolicy(3),
		},
		"zero number": {
			cfg:     config.TargetThrottle{ShouldWrap: true, Interval: 1000},
			want:    IntervalPolicy(time.Second, 0),
			wantErr: ErrInvalidPolicy,
		},
		"negative concurrency": {
			cfg:     config.TargetThrottle{ShouldWrap: true, MaxConcurrent: -1},
			want:    ConcurrencyPolicy(-1),
			wantErr: ErrInvalidPolicy,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := PolicyFromConfig(tt.cfg)
			assert.Equal(t, tt.want, p)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "unthrottled", UnthrottledPolicy().String())
	assert.Equal(t, "interval(3 per 1s)", IntervalPolicy(time.Second, 3).String())
	assert.Equal(t, "concurrency(2)", ConcurrencyPolicy(2).String())
	assert.Equal(t, "unknown(9)", Policy{Kind: PolicyKind(9)}.String())
}
