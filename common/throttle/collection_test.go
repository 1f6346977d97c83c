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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/uber/throttler/common/clock"
	"github.com/uber/throttler/common/config"
)

func testThrottleConfig() config.Throttle {
	return config.Throttle{
		Default: config.TargetThrottle{ShouldWrap: true, Interval: 1000, Number: 10},
		Targets: map[string]config.TargetThrottle{
			"s3":       {ShouldWrap: true, MaxConcurrent: 4},
			"metadata": {ShouldWrap: false},
			"search":   {ShouldWrap: true, Interval: 250, Number: 2},
		},
	}
}

func TestNewCollection(t *testing.T) {
	c, err := NewCollection(testThrottleConfig(), WithTimeSource(clock.NewMockedTimeSource()))
	require.NoError(t, err)

	assert.Equal(t, ConcurrencyPolicy(4), c.PolicyFor("s3"))
	assert.Equal(t, UnthrottledPolicy(), c.PolicyFor("metadata"))
	assert.Equal(t, IntervalPolicy(250*time.Millisecond, 2), c.PolicyFor("search"))
	assert.Equal(t, IntervalPolicy(time.Second, 10), c.PolicyFor("unconfigured"))

	s3 := c.For("s3")
	assert.Equal(t, "s3", s3.Target())
	assert.Equal(t, ConcurrencyPolicy(4), s3.Policy())
	assert.Same(t, s3, c.For("s3"))

	other := c.For("unconfigured")
	assert.Equal(t, "unconfigured", other.Target())
	assert.Equal(t, IntervalPolicy(time.Second, 10), other.Policy())
	assert.NotSame(t, s3, other)
}

func TestNewCollection_ReportsEveryInvalidEntry(t *testing.T) {
	cfg := testThrottleConfig()
	cfg.Default = config.TargetThrottle{ShouldWrap: true, Interval: 1000}
	cfg.Targets["broken"] = config.TargetThrottle{ShouldWrap: true, MaxConcurrent: -3}

	c, err := NewCollection(cfg)
	require.Error(t, err)
	assert.Nil(t, c)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
	assert.Contains(t, err.Error(), "default throttle")
	assert.Contains(t, err.Error(), `"broken"`)
}

func TestCollection_ConcurrentForReturnsSameController(t *testing.T) {
	c, err := NewCollection(config.DefaultThrottle())
	require.NoError(t, err)

	const callers = 64
	results := make([]Controller, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.For("shared")
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}
