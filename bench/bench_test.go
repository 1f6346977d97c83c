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

package bench

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/uber/throttler/common/config"
	"github.com/uber/throttler/common/log/testlogger"
	"github.com/uber/throttler/common/throttle"
)

func testCollection(t *testing.T) *throttle.Collection {
	c, err := throttle.NewCollection(config.Throttle{
		Default: config.TargetThrottle{ShouldWrap: false},
		Targets: map[string]config.TargetThrottle{
			"concurrent": {ShouldWrap: true, MaxConcurrent: 2},
			"windowed":   {ShouldWrap: true, Interval: 100, Number: 5},
		},
	})
	require.NoError(t, err)
	return c
}

func TestRun(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	results, err := Run(context.Background(), Params{
		Targets:  []string{"concurrent", "windowed", "open"},
		Resolver: testCollection(t),
		Load:     Load{Calls: 10, Latency: 5 * time.Millisecond},
		Logger:   testlogger.New(t),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	want := []Result{
		{Target: "concurrent", Policy: "concurrency(2)", Submitted: 10, Succeeded: 10},
		{Target: "windowed", Policy: "interval(5 per 100ms)", Submitted: 10, Succeeded: 10},
		{Target: "open", Policy: "unthrottled", Submitted: 10, Succeeded: 10},
	}
	timing := cmpopts.IgnoreFields(Result{}, "MaxRunning", "QueueP50", "QueueP99", "Elapsed")
	if diff := cmp.Diff(want, results, timing); diff != "" {
		t.Fatalf("Mismatch (-want +got):\n%s", diff)
	}

	concurrent, windowed := results[0], results[1]
	assert.LessOrEqual(t, concurrent.MaxRunning, 2)
	assert.Greater(t, concurrent.QueueP99, time.Duration(0), "calls beyond the limit wait for a slot")
	assert.GreaterOrEqual(t, windowed.Elapsed, 100*time.Millisecond, "second batch waits for the window")
	assert.GreaterOrEqual(t, windowed.QueueP99, 50*time.Millisecond)
	assert.LessOrEqual(t, windowed.QueueP50, windowed.QueueP99)
}

func TestLatencyRecorderQuantile(t *testing.T) {
	var r latencyRecorder
	assert.Zero(t, r.quantile(0.5))

	for i := 100; i >= 1; i-- {
		r.record(time.Duration(i) * time.Millisecond)
	}
	assert.Equal(t, 50*time.Millisecond, r.quantile(0.5))
	assert.Equal(t, 99*time.Millisecond, r.quantile(0.99))
	assert.Equal(t, 100*time.Millisecond, r.quantile(1))
}

func TestRun_FailureRate(t *testing.T) {
	results, err := Run(context.Background(), Params{
		Targets:  []string{"concurrent"},
		Resolver: testCollection(t),
		Load:     Load{Calls: 8, FailureRate: 1},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 8, results[0].Failed)
	assert.Zero(t, results[0].Succeeded)
}

func TestRun_InvalidParams(t *testing.T) {
	_, err := Run(context.Background(), Params{Load: Load{Calls: 1}})
	assert.Error(t, err)

	_, err = Run(context.Background(), Params{Resolver: testCollection(t)})
	assert.ErrorContains(t, err, "calls must be positive")
}

func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Params{
		Targets:  []string{"concurrent"},
		Resolver: testCollection(t),
		Load:     Load{Calls: 4, Latency: time.Second},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, []Result{{
		Target:     "s3",
		Policy:     "concurrency(4)",
		Submitted:  100,
		Succeeded:  98,
		Failed:     2,
		MaxRunning: 4,
		QueueP50:   12 * time.Millisecond,
		QueueP99:   250 * time.Millisecond,
		Elapsed:    1234567 * time.Microsecond,
	}}, false)

	out := buf.String()
	for _, want := range []string{"TARGET", "MAX RUNNING", "QUEUE P99", "s3", "concurrency(4)", "100", "98", "1.235s", "12ms", "250ms"} {
		assert.Contains(t, out, want)
	}
}

func TestLogNewLogger(t *testing.T) {
	logger, err := (&Log{}).NewLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = (&Log{Level: "debug"}).NewLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = (&Log{Level: "loud"}).NewLogger()
	assert.ErrorContains(t, err, "log level")
}

func TestLoadValidate(t *testing.T) {
	tests := map[string]struct {
		load    Load
		wantErr bool
	}{
		"valid":                 {load: Load{Calls: 10, Latency: time.Millisecond, FailureRate: 0.5}},
		"certain failure":       {load: Load{Calls: 1, FailureRate: 1}},
		"no calls":              {load: Load{}, wantErr: true},
		"negative latency":      {load: Load{Calls: 1, Latency: -time.Second}, wantErr: true},
		"failure rate too high": {load: Load{Calls: 1, FailureRate: 5}, wantErr: true},
		"negative failure rate": {load: Load{Calls: 1, FailureRate: -1}, wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.load.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Throttle: config.DefaultThrottle(), Load: Load{Calls: 1}}
	assert.NoError(t, cfg.Validate())

	cfg.Load.FailureRate = 2
	assert.ErrorContains(t, cfg.Validate(), "load")
	cfg.Load.FailureRate = 0

	cfg.Throttle.Targets = map[string]config.TargetThrottle{"bad": {ShouldWrap: true}}
	assert.ErrorContains(t, cfg.Validate(), "throttle")
}
