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
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/uber/throttler/common/clock"
	"github.com/uber/throttler/common/log"
	"github.com/uber/throttler/common/log/tag"
	"github.com/uber/throttler/common/throttle"
)

const syntheticAction = "synthetic"

var errSynthetic = errors.New("synthetic failure")

type (
	// Params are the inputs of one bench run
	Params struct {
		// Targets are run concurrently, each through its own controller
		Targets  []string
		Resolver throttle.Resolver
		Load     Load

		TimeSource clock.TimeSource
		Logger     log.Logger
	}

	// Result is the outcome of one target
	Result struct {
		Target     string
		Policy     string
		Submitted  int
		Succeeded  int
		Failed     int
		MaxRunning int
		// QueueP50 and QueueP99 are quantiles of the time between submitting a
		// call and the call starting
		QueueP50 time.Duration
		QueueP99 time.Duration
		Elapsed  time.Duration
	}

	latencyRecorder struct {
		sync.Mutex
		samples []float64
	}
)

// Run drives Load.Calls synthetic calls at every target and waits for all of them.
// Results are returned in the order of Targets.
func Run(ctx context.Context, params Params) ([]Result, error) {
	if params.Resolver == nil {
		return nil, errors.New("bench: resolver is required")
	}
	if params.Load.Calls <= 0 {
		return nil, fmt.Errorf("bench: calls must be positive, got %d", params.Load.Calls)
	}
	if params.TimeSource == nil {
		params.TimeSource = clock.NewRealTimeSource()
	}
	if params.Logger == nil {
		params.Logger = log.NewNoop()
	}

	results := make([]Result, len(params.Targets))
	g, ctx := errgroup.WithContext(ctx)
	for i, target := range params.Targets {
		i, target := i, target
		g.Go(func() error {
			result, err := runTarget(ctx, params, target)
			if err != nil {
				return fmt.Errorf("target %q: %w", target, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runTarget(ctx context.Context, params Params, target string) (Result, error) {
	controller := params.Resolver.For(target)
	logger := params.Logger.WithTags(tag.ThrottleTarget(target), tag.ThrottlePolicy(controller.Policy().String()))
	logger.Info("Starting bench target", tag.Calls(params.Load.Calls))

	var (
		running    atomic.Int64
		maxRunning atomic.Int64
		succeeded  atomic.Int64
		failed     atomic.Int64
		wg         sync.WaitGroup
		queued     latencyRecorder
	)
	call := func(submittedAt time.Time) (struct{}, error) {
		queued.record(params.TimeSource.Since(submittedAt))
		observeMax(&maxRunning, running.Inc())
		defer running.Dec()

		if err := sleep(ctx, params.TimeSource, params.Load.Latency); err != nil {
			return struct{}{}, err
		}
		if rand.Float64() < params.Load.FailureRate {
			return struct{}{}, errSynthetic
		}
		return struct{}{}, nil
	}

	start := params.TimeSource.Now()
	for i := 0; i < params.Load.Calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			submittedAt := params.TimeSource.Now()
			_, err := throttle.Call(ctx, controller, syntheticAction, func() (struct{}, error) {
				return call(submittedAt)
			})
			if err != nil {
				failed.Inc()
				return
			}
			succeeded.Inc()
		}()
	}
	wg.Wait()
	elapsed := params.TimeSource.Since(start)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result := Result{
		Target:     target,
		Policy:     controller.Policy().String(),
		Submitted:  params.Load.Calls,
		Succeeded:  int(succeeded.Load()),
		Failed:     int(failed.Load()),
		MaxRunning: int(maxRunning.Load()),
		QueueP50:   queued.quantile(0.5),
		QueueP99:   queued.quantile(0.99),
		Elapsed:    elapsed,
	}
	logger.Info("Finished bench target",
		tag.Value(result),
	)
	return result, nil
}

func (r *latencyRecorder) record(d time.Duration) {
	r.Lock()
	defer r.Unlock()
	r.samples = append(r.samples, float64(d))
}

// quantile returns the empirical p-quantile of the recorded samples, zero when
// nothing was recorded
func (r *latencyRecorder) quantile(p float64) time.Duration {
	r.Lock()
	defer r.Unlock()
	if len(r.samples) == 0 {
		return 0
	}
	sort.Float64s(r.samples)
	return time.Duration(stat.Quantile(p, stat.Empirical, r.samples, nil))
}

func observeMax(peak *atomic.Int64, v int64) {
	for {
		current := peak.Load()
		if v <= current || peak.CompareAndSwap(current, v) {
			return
		}
	}
}

func sleep(ctx context.Context, ts clock.TimeSource, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := ts.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.Chan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
