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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/emirpasic/gods/lists/doublylinkedlist"

	"github.com/uber/throttler/common/clock"
	"github.com/uber/throttler/common/future"
	"github.com/uber/throttler/common/log"
	"github.com/uber/throttler/common/log/tag"
	"github.com/uber/throttler/common/metrics"
)

type (
	// Controller gates the calls made to one named target
	Controller interface {
		// Submit requests admission for thunk. The returned future settles with the
		// thunk's result once it has been admitted and has completed.
		Submit(name string, thunk Thunk) future.Future
		// Target returns the name of the target this controller guards
		Target() string
		// Policy returns the admission policy
		Policy() Policy
		// Stats returns a point-in-time view of the controller state
		Stats() Stats
	}

	// Stats is a snapshot of a controller's bookkeeping
	Stats struct {
		// Running is the number of admitted calls that have not completed
		Running int
		// Waiting is the number of queued calls
		Waiting int
		// RecentDispatches is the number of dispatches inside the current window.
		// Always zero for non-interval policies.
		RecentDispatches int
		// TimerArmed reports whether a release timer is outstanding
		TimerArmed bool
	}

	// Option configures a controller
	Option func(*controller)

	controller struct {
		target     string
		policy     Policy
		timeSource clock.TimeSource
		logger     log.Logger
		scope      metrics.Scope

		// mu guards everything below. It is held for bookkeeping only, never while a thunk runs.
		mu sync.Mutex
		// running holds every admitted action that has not completed, keyed by id.
		// It only gates admission under PolicyKindConcurrency.
		running map[string]*pendingAction
		// dispatchLog holds dispatch times in ascending order, PolicyKindInterval only
		dispatchLog []time.Time
		// waiting is the FIFO of *pendingAction not yet admitted
		waiting *doublylinkedlist.List
		// timer is the single outstanding release timer, nil when not armed
		timer clock.Timer
	}
)

// minTimerDelay keeps the release timer from spinning on near-zero delays
const minTimerDelay = time.Millisecond

var _ Controller = (*controller)(nil)

// WithTimeSource sets the time source used for windows and timers
func WithTimeSource(ts clock.TimeSource) Option {
	return func(c *controller) {
		c.timeSource = ts
	}
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return func(c *controller) {
		c.logger = logger
	}
}

// WithMetricsScope sets the metrics scope. Metrics are tagged with the target and policy kind.
func WithMetricsScope(scope metrics.Scope) Option {
	return func(c *controller) {
		c.scope = scope
	}
}

// NewController creates a controller for target. An invalid policy is a
// configuration error and is returned as such.
func NewController(target string, policy Policy, opts ...Option) (Controller, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("throttle target %q: %w", target, err)
	}

	c := &controller{
		target:     target,
		policy:     policy,
		timeSource: clock.NewRealTimeSource(),
		logger:     log.NewNoop(),
		scope:      metrics.NoopScope(),
		running:    make(map[string]*pendingAction),
		waiting:    doublylinkedlist.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithTags(tag.ThrottleTarget(target), tag.ThrottlePolicy(policy.String()))
	c.scope = c.scope.Tagged(metrics.TargetTag(target), metrics.PolicyTag(policy.Kind.String()))
	return c, nil
}

func (c *controller) Target() string {
	return c.target
}

func (c *controller) Policy() Policy {
	return c.policy
}

func (c *controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.policy.Kind == PolicyKindInterval {
		c.pruneLocked(c.timeSource.Now())
	}
	return Stats{
		Running:          len(c.running),
		Waiting:          c.waiting.Size(),
		RecentDispatches: len(c.dispatchLog),
		TimerArmed:       c.timer != nil,
	}
}

func (c *controller) Submit(name string, thunk Thunk) future.Future {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.timeSource.Now()
	action, f := newPendingAction(name, thunk, now)
	c.scope.IncCounter(metrics.ThrottleSubmittedCounter)

	// anything already queued goes first
	if c.waiting.Empty() && c.canDispatchLocked(now) {
		c.dispatchLocked(action, now)
		return f
	}

	c.waiting.Add(action)
	c.scope.IncCounter(metrics.ThrottleQueuedCounter)
	c.logger.Debug("Throttled action queued",
		tag.ActionName(name),
		tag.ActionID(action.id),
		tag.WaitingCount(c.waiting.Size()),
	)
	c.scheduleLocked(now)
	c.updateGaugesLocked()
	return f
}

// canDispatchLocked is the admission test. Under an interval policy it prunes
// the dispatch log first, which keeps the log bounded by MaxPerWindow.
func (c *controller) canDispatchLocked(now time.Time) bool {
	switch c.policy.Kind {
	case PolicyKindUnthrottled:
		return true
	case PolicyKindInterval:
		c.pruneLocked(now)
		return len(c.dispatchLog) < c.policy.MaxPerWindow
	case PolicyKindConcurrency:
		return len(c.running) < c.policy.MaxConcurrent
	default:
		// NewController validates the policy, so this is a programming error
		panic(fmt.Errorf("%w: %v", ErrUnknownPolicy, c.policy.Kind))
	}
}

// pruneLocked drops dispatch times that have left the window
func (c *controller) pruneLocked(now time.Time) {
	expired := 0
	for expired < len(c.dispatchLog) && now.Sub(c.dispatchLog[expired]) >= c.policy.Window {
		expired++
	}
	if expired > 0 {
		c.dispatchLog = append(c.dispatchLog[:0], c.dispatchLog[expired:]...)
	}
}

func (c *controller) dispatchLocked(action *pendingAction, now time.Time) {
	c.running[action.id] = action
	if c.policy.Kind == PolicyKindInterval {
		c.dispatchLog = append(c.dispatchLog, now)
	}

	c.scope.IncCounter(metrics.ThrottleDispatchedCounter)
	c.scope.RecordTimer(metrics.ThrottleQueueLatency, now.Sub(action.submittedAt))
	c.updateGaugesLocked()
	c.logger.Debug("Throttled action dispatched",
		tag.ActionName(action.name),
		tag.ActionID(action.id),
		tag.RunningCount(len(c.running)),
	)

	go c.run(action, now)
}

func (c *controller) run(action *pendingAction, dispatchedAt time.Time) {
	value, err := action.invoke()
	c.complete(action, dispatchedAt, err)
	action.settable.Set(value, err)
}

func (c *controller) complete(action *pendingAction, dispatchedAt time.Time, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.timeSource.Now()
	delete(c.running, action.id)
	c.scope.RecordTimer(metrics.ThrottleActionLatency, now.Sub(dispatchedAt))

	switch {
	case err == nil:
		c.scope.IncCounter(metrics.ThrottleSucceededCounter)
	case errors.Is(err, ErrActionPanicked):
		c.scope.IncCounter(metrics.ThrottlePanickedCounter)
		c.scope.IncCounter(metrics.ThrottleFailedCounter)
		c.logger.Warn("Throttled action panicked",
			tag.ActionName(action.name),
			tag.ActionID(action.id),
			tag.Error(err),
		)
	default:
		c.scope.IncCounter(metrics.ThrottleFailedCounter)
	}

	// interval capacity is only freed by time passing, the timer handles it
	if c.policy.Kind == PolicyKindConcurrency {
		c.releaseLocked(now)
	}
	c.updateGaugesLocked()
}

// releaseLocked dispatches from the head of the queue while capacity remains
func (c *controller) releaseLocked(now time.Time) {
	for !c.waiting.Empty() && c.canDispatchLocked(now) {
		head, _ := c.waiting.Get(0)
		c.waiting.Remove(0)
		c.dispatchLocked(head.(*pendingAction), now)
	}
}

// scheduleLocked arms the release timer for the moment the oldest dispatch
// leaves the window. It does nothing when a timer is already armed.
func (c *controller) scheduleLocked(now time.Time) {
	if c.policy.Kind != PolicyKindInterval || c.timer != nil || c.waiting.Empty() {
		return
	}

	delay := minTimerDelay
	if len(c.dispatchLog) > 0 {
		if untilExpiry := c.policy.Window - now.Sub(c.dispatchLog[0]); untilExpiry > delay {
			delay = untilExpiry
		}
	}
	c.timer = c.timeSource.AfterFunc(delay, c.onTimer)
	c.scope.IncCounter(metrics.ThrottleTimerArmedCounter)
	c.logger.Debug("Throttle release timer armed",
		tag.TimerDelay(delay),
		tag.WaitingCount(c.waiting.Size()),
	)
}

func (c *controller) onTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timer = nil
	now := c.timeSource.Now()
	c.releaseLocked(now)
	c.scheduleLocked(now)
	c.updateGaugesLocked()
}

func (c *controller) updateGaugesLocked() {
	c.scope.UpdateGauge(metrics.ThrottleWaitingGauge, float64(c.waiting.Size()))
	c.scope.UpdateGauge(metrics.ThrottleRunningGauge, float64(len(c.running)))
}
