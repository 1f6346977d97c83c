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

package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type (
	// TimeSource provides the current time and one-shot timers.
	// Production code should use NewRealTimeSource, tests should use NewMockedTimeSource
	// so that timer-driven behavior can be stepped deterministically.
	TimeSource interface {
		// Now returns the current time. The real implementation is monotonic.
		Now() time.Time
		// Since returns the time elapsed since t.
		Since(t time.Time) time.Duration
		// AfterFunc waits for the duration to elapse and then calls f in its own goroutine.
		// The returned Timer can be used to cancel the call.
		AfterFunc(d time.Duration, f func()) Timer
		// NewTimer creates a Timer that will send the current time on its channel
		// after at least duration d.
		NewTimer(d time.Duration) Timer
	}

	// MockedTimeSource is a TimeSource whose time only moves when Advance is called.
	MockedTimeSource interface {
		TimeSource
		// Advance moves the clock forward and fires any timers that became due.
		Advance(d time.Duration)
		// BlockUntil blocks until the time source has at least n pending timers or sleepers.
		BlockUntil(n int)
	}

	// Timer is a one-shot timer created by a TimeSource.
	Timer = clockwork.Timer

	realTimeSource struct {
		clockwork.Clock
	}

	mockedTimeSource struct {
		clockwork.FakeClock
	}
)

var (
	_ TimeSource       = (*realTimeSource)(nil)
	_ MockedTimeSource = (*mockedTimeSource)(nil)
)

// NewRealTimeSource returns a TimeSource backed by the system clock.
func NewRealTimeSource() TimeSource {
	return &realTimeSource{Clock: clockwork.NewRealClock()}
}

// NewMockedTimeSource returns a MockedTimeSource starting at an arbitrary fixed time.
func NewMockedTimeSource() MockedTimeSource {
	return &mockedTimeSource{FakeClock: clockwork.NewFakeClock()}
}

// NewMockedTimeSourceAt returns a MockedTimeSource starting at t.
func NewMockedTimeSourceAt(t time.Time) MockedTimeSource {
	return &mockedTimeSource{FakeClock: clockwork.NewFakeClockAt(t)}
}
