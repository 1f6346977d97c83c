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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestMockedTimeSource_AfterFunc(t *testing.T) {
	start := time.Unix(1700000000, 0)
	ts := NewMockedTimeSourceAt(start)
	assert.Equal(t, start, ts.Now())

	var fired atomic.Bool
	ts.AfterFunc(time.Second, func() { fired.Store(true) })
	ts.BlockUntil(1)

	ts.Advance(time.Second - time.Nanosecond)
	assert.False(t, fired.Load(), "should not fire before the deadline")

	ts.Advance(time.Nanosecond)
	require.Eventually(t, fired.Load, time.Second, time.Millisecond)
	assert.Equal(t, time.Second, ts.Since(start))
}

func TestMockedTimeSource_StoppedTimerDoesNotFire(t *testing.T) {
	ts := NewMockedTimeSource()

	var fired atomic.Bool
	timer := ts.AfterFunc(time.Second, func() { fired.Store(true) })
	assert.True(t, timer.Stop(), "timer should still be pending")

	ts.Advance(2 * time.Second)
	// give a wrongly-fired callback a chance to run
	time.Sleep(10 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestRealTimeSource(t *testing.T) {
	ts := NewRealTimeSource()
	before := ts.Now()

	done := make(chan struct{})
	ts.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real AfterFunc never fired")
	}
	assert.True(t, ts.Since(before) >= time.Millisecond)

	timer := ts.NewTimer(time.Millisecond)
	select {
	case <-timer.Chan():
	case <-time.After(time.Second):
		t.Fatal("real timer never fired")
	}
}
