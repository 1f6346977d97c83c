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

	"github.com/google/uuid"

	"github.com/uber/throttler/common/future"
)

// Thunk is a deferred unit of work, typically one remote call.
// It runs on its own goroutine once admitted.
type Thunk func() (interface{}, error)

// pendingAction is one caller's request for admission. It lives while queued or
// running, and its settable is completed exactly once.
type pendingAction struct {
	id          string
	name        string
	thunk       Thunk
	settable    future.Settable
	submittedAt time.Time
}

func newPendingAction(name string, thunk Thunk, now time.Time) (*pendingAction, future.Future) {
	f, settable := future.NewFuture()
	return &pendingAction{
		id:          uuid.NewString(),
		name:        name,
		thunk:       thunk,
		settable:    settable,
		submittedAt: now,
	}, f
}

// invoke runs the thunk, converting a panic into an error wrapping ErrActionPanicked
func (a *pendingAction) invoke() (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("%w: %s: %v", ErrActionPanicked, a.name, r)
		}
	}()
	return a.thunk()
}
