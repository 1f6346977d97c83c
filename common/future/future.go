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

package future

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/atomic"
)

type (
	// Future is the read side of an asynchronous result.
	Future interface {
		// Get blocks until the future is ready or ctx is done.
		// The error set on the future is returned unchanged. On success the value is
		// assigned to valuePtr, which must be a pointer to a compatible type (or nil
		// to discard the value).
		Get(ctx context.Context, valuePtr interface{}) error
		// IsReady reports whether the future has been set, without blocking.
		IsReady() bool
	}

	// Settable is the write side of a Future. Set must be called exactly once.
	Settable interface {
		Set(value interface{}, err error)
	}

	futureImpl struct {
		value   interface{}
		err     error
		readyCh chan struct{}
		set     *atomic.Bool
	}
)

var errNotPointer = errors.New("valuePtr parameter is not a pointer")

// NewFuture creates a new future as well as the settable used to complete it.
func NewFuture() (Future, Settable) {
	f := &futureImpl{
		readyCh: make(chan struct{}),
		set:     atomic.NewBool(false),
	}
	return f, f
}

func (f *futureImpl) Get(ctx context.Context, valuePtr interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-f.readyCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	if f.err != nil {
		return f.err
	}
	if valuePtr == nil {
		return nil
	}

	rf := reflect.ValueOf(valuePtr)
	if rf.Type().Kind() != reflect.Ptr {
		return errNotPointer
	}
	fv := reflect.ValueOf(f.value)
	if !fv.IsValid() {
		// nil value, leave the target untouched
		return nil
	}
	if !fv.Type().AssignableTo(rf.Elem().Type()) {
		return fmt.Errorf("future value of type %v is not assignable to %v", fv.Type(), rf.Elem().Type())
	}
	rf.Elem().Set(fv)
	return nil
}

func (f *futureImpl) IsReady() bool {
	select {
	case <-f.readyCh:
		return true
	default:
		return false
	}
}

func (f *futureImpl) Set(value interface{}, err error) {
	if !f.set.CompareAndSwap(false, true) {
		panic("future has already been set")
	}
	f.value = value
	f.err = err
	close(f.readyCh)
}
