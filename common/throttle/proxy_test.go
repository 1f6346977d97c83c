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
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uber/throttler/common/clock"
)

func TestCall(t *testing.T) {
	c, err := NewController(testTarget, ConcurrencyPolicy(1))
	require.NoError(t, err)
	ctx := context.Background()

	v, err := Call(ctx, c, "ok", func() (string, error) { return "hello", nil })
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	errRemote := errors.New("remote failure")
	n, err := Call(ctx, c, "fails", func() (int, error) { return 0, errRemote })
	assert.Equal(t, errRemote, err)
	assert.Zero(t, n)

	_, err = Call(ctx, c, "panics", func() (*struct{}, error) { panic("bad") })
	assert.ErrorIs(t, err, ErrActionPanicked)
}

func TestCall_NilPointerResult(t *testing.T) {
	c, err := NewController(testTarget, UnthrottledPolicy())
	require.NoError(t, err)

	v, err := Call(context.Background(), c, "empty", func() (*int, error) { return nil, nil })
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCall_ContextEndsWhileQueued(t *testing.T) {
	ts := clock.NewMockedTimeSource()
	c, err := NewController(testTarget, IntervalPolicy(time.Second, 1), WithTimeSource(ts))
	require.NoError(t, err)

	first := Go(c, "first", func() (int, error) { return 1, nil })

	ran := make(chan struct{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = Call(ctx, c, "second", func() (int, error) {
		close(ran)
		return 2, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, c.Stats().Waiting, "an abandoned call keeps its place")

	// the abandoned call is still dispatched once the window moves
	ts.Advance(time.Second)
	select {
	case <-ran:
	case <-time.After(testTimeout):
		t.Fatal("queued call never ran")
	}
	require.NoError(t, first.Get(context.Background(), nil))
}

func TestResolvers(t *testing.T) {
	reads, err := NewController("reads", ConcurrencyPolicy(8))
	require.NoError(t, err)
	writes, err := NewController("writes", ConcurrencyPolicy(2))
	require.NoError(t, err)

	single := Single(reads)
	assert.Same(t, reads, single.For("GetObject"))
	assert.Same(t, reads, single.For("PutObject"))

	perMethod := PerMethod(map[string]Controller{"PutObject": writes, "DeleteObject": writes}, reads)
	assert.Same(t, writes, perMethod.For("PutObject"))
	assert.Same(t, writes, perMethod.For("DeleteObject"))
	assert.Same(t, reads, perMethod.For("GetObject"))
}

func TestResolvers_NilControllerRejected(t *testing.T) {
	reads, err := NewController("reads", UnthrottledPolicy())
	require.NoError(t, err)

	assert.PanicsWithValue(t, "throttle: Single requires a controller", func() { Single(nil) })
	assert.PanicsWithValue(t, "throttle: PerMethod requires a fallback controller", func() {
		PerMethod(map[string]Controller{"PutObject": reads}, nil)
	})
	assert.PanicsWithValue(t, `throttle: PerMethod has no controller for "PutObject"`, func() {
		PerMethod(map[string]Controller{"PutObject": nil}, reads)
	})
	assert.NotPanics(t, func() { PerMethod(nil, reads) })
}
