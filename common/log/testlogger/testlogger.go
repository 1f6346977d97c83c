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
// Package testlogger builds loggers for tests that outlive their goroutines.
package testlogger

import (
	"fmt"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/uber/throttler/common/log"
	"github.com/uber/throttler/common/log/loggerimpl"
)

// TestingT is the subset of testing.TB the loggers need.
type TestingT interface {
	zaptest.TestingT
	Cleanup(func())
}

// New returns a logger that writes to t until the test completes.
func New(t TestingT) log.Logger {
	return loggerimpl.NewLogger(newZap(t))
}

// NewObserved returns a logger like New plus the entries it recorded.
func NewObserved(t TestingT) (log.Logger, *observer.ObservedLogs) {
	observed, logs := observer.New(zapcore.DebugLevel)
	z := newZap(t).WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, observed)
	}))
	return loggerimpl.NewLogger(z), logs
}

// Throttled actions settle on their own goroutines and may log after the test
// returns. Writing to a finished TestingT fails the run, so entries logged after
// cleanup go to stderr instead.
func newZap(t TestingT) *zap.Logger {
	stderr, err := zap.NewDevelopment()
	require.NoError(t, err, "could not build stderr logger")

	core := &lateCore{
		name:   t.Name(),
		live:   zaptest.NewLogger(t).Core(),
		stderr: stderr.Core(),
		done:   atomic.NewBool(false),
	}
	t.Cleanup(func() { core.done.Store(true) })
	return zap.New(core)
}

// lateCore picks its destination at write time, so cores derived through
// With follow the same switch.
type lateCore struct {
	name   string
	live   zapcore.Core
	stderr zapcore.Core
	done   *atomic.Bool
}

var _ zapcore.Core = (*lateCore)(nil)

func (c *lateCore) target() zapcore.Core {
	if c.done.Load() {
		return c.stderr
	}
	return c.live
}

func (c *lateCore) Enabled(level zapcore.Level) bool {
	return c.target().Enabled(level)
}

func (c *lateCore) With(fields []zapcore.Field) zapcore.Core {
	return &lateCore{
		name:   c.name,
		live:   c.live.With(fields),
		stderr: c.stderr.With(fields),
		done:   c.done,
	}
}

func (c *lateCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *lateCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if c.done.Load() {
		entry.Message = fmt.Sprintf("logged after %q completed: %v", c.name, entry.Message)
		return c.stderr.Write(entry, fields)
	}
	return c.live.Write(entry, fields)
}

func (c *lateCore) Sync() error {
	return c.target().Sync()
}
