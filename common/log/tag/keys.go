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

package tag

import (
	"time"
)

// All logging tags are defined in this file.
// To help finding available tags, we recommend that all tags to be categorized and placed in the corresponding section.
// We currently have those categories:
//   0. Common tags that can't be categorized(or belong to more than one)
//   1. Throttle: these tags describe an admission controller and the actions it gates
//   2. Tooling: these tags are used by command line tools

///////////////////  Common tags defined here ///////////////////

// Error returns tag for Error
func Error(err error) Tag {
	return newErrorTag("error", err)
}

// Value returns tag for Value
func Value(value interface{}) Tag {
	return newObjectTag("value", value)
}

///////////////////  Throttle tags defined here ///////////////////

// ThrottleTarget returns tag for the named target an admission controller guards
func ThrottleTarget(target string) Tag {
	return newStringTag("throttle-target", target)
}

// ThrottlePolicy returns tag for ThrottlePolicy
func ThrottlePolicy(policy string) Tag {
	return newStringTag("throttle-policy", policy)
}

// ActionName returns tag for ActionName
func ActionName(name string) Tag {
	return newStringTag("action-name", name)
}

// ActionID returns tag for ActionID
func ActionID(id string) Tag {
	return newStringTag("action-id", id)
}

// WaitingCount returns tag for WaitingCount
func WaitingCount(count int) Tag {
	return newInt("waiting-count", count)
}

// RunningCount returns tag for RunningCount
func RunningCount(count int) Tag {
	return newInt("running-count", count)
}

// TimerDelay returns tag for TimerDelay
func TimerDelay(delay time.Duration) Tag {
	return newDurationTag("timer-delay", delay)
}

///////////////////  Tooling tags defined here ///////////////////

// Env returns tag for Env
func Env(env string) Tag {
	return newStringTag("env", env)
}

// ConfigDir returns tag for ConfigDir
func ConfigDir(dir string) Tag {
	return newStringTag("config-dir", dir)
}

// Zone returns tag for Zone
func Zone(zone string) Tag {
	return newStringTag("zone", zone)
}

// Calls returns tag for Calls
func Calls(calls int) Tag {
	return newInt("calls", calls)
}
