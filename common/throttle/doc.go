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

// Package throttle contains the admission controllers that gate outbound calls
// to rate-limited remote services.
//
// One Controller exists per named target (usually one remote service). Every
// call is submitted as a Thunk and the controller decides whether it may run
// right away or has to wait. Waiting calls are released strictly in submission
// order, according to one of three policies:
//
//   - Interval: at most MaxPerWindow calls may have started within any trailing
//     Window. Capacity only returns as time passes, so queued calls are released
//     by a single timer armed for the moment the oldest recorded dispatch leaves
//     the window. There is never more than one timer per controller, and no polling.
//   - Concurrency: at most MaxConcurrent calls may be in flight. Queued calls are
//     released by completions, no timer is involved.
//   - Unthrottled: every call runs immediately.
//
// Each submission settles its future.Future exactly once, with the thunk's own
// result or error. Bookkeeping (freeing the running slot, releasing the next
// queued call) always happens before the caller observes the result, including
// when the thunk panics.
//
// Controllers never cancel or time out calls. Callers that need a deadline can
// pass a context to future.Future.Get, or use Call, which does so.
//
// Remote clients are wrapped by writing a typed method per remote operation that
// routes through Call; see common/wrappers/throttled for an S3 client.
package throttle
