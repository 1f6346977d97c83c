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
	"fmt"

	"github.com/uber/throttler/common/future"
)

type (
	// Resolver picks the controller for a remote method. A wrapped client asks its
	// Resolver once per call, using the method name.
	Resolver interface {
		For(method string) Controller
	}

	single struct {
		controller Controller
	}

	perMethod struct {
		byMethod map[string]Controller
		fallback Controller
	}
)

// Single routes every method through the same controller.
// It panics if controller is nil.
func Single(controller Controller) Resolver {
	if controller == nil {
		panic("throttle: Single requires a controller")
	}
	return &single{controller: controller}
}

// PerMethod routes the listed methods to their own controller and everything
// else to fallback. It panics if fallback or any listed controller is nil, so a
// miswired client fails at construction rather than on its first call.
func PerMethod(byMethod map[string]Controller, fallback Controller) Resolver {
	if fallback == nil {
		panic("throttle: PerMethod requires a fallback controller")
	}
	for method, c := range byMethod {
		if c == nil {
			panic(fmt.Sprintf("throttle: PerMethod has no controller for %q", method))
		}
	}
	return &perMethod{byMethod: byMethod, fallback: fallback}
}

func (s *single) For(string) Controller {
	return s.controller
}

func (p *perMethod) For(method string) Controller {
	if c, ok := p.byMethod[method]; ok {
		return c
	}
	return p.fallback
}

// Go submits fn to controller and returns the future of its result
func Go[T any](controller Controller, name string, fn func() (T, error)) future.Future {
	return controller.Submit(name, func() (interface{}, error) {
		value, err := fn()
		return value, err
	})
}

// Call submits fn to controller and waits for its result.
//
// If ctx ends first, ctx.Err() is returned but fn still runs once admitted:
// controllers do not cancel work. fn should observe the same ctx to stop early.
func Call[T any](ctx context.Context, controller Controller, name string, fn func() (T, error)) (T, error) {
	var result T
	err := Go(controller, name, fn).Get(ctx, &result)
	return result, err
}
