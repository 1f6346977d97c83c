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
	"sync"

	"go.uber.org/multierr"

	"github.com/uber/throttler/common/config"
)

// Collection stores one Controller per named target, built from a config.Throttle table.
// Controllers are created lazily on first use and shared by every caller of that target.
type Collection struct {
	mu            sync.RWMutex
	defaultPolicy Policy
	policies      map[string]Policy
	opts          []Option
	controllers   map[string]Controller
}

var _ Resolver = (*Collection)(nil)

// NewCollection validates every entry of cfg up front, so that a bad target is
// reported at startup instead of on its first call. All invalid entries are
// reported together.
func NewCollection(cfg config.Throttle, opts ...Option) (*Collection, error) {
	var errs error
	defaultPolicy, err := PolicyFromConfig(cfg.Default)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("default throttle: %w", err))
	}

	policies := make(map[string]Policy, len(cfg.Targets))
	for _, name := range cfg.TargetNames() {
		p, err := PolicyFromConfig(cfg.Targets[name])
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("throttle target %q: %w", name, err))
			continue
		}
		policies[name] = p
	}
	if errs != nil {
		return nil, errs
	}

	return &Collection{
		defaultPolicy: defaultPolicy,
		policies:      policies,
		opts:          opts,
		controllers:   make(map[string]Controller),
	}, nil
}

// For retrieves the controller for target, creating it if needed.
// Targets without a configured entry use the default policy.
func (c *Collection) For(target string) Controller {
	c.mu.RLock()
	controller, ok := c.controllers[target]
	c.mu.RUnlock()
	if ok {
		return controller
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if controller, ok = c.controllers[target]; ok {
		return controller
	}
	controller, err := NewController(target, c.PolicyFor(target), c.opts...)
	if err != nil {
		// every policy was validated in NewCollection
		panic(err)
	}
	c.controllers[target] = controller
	return controller
}

// PolicyFor returns the policy that governs target
func (c *Collection) PolicyFor(target string) Policy {
	if p, ok := c.policies[target]; ok {
		return p
	}
	return c.defaultPolicy
}
