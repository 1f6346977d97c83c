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

package bench

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/validator.v2"

	"github.com/uber/throttler/common/config"
	"github.com/uber/throttler/common/log"
	"github.com/uber/throttler/common/log/loggerimpl"
	"github.com/uber/throttler/common/metrics"
)

type (
	// Config contains the configuration for throttlebench
	Config struct {
		Throttle config.Throttle `yaml:"throttle"`
		Load     Load            `yaml:"load"`
		Log      Log             `yaml:"log"`
		Metrics  metrics.Config  `yaml:"metrics"`
	}

	// Load describes the synthetic calls made against every target
	Load struct {
		// Calls is the number of calls submitted to each target
		Calls int `yaml:"calls" validate:"min=1"`
		// Latency is how long each synthetic call takes once admitted
		Latency time.Duration `yaml:"latency" validate:"min=0"`
		// FailureRate is the probability that a call returns an error
		FailureRate float64 `yaml:"failureRate" validate:"min=0,max=1"`
	}

	// Log contains the logging config
	Log struct {
		// Level is the minimum level logged, one of debug, info, warn, error
		Level string `yaml:"level"`
	}
)

// Validate checks the throttle table and the load. Call it again after
// overriding any field that config.Load already validated.
func (c *Config) Validate() error {
	var errs error
	if err := c.Throttle.Validate(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("throttle: %w", err))
	}
	if err := c.Load.Validate(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("load: %w", err))
	}
	return errs
}

// Validate checks the load against its struct tags
func (l *Load) Validate() error {
	return validator.Validate(l)
}

// NewLogger builds a console logger at the configured level, info by default
func (l *Log) NewLogger() (log.Logger, error) {
	level := zapcore.InfoLevel
	if l.Level != "" {
		var err error
		if level, err = zapcore.ParseLevel(l.Level); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return loggerimpl.NewLogger(zapLogger), nil
}
