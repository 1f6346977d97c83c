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

package metrics

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cactus/go-statsd-client/statsd"
	prom "github.com/m3db/prometheus_client_golang/prometheus"
	"github.com/uber-go/tally"
	"github.com/uber-go/tally/prometheus"
	tallystatsd "github.com/uber-go/tally/statsd"
	"go.uber.org/multierr"
)

const defaultReportInterval = time.Second

type (
	// Config selects where the root scope reports to. At most one of Statsd and
	// Prometheus may be set. With neither, metrics are kept in memory only.
	Config struct {
		// Prefix is prepended to every metric name
		Prefix string `yaml:"prefix"`
		// Tags are added to every metric
		Tags map[string]string `yaml:"tags"`
		// ReportInterval is how often the scope flushes to the reporter
		ReportInterval time.Duration `yaml:"reportInterval"`
		// Statsd is the config for a statsd reporter
		Statsd *StatsdConfig `yaml:"statsd"`
		// Prometheus is the config for a prometheus reporter
		Prometheus *PrometheusConfig `yaml:"prometheus"`
	}

	// StatsdConfig contains the config items for statsd metrics reporter
	StatsdConfig struct {
		// HostPort is the host and port of the statsd server
		HostPort string `yaml:"hostPort" validate:"nonzero"`
		// FlushInterval is the maximum interval for sending packets
		FlushInterval time.Duration `yaml:"flushInterval"`
		// FlushBytes specifies the maximum udp packet size to flush
		FlushBytes int `yaml:"flushBytes"`
	}

	// PrometheusConfig contains the config items for the prometheus reporter
	PrometheusConfig struct {
		// ListenAddress is served with the metrics at HandlerPath
		ListenAddress string `yaml:"listenAddress" validate:"nonzero"`
		// HandlerPath defaults to /metrics
		HandlerPath string `yaml:"handlerPath"`
	}

	closerFunc func() error
)

var errMultipleReporters = errors.New("metrics: only one of statsd and prometheus can be configured")

func (f closerFunc) Close() error {
	return f()
}

// NewRootScope builds the tally root scope described by the config. The returned
// closer flushes the scope and stops the reporter.
func (c *Config) NewRootScope() (tally.Scope, io.Closer, error) {
	if c.Statsd != nil && c.Prometheus != nil {
		return nil, nil, errMultipleReporters
	}

	interval := c.ReportInterval
	if interval <= 0 {
		interval = defaultReportInterval
	}
	opts := tally.ScopeOptions{
		Prefix: c.Prefix,
		Tags:   c.Tags,
	}

	switch {
	case c.Statsd != nil:
		reporter, err := c.Statsd.newReporter()
		if err != nil {
			return nil, nil, err
		}
		opts.Reporter = reporter
	case c.Prometheus != nil:
		reporter := newPrometheusReporter()
		opts.CachedReporter = reporter
		opts.Separator = prometheus.DefaultSeparator

		listener, err := net.Listen("tcp", c.Prometheus.ListenAddress)
		if err != nil {
			return nil, nil, fmt.Errorf("metrics: prometheus listener: %w", err)
		}
		server := &http.Server{Handler: c.Prometheus.handler(reporter)}
		go func() {
			_ = server.Serve(listener)
		}()

		scope, scopeCloser := tally.NewRootScope(opts, interval)
		return scope, closerFunc(func() error {
			return multierr.Append(scopeCloser.Close(), server.Close())
		}), nil
	}

	scope, closer := tally.NewRootScope(opts, interval)
	return scope, closer, nil
}

func (c *StatsdConfig) newReporter() (tally.StatsReporter, error) {
	flushInterval := c.FlushInterval
	if flushInterval <= 0 {
		flushInterval = 300 * time.Millisecond
	}
	flushBytes := c.FlushBytes
	if flushBytes <= 0 {
		flushBytes = 1432
	}
	statter, err := statsd.NewBufferedClient(c.HostPort, "", flushInterval, flushBytes)
	if err != nil {
		return nil, fmt.Errorf("metrics: statsd client: %w", err)
	}
	// tally's statsd reporter drops tags
	return tallystatsd.NewReporter(statter, tallystatsd.Options{}), nil
}

func (c *PrometheusConfig) handler(reporter prometheus.Reporter) http.Handler {
	path := c.HandlerPath
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, reporter.HTTPHandler())
	return mux
}

func newPrometheusReporter() prometheus.Reporter {
	registry := prom.NewRegistry()
	return prometheus.NewReporter(prometheus.Options{
		Registerer:              registry,
		Gatherer:                registry,
		DefaultTimerType:        prometheus.HistogramTimerType,
		DefaultHistogramBuckets: defaultHistogramBuckets(),
	})
}

// defaultHistogramBuckets are the upper bounds, in seconds, for queue and
// action latency histograms
func defaultHistogramBuckets() []float64 {
	milli := float64(time.Millisecond) / float64(time.Second)
	return []float64{
		milli,
		2 * milli,
		5 * milli,
		10 * milli,
		20 * milli,
		50 * milli,
		100 * milli,
		200 * milli,
		500 * milli,
		1000 * milli,
		2000 * milli,
		5000 * milli,
		10000 * milli,
		30000 * milli,
		60000 * milli,
	}
}
