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

// types used/defined by the package
type (
	// MetricName is the name of the metric
	MetricName string

	// MetricType is the type of the metric
	MetricType int

	// metricDefinition contains the definition for a metric
	metricDefinition struct {
		metricType MetricType
		metricName MetricName
	}
)

// MetricTypes which are supported
const (
	Counter MetricType = iota
	Timer
	Gauge
)

// Throttle metrics
const (
	ThrottleSubmittedCounter = iota
	ThrottleDispatchedCounter
	ThrottleQueuedCounter
	ThrottleSucceededCounter
	ThrottleFailedCounter
	ThrottlePanickedCounter
	ThrottleTimerArmedCounter
	ThrottleQueueLatency
	ThrottleActionLatency
	ThrottleWaitingGauge
	ThrottleRunningGauge

	NumThrottleMetrics
)

// MetricDefs record the metrics for all services
var MetricDefs = map[int]metricDefinition{
	ThrottleSubmittedCounter:  {metricName: "throttle_submitted", metricType: Counter},
	ThrottleDispatchedCounter: {metricName: "throttle_dispatched", metricType: Counter},
	ThrottleQueuedCounter:     {metricName: "throttle_queued", metricType: Counter},
	ThrottleSucceededCounter:  {metricName: "throttle_succeeded", metricType: Counter},
	ThrottleFailedCounter:     {metricName: "throttle_failed", metricType: Counter},
	ThrottlePanickedCounter:   {metricName: "throttle_panicked", metricType: Counter},
	ThrottleTimerArmedCounter: {metricName: "throttle_timer_armed", metricType: Counter},
	ThrottleQueueLatency:      {metricName: "throttle_queue_latency", metricType: Timer},
	ThrottleActionLatency:     {metricName: "throttle_action_latency", metricType: Timer},
	ThrottleWaitingGauge:      {metricName: "throttle_waiting", metricType: Gauge},
	ThrottleRunningGauge:      {metricName: "throttle_running", metricType: Gauge},
}

// String returns the name of the metric
func (d metricDefinition) String() string {
	return string(d.metricName)
}
