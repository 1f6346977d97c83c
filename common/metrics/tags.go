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

const (
	targetTag = "target"
	policyTag = "policy"
)

// Tag is an interface to define metrics tags
type Tag interface {
	Key() string
	Value() string
}

type simpleMetric struct {
	key   string
	value string
}

func (s simpleMetric) Key() string   { return s.key }
func (s simpleMetric) Value() string { return s.value }

// TargetTag returns a tag for the named target an admission controller guards
func TargetTag(value string) Tag {
	return simpleMetric{key: targetTag, value: value}
}

// PolicyTag returns a tag for the kind of admission policy in use
func PolicyTag(value string) Tag {
	return simpleMetric{key: policyTag, value: value}
}
