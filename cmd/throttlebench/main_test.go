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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
log:
  level: warn
load:
  calls: 100
  latency: 1ms
throttle:
  default:
    shouldWrap: false
  targets:
    reads:
      shouldWrap: true
      maxConcurrent: 2
    writes:
      shouldWrap: true
      interval: 50
      number: 5
`

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(testConfig), 0644))

	var out bytes.Buffer
	app := buildCLI()
	app.Writer = &out
	err := app.Run([]string{"throttlebench", "--root", dir, "--config", ".", "run", "--calls", "6", "--no-color"})
	require.NoError(t, err)

	table := out.String()
	for _, want := range []string{"reads", "concurrency(2)", "writes", "interval(5 per 50ms)"} {
		assert.Contains(t, table, want)
	}
}

func TestRunCommand_MissingConfig(t *testing.T) {
	app := buildCLI()
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{"throttlebench", "--root", t.TempDir(), "run"})
	assert.ErrorContains(t, err, "failed to load config")
}

func TestRunCommand_FlagOverridesAreValidated(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(testConfig), 0644))

	for _, rate := range []string{"5", "-1"} {
		t.Run(rate, func(t *testing.T) {
			app := buildCLI()
			app.Writer = &bytes.Buffer{}
			err := app.Run([]string{"throttlebench", "--root", dir, "--config", ".", "run", "--failure-rate", rate})
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}
