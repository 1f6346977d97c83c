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

package commoncli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	colorRed     = color.New(color.FgRed).SprintFunc()
	colorMagenta = color.New(color.FgMagenta).SprintFunc()
)

// ExitHandler prints err, if any, and exits the process.
// Every error is fatal, not just cli.ExitCoder ones.
func ExitHandler(err error) {
	if err == nil {
		os.Exit(0)
	}
	_ = printErr(err, os.Stderr)
	os.Exit(1)
}

// Problem returns an error whose msg is reported as the top-level "Error: ..."
// line when it exits the CLI, with err and its wrapped causes listed beneath it.
func Problem(msg string, err error) error {
	return &printableErr{display: msg, cause: err}
}

type printableErr struct {
	display string
	cause   error
}

func (p *printableErr) Error() string {
	if p.cause == nil {
		return p.display
	}
	return p.display + ": " + p.cause.Error()
}

func (p *printableErr) Unwrap() error {
	return p.cause
}

// printErr writes err followed by one line per wrapped cause. Each line holds
// only the text its error adds on top of its cause.
func printErr(err error, to io.Writer) (writeErr error) {
	write := func(format string, a ...any) {
		if writeErr != nil {
			return
		}
		_, writeErr = fmt.Fprintf(to, format, a...)
	}

	var chain []error
	for current := err; current != nil && len(chain) < 1000; current = errors.Unwrap(current) {
		chain = append(chain, current)
	}

	lines := make([]string, len(chain))
	for i, e := range chain {
		msg := e.Error()
		if p, ok := e.(*printableErr); ok {
			msg = p.display
		} else if i+1 < len(chain) {
			msg = strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(msg, chain[i+1].Error())), ":")
		}
		lines[i] = msg
	}

	var top *printableErr
	headline := 0
	if errors.As(err, &top) {
		for i, e := range chain {
			if e == top {
				headline = i
				break
			}
		}
	}
	write("%s %s\n", colorRed("Error:"), lines[headline])

	var details []string
	for i, line := range lines {
		if i != headline && line != "" {
			details = append(details, line)
		}
	}
	if len(details) == 0 {
		return
	}
	write("%s\n", colorMagenta("Error details:"))
	for _, line := range details {
		for _, l := range strings.Split(line, "\n") {
			write("  %s\n", l)
		}
	}
	return
}
