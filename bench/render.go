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
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

var tableHeaderBlue = tablewriter.Colors{tablewriter.FgHiBlueColor}

var resultHeaders = []string{"Target", "Policy", "Submitted", "Succeeded", "Failed", "Max Running", "Queue P50", "Queue P99", "Elapsed"}

// Render writes results as a table. color enables colored headers.
func Render(w io.Writer, results []Result, color bool) {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetColumnSeparator("|")
	table.SetHeaderLine(false)
	table.SetHeader(resultHeaders)
	if color {
		colors := make([]tablewriter.Colors, len(resultHeaders))
		for i := range colors {
			colors[i] = tableHeaderBlue
		}
		table.SetHeaderColor(colors...)
	}

	for _, r := range results {
		table.Append([]string{
			r.Target,
			r.Policy,
			strconv.Itoa(r.Submitted),
			strconv.Itoa(r.Succeeded),
			strconv.Itoa(r.Failed),
			strconv.Itoa(r.MaxRunning),
			r.QueueP50.Round(time.Millisecond).String(),
			r.QueueP99.Round(time.Millisecond).String(),
			r.Elapsed.Round(time.Millisecond).String(),
		})
	}
	table.Render()
}
