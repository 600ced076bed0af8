//
// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package driver

import (
	"fmt"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// DrawComparison saves a bar chart of the raw and the private value of each
// coordinate to outputFile. The image format follows the file extension.
func DrawComparison(raw, private []float64, outputFile string) error {
	if len(raw) != len(private) {
		return fmt.Errorf("raw values (%d) and private values (%d) have different lengths", len(raw), len(private))
	}
	if len(raw) == 0 {
		return fmt.Errorf("no values to draw")
	}

	p := plot.New()
	p.Title.Text = "Sum Per Coordinate"
	p.X.Label.Text = "Coordinate"
	p.Y.Label.Text = "Sum"

	w := vg.Points(20)
	bars, err := plotter.NewBarChart(plotter.Values(raw), w)
	if err != nil {
		return fmt.Errorf("could not create bars from points %v: %v", raw, err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(2)
	bars.Offset = -w / 2

	dpBars, err := plotter.NewBarChart(plotter.Values(private), w)
	if err != nil {
		return fmt.Errorf("could not create bars from points %v: %v", private, err)
	}
	dpBars.LineStyle.Width = vg.Length(0)
	dpBars.Color = plotutil.Color(3)
	dpBars.Offset = w / 2

	p.Add(bars, dpBars)
	p.Legend.Add("Raw", bars)
	p.Legend.Add("Private", dpBars)
	p.Legend.Top = true

	names := make([]string, len(raw))
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	p.NominalX(names...)

	width := vg.Length(len(raw)+2) * 2 * w
	if width < 6*vg.Inch {
		width = 6 * vg.Inch
	}
	if err := p.Save(width, 5*vg.Inch, outputFile); err != nil {
		return fmt.Errorf("could not save plot: %v", err)
	}
	return nil
}
