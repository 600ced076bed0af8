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

package dpbeam

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/io/textio"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
)

func init() {
	register.Function2x1[string, func([]float64), error](parseRecordFn)
	register.Emitter1[[]float64]()
	register.Function1x1[[]float64, string](formatRecordFn)
}

// ReadRecords reads a text file with one record per line, written as
// comma-separated numbers, and returns a PCollection<[]float64>. Blank lines
// are skipped.
func ReadRecords(s beam.Scope, input string) beam.PCollection {
	s = s.Scope("dpbeam.ReadRecords")
	lines := textio.Read(s, input)
	return beam.ParDo(s, parseRecordFn, lines)
}

// WriteRecords writes a PCollection<[]float64> to a text file with one record
// per line in the format read by ReadRecords.
func WriteRecords(s beam.Scope, col beam.PCollection, output string) {
	s = s.Scope("dpbeam.WriteRecords")
	textio.Write(s, output, beam.ParDo(s, formatRecordFn, col))
}

func parseRecordFn(line string, emit func([]float64)) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	cols := strings.Split(line, ",")
	record := make([]float64, len(cols))
	for i, c := range cols {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return fmt.Errorf("dpbeam.parseRecordFn: column %d of %q: %w", i, line, err)
		}
		record[i] = v
	}
	emit(record)
	return nil
}

func formatRecordFn(record []float64) string {
	cols := make([]string, len(record))
	for i, v := range record {
		cols[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(cols, ",")
}
