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
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/differential-privacy/dpsum/structure"
)

// ReadRecordsFromFile reads records from a .jsonl file with ReadJSONL, or from
// any other file with ReadCSV.
func ReadRecordsFromFile(inputFile string) ([]structure.Structure, error) {
	f, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("couldn't open the input file = %q, err = %v", inputFile, err)
	}
	defer f.Close()

	var records []structure.Structure
	switch strings.ToLower(filepath.Ext(inputFile)) {
	case ".jsonl", ".ndjson":
		records, err = ReadJSONL(f)
	default:
		records, err = ReadCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't read the input file = %q, err = %w", inputFile, err)
	}
	return records, nil
}

// ReadCSV reads one vector record per row. Rows may have different lengths;
// lines starting with '#' are skipped.
func ReadCSV(r io.Reader) ([]structure.Structure, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records []structure.Structure
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		values := make([]float64, len(row))
		for i, col := range row {
			if values[i], err = strconv.ParseFloat(strings.TrimSpace(col), 64); err != nil {
				line, _ := cr.FieldPos(i)
				return nil, fmt.Errorf("couldn't read column %d on line %d as float64: %w", i, line, err)
			}
		}
		records = append(records, structure.NewVector(values...))
	}
	return records, nil
}

// ReadJSONL reads one record per line. A line holds a number or a list of
// numbers and lists, e.g. [[3, 4], [1, [1, 2, 2]]]. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]structure.Structure, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []structure.Structure
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(text), &v); err != nil {
			return nil, fmt.Errorf("couldn't parse line %d: %w", line, err)
		}
		s, err := structure.FromValue(v)
		if err != nil {
			return nil, fmt.Errorf("couldn't read line %d as a record: %w", line, err)
		}
		records = append(records, s)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// WriteReportToCSV writes one row per round: the round number, the clip and
// noise standard deviation of the round, then the flattened released values.
func WriteReportToCSV(report *Report, outputFile string) error {
	csvFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("couldn't open the csv file = %q, err = %v", outputFile, err)
	}

	writer := csv.NewWriter(csvFile)
	for i, round := range report.Rounds {
		row := []string{strconv.Itoa(i), toString(round.L2NormClip), toString(round.NoiseStddev)}
		for _, v := range round.Result.Flatten() {
			row = append(row, toString(v))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf(
				"couldn't write to the csv file = %q, err = %v",
				outputFile, combineErrors(err, csvFile.Close()))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf(
			"couldn't write to the csv file = %q, err = %v",
			outputFile, combineErrors(err, csvFile.Close()))
	}

	if err := csvFile.Close(); err != nil {
		return fmt.Errorf("couldn't close the csv file = %q, err = %v", outputFile, err)
	}
	return nil
}

func toString(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func combineErrors(errors ...error) string {
	var nonNilErrors []error
	for _, err := range errors {
		if err != nil {
			nonNilErrors = append(nonNilErrors, err)
		}
	}
	return fmt.Sprintf("%+v", nonNilErrors)
}
