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

// This is a command line utility which releases a differentially private sum
// of the records in a file.
// Usage example:
// go run ./cmd/dpsum --input_file=records.csv --output_file=sum.csv --clip=5 --noise_stddev=1
// go run ./cmd/dpsum --config=dpsum.yaml --input_file=records.jsonl --output_file=sum.csv --chart_file=sum.png
// go run ./cmd/dpsum --pipeline --dimension=2 --input_file=records.csv --output_file=sum.csv --clip=5 --epsilon=1 --delta=1e-5
//
// Flags override the values of the config file.
package main

import (
	"context"
	"flag"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	log "github.com/golang/glog"
	"github.com/google/differential-privacy/dpsum/dpbeam"
	"github.com/google/differential-privacy/dpsum/dpquery"
	"github.com/google/differential-privacy/dpsum/driver"

	// The following import is required for accessing local files.
	_ "github.com/apache/beam/sdks/v2/go/pkg/beam/io/filesystem/local"

	"github.com/apache/beam/sdks/v2/go/pkg/beam/runners/direct"
)

var (
	configFile = flag.String("config", "", "YAML config file. Optional.")
	inputFile  = flag.String("input_file", "", "Input file with one record per line: comma-separated numbers, or JSON for .jsonl files.")
	outputFile = flag.String("output_file", "", "Output csv file name for the released sums.")
	chartFile  = flag.String("chart_file", "", "Output png file name for a chart of the raw and released sums. Optional.")
	pipeline   = flag.Bool("pipeline", false, "Run on a Beam pipeline instead of in process. Only flat records are supported.")
	dimension  = flag.Int("dimension", 0, "Length of every record. Required with --pipeline.")

	clip        = flag.Float64("clip", 0, "L2 norm clip of every record.")
	noiseStddev = flag.Float64("noise_stddev", 0, "Standard deviation of the Gaussian noise.")
	epsilon     = flag.Float64("epsilon", 0, "Privacy budget ε. Derives noise_stddev together with --delta.")
	delta       = flag.Float64("delta", 0, "Privacy budget δ.")
	clipMode    = flag.String("clip_mode", "", "per_leaf or global_norm.")
	shards      = flag.Int("shards", 0, "Number of shards accumulated concurrently.")
	seed        = flag.Uint64("seed", 0, "Seed of a reproducible noise generator, for testing only.")
	skipInvalid = flag.Bool("skip_invalid", false, "Skip records that do not match the shape of the first record.")
	rounds      = flag.Int("rounds", 0, "Number of releases.")
	decayFactor = flag.Float64("decay_factor", 0, "Factor applied to the clip after each round.")
	minClip     = flag.Float64("min_clip", 0, "Lower bound of the decayed clip.")
)

func main() {
	flag.Parse()

	// beam.Init() is an initialization hook that must be called on startup. On
	// distributed runners, it is used to intercept control.
	beam.Init()

	if *inputFile == "" {
		log.Exit("No input file was chosen")
	}
	if *outputFile == "" {
		log.Exit("No output file was chosen")
	}

	cfg := driver.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = driver.LoadConfig(*configFile); err != nil {
			log.Exitf("Loading config failed: %v", err)
		}
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Exitf("Invalid configuration: %v", err)
	}
	log.Infof("dpsum was run with arguments: inputFile = %q, outputFile = %q, config = %+v", *inputFile, *outputFile, cfg)

	if *pipeline {
		runPipeline(cfg)
		return
	}

	records, err := driver.ReadRecordsFromFile(*inputFile)
	if err != nil {
		log.Exitf("Reading records failed: %v", err)
	}
	d, err := driver.New(cfg)
	if err != nil {
		log.Exitf("Creating the driver failed: %v", err)
	}
	report, err := d.Run(context.Background(), records)
	if err != nil {
		log.Exitf("Running the query failed: %v", err)
	}
	if err := driver.WriteReportToCSV(report, *outputFile); err != nil {
		log.Exitf("Writing results failed: %v", err)
	}
	if *chartFile != "" {
		last := report.Rounds[len(report.Rounds)-1].Result
		if err := driver.DrawComparison(report.RawSum.Flatten(), last.Flatten(), *chartFile); err != nil {
			log.Exitf("Drawing chart failed: %v", err)
		}
	}
}

func applyFlags(cfg *driver.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "clip":
			cfg.Clip = *clip
		case "noise_stddev":
			cfg.NoiseStddev = *noiseStddev
		case "epsilon":
			cfg.Epsilon = *epsilon
		case "delta":
			cfg.Delta = *delta
		case "clip_mode":
			cfg.ClipMode = *clipMode
		case "shards":
			cfg.Shards = *shards
		case "seed":
			cfg.Seed = *seed
		case "skip_invalid":
			cfg.SkipInvalid = *skipInvalid
		case "rounds":
			cfg.Rounds = *rounds
		case "decay_factor":
			cfg.DecayFactor = *decayFactor
		case "min_clip":
			cfg.MinClip = *minClip
		}
	})
}

func runPipeline(cfg driver.Config) {
	if *dimension <= 0 {
		log.Exit("No dimension was chosen")
	}
	// Records are flat vectors, for which both clip modes agree.
	if cfg.Rounds != 1 || cfg.DecayFactor != 0 || cfg.SkipInvalid {
		log.Exit("--pipeline supports a single round without skipping records")
	}
	stddev := cfg.NoiseStddev
	if cfg.Epsilon != 0 {
		var err error
		if stddev, err = dpquery.StddevForBudget(cfg.Clip, cfg.Epsilon, cfg.Delta); err != nil {
			log.Exitf("Calibrating noise failed: %v", err)
		}
	}

	p := beam.NewPipeline()
	s := p.Root()
	records := dpbeam.ReadRecords(s, *inputFile)
	sums := dpbeam.GaussianSum(s, records, dpbeam.GaussianSumParams{
		Dimension:   *dimension,
		L2NormClip:  cfg.Clip,
		NoiseStddev: stddev,
		Seed:        cfg.Seed,
	})
	dpbeam.WriteRecords(s, sums, *outputFile)

	if _, err := direct.Execute(context.Background(), p); err != nil {
		log.Exitf("Execution of pipeline failed: %v", err)
	}
	log.Infof("Released a sum of dimension %d with noise stddev %g", *dimension, stddev)
}
