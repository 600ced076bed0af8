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

// Package driver runs rounds of the Gaussian sum query over an in-memory
// dataset, accumulating disjoint shards of the records concurrently and
// merging the shards before the release.
package driver

import (
	"context"
	"errors"
	"fmt"

	log "github.com/golang/glog"
	"github.com/google/differential-privacy/dpsum/dpquery"
	"github.com/google/differential-privacy/dpsum/structure"
	"golang.org/x/sync/errgroup"
)

// Report is the outcome of Run.
type Report struct {
	Rounds []RoundResult
	// Exact sum of the accepted records, without clipping or noise. It is not
	// differentially private and must not be released.
	RawSum structure.Structure
}

// RoundResult is the outcome of a single release.
type RoundResult struct {
	Result      structure.Structure
	L2NormClip  float64
	NoiseStddev float64
	// Number of records added to the sum, and number of records skipped
	// because they did not match the shape of the first record.
	Accepted, Rejected int64
}

// Driver runs the query configured by a Config.
type Driver struct {
	cfg   Config
	clip  *dpquery.ClipThreshold
	query *dpquery.GaussianSumQuery
}

// New returns a Driver for cfg.
func New(cfg Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("driver.New: %w", err)
	}
	clip, err := dpquery.NewClipThreshold(cfg.Clip)
	if err != nil {
		return nil, fmt.Errorf("driver.New: %w", err)
	}
	opt, err := cfg.queryOptions(clip)
	if err != nil {
		return nil, fmt.Errorf("driver.New: %w", err)
	}
	q, err := dpquery.NewGaussianSumQuery(opt)
	if err != nil {
		return nil, fmt.Errorf("driver.New: %w", err)
	}
	return &Driver{cfg: cfg, clip: clip, query: q}, nil
}

// SetClip updates the clip of the rounds that start afterwards. With a
// DecayFactor, each round after the first derives its clip from the previous
// round, so SetClip only changes the first round of later calls to Run.
func (d *Driver) SetClip(c float64) error {
	return d.clip.Store(c)
}

// Run performs the configured number of rounds over records. The global state
// returned by each release is used for the next round.
func (d *Driver) Run(ctx context.Context, records []structure.Structure) (*Report, error) {
	if len(records) == 0 {
		return nil, errors.New("driver.Run: no records")
	}
	report := &Report{}
	gs := d.query.InitialGlobalState()
	for i := 0; i < d.cfg.Rounds; i++ {
		round, next, err := d.runRound(ctx, records, gs)
		if err != nil {
			return nil, fmt.Errorf("driver.Run: round %d: %w", i, err)
		}
		log.Infof("Round %d released the sum of %d records (%d rejected) with clip %g and noise stddev %g",
			i, round.Accepted, round.Rejected, round.L2NormClip, round.NoiseStddev)
		report.Rounds = append(report.Rounds, round)
		gs = next
	}
	report.RawSum = rawSum(records)
	return report, nil
}

type shard struct {
	sample   *dpquery.Sample
	rejected int64
}

func (d *Driver) runRound(ctx context.Context, records []structure.Structure, gs dpquery.GlobalState) (RoundResult, dpquery.GlobalState, error) {
	first, err := dpquery.NewSample(d.query, gs, records[0])
	if err != nil {
		return RoundResult{}, gs, err
	}
	// The clip is read once per round; shards share the parameters of first.
	params := first.Params()
	shards := make([]shard, d.cfg.Shards)
	shards[0].sample = first
	for i := 1; i < len(shards); i++ {
		if shards[i].sample, err = first.Empty(); err != nil {
			return RoundResult{}, gs, err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	size := (len(records) + len(shards) - 1) / len(shards)
	for i := range shards {
		lo, hi := min(i*size, len(records)), min((i+1)*size, len(records))
		sh := &shards[i]
		g.Go(func() error {
			for j := lo; j < hi; j++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				err := sh.sample.Add(records[j])
				if err == nil {
					continue
				}
				if d.cfg.SkipInvalid && isMismatch(err) {
					sh.rejected++
					log.V(1).Infof("Skipping record %d: %v", j, err)
					continue
				}
				return fmt.Errorf("record %d: %w", j, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RoundResult{}, gs, err
	}

	total := shards[0].sample
	rejected := shards[0].rejected
	for _, sh := range shards[1:] {
		if err := total.Merge(sh.sample); err != nil {
			return RoundResult{}, gs, err
		}
		rejected += sh.rejected
	}
	accepted := total.Count()
	result, next, err := total.Result()
	if err != nil {
		return RoundResult{}, gs, err
	}
	return RoundResult{
		Result:      result,
		L2NormClip:  params.L2NormClip,
		NoiseStddev: params.NoiseStddev,
		Accepted:    accepted,
		Rejected:    rejected,
	}, next, nil
}

func isMismatch(err error) bool {
	return errors.Is(err, structure.ErrTypeMismatch) ||
		errors.Is(err, structure.ErrShapeMismatch) ||
		errors.Is(err, structure.ErrInvalid)
}

// rawSum adds up the records that match the shape of the first one.
func rawSum(records []structure.Structure) structure.Structure {
	sum := records[0]
	for _, r := range records[1:] {
		if s, err := structure.Add(sum, r); err == nil {
			sum = s
		}
	}
	return sum
}
