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

package dpquery

import (
	"fmt"

	"github.com/google/differential-privacy/dpsum/structure"
)

// RunQuery runs a single round of q over records, starting from the query's
// initial global state. The sample state is shaped after records[0].
func RunQuery(q Query, records []structure.Structure) (structure.Structure, GlobalState, error) {
	return RunQueryWithState(q, records, q.InitialGlobalState())
}

// RunQueryWithState is like RunQuery but starts from gs, e.g. the state
// returned by the previous round.
func RunQueryWithState(q Query, records []structure.Structure, gs GlobalState) (structure.Structure, GlobalState, error) {
	if len(records) == 0 {
		return structure.Structure{}, gs, fmt.Errorf("RunQuery: no records")
	}
	params := q.DeriveSampleParams(gs)
	state, err := q.InitialSampleState(records[0])
	if err != nil {
		return structure.Structure{}, gs, fmt.Errorf("RunQuery: %w", err)
	}
	for i, r := range records {
		if state, err = q.AccumulateRecord(params, state, r); err != nil {
			return structure.Structure{}, gs, fmt.Errorf("RunQuery: record %d: %w", i, err)
		}
	}
	return q.GetNoisedResult(state, gs)
}
