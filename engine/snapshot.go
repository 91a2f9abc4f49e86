// Copyright 2025 tasteful Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/tasteful-io/tasteful/base/encoding"
	"github.com/tasteful-io/tasteful/base/log"
	"github.com/tasteful-io/tasteful/dataset"
	"go.uber.org/zap"
)

// SnapshotVersion is the schema version of persisted engine snapshots.
// Snapshots written by a different version are rejected, a snapshot is a
// cache of an already-computed session, not a stable file format.
const SnapshotVersion = 1

// snapshotState is everything a session needs to resume: the dataset
// content plus the per-user caches.
type snapshotState struct {
	Version         int
	Dataset         *dataset.State
	StrategyName    string
	Recommendations map[string][]Prediction
	Predictions     map[string][]Prediction
	Evaluations     map[string]*Evaluation
}

// SnapshotName returns the file name a session snapshot is keyed under.
func SnapshotName(datasetName, strategyName string) string {
	return fmt.Sprintf("%s_%s.gob", datasetName, strategyName)
}

// SaveSnapshot persists the engine and its dataset to path.
func (e *Engine) SaveSnapshot(path string, data *dataset.Dataset) error {
	state := snapshotState{
		Version:         SnapshotVersion,
		Dataset:         data.State(),
		StrategyName:    e.strategy.Name(),
		Recommendations: e.recommendations,
		Predictions:     e.predictions,
		Evaluations:     e.evaluations,
	}
	if err := encoding.WriteGob(path, state); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("snapshot saved",
		zap.String("path", path),
		zap.Int("users_cached", len(e.recommendations)))
	return nil
}

// LoadSnapshot restores an engine and its dataset from path. The snapshot
// must carry the current schema version and match the strategy's name.
func LoadSnapshot(path string, strategy Strategy) (*Engine, *dataset.Dataset, error) {
	var state snapshotState
	if err := encoding.ReadGob(path, &state); err != nil {
		return nil, nil, errors.Trace(err)
	}
	if state.Version != SnapshotVersion {
		return nil, nil, errors.Errorf("snapshot version %d, want %d",
			state.Version, SnapshotVersion)
	}
	if state.StrategyName != strategy.Name() {
		return nil, nil, errors.Errorf("snapshot was built with strategy %s, not %s",
			state.StrategyName, strategy.Name())
	}
	data, err := dataset.FromState(state.Dataset)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	e := NewEngine(data, strategy)
	if state.Recommendations != nil {
		e.recommendations = state.Recommendations
	}
	if state.Predictions != nil {
		e.predictions = state.Predictions
	}
	if state.Evaluations != nil {
		e.evaluations = state.Evaluations
	}
	log.Logger().Info("snapshot loaded",
		zap.String("path", path),
		zap.Int("users_cached", len(e.recommendations)))
	return e, data, nil
}
