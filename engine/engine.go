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

// Package engine scores items for users over a preloaded ratings matrix.
// The Engine runs the shared recommend/evaluate pipeline and delegates the
// scoring formula to a pluggable Strategy.
package engine

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/tasteful-io/tasteful/base/log"
	"github.com/tasteful-io/tasteful/dataset"
	"go.uber.org/zap"
)

// DefaultTopN is the default number of recommendations per user.
const DefaultTopN = 5

// Prediction is a scored item.
type Prediction struct {
	ItemId string
	Score  float64
}

// Repository is the read-only dataset contract the engine depends on.
// *dataset.Dataset satisfies it.
type Repository interface {
	// Users returns the set of known user ids.
	Users() mapset.Set[string]
	// ItemIds returns all item ids in matrix column order.
	ItemIds() []string
	// RowOfUser returns the matrix row of a user, or a not-found error.
	RowOfUser(userId string) (int, error)
	// ColumnOfItem returns the matrix column of an item, or a not-found error.
	ColumnOfItem(itemId string) (int, error)
	// Ratings returns the matrix. Cells hold dataset.NoRating when unrated.
	Ratings() [][]float64
	// Genres returns per-item feature text by column, or a not-supported
	// error for datasets without categorical metadata.
	Genres() ([]string, error)
	// MaxRating returns the maximum possible rating of the dataset.
	MaxRating() float64
}

// Strategy scores items for the user at the given matrix row. It may return
// a partial list (items it cannot score are absent) and must not mutate the
// ratings matrix. An error means a strategy precondition is unmet for this
// dataset or user; the engine reports it as a recoverable failure.
type Strategy interface {
	Name() string
	Predict(repo Repository, userIndex int) ([]Prediction, error)
}

// Engine caches recommendations and retained predictions per user and runs
// the shared pipeline around a Strategy. It is not safe for concurrent use.
type Engine struct {
	repo            Repository
	strategy        Strategy
	recommendations map[string][]Prediction
	predictions     map[string][]Prediction
	evaluations     map[string]*Evaluation
}

// NewEngine creates an engine over a repository and a scoring strategy.
func NewEngine(repo Repository, strategy Strategy) *Engine {
	return &Engine{
		repo:            repo,
		strategy:        strategy,
		recommendations: make(map[string][]Prediction),
		predictions:     make(map[string][]Prediction),
		evaluations:     make(map[string]*Evaluation),
	}
}

// Strategy returns the engine's scoring strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// HasUser reports whether the user exists in the repository.
func (e *Engine) HasUser(userId string) bool {
	return e.repo.Users().Contains(userId)
}

// SampleUsers returns up to k known user ids, drawn without replacement.
func (e *Engine) SampleUsers(k int) []string {
	return lo.Samples(e.repo.Users().ToSlice(), k)
}

// Recommend scores items for the user and fills the per-user caches:
// recommendations hold the topN highest-scored items the user has not
// rated; retained predictions hold every scored item the user has rated.
// Returns false on an unknown user or an unmet strategy precondition.
// Results are cached, calling Recommend twice never recomputes.
func (e *Engine) Recommend(userId string, topN int) bool {
	if !e.HasUser(userId) {
		log.Logger().Warn("unknown user", zap.String("user_id", userId))
		return false
	}
	if _, exist := e.recommendations[userId]; exist {
		log.Logger().Debug("recommendations already cached",
			zap.String("user_id", userId))
		return true
	}
	userIndex, err := e.repo.RowOfUser(userId)
	if err != nil {
		log.Logger().Error("failed to locate user row", zap.Error(err))
		return false
	}
	predictions, err := e.strategy.Predict(e.repo, userIndex)
	if err != nil {
		log.Logger().Warn("strategy precondition unmet",
			zap.String("strategy", e.strategy.Name()),
			zap.String("user_id", userId),
			zap.Error(err))
		return false
	}
	// partition scored items into unseen recommendations and retained
	// predictions for evaluation
	userRow := e.repo.Ratings()[userIndex]
	var recommended, retained []Prediction
	for _, prediction := range predictions {
		column, err := e.repo.ColumnOfItem(prediction.ItemId)
		if err != nil {
			log.Logger().Warn("strategy scored unknown item",
				zap.String("item_id", prediction.ItemId))
			continue
		}
		if userRow[column] == dataset.NoRating {
			recommended = append(recommended, prediction)
		} else {
			retained = append(retained, prediction)
		}
	}
	sortByScore(recommended)
	sortByScore(retained)
	if topN >= 0 && len(recommended) > topN {
		recommended = recommended[:topN]
	}
	e.recommendations[userId] = recommended
	e.predictions[userId] = retained
	return true
}

// Recommendations returns the cached recommendation list for a user.
func (e *Engine) Recommendations(userId string) ([]Prediction, bool) {
	recommendations, exist := e.recommendations[userId]
	return recommendations, exist
}

// Predictions returns the cached retained predictions for a user.
func (e *Engine) Predictions(userId string) ([]Prediction, bool) {
	predictions, exist := e.predictions[userId]
	return predictions, exist
}

// Evaluate compares retained predictions against the user's actual ratings
// and returns per-user MAE and RMSE. Recommend is run first if its results
// aren't cached yet; its failure is returned as an error.
func (e *Engine) Evaluate(userId string) (*Evaluation, error) {
	if evaluation, exist := e.evaluations[userId]; exist {
		return evaluation, nil
	}
	if !e.Recommend(userId, DefaultTopN) {
		return nil, errors.Errorf("failed to predict for user %s with strategy %s",
			userId, e.strategy.Name())
	}
	userIndex, err := e.repo.RowOfUser(userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	userRow := e.repo.Ratings()[userIndex]
	var predicted, actual []float64
	for _, prediction := range e.predictions[userId] {
		column, err := e.repo.ColumnOfItem(prediction.ItemId)
		if err != nil {
			continue
		}
		if userRow[column] != dataset.NoRating {
			predicted = append(predicted, prediction.Score)
			actual = append(actual, userRow[column])
		}
	}
	evaluation := &Evaluation{UserId: userId, Count: len(predicted)}
	if len(predicted) > 0 {
		if evaluation.MAE, err = MAE(predicted, actual); err != nil {
			return nil, errors.Trace(err)
		}
		if evaluation.RMSE, err = RMSE(predicted, actual); err != nil {
			return nil, errors.Trace(err)
		}
	}
	e.evaluations[userId] = evaluation
	return evaluation, nil
}

func sortByScore(predictions []Prediction) {
	// stable: equal scores keep their first-seen order
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score > predictions[j].Score
	})
}
