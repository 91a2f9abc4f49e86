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
	"github.com/tasteful-io/tasteful/dataset"
	"gonum.org/v1/gonum/stat"
)

// DefaultMinVotes is the default reliability threshold of the baseline
// strategy.
const DefaultMinVotes = 10

// Baseline scores every sufficiently voted item with a Bayesian shrinkage
// estimate: the item's mean rating pulled toward the global mean in
// proportion to how few votes support it.
//
//	score(i) = v/(v+m) * avgItem(i) + m/(v+m) * avgGlobal
//
// where v is the item's vote count and m is MinVotes. Items with fewer than
// MinVotes votes are skipped entirely. The user row is ignored: the
// baseline is not personalized.
type Baseline struct {
	MinVotes int
}

// NewBaseline creates a baseline strategy. Non-positive minVotes falls back
// to DefaultMinVotes, keeping the zero-vote skip guarantee.
func NewBaseline(minVotes int) *Baseline {
	if minVotes < 1 {
		minVotes = DefaultMinVotes
	}
	return &Baseline{MinVotes: minVotes}
}

func (b *Baseline) Name() string {
	return "baseline"
}

func (b *Baseline) Predict(repo Repository, _ int) ([]Prediction, error) {
	ratings := repo.Ratings()
	globalMean := matrixMean(ratings)
	itemIds := repo.ItemIds()
	predictions := make([]Prediction, 0, len(itemIds))
	for column, itemId := range itemIds {
		votes, itemMean := columnStats(ratings, column)
		if votes < b.MinVotes {
			continue
		}
		weight := float64(votes) / float64(votes+b.MinVotes)
		predictions = append(predictions, Prediction{
			ItemId: itemId,
			Score:  weight*itemMean + (1-weight)*globalMean,
		})
	}
	return predictions, nil
}

// columnStats returns the vote count and mean over the observed ratings of
// one item column. The mean is 0 when the column is empty.
func columnStats(ratings [][]float64, column int) (int, float64) {
	observed := make([]float64, 0, len(ratings))
	for row := range ratings {
		if ratings[row][column] != dataset.NoRating {
			observed = append(observed, ratings[row][column])
		}
	}
	if len(observed) == 0 {
		return 0, 0
	}
	return len(observed), stat.Mean(observed, nil)
}

// matrixMean returns the mean over every observed rating in the matrix, 0
// when there are none.
func matrixMean(ratings [][]float64) float64 {
	var observed []float64
	for row := range ratings {
		for column := range ratings[row] {
			if ratings[row][column] != dataset.NoRating {
				observed = append(observed, ratings[row][column])
			}
		}
	}
	if len(observed) == 0 {
		return 0
	}
	return stat.Mean(observed, nil)
}
