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
	"math"
	"sort"

	"github.com/juju/errors"
	"github.com/tasteful-io/tasteful/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultNeighbors is the default neighborhood size of the collaborative
// strategy.
const DefaultNeighbors = 10

// Collaborative scores items with mean-centered user-based collaborative
// filtering: the k most cosine-similar users vote on every item, weighted
// by similarity and centered on their own rating scale.
//
//	score(i) = userMean + Σ sim(n)·(r(n,i) − mean(n)) / Σ |sim(n)|
//
// falling back to the user's own mean when no neighbor rated the item.
// Every item receives a score; the engine separates seen from unseen.
type Collaborative struct {
	Neighbors int
}

// NewCollaborative creates a collaborative strategy with the given
// neighborhood size, or DefaultNeighbors when non-positive.
func NewCollaborative(neighbors int) *Collaborative {
	if neighbors < 1 {
		neighbors = DefaultNeighbors
	}
	return &Collaborative{Neighbors: neighbors}
}

func (c *Collaborative) Name() string {
	return "collaborative"
}

type neighbor struct {
	row        int
	similarity float64
}

func (c *Collaborative) Predict(repo Repository, userIndex int) ([]Prediction, error) {
	ratings := repo.Ratings()
	userRow := ratings[userIndex]
	// rank every other user by cosine similarity over co-rated items
	neighbors := make([]neighbor, 0, len(ratings))
	for row := range ratings {
		if row == userIndex {
			continue
		}
		neighbors = append(neighbors, neighbor{
			row:        row,
			similarity: maskedCosine(userRow, ratings[row]),
		})
	}
	if len(neighbors) == 0 {
		return nil, errors.New("no other users to compare with")
	}
	// stable: ties keep row order
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].similarity > neighbors[j].similarity
	})
	if len(neighbors) > c.Neighbors {
		neighbors = neighbors[:c.Neighbors]
	}
	userMean := rowMean(userRow)
	neighborMeans := make([]float64, len(neighbors))
	for i, n := range neighbors {
		neighborMeans[i] = rowMean(ratings[n.row])
	}
	// mean-centered weighted vote per item
	itemIds := repo.ItemIds()
	predictions := make([]Prediction, 0, len(itemIds))
	for column, itemId := range itemIds {
		var numerator, denominator float64
		for i, n := range neighbors {
			value := ratings[n.row][column]
			if value == dataset.NoRating {
				continue
			}
			numerator += n.similarity * (value - neighborMeans[i])
			denominator += math.Abs(n.similarity)
		}
		score := userMean
		if denominator != 0 {
			score += numerator / denominator
		}
		predictions = append(predictions, Prediction{ItemId: itemId, Score: score})
	}
	return predictions, nil
}

// maskedCosine returns the cosine similarity of two rating rows restricted
// to their co-rated support. Empty support or a zero-norm restriction
// yields exactly 0, never NaN.
func maskedCosine(a, b []float64) float64 {
	var u, v []float64
	for i := range a {
		if a[i] != dataset.NoRating && b[i] != dataset.NoRating {
			u = append(u, a[i])
			v = append(v, b[i])
		}
	}
	if len(u) == 0 {
		return 0
	}
	normU, normV := floats.Norm(u, 2), floats.Norm(v, 2)
	if normU == 0 || normV == 0 {
		return 0
	}
	return floats.Dot(u, v) / (normU * normV)
}

// rowMean returns the mean over the observed ratings of one user row, 0
// when the row is empty.
func rowMean(row []float64) float64 {
	observed := make([]float64, 0, len(row))
	for _, value := range row {
		if value != dataset.NoRating {
			observed = append(observed, value)
		}
	}
	if len(observed) == 0 {
		return 0
	}
	return stat.Mean(observed, nil)
}
