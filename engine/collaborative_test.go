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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasteful-io/tasteful/dataset"
)

func TestMaskedCosine(t *testing.T) {
	none := float64(dataset.NoRating)
	// aligned over the co-rated support
	assert.InDelta(t, 1, maskedCosine([]float64{1, 2, none}, []float64{1, 2, 3}), 1e-9)
	// opposed ratings
	assert.InDelta(t, -1, maskedCosine([]float64{1, -2}, []float64{-2, 4}), 1e-9)
	// no co-rated items
	assert.Zero(t, maskedCosine([]float64{1, none}, []float64{none, 1}))
	// zero-norm restriction
	assert.Zero(t, maskedCosine([]float64{0, 0, 5}, []float64{1, 1, none}))
	// self similarity
	row := []float64{3, none, 5}
	assert.InDelta(t, 1, maskedCosine(row, row), 1e-9)
}

func TestMaskedCosineBounds(t *testing.T) {
	a := []float64{5, 1, 4, dataset.NoRating, 2}
	b := []float64{1, 5, dataset.NoRating, 3, 4}
	similarity := maskedCosine(a, b)
	assert.GreaterOrEqual(t, similarity, -1.0)
	assert.LessOrEqual(t, similarity, 1.0)
}

func TestCollaborativeDefaults(t *testing.T) {
	assert.Equal(t, DefaultNeighbors, NewCollaborative(0).Neighbors)
	assert.Equal(t, 3, NewCollaborative(3).Neighbors)
	assert.Equal(t, "collaborative", NewCollaborative(1).Name())
}

func TestCollaborativePredict(t *testing.T) {
	none := float64(dataset.NoRating)
	repo := &mockRepository{
		userIds: []string{"u0", "u1", "u2"},
		itemIds: []string{"i0", "i1", "i2"},
		ratings: [][]float64{
			{5, none, none},
			{5, 3, none},
			{none, none, 4},
		},
		maxRating: 5,
	}
	predictions, err := NewCollaborative(2).Predict(repo, 0)
	require.NoError(t, err)
	require.Len(t, predictions, 3)
	// u1 is a perfect neighbor (cosine 1 over i0) with mean 4, u2 shares
	// nothing and contributes with similarity 0. u0's own mean is 5.
	assert.Equal(t, "i0", predictions[0].ItemId)
	assert.InDelta(t, 6, predictions[0].Score, 1e-9) // 5 + 1*(5-4)/1
	assert.InDelta(t, 4, predictions[1].Score, 1e-9) // 5 + 1*(3-4)/1
	// only u2 rated i2 and its similarity is 0: fall back to u0's mean
	assert.InDelta(t, 5, predictions[2].Score, 1e-9)
}

func TestCollaborativeSingleUser(t *testing.T) {
	repo := &mockRepository{
		userIds:   []string{"u0"},
		itemIds:   []string{"i0"},
		ratings:   [][]float64{{4}},
		maxRating: 5,
	}
	_, err := NewCollaborative(2).Predict(repo, 0)
	assert.Error(t, err)
}

func TestCollaborativeNeighborTruncation(t *testing.T) {
	none := float64(dataset.NoRating)
	// u1 and u2 match u0 perfectly over co-rated items, u3 is orthogonal;
	// with k=2 only u1 and u2 vote
	repo := &mockRepository{
		userIds: []string{"u0", "u1", "u2", "u3"},
		itemIds: []string{"i0", "i1", "i2"},
		ratings: [][]float64{
			{4, 4, none},
			{4, 4, 5},
			{4, 4, 4},
			{4, -4, 1},
		},
		maxRating: 5,
	}
	predictions, err := NewCollaborative(2).Predict(repo, 0)
	require.NoError(t, err)
	require.Len(t, predictions, 3)
	// u1's mean is 13/3, u2's is 4, u0's is 4; had u3 voted, i2 would
	// have been dragged toward its 1
	assert.InDelta(t, 4-1.0/6, predictions[0].Score, 1e-9)
	assert.InDelta(t, 4-1.0/6, predictions[1].Score, 1e-9)
	assert.InDelta(t, 4+1.0/3, predictions[2].Score, 1e-9)
}

func TestCollaborativeThroughEngine(t *testing.T) {
	none := float64(dataset.NoRating)
	repo := &mockRepository{
		userIds: []string{"u0", "u1", "u2"},
		itemIds: []string{"i0", "i1", "i2"},
		ratings: [][]float64{
			{5, none, none},
			{5, 3, none},
			{none, none, 4},
		},
		maxRating: 5,
	}
	e := NewEngine(repo, NewCollaborative(2))
	require.True(t, e.Recommend("u0", DefaultTopN))
	recommendations, _ := e.Recommendations("u0")
	// unseen items sorted by score: i2 (fallback 5) above i1 (4)
	require.Len(t, recommendations, 2)
	assert.Equal(t, "i2", recommendations[0].ItemId)
	assert.Equal(t, "i1", recommendations[1].ItemId)
	retained, _ := e.Predictions("u0")
	require.Len(t, retained, 1)
	assert.Equal(t, "i0", retained[0].ItemId)
}
