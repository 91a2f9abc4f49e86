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

func TestHasFeatures(t *testing.T) {
	assert.True(t, hasFeatures("Action|Adventure"))
	assert.True(t, hasFeatures("Comedy"))
	assert.False(t, hasFeatures(""))
	assert.False(t, hasFeatures("   "))
	assert.False(t, hasFeatures("(no genres listed)"))
	assert.False(t, hasFeatures("No Genres Listed"))
	assert.False(t, hasFeatures("()"))
}

func TestContentBasedPredict(t *testing.T) {
	none := float64(dataset.NoRating)
	repo := &mockRepository{
		userIds:   []string{"u0"},
		itemIds:   []string{"i0", "i1", "i2"},
		ratings:   [][]float64{{5, none, none}},
		genres:    []string{"Action", "Action", "Comedy"},
		maxRating: 5,
	}
	predictions, err := NewContentBased().Predict(repo, 0)
	require.NoError(t, err)
	require.Len(t, predictions, 3)
	// the profile is exactly the Action axis: perfect matches score the
	// full rating scale, the orthogonal genre scores zero
	assert.Equal(t, "i0", predictions[0].ItemId)
	assert.InDelta(t, 5, predictions[0].Score, 1e-9)
	assert.InDelta(t, 5, predictions[1].Score, 1e-9)
	assert.InDelta(t, 0, predictions[2].Score, 1e-9)
	pmax := repo.MaxRating()
	for _, prediction := range predictions {
		assert.GreaterOrEqual(t, prediction.Score, -pmax)
		assert.LessOrEqual(t, prediction.Score, pmax)
	}
}

func TestContentBasedSkipsUnusableItems(t *testing.T) {
	none := float64(dataset.NoRating)
	repo := &mockRepository{
		userIds:   []string{"u0"},
		itemIds:   []string{"i0", "i1", "i2"},
		ratings:   [][]float64{{4, 3, none}},
		genres:    []string{"Drama", "(no genres listed)", "Drama|Romance"},
		maxRating: 5,
	}
	predictions, err := NewContentBased().Predict(repo, 0)
	require.NoError(t, err)
	// i1 never enters the feature space
	require.Len(t, predictions, 2)
	assert.Equal(t, "i0", predictions[0].ItemId)
	assert.Equal(t, "i2", predictions[1].ItemId)
}

func TestContentBasedWithoutGenres(t *testing.T) {
	repo := newTestRepository() // genres nil
	_, err := NewContentBased().Predict(repo, 0)
	assert.Error(t, err)
}

func TestContentBasedNoRatedFeaturedItems(t *testing.T) {
	none := float64(dataset.NoRating)
	repo := &mockRepository{
		userIds:   []string{"u0"},
		itemIds:   []string{"i0", "i1"},
		ratings:   [][]float64{{4, none}},
		genres:    []string{"(no genres listed)", "Horror"},
		maxRating: 5,
	}
	_, err := NewContentBased().Predict(repo, 0)
	assert.Error(t, err)
}

func TestContentBasedZeroWeightProfile(t *testing.T) {
	repo := &mockRepository{
		userIds:   []string{"u0"},
		itemIds:   []string{"i0"},
		ratings:   [][]float64{{0}},
		genres:    []string{"Horror"},
		maxRating: 5,
	}
	_, err := NewContentBased().Predict(repo, 0)
	assert.Error(t, err)
}

func TestContentBasedAllGenresEmpty(t *testing.T) {
	repo := &mockRepository{
		userIds:   []string{"u0"},
		itemIds:   []string{"i0", "i1"},
		ratings:   [][]float64{{4, 2}},
		genres:    []string{"(no genres listed)", ""},
		maxRating: 5,
	}
	_, err := NewContentBased().Predict(repo, 0)
	assert.Error(t, err)
}
