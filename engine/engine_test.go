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
	"slices"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasteful-io/tasteful/dataset"
)

// mockRepository is an in-memory Repository for tests.
type mockRepository struct {
	userIds   []string
	itemIds   []string
	ratings   [][]float64
	genres    []string
	maxRating float64
}

func (m *mockRepository) Users() mapset.Set[string] {
	return mapset.NewThreadUnsafeSet(m.userIds...)
}

func (m *mockRepository) ItemIds() []string {
	return m.itemIds
}

func (m *mockRepository) RowOfUser(userId string) (int, error) {
	if row := slices.Index(m.userIds, userId); row >= 0 {
		return row, nil
	}
	return -1, errors.NotFoundf("user %s", userId)
}

func (m *mockRepository) ColumnOfItem(itemId string) (int, error) {
	if column := slices.Index(m.itemIds, itemId); column >= 0 {
		return column, nil
	}
	return -1, errors.NotFoundf("item %s", itemId)
}

func (m *mockRepository) Ratings() [][]float64 {
	return m.ratings
}

func (m *mockRepository) Genres() ([]string, error) {
	if m.genres == nil {
		return nil, errors.NotSupportedf("genres")
	}
	return m.genres, nil
}

func (m *mockRepository) MaxRating() float64 {
	return m.maxRating
}

// countingStrategy wraps fixed predictions and counts invocations.
type countingStrategy struct {
	predictions []Prediction
	err         error
	calls       int
}

func (s *countingStrategy) Name() string {
	return "counting"
}

func (s *countingStrategy) Predict(Repository, int) ([]Prediction, error) {
	s.calls++
	return s.predictions, s.err
}

// newTestRepository builds the 4x3 matrix used across engine tests:
//
//	       i0  i1  i2
//	u0      5   .   3
//	u1      4   2   .
//	u2      4   3   5
//	u3      .   1   4
func newTestRepository() *mockRepository {
	return &mockRepository{
		userIds: []string{"u0", "u1", "u2", "u3"},
		itemIds: []string{"i0", "i1", "i2"},
		ratings: [][]float64{
			{5, dataset.NoRating, 3},
			{4, 2, dataset.NoRating},
			{4, 3, 5},
			{dataset.NoRating, 1, 4},
		},
		maxRating: 5,
	}
}

func TestRecommendUnknownUser(t *testing.T) {
	e := NewEngine(newTestRepository(), &countingStrategy{})
	assert.False(t, e.Recommend("nobody", DefaultTopN))
	_, exist := e.Recommendations("nobody")
	assert.False(t, exist)
}

func TestRecommendIdempotent(t *testing.T) {
	strategy := &countingStrategy{predictions: []Prediction{
		{ItemId: "i0", Score: 1},
		{ItemId: "i1", Score: 2},
	}}
	e := NewEngine(newTestRepository(), strategy)
	assert.True(t, e.Recommend("u0", DefaultTopN))
	first, exist := e.Recommendations("u0")
	assert.True(t, exist)
	assert.True(t, e.Recommend("u0", DefaultTopN))
	second, _ := e.Recommendations("u0")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, strategy.calls)
}

func TestRecommendPartition(t *testing.T) {
	strategy := &countingStrategy{predictions: []Prediction{
		{ItemId: "i0", Score: 4},
		{ItemId: "i1", Score: 2},
		{ItemId: "i2", Score: 3},
	}}
	repo := newTestRepository()
	e := NewEngine(repo, strategy)
	require.True(t, e.Recommend("u0", DefaultTopN))
	// u0 has not rated i1 only
	recommendations, _ := e.Recommendations("u0")
	assert.Equal(t, []Prediction{{ItemId: "i1", Score: 2}}, recommendations)
	retained, _ := e.Predictions("u0")
	assert.Equal(t, []Prediction{{ItemId: "i0", Score: 4}, {ItemId: "i2", Score: 3}}, retained)
	// recommendations never include rated items, retained never unrated
	row := repo.ratings[0]
	for _, p := range recommendations {
		column, err := repo.ColumnOfItem(p.ItemId)
		require.NoError(t, err)
		assert.Equal(t, float64(dataset.NoRating), row[column])
	}
	for _, p := range retained {
		column, err := repo.ColumnOfItem(p.ItemId)
		require.NoError(t, err)
		assert.NotEqual(t, float64(dataset.NoRating), row[column])
	}
}

func TestRecommendTopN(t *testing.T) {
	strategy := &countingStrategy{predictions: []Prediction{
		{ItemId: "i0", Score: 1},
		{ItemId: "i1", Score: 3},
		{ItemId: "i2", Score: 2},
	}}
	repo := newTestRepository()
	// leave u0 with two unrated items
	repo.ratings[0] = []float64{5, dataset.NoRating, dataset.NoRating}
	e := NewEngine(repo, strategy)
	require.True(t, e.Recommend("u0", 1))
	recommendations, _ := e.Recommendations("u0")
	assert.Equal(t, []Prediction{{ItemId: "i1", Score: 3}}, recommendations)
}

func TestRecommendStrategyFailure(t *testing.T) {
	strategy := &countingStrategy{err: errors.New("precondition unmet")}
	e := NewEngine(newTestRepository(), strategy)
	assert.False(t, e.Recommend("u0", DefaultTopN))
	_, err := e.Evaluate("u0")
	assert.Error(t, err)
}

func TestRecommendUnknownItemSkipped(t *testing.T) {
	strategy := &countingStrategy{predictions: []Prediction{
		{ItemId: "i1", Score: 2},
		{ItemId: "missing", Score: 9},
	}}
	e := NewEngine(newTestRepository(), strategy)
	require.True(t, e.Recommend("u0", DefaultTopN))
	recommendations, _ := e.Recommendations("u0")
	assert.Equal(t, []Prediction{{ItemId: "i1", Score: 2}}, recommendations)
}

func TestEvaluate(t *testing.T) {
	strategy := &countingStrategy{predictions: []Prediction{
		{ItemId: "i0", Score: 4.5},
		{ItemId: "i1", Score: 2},
		{ItemId: "i2", Score: 2},
	}}
	e := NewEngine(newTestRepository(), strategy)
	// u0's actual ratings: i0=5, i2=3
	evaluation, err := e.Evaluate("u0")
	require.NoError(t, err)
	assert.Equal(t, 2, evaluation.Count)
	assert.InDelta(t, 0.75, evaluation.MAE, 1e-9)
	assert.InDelta(t, 0.7905694150420949, evaluation.RMSE, 1e-9)
	assert.Contains(t, evaluation.String(), "MAE")
	// cached
	again, err := e.Evaluate("u0")
	require.NoError(t, err)
	assert.Same(t, evaluation, again)
	assert.Equal(t, 1, strategy.calls)
}

func TestEvaluateNothingRetained(t *testing.T) {
	// the strategy only scores the item u0 has not rated
	strategy := &countingStrategy{predictions: []Prediction{{ItemId: "i1", Score: 2}}}
	e := NewEngine(newTestRepository(), strategy)
	evaluation, err := e.Evaluate("u0")
	require.NoError(t, err)
	assert.Zero(t, evaluation.Count)
	assert.Contains(t, evaluation.String(), "no rated predictions")
}

func TestSampleUsers(t *testing.T) {
	repo := newTestRepository()
	e := NewEngine(repo, &countingStrategy{})
	sample := e.SampleUsers(2)
	assert.Len(t, sample, 2)
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, userId := range sample {
		assert.True(t, e.HasUser(userId))
		assert.False(t, seen.Contains(userId))
		seen.Add(userId)
	}
	// asking for more than exist returns everyone
	assert.Len(t, e.SampleUsers(100), len(repo.userIds))
}
