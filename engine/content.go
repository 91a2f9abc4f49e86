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
	"strings"

	"github.com/juju/errors"
	"github.com/tasteful-io/tasteful/common/tfidf"
	"github.com/tasteful-io/tasteful/dataset"
	"gonum.org/v1/gonum/floats"
)

// noGenresListed marks items without usable feature text, matched
// case-insensitively with or without the MovieLens parentheses.
const noGenresListed = "no genres listed"

// ContentBased scores items by the cosine similarity between their TF-IDF
// genre vectors and the user's content profile, the rating-weighted average
// of the vectors of items the user rated. Similarities are rescaled into
// rating units by the dataset's maximum rating. Unlike the other
// strategies, it needs no cohort, only the target user's own history, but
// it is unusable on datasets without categorical metadata.
type ContentBased struct{}

// NewContentBased creates a content-based strategy.
func NewContentBased() *ContentBased {
	return &ContentBased{}
}

func (c *ContentBased) Name() string {
	return "content"
}

func (c *ContentBased) Predict(repo Repository, userIndex int) ([]Prediction, error) {
	genres, err := repo.Genres()
	if err != nil {
		return nil, errors.Annotate(err, "content-based scoring needs item features")
	}
	// keep only items with usable feature text, remembering their columns
	itemIds := repo.ItemIds()
	columns := make([]int, 0, len(genres))
	documents := make([]string, 0, len(genres))
	for column, text := range genres {
		if !hasFeatures(text) {
			continue
		}
		columns = append(columns, column)
		documents = append(documents, text)
	}
	if len(columns) == 0 {
		return nil, errors.New("no items with usable feature text")
	}
	matrix, err := tfidf.Fit(documents)
	if err != nil {
		return nil, errors.Trace(err)
	}
	// profile = Σ rating(i)·tfidf(i) / Σ |rating(i)| over rated items
	userRow := repo.Ratings()[userIndex]
	profile := make([]float64, matrix.NumTerms())
	var weight float64
	var rated int
	for i, column := range columns {
		value := userRow[column]
		if value == dataset.NoRating {
			continue
		}
		floats.AddScaled(profile, value, matrix.Row(i))
		weight += math.Abs(value)
		rated++
	}
	if rated == 0 {
		return nil, errors.New("user rated no items with feature text")
	}
	if weight == 0 {
		return nil, errors.New("user ratings sum to zero, profile undefined")
	}
	floats.Scale(1/weight, profile)
	profileNorm := floats.Norm(profile, 2)
	if profileNorm == 0 {
		return nil, errors.New("degenerate zero-norm content profile")
	}
	// similarity to the profile, rescaled into rating units
	pmax := repo.MaxRating()
	predictions := make([]Prediction, 0, len(columns))
	for i, column := range columns {
		vector := matrix.Row(i)
		vectorNorm := floats.Norm(vector, 2)
		if vectorNorm == 0 {
			return nil, errors.Errorf("item %s has a zero-norm feature vector", itemIds[column])
		}
		similarity := floats.Dot(vector, profile) / (vectorNorm * profileNorm)
		predictions = append(predictions, Prediction{
			ItemId: itemIds[column],
			Score:  similarity * pmax,
		})
	}
	return predictions, nil
}

// hasFeatures reports whether an item's feature text can contribute to the
// TF-IDF space.
func hasFeatures(text string) bool {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")
	return trimmed != "" && !strings.EqualFold(trimmed, noGenresListed)
}
