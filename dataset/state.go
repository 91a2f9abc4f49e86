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

package dataset

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
)

// State is the explicit serializable content of a Dataset. Snapshots encode
// this struct instead of dumping the object graph.
type State struct {
	Name      string
	UserIds   []string
	ItemIds   []string
	Users     map[string]User
	Items     map[string]Item
	Ratings   [][]float64
	Genres    []string
	HasGenres bool
	MaxRating float64
}

// State extracts the serializable content of the dataset.
func (d *Dataset) State() *State {
	return &State{
		Name:      d.name,
		UserIds:   d.users.GetIds(),
		ItemIds:   d.items.GetIds(),
		Users:     d.userMeta,
		Items:     d.itemMeta,
		Ratings:   d.ratings,
		Genres:    d.genres,
		HasGenres: d.hasGenres,
		MaxRating: d.maxRating,
	}
}

// FromState rebuilds a dataset from serialized content, revalidating the
// index bijections and the matrix shape.
func FromState(state *State) (*Dataset, error) {
	if state == nil {
		return nil, errors.New("nil dataset state")
	}
	users, items := NewIndex(), NewIndex()
	for _, userId := range state.UserIds {
		users.Add(userId)
	}
	for _, itemId := range state.ItemIds {
		items.Add(itemId)
	}
	if err := users.Validate(); err != nil {
		return nil, errors.Annotate(err, "user index")
	}
	if err := items.Validate(); err != nil {
		return nil, errors.Annotate(err, "item index")
	}
	if len(state.Ratings) != users.Len() {
		return nil, errors.Errorf("ratings matrix has %d rows for %d users",
			len(state.Ratings), users.Len())
	}
	for _, row := range state.Ratings {
		if len(row) != items.Len() {
			return nil, errors.Errorf("ratings matrix has %d columns for %d items",
				len(row), items.Len())
		}
	}
	return &Dataset{
		name:      state.Name,
		users:     users,
		items:     items,
		userSet:   mapset.NewThreadUnsafeSet(state.UserIds...),
		itemSet:   mapset.NewThreadUnsafeSet(state.ItemIds...),
		userMeta:  state.Users,
		itemMeta:  state.Items,
		ratings:   state.Ratings,
		genres:    state.Genres,
		hasGenres: state.HasGenres,
		maxRating: state.MaxRating,
	}, nil
}
