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

// Package dataset loads heterogeneous ratings datasets into a dense
// in-memory ratings matrix with bijective id/position indices.
package dataset

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
)

// NoRating marks an unobserved cell of the ratings matrix. It lies outside
// every valid rating range so that 0 stays a legitimate rating.
const NoRating = -1

// Dataset holds a fully loaded ratings dataset: the dense matrix, the
// user/item indices and per-item metadata. It is immutable after load.
type Dataset struct {
	name      string
	users     *Index
	items     *Index
	userSet   mapset.Set[string]
	itemSet   mapset.Set[string]
	userMeta  map[string]User
	itemMeta  map[string]Item
	ratings   [][]float64
	genres    []string
	hasGenres bool
	maxRating float64
}

// Name returns the dataset name, e.g. "movies".
func (d *Dataset) Name() string {
	return d.name
}

// Users returns the set of known user ids.
func (d *Dataset) Users() mapset.Set[string] {
	return d.userSet
}

// Items returns the set of known item ids.
func (d *Dataset) Items() mapset.Set[string] {
	return d.itemSet
}

// UserIds returns all user ids in row order.
func (d *Dataset) UserIds() []string {
	return d.users.GetIds()
}

// ItemIds returns all item ids in column order.
func (d *Dataset) ItemIds() []string {
	return d.items.GetIds()
}

func (d *Dataset) CountUsers() int {
	return d.users.Len()
}

func (d *Dataset) CountItems() int {
	return d.items.Len()
}

// RowOfUser returns the matrix row of a user.
func (d *Dataset) RowOfUser(userId string) (int, error) {
	row := d.users.ToPosition(userId)
	if row == NotId {
		return NotId, errors.NotFoundf("user %s", userId)
	}
	return row, nil
}

// ColumnOfItem returns the matrix column of an item.
func (d *Dataset) ColumnOfItem(itemId string) (int, error) {
	column := d.items.ToPosition(itemId)
	if column == NotId {
		return NotId, errors.NotFoundf("item %s", itemId)
	}
	return column, nil
}

// User returns the display object of a user.
func (d *Dataset) User(userId string) (User, error) {
	user, exist := d.userMeta[userId]
	if !exist {
		return User{}, errors.NotFoundf("user %s", userId)
	}
	return user, nil
}

// Item returns the display object of an item.
func (d *Dataset) Item(itemId string) (Item, error) {
	item, exist := d.itemMeta[itemId]
	if !exist {
		return Item{}, errors.NotFoundf("item %s", itemId)
	}
	return item, nil
}

// Ratings returns the ratings matrix: rows are users, columns are items and
// unobserved cells hold NoRating. Callers must not mutate it.
func (d *Dataset) Ratings() [][]float64 {
	return d.ratings
}

// Genres returns per-item feature text indexed by column. Datasets without
// categorical metadata return a not-supported error.
func (d *Dataset) Genres() ([]string, error) {
	if !d.hasGenres {
		return nil, errors.NotSupportedf("genres for dataset %s", d.name)
	}
	return d.genres, nil
}

// MaxRating returns the maximum possible rating, fixed at load time.
func (d *Dataset) MaxRating() float64 {
	return d.maxRating
}

// rating holds one parsed (user, item, rating) triple before the matrix is
// assembled.
type rating struct {
	userId string
	itemId string
	value  float64
}

// newDataset assembles a dataset from indexed users/items and parsed rating
// triples, then validates the index bijections. Triples referencing unknown
// users or items are counted and reported, not loaded.
func newDataset(name string, users, items *Index, userMeta map[string]User,
	itemMeta map[string]Item, genres []string, maxRating float64,
	triples []rating) (*Dataset, error) {
	d := &Dataset{
		name:      name,
		users:     users,
		items:     items,
		userSet:   mapset.NewThreadUnsafeSet(users.GetIds()...),
		itemSet:   mapset.NewThreadUnsafeSet(items.GetIds()...),
		userMeta:  userMeta,
		itemMeta:  itemMeta,
		genres:    genres,
		hasGenres: genres != nil,
		maxRating: maxRating,
	}
	if err := d.users.Validate(); err != nil {
		return nil, errors.Annotate(err, "user index")
	}
	if err := d.items.Validate(); err != nil {
		return nil, errors.Annotate(err, "item index")
	}
	d.ratings = make([][]float64, users.Len())
	for row := range d.ratings {
		d.ratings[row] = make([]float64, items.Len())
		for column := range d.ratings[row] {
			d.ratings[row][column] = NoRating
		}
	}
	var skipped int
	for _, triple := range triples {
		row := users.ToPosition(triple.userId)
		column := items.ToPosition(triple.itemId)
		if row == NotId || column == NotId {
			skipped++
			continue
		}
		d.ratings[row][column] = triple.value
	}
	if skipped > 0 {
		logSkippedRatings(name, skipped)
	}
	return d, nil
}
