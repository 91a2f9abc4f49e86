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

import "github.com/juju/errors"

// NotId represents an ID that doesn't exist.
const NotId = -1

// Index manages the map between sparse ids and dense positions. A sparse ID
// is a user ID or item ID. The dense position is the row or column of the
// ratings matrix. Positions follow insertion order.
type Index struct {
	Positions map[string]int // sparse ID -> dense position
	Ids       []string       // dense position -> sparse ID
}

// NewIndex creates an Index.
func NewIndex() *Index {
	index := new(Index)
	index.Positions = make(map[string]int)
	index.Ids = make([]string, 0)
	return index
}

// Len returns the number of indexed ids.
func (index *Index) Len() int {
	if index == nil {
		return 0
	}
	return len(index.Ids)
}

// Add adds a new ID to the index.
func (index *Index) Add(id string) {
	if _, exist := index.Positions[id]; !exist {
		index.Positions[id] = len(index.Ids)
		index.Ids = append(index.Ids, id)
	}
}

// ToPosition converts a sparse ID to a dense position.
func (index *Index) ToPosition(id string) int {
	if position, exist := index.Positions[id]; exist {
		return position
	}
	return NotId
}

// ToId converts a dense position to a sparse ID.
func (index *Index) ToId(position int) string {
	return index.Ids[position]
}

// GetIds returns all ids in position order.
func (index *Index) GetIds() []string {
	return index.Ids
}

// Validate checks that the index is a bijection: every position maps to
// exactly one ID and back to the original position.
func (index *Index) Validate() error {
	if len(index.Positions) != len(index.Ids) {
		return errors.Errorf("index mismatch: %d ids but %d positions",
			len(index.Ids), len(index.Positions))
	}
	for position, id := range index.Ids {
		if index.ToPosition(id) != position {
			return errors.Errorf("index corrupted: id %v maps to position %d, not %d",
				id, index.ToPosition(id), position)
		}
	}
	return nil
}
