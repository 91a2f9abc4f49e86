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
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/juju/errors"
)

const (
	// maxBookRating is the upper bound of the Book-Crossing rating scale.
	maxBookRating = 10
	// maxBooks caps the number of loaded books to keep the matrix bounded.
	maxBooks = 10000
)

// LoadBooks loads the Book-Crossing dataset from Books.csv, Users.csv and
// Ratings.csv:
//
//	Books.csv    ISBN,Book-Title,Book-Author,Year-Of-Publication,Publisher
//	Users.csv    User-ID,Location,Age
//	Ratings.csv  User-ID,ISBN,Book-Rating
//
// Books carry no categorical features, so Genres() is unsupported on the
// result. Only the first maxBooks books are loaded; ratings referencing
// later books are skipped.
func LoadBooks(dir string) (*Dataset, error) {
	// load book metadata
	items := NewIndex()
	itemMeta := make(map[string]Item)
	err := readBookFile(filepath.Join(dir, "Books.csv"), "load books",
		[]string{"ISBN", "Book-Title", "Book-Author", "Year-Of-Publication"},
		func(field func(string) string) error {
			if items.Len() >= maxBooks {
				return errStopReading
			}
			isbn := field("ISBN")
			before := items.Len()
			items.Add(isbn)
			if items.Len() > before {
				itemMeta[isbn] = Item{
					ItemId: isbn,
					Title:  field("Book-Title"),
					Year:   field("Year-Of-Publication"),
				}
			}
			return nil
		})
	if err != nil {
		return nil, errors.Trace(err)
	}
	// load user metadata, keyed for enrichment below
	profiles := make(map[string]User)
	err = readBookFile(filepath.Join(dir, "Users.csv"), "load users",
		[]string{"User-ID", "Location", "Age"},
		func(field func(string) string) error {
			userId := field("User-ID")
			profiles[userId] = User{
				UserId:   userId,
				Location: field("Location"),
				Age:      field("Age"),
			}
			return nil
		})
	if err != nil {
		return nil, errors.Trace(err)
	}
	// load ratings; rows index only users that rated something
	users := NewIndex()
	userMeta := make(map[string]User)
	var triples []rating
	err = readBookFile(filepath.Join(dir, "Ratings.csv"), "load ratings",
		[]string{"User-ID", "ISBN", "Book-Rating"},
		func(field func(string) string) error {
			userId := field("User-ID")
			value, err := strconv.ParseFloat(field("Book-Rating"), 64)
			if err != nil {
				return nil
			}
			users.Add(userId)
			if _, exist := userMeta[userId]; !exist {
				if profile, known := profiles[userId]; known {
					userMeta[userId] = profile
				} else {
					userMeta[userId] = User{UserId: userId}
				}
			}
			triples = append(triples, rating{userId: userId, itemId: field("ISBN"), value: value})
			return nil
		})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return newDataset("books", users, items, userMeta, itemMeta, nil, maxBookRating, triples)
}

// errStopReading aborts a readBookFile loop early without failing the load.
var errStopReading = errors.New("stop reading")

// readBookFile reads a Book-Crossing CSV and hands each record to f as a
// field lookup by column name. Short rows are skipped.
func readBookFile(path, description string, required []string, f func(field func(string) string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	reader := csv.NewReader(progressReader(file, description))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		return errors.Trace(err)
	}
	columns, err := headerIndex(header, required...)
	if err != nil {
		return errors.Trace(err)
	}
	err = readRecords(reader, func(record []string) error {
		if len(record) < len(header) {
			return nil
		}
		return f(func(name string) string {
			return record[columns[name]]
		})
	})
	if errors.Cause(err) == errStopReading {
		return nil
	}
	return errors.Trace(err)
}
