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
	"strings"

	"github.com/juju/errors"
)

// maxMovieRating is the upper bound of the MovieLens rating scale.
const maxMovieRating = 5

// LoadMovies loads the MovieLens dataset from movies.csv and ratings.csv:
//
//	movies.csv   movieId,title,genres
//	ratings.csv  userId,movieId,rating,timestamp
//
// Genre strings are pipe-joined, e.g. "Adventure|Animation|Children".
func LoadMovies(dir string) (*Dataset, error) {
	// load items with genre metadata
	items := NewIndex()
	itemMeta := make(map[string]Item)
	genres := make([]string, 0)
	file, err := os.Open(filepath.Join(dir, "movies.csv"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	reader := csv.NewReader(progressReader(file, "load movies"))
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, errors.Trace(err)
	}
	columns, err := headerIndex(header, "movieId", "title", "genres")
	if err != nil {
		file.Close()
		return nil, errors.Trace(err)
	}
	err = readRecords(reader, func(record []string) error {
		if len(record) < len(header) {
			return nil
		}
		movieId := record[columns["movieId"]]
		before := items.Len()
		items.Add(movieId)
		if items.Len() == before {
			return nil
		}
		title, year := splitTitleYear(record[columns["title"]])
		genre := record[columns["genres"]]
		genres = append(genres, genre)
		itemMeta[movieId] = Item{
			ItemId: movieId,
			Title:  title,
			Year:   year,
			Labels: strings.Split(genre, "|"),
		}
		return nil
	})
	file.Close()
	if err != nil {
		return nil, errors.Trace(err)
	}
	// load users and ratings
	users := NewIndex()
	userMeta := make(map[string]User)
	var triples []rating
	file, err = os.Open(filepath.Join(dir, "ratings.csv"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	reader = csv.NewReader(progressReader(file, "load ratings"))
	reader.FieldsPerRecord = -1
	if header, err = reader.Read(); err != nil {
		return nil, errors.Trace(err)
	}
	if columns, err = headerIndex(header, "userId", "movieId", "rating"); err != nil {
		return nil, errors.Trace(err)
	}
	err = readRecords(reader, func(record []string) error {
		if len(record) < len(header) {
			return nil
		}
		userId := record[columns["userId"]]
		value, err := strconv.ParseFloat(record[columns["rating"]], 64)
		if err != nil {
			return errors.Trace(err)
		}
		users.Add(userId)
		if _, exist := userMeta[userId]; !exist {
			userMeta[userId] = User{UserId: userId}
		}
		triples = append(triples, rating{
			userId: userId,
			itemId: record[columns["movieId"]],
			value:  value,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return newDataset("movies", users, items, userMeta, itemMeta, genres, maxMovieRating, triples)
}

// splitTitleYear splits a MovieLens title like "Toy Story (1995)" into the
// bare title and the year.
func splitTitleYear(raw string) (title, year string) {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, ")") {
		if open := strings.LastIndex(raw, " ("); open >= 0 {
			candidate := raw[open+2 : len(raw)-1]
			if _, err := strconv.Atoi(candidate); err == nil {
				return raw[:open], candidate
			}
		}
	}
	return raw, ""
}
