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
	"bufio"
	"compress/gzip"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/juju/errors"
)

// maxGameRating is the upper bound of the Amazon review star scale.
const maxGameRating = 5

// gameMeta is one line of the product metadata dump. Price is untyped
// because the dump mixes numbers, dollar strings and junk.
type gameMeta struct {
	Asin       string     `json:"asin"`
	Title      string     `json:"title"`
	Price      any        `json:"price"`
	Categories [][]string `json:"categories"`
}

// gameReview is one line of the review dump.
type gameReview struct {
	ReviewerID string  `json:"reviewerID"`
	Asin       string  `json:"asin"`
	Overall    float64 `json:"overall"`
}

// LoadGames loads the Amazon video games dataset from two gzip JSON-lines
// files:
//
//	meta_Video_Games.json.gz     product metadata with nested categories
//	reviews_Video_Games_5.json.gz  5-core reviews with star ratings
//
// Nested category lists are flattened and pipe-joined into the per-item
// feature text.
func LoadGames(dir string) (*Dataset, error) {
	// load product metadata
	items := NewIndex()
	itemMeta := make(map[string]Item)
	genres := make([]string, 0)
	err := readJSONLines(filepath.Join(dir, "meta_Video_Games.json.gz"), "load games",
		func(line []byte) error {
			var meta gameMeta
			if err := json.Unmarshal(line, &meta); err != nil {
				return errors.Trace(err)
			}
			before := items.Len()
			items.Add(meta.Asin)
			if items.Len() == before {
				return nil
			}
			labels := flattenCategories(meta.Categories)
			genres = append(genres, strings.Join(labels, "|"))
			itemMeta[meta.Asin] = Item{
				ItemId: meta.Asin,
				Title:  meta.Title,
				Labels: labels,
				Price:  cleanPrice(meta.Price),
			}
			return nil
		})
	if err != nil {
		return nil, errors.Trace(err)
	}
	// load reviews
	users := NewIndex()
	userMeta := make(map[string]User)
	var triples []rating
	err = readJSONLines(filepath.Join(dir, "reviews_Video_Games_5.json.gz"), "load reviews",
		func(line []byte) error {
			var review gameReview
			if err := json.Unmarshal(line, &review); err != nil {
				return errors.Trace(err)
			}
			users.Add(review.ReviewerID)
			if _, exist := userMeta[review.ReviewerID]; !exist {
				userMeta[review.ReviewerID] = User{UserId: review.ReviewerID}
			}
			triples = append(triples, rating{
				userId: review.ReviewerID,
				itemId: review.Asin,
				value:  review.Overall,
			})
			return nil
		})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return newDataset("games", users, items, userMeta, itemMeta, genres, maxGameRating, triples)
}

// readJSONLines streams a gzip JSON-lines file line by line.
func readJSONLines(path, description string, f func(line []byte) error) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	unzipped, err := gzip.NewReader(progressReader(file, description))
	if err != nil {
		return errors.Trace(err)
	}
	defer unzipped.Close()
	scanner := bufio.NewScanner(unzipped)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if err = f(line); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(scanner.Err())
}

func flattenCategories(categories [][]string) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, group := range categories {
		for _, category := range group {
			if !seen[category] {
				seen[category] = true
				labels = append(labels, category)
			}
		}
	}
	return labels
}

var pricePattern = regexp.MustCompile(`\d+(\.\d+)?`)

// cleanPrice extracts a numeric price from whatever the metadata dump holds
// in the price field. Unparseable prices become 0.
func cleanPrice(raw any) float64 {
	switch price := raw.(type) {
	case float64:
		return price
	case string:
		match := pricePattern.FindString(strings.ReplaceAll(price, ",", ""))
		if match == "" {
			return 0
		}
		value, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return 0
		}
		return value
	default:
		return 0
	}
}
