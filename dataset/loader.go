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
	"io"
	"os"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/tasteful-io/tasteful/base/log"
	"go.uber.org/zap"
)

// builtInDatasets maps dataset names to their loaders.
var builtInDatasets = map[string]func(dir string) (*Dataset, error){
	"movies": LoadMovies,
	"books":  LoadBooks,
	"games":  LoadGames,
}

// Names returns the names of all built-in datasets, sorted.
func Names() []string {
	names := make([]string, 0, len(builtInDatasets))
	for name := range builtInDatasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load loads a built-in dataset from files under dir. Supported names:
//
//	movies - MovieLens ratings and genre metadata (CSV)
//	books  - Book-Crossing ratings, books and users (CSV)
//	games  - Amazon video game reviews and product metadata (gzip JSON lines)
func Load(name, dir string) (*Dataset, error) {
	loader, exist := builtInDatasets[name]
	if !exist {
		return nil, errors.NotFoundf("dataset %s", name)
	}
	d, err := loader(dir)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("dataset loaded",
		zap.String("dataset", name),
		zap.Int("users", d.CountUsers()),
		zap.Int("items", d.CountItems()))
	return d, nil
}

// progressReader wraps a file with a byte progress bar.
func progressReader(file *os.File, description string) io.Reader {
	info, err := file.Stat()
	if err != nil {
		return file
	}
	reader := progressbar.NewReader(file, progressbar.DefaultBytes(info.Size(), description))
	return &reader
}

// headerIndex maps CSV column names to field positions and checks that the
// required columns are present.
func headerIndex(header []string, required ...string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))] = i
	}
	for _, name := range required {
		if _, exist := index[name]; !exist {
			return nil, errors.Errorf("missing column %q in header %v", name, header)
		}
	}
	return index, nil
}

// readRecords iterates a CSV file record by record, skipping short rows.
func readRecords(reader *csv.Reader, f func(record []string) error) error {
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Trace(err)
		}
		if err = f(record); err != nil {
			return errors.Trace(err)
		}
	}
}

func logSkippedRatings(name string, skipped int) {
	log.Logger().Warn("skipped ratings referencing unknown users or items",
		zap.String("dataset", name), zap.Int("skipped", skipped))
}
