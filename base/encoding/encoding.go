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

package encoding

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

// WriteGob encodes an object into a file. The parent directory is created
// if it doesn't exist yet.
func WriteGob(path string, object any) error {
	parent := filepath.Dir(path)
	if _, err := os.Stat(parent); os.IsNotExist(err) {
		if err = os.MkdirAll(parent, os.ModePerm); err != nil {
			return errors.Trace(err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer f.Close()
	if err = gob.NewEncoder(f).Encode(object); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// ReadGob decodes an object from a file.
func ReadGob(path string, object any) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer f.Close()
	if err = gob.NewDecoder(f).Decode(object); err != nil {
		return errors.Trace(err)
	}
	return nil
}
