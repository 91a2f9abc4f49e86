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

import "github.com/juju/errors"

// StrategyNames returns the names of all built-in strategies.
func StrategyNames() []string {
	return []string{"baseline", "collaborative", "content"}
}

// NewStrategy creates a built-in strategy by name. Hyperparameters fall
// back to their documented defaults when non-positive.
func NewStrategy(name string, minVotes, neighbors int) (Strategy, error) {
	switch name {
	case "baseline":
		return NewBaseline(minVotes), nil
	case "collaborative":
		return NewCollaborative(neighbors), nil
	case "content":
		return NewContentBased(), nil
	default:
		return nil, errors.NotFoundf("strategy %s", name)
	}
}
