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
	"fmt"
	"strings"
)

// User stores metadata about a user. Location and Age are only known for
// datasets that ship user files.
type User struct {
	UserId   string
	Location string
	Age      string
}

func (user User) String() string {
	if user.Location == "" {
		return fmt.Sprintf("user %s", user.UserId)
	}
	return fmt.Sprintf("user %s (%s)", user.UserId, user.Location)
}

// Item stores metadata about an item. Labels hold genres or categories and
// may be empty for datasets without categorical features. Price is zero
// unless the source carries one.
type Item struct {
	ItemId string
	Title  string
	Year   string
	Labels []string
	Price  float64
}

func (item Item) String() string {
	name := item.Title
	if name == "" {
		name = item.ItemId
	}
	if item.Year != "" {
		return fmt.Sprintf("%s (%s)", name, item.Year)
	}
	if item.Price > 0 {
		return fmt.Sprintf("%s ($%.2f)", name, item.Price)
	}
	return name
}

// FeatureText returns the item's labels as a single pipe-joined blob, the
// form consumed by content-based scoring.
func (item Item) FeatureText() string {
	return strings.Join(item.Labels, "|")
}
