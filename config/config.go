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

// Package config loads the session configuration from a toml file.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/juju/errors"
)

// Config is the configuration for a recommendation session.
type Config struct {
	Data     DataConfig     `toml:"data"`
	Snapshot SnapshotConfig `toml:"snapshot"`
	Strategy StrategyConfig `toml:"strategy"`
}

func (config *Config) LoadDefaultIfNil() *Config {
	if config == nil {
		return &Config{
			Data:     *(*DataConfig)(nil).LoadDefaultIfNil(),
			Snapshot: *(*SnapshotConfig)(nil).LoadDefaultIfNil(),
			Strategy: *(*StrategyConfig)(nil).LoadDefaultIfNil(),
		}
	}
	return config
}

// DataConfig points at the directory holding the raw dataset files.
type DataConfig struct {
	Dir string `toml:"dir"`
}

func (c *DataConfig) LoadDefaultIfNil() *DataConfig {
	if c == nil {
		return &DataConfig{Dir: "data"}
	}
	return c
}

// SnapshotConfig controls where computed sessions are persisted.
type SnapshotConfig struct {
	Dir string `toml:"dir"`
}

func (c *SnapshotConfig) LoadDefaultIfNil() *SnapshotConfig {
	if c == nil {
		return &SnapshotConfig{Dir: "snapshots"}
	}
	return c
}

// StrategyConfig holds the scoring hyper-parameters.
type StrategyConfig struct {
	TopN      int `toml:"top_n"`     // recommendations per user
	MinVotes  int `toml:"min_votes"` // baseline reliability threshold
	Neighbors int `toml:"neighbors"` // collaborative neighborhood size
}

func (c *StrategyConfig) LoadDefaultIfNil() *StrategyConfig {
	if c == nil {
		return &StrategyConfig{
			TopN:      5,
			MinVotes:  10,
			Neighbors: 10,
		}
	}
	return c
}

// FillDefault fills default values into fields the toml file left unset.
func (config *Config) FillDefault(meta toml.MetaData) {
	defaultDataConfig := *(*DataConfig)(nil).LoadDefaultIfNil()
	if !meta.IsDefined("data", "dir") {
		config.Data.Dir = defaultDataConfig.Dir
	}
	defaultSnapshotConfig := *(*SnapshotConfig)(nil).LoadDefaultIfNil()
	if !meta.IsDefined("snapshot", "dir") {
		config.Snapshot.Dir = defaultSnapshotConfig.Dir
	}
	defaultStrategyConfig := *(*StrategyConfig)(nil).LoadDefaultIfNil()
	if !meta.IsDefined("strategy", "top_n") {
		config.Strategy.TopN = defaultStrategyConfig.TopN
	}
	if !meta.IsDefined("strategy", "min_votes") {
		config.Strategy.MinVotes = defaultStrategyConfig.MinVotes
	}
	if !meta.IsDefined("strategy", "neighbors") {
		config.Strategy.Neighbors = defaultStrategyConfig.Neighbors
	}
}

// LoadConfig loads configuration from a toml file.
func LoadConfig(path string) (*Config, *toml.MetaData, error) {
	var conf Config
	metaData, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	conf.FillDefault(metaData)
	return &conf, &metaData, nil
}
