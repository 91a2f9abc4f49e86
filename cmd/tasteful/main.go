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

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/tasteful-io/tasteful/base/log"
	"github.com/tasteful-io/tasteful/config"
	"github.com/tasteful-io/tasteful/dataset"
	"github.com/tasteful-io/tasteful/engine"
	"go.uber.org/zap"
)

var sessionCommand = &cobra.Command{
	Use:   "tasteful DATASET STRATEGY",
	Short: "Interactive recommender over a user-item ratings matrix.",
	Long: fmt.Sprintf(`Interactive recommender over a user-item ratings matrix.

DATASET is one of: %s.
STRATEGY is one of: %s.

Computed sessions are persisted per dataset and strategy, a second run
with the same pair resumes from its snapshot.`,
		strings.Join(dataset.Names(), ", "),
		strings.Join(engine.StrategyNames(), ", ")),
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			return err
		}
		if !slices.Contains(dataset.Names(), args[0]) {
			return fmt.Errorf("unknown dataset %q, expected one of: %s",
				args[0], strings.Join(dataset.Names(), ", "))
		}
		if !slices.Contains(engine.StrategyNames(), args[1]) {
			return fmt.Errorf("unknown strategy %q, expected one of: %s",
				args[1], strings.Join(engine.StrategyNames(), ", "))
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		datasetName, strategyName := args[0], args[1]

		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		conf := loadConfig(cmd)
		strategy, err := engine.NewStrategy(strategyName,
			conf.Strategy.MinVotes, conf.Strategy.Neighbors)
		if err != nil {
			log.Logger().Fatal("failed to create strategy", zap.Error(err))
		}

		// resume from a snapshot when one exists for this pair
		snapshotPath := filepath.Join(conf.Snapshot.Dir,
			engine.SnapshotName(datasetName, strategyName))
		e, data, err := engine.LoadSnapshot(snapshotPath, strategy)
		if err != nil {
			log.Logger().Info("no usable snapshot, loading dataset",
				zap.String("path", snapshotPath), zap.Error(err))
			data, err = dataset.Load(datasetName, filepath.Join(conf.Data.Dir, datasetName))
			if err != nil {
				log.Logger().Fatal("failed to load dataset", zap.Error(err))
			}
			e = engine.NewEngine(data, strategy)
		}

		runSession(e, data, snapshotPath, conf.Strategy.TopN)
	},
}

func init() {
	sessionCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	sessionCommand.PersistentFlags().BoolP("debug", "v", false, "use debug level log")
	sessionCommand.PersistentFlags().String("data-dir", "", "directory holding the raw dataset files")
	sessionCommand.PersistentFlags().String("snapshot-dir", "", "directory holding session snapshots")
	sessionCommand.PersistentFlags().Int("top-n", 0, "recommendations per user")
	sessionCommand.PersistentFlags().Int("min-votes", 0, "baseline reliability threshold")
	sessionCommand.PersistentFlags().Int("neighbors", 0, "collaborative neighborhood size")
	log.AddFlags(sessionCommand.PersistentFlags())
}

// loadConfig assembles the effective configuration: file values when a
// config file is given, defaults otherwise, command line flags on top.
func loadConfig(cmd *cobra.Command) *config.Config {
	conf := (*config.Config)(nil).LoadDefaultIfNil()
	if configPath, _ := cmd.PersistentFlags().GetString("config"); configPath != "" {
		log.Logger().Info("load config", zap.String("config", configPath))
		loaded, _, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		conf = loaded
	}
	if cmd.PersistentFlags().Changed("data-dir") {
		conf.Data.Dir, _ = cmd.PersistentFlags().GetString("data-dir")
	}
	if cmd.PersistentFlags().Changed("snapshot-dir") {
		conf.Snapshot.Dir, _ = cmd.PersistentFlags().GetString("snapshot-dir")
	}
	if cmd.PersistentFlags().Changed("top-n") {
		conf.Strategy.TopN, _ = cmd.PersistentFlags().GetInt("top-n")
	}
	if cmd.PersistentFlags().Changed("min-votes") {
		conf.Strategy.MinVotes, _ = cmd.PersistentFlags().GetInt("min-votes")
	}
	if cmd.PersistentFlags().Changed("neighbors") {
		conf.Strategy.Neighbors, _ = cmd.PersistentFlags().GetInt("neighbors")
	}
	return conf
}

// runSession drives the interactive prompt until the user quits, then
// persists the session.
func runSession(e *engine.Engine, data *dataset.Dataset, snapshotPath string, topN int) {
	fmt.Printf("Loaded %s: %d users, %d items. Strategy: %s.\n",
		data.Name(), data.CountUsers(), data.CountItems(), e.Strategy().Name())
	fmt.Printf("Some user ids to try: %s\n", strings.Join(e.SampleUsers(5), ", "))
	fmt.Println("Enter a user id, or Q to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("user> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		switch {
		case input == "":
			continue
		case strings.EqualFold(input, "q"), strings.EqualFold(input, "quit"):
			if err := e.SaveSnapshot(snapshotPath, data); err != nil {
				log.Logger().Error("failed to save snapshot", zap.Error(err))
			}
			fmt.Println("Bye!")
			return
		default:
			if !e.HasUser(input) {
				fmt.Printf("Unknown user %q. Some user ids to try: %s\n",
					input, strings.Join(e.SampleUsers(5), ", "))
				continue
			}
			if !serveUser(scanner, e, data, input, topN) {
				// the user quit from the action prompt
				if err := e.SaveSnapshot(snapshotPath, data); err != nil {
					log.Logger().Error("failed to save snapshot", zap.Error(err))
				}
				fmt.Println("Bye!")
				return
			}
		}
	}
	// stdin closed without an explicit quit, still persist the session
	if err := e.SaveSnapshot(snapshotPath, data); err != nil {
		log.Logger().Error("failed to save snapshot", zap.Error(err))
	}
}

// serveUser runs the per-user action prompt. It returns false when the
// user asked to quit the whole session.
func serveUser(scanner *bufio.Scanner, e *engine.Engine, data *dataset.Dataset, userId string, topN int) bool {
	for {
		fmt.Printf("%s action ([R]ecommend, [E]valuate, [B]ack, [Q]uit)> ", userId)
		if !scanner.Scan() {
			return false
		}
		switch action := strings.TrimSpace(scanner.Text()); {
		case strings.EqualFold(action, "r"):
			if !e.Recommend(userId, topN) {
				fmt.Printf("The %s strategy cannot score items for user %s on this dataset.\n",
					e.Strategy().Name(), userId)
				continue
			}
			recommendations, _ := e.Recommendations(userId)
			if len(recommendations) == 0 {
				fmt.Printf("Nothing left to recommend to user %s.\n", userId)
				continue
			}
			fmt.Printf("Top %d recommendations for user %s:\n", len(recommendations), userId)
			renderPredictions(recommendations, data)
		case strings.EqualFold(action, "e"):
			evaluation, err := e.Evaluate(userId)
			if err != nil {
				fmt.Printf("The %s strategy cannot score items for user %s on this dataset.\n",
					e.Strategy().Name(), userId)
				continue
			}
			fmt.Println(evaluation.String())
		case strings.EqualFold(action, "b"):
			return true
		case strings.EqualFold(action, "q"), strings.EqualFold(action, "quit"):
			return false
		}
	}
}

func renderPredictions(predictions []engine.Prediction, data *dataset.Dataset) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"rank", "item", "score"})
	for rank, prediction := range predictions {
		name := prediction.ItemId
		if item, err := data.Item(prediction.ItemId); err == nil {
			name = item.String()
		}
		table.Append([]string{
			strconv.Itoa(rank + 1),
			name,
			fmt.Sprintf("%.3f", prediction.Score),
		})
	}
	table.Render()
}

func main() {
	if err := sessionCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
