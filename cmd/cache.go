/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/festival-lineup/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Shows, and optionally prunes, the catalog cache",
	Long:  `Prints how many artists, tags and similar artists are cached. With --prune, first removes artists with nothing cached more recently than the given duration.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := printCache(viper.GetString("database"), viper.GetDuration("prune"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	var prune time.Duration
	cacheCmd.Flags().DurationVar(&prune, "prune", 0, "Remove artists not refreshed within this duration (e.g. 2160h)")
	viper.BindPFlag("prune", cacheCmd.Flags().Lookup("prune"))
}

func printCache(dbPath string, prune time.Duration) error {
	a, err := cacheAnalysis(dbPath, prune)
	if err != nil {
		return err
	}
	fmt.Println(a)
	return nil
}

func cacheAnalysis(dbPath string, prune time.Duration) (Analysis, error) {
	var a Analysis
	if prune < 0 {
		return a, fmt.Errorf("--prune must not be negative, got %v", prune)
	}

	db, err := store.New(dbPath)
	if err != nil {
		return a, fmt.Errorf("opening catalog cache: %w", err)
	}
	defer db.Close()

	var removed int64
	if prune > 0 {
		removed, err = db.Prune(prune)
		if err != nil {
			return a, err
		}
	}

	stats, err := db.Stats()
	if err != nil {
		return a, err
	}

	const dateFormat = "2006-01-02"
	age := func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format(dateFormat)
	}
	a.results = [][]string{
		{"Artists", "Tags", "Similar artists", "Oldest", "Newest"},
		{
			strconv.Itoa(stats.Artists),
			strconv.Itoa(stats.Tags),
			strconv.Itoa(stats.SimilarArtists),
			age(stats.Oldest),
			age(stats.Newest),
		},
	}
	a.summary = fmt.Sprintf("Pruned %d artists from %s", removed, dbPath)
	return a, nil
}
