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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/lastfm"
)

type UpdateConfig struct {
	Source SourceConfig
	Force  bool
	Stale  bool
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetches catalog data from last.fm",
	Long: `Warms the local catalog cache with tags, listener counts and similar
artists for the user's top artists, so later runs make fewer requests.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := UpdateConfig{
			Source: sourceConfigFromViper(),
			Force:  viper.GetBool("force"),
			Stale:  viper.GetBool("stale"),
		}
		config.Source.Kind = sourceLastfm

		err := updateCache(cmd.Context(), config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	var force bool
	updateCmd.Flags().BoolVarP(&force, "force", "f", false, "Re-fetch everything, regardless of what's already cached")
	viper.BindPFlag("force", updateCmd.Flags().Lookup("force"))

	var stale bool
	updateCmd.Flags().BoolVar(&stale, "stale", true, "Also refresh every other cached artist older than cache_ttl")
	viper.BindPFlag("stale", updateCmd.Flags().Lookup("stale"))
}

func updateCache(ctx context.Context, config UpdateConfig) error {
	if config.Force {
		config.Source.CacheTTL = 0
	}
	src, db, err := openLastfm(config.Source)
	if err != nil {
		return err
	}
	defer db.Close()

	before, err := db.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Catalog cache holds %d artists\n", before.Artists)

	fmt.Printf("Updating catalog for %q\n", config.Source.User)
	opts := collectOptions(catalog.LineupOptions())
	opts.SkipRecent = true
	data, err := catalog.NewCollector(src, opts).Collect(ctx)
	if err != nil {
		return fmt.Errorf("fetching top artists: %w", err)
	}
	fmt.Printf("Fetched %d top artists and %d related sets\n", len(data.TopArtists.All()), len(data.Related))

	// Everything was just re-fetched.
	if config.Stale && !config.Force {
		if err := refreshStale(ctx, src); err != nil {
			return err
		}
	}

	after, err := db.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Catalog cache now holds %d artists, %d tags and %d similar artists\n",
		after.Artists, after.Tags, after.SimilarArtists)
	return nil
}

func refreshStale(ctx context.Context, src *lastfm.Source) error {
	fmt.Println("Refreshing stale artists...")
	n, err := src.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refreshing stale artists: %w", err)
	}
	fmt.Printf("Refreshed %d artists\n", n)
	return nil
}
