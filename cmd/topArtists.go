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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/genre"
	"github.com/ademuri/festival-lineup/internal/lineup"
)

var topArtistsNumber int
var topArtistsCmd = &cobra.Command{
	Use:   "top-artists",
	Short: "Ranks the user's top artists by lineup score",
	Long:  `Shows how each known artist scores on frequency, recency, popularity and genre relevance.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopArtists(cmd.Context(), topArtistsNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)

	topArtistsCmd.Flags().IntVarP(&topArtistsNumber, "number", "n", 10, "number of results to return")
}

func printTopArtists(ctx context.Context, numToReturn int) error {
	if numToReturn < 0 {
		return fmt.Errorf("--number must not be negative, got %d", numToReturn)
	}
	cfg, err := lineupConfig()
	if err != nil {
		return err
	}

	src, closeSource, err := openSource(sourceConfigFromViper())
	if err != nil {
		return err
	}
	defer closeSource()

	analyser := TopArtistsAnalyzer{Config: AnalyserConfig{numToReturn}, Lineup: cfg}
	out, err := runAnalyser(ctx, src, analyser)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

type TopArtistsAnalyzer struct {
	Config AnalyserConfig
	Lineup lineup.Config
}

func (t TopArtistsAnalyzer) GetName() string {
	return "Top artists"
}

func (t TopArtistsAnalyzer) Options() catalog.CollectOptions {
	opts := catalog.LineupOptions()
	opts.SkipRelated = true
	return opts
}

func (t TopArtistsAnalyzer) GetResults(data *catalog.Collection) (analysis Analysis, err error) {
	profile := genre.BuildProfile(data.TopArtists.All())
	scored := lineup.ScoreAll(data, profile, t.Lineup)
	analysis.data = scored

	analysis.results = [][]string{{"Rank", "Artist", "Frequency", "Recency", "Popularity", "Genre", "Score"}}
	for i, a := range scored {
		if t.Config.NumToReturn != 0 && i >= t.Config.NumToReturn {
			break
		}
		analysis.results = append(analysis.results, []string{
			strconv.Itoa(i + 1),
			a.Name,
			fmt.Sprintf("%.2f", a.FrequencyScore),
			fmt.Sprintf("%.0f", a.RecencyScore),
			fmt.Sprintf("%.2f", a.PopularityScore),
			fmt.Sprintf("%.2f", a.GenreRelevance),
			fmt.Sprintf("%.3f", a.CompositeScore),
		})
	}

	analysis.summary = fmt.Sprintf("Found %d artists for %s, %d recently played\n",
		len(scored), data.User.DisplayName, len(data.Recent.ArtistIDs))
	return
}
