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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/lineup"
)

var lineupCmd = &cobra.Command{
	Use:   "lineup",
	Short: "Generates a personalised festival lineup",
	Long: `Scores your top artists, promotes the biggest to headliners, finds
discovery acts among related artists and spreads them over the festival days.

The lineup is tuned by the "lineup" block of the config file, for example:

  lineup:
    weights:
      frequency: 0.35
    days:
      count: 3`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runLineup(cmd.Context(), viper.GetString("lineup_format"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(lineupCmd)

	lineupCmd.Flags().StringP("format", "o", formatTable, "Output format: table, yaml or json")
	viper.BindPFlag("lineup_format", lineupCmd.Flags().Lookup("format"))
}

func runLineup(ctx context.Context, format string) error {
	cfg, err := lineupConfig()
	if err != nil {
		return err
	}

	src, closeSource, err := openSource(sourceConfigFromViper())
	if err != nil {
		return err
	}
	defer closeSource()

	a, err := runAnalyser(ctx, src, &LineupAnalyzer{Config: cfg})
	if err != nil {
		return err
	}
	return a.Write(os.Stdout, format)
}

type LineupAnalyzer struct {
	Config lineup.Config
}

func (l *LineupAnalyzer) GetName() string {
	return "Festival lineup"
}

func (l *LineupAnalyzer) Options() catalog.CollectOptions {
	return catalog.LineupOptions()
}

func (l *LineupAnalyzer) GetResults(data *catalog.Collection) (Analysis, error) {
	var a Analysis
	lu, err := lineup.Generate(data, l.Config)
	if err != nil {
		return a, err
	}
	a.data = lu

	a.results = [][]string{{"Day", "Slot", "Artist", "Genre", "Score"}}
	for _, day := range lu.Days {
		for _, artist := range day.Artists() {
			a.results = append(a.results, []string{
				day.Name,
				string(artist.Tier),
				artist.Name,
				artist.PrimaryGenre(),
				fmt.Sprintf("%.3f", artist.CompositeScore),
			})
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d artists across %d days for %s.", lu.TotalArtists, len(lu.Days), lu.UserName)
	if len(lu.DominantGenres) > 0 {
		fmt.Fprintf(&sb, " Dominant genres: %s.", strings.Join(lu.DominantGenres, ", "))
	}
	if data.IsFallback() {
		sb.WriteString(" No related artists were available, so discoveries are older favourites.")
	}
	a.summary = sb.String()

	return a, nil
}
