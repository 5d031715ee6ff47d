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

	"github.com/ademuri/festival-lineup/internal/analysis"
	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/genre"
)

var dnaCmd = &cobra.Command{
	Use:   "dna",
	Short: "Generates a music DNA report",
	Long: `Profiles the genres of your long-term top artists, how your recent
listening has shifted, and how diverse your listening is.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runDNA(cmd.Context(), viper.GetString("dna_format"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(dnaCmd)

	dnaCmd.Flags().StringP("format", "o", formatYAML, "Output format: yaml, json or table")
	viper.BindPFlag("dna_format", dnaCmd.Flags().Lookup("format"))
}

func runDNA(ctx context.Context, format string) error {
	src, closeSource, err := openSource(sourceConfigFromViper())
	if err != nil {
		return err
	}
	defer closeSource()

	a, err := runAnalyser(ctx, src, &DNAAnalyzer{Table: genre.DefaultTable()})
	if err != nil {
		return err
	}
	return a.Write(os.Stdout, format)
}

type DNAAnalyzer struct {
	Table genre.Table
}

func (d *DNAAnalyzer) GetName() string {
	return "Music DNA"
}

func (d *DNAAnalyzer) Options() catalog.CollectOptions {
	return catalog.DNAOptions()
}

func (d *DNAAnalyzer) GetResults(data *catalog.Collection) (Analysis, error) {
	report := analysis.BuildReport(data, d.Table)

	var a Analysis
	a.data = report
	a.results = [][]string{{"Genre", "Share", "Artists", "Specificity"}}
	for _, g := range report.GenreAnalysis.Primary {
		a.results = append(a.results, []string{
			g.Name,
			fmt.Sprintf("%.1f%%", g.Percentage),
			fmt.Sprintf("%d", g.ArtistCount),
			fmt.Sprintf("%.2f", g.Specificity),
		})
	}

	m := report.DiversityMetrics
	t := report.GenreAnalysis.Temporal
	var sb strings.Builder
	fmt.Fprintf(&sb, "Genre diversity %.2f. Recent listening is %s (%d%% shift)",
		report.GenreAnalysis.Diversity, t.RecentTrend, t.ShiftPercentage)
	if t.TopGrowingGenre != "" {
		fmt.Fprintf(&sb, ", growing into %s", t.TopGrowingGenre)
	}
	fmt.Fprintf(&sb, ".\nArtist diversity %d, genre diversity %d, discovery %d, loyalty %d, top artist dependency %d.",
		m.ArtistDiversityScore, m.GenreDiversityScore, m.DiscoveryScore, m.LoyaltyIndex, m.TopArtistDependency)
	a.summary = sb.String()

	return a, nil
}
