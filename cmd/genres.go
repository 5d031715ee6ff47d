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
	"strings"

	"github.com/spf13/cobra"

	"github.com/ademuri/festival-lineup/internal/genre"
)

var genresCmd = &cobra.Command{
	Use:   "genres [tag...]",
	Short: "Shows the genre table, or how tags are classified",
	Long: `With no arguments, lists the parent genres with their weights and
keywords, in matching order. With arguments, classifies each tag.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(genresAnalysis(genre.DefaultTable(), args))
	},
}

func init() {
	rootCmd.AddCommand(genresCmd)
}

func genresAnalysis(table genre.Table, tags []string) Analysis {
	var a Analysis
	if len(tags) == 0 {
		a.results = [][]string{{"Genre", "Weight", "Keywords"}}
		for _, c := range table.Categories() {
			a.results = append(a.results, []string{
				genre.FormatName(c.Name),
				fmt.Sprintf("%.1f", c.Weight),
				strings.Join(c.Keywords, ", "),
			})
		}
		a.summary = fmt.Sprintf("%d genres; unmatched tags are classified as %s", table.Len(), genre.FormatName(genre.Other))
		return a
	}

	a.results = [][]string{{"Tag", "Genre", "Specificity"}}
	for _, tag := range tags {
		c := table.Categorize(tag)
		a.results = append(a.results, []string{
			tag,
			genre.FormatName(c.Parent),
			fmt.Sprintf("%.2f", c.Specificity),
		})
	}
	a.summary = fmt.Sprintf("Classified %d tags", len(tags))
	return a
}
