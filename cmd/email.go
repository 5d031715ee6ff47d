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
	"html"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/festival-lineup/internal/genre"
)

type SendEmailConfig struct {
	Source         SourceConfig
	From           string
	To             string
	Types          []string
	DryRun         bool
	SendgridApiKey string
}

var emailCmd = &cobra.Command{
	Use:   "email <address> <report...>",
	Short: "Sends an email report",
	Long: `Emails reports to the specified address.
  <report> is one or more of: dna, lineup, top-artists.`,
	Args: cobra.MinimumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return requiredFlag("from")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := SendEmailConfig{
			Source:         sourceConfigFromViper(),
			From:           viper.GetString("from"),
			To:             args[0],
			Types:          args[1:],
			DryRun:         viper.GetBool("dryRun"),
			SendgridApiKey: viper.GetString("sendgrid_api_key"),
		}
		err := sendEmail(cmd.Context(), config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))
}

func sendEmail(ctx context.Context, config SendEmailConfig) error {
	actions := make([]Analyser, 0, len(config.Types))
	for _, actionName := range config.Types {
		action, err := getActionFromName(actionName)
		if err != nil {
			return err
		}
		actions = append(actions, action)
	}
	if !config.DryRun && config.SendgridApiKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	src, closeSource, err := openSource(config.Source)
	if err != nil {
		return err
	}
	defer closeSource()

	results := make([]Analysis, 0, len(actions))
	for _, action := range actions {
		a, err := runAnalyser(ctx, src, action)
		if err != nil {
			return fmt.Errorf("getting results for %s: %w", action.GetName(), err)
		}
		results = append(results, a)
	}

	subject, out := generateEmailContent(actions, results)
	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, out)
		return nil
	}

	from := mail.NewEmail("festival-lineup", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, plainText(actions, results), out)
	client := sendgrid.NewSendClient(config.SendgridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendEmail: status %d: %s", resp.StatusCode, resp.Body)
	}
	fmt.Printf("Sent %s to %s\n", subject, config.To)
	return nil
}

func generateEmailContent(actions []Analyser, results []Analysis) (subject string, body string) {
	var out strings.Builder
	out.WriteString(`
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`)
	user := ""
	for i, action := range actions {
		a := results[i]
		if a.user != "" {
			user = a.user
		}
		out.WriteString("<div>\n")
		fmt.Fprintf(&out, "<h2>%s for %s:</h2>\n", html.EscapeString(action.GetName()), html.EscapeString(a.user))
		if len(a.results) <= 1 {
			out.WriteString("<div>Not enough listening data.</div>\n")
		} else {
			out.WriteString("<table>\n<thead>\n<tr>\n")
			for _, header := range a.results[0] {
				fmt.Fprintf(&out, "<th>%s</th>", html.EscapeString(header))
			}
			out.WriteString("\n</tr>\n</thead>\n<tbody>\n")
			for _, row := range a.results[1:] {
				out.WriteString("<tr>\n")
				for _, column := range row {
					fmt.Fprintf(&out, "<td>%s</td>\n", html.EscapeString(column))
				}
				out.WriteString("</tr>\n")
			}
			out.WriteString("</tbody>\n</table>\n")
		}
		fmt.Fprintf(&out, "<div>%s</div>\n</div>\n", strings.ReplaceAll(html.EscapeString(a.summary), "\n", "<br>"))
	}
	out.WriteString("  </body>\n</html>\n")

	// Subject line format: Festival lineup report for <User>
	subject = "Festival lineup report"
	if user != "" {
		subject += " for " + user
	}
	return subject, out.String()
}

func plainText(actions []Analyser, results []Analysis) string {
	var out strings.Builder
	for i, action := range actions {
		fmt.Fprintf(&out, "%s\n\n%s\n", action.GetName(), results[i])
	}
	return out.String()
}

func getActionFromName(actionName string) (Analyser, error) {
	switch actionName {
	case "dna":
		return &DNAAnalyzer{Table: genre.DefaultTable()}, nil
	case "lineup", "top-artists":
		cfg, err := lineupConfig()
		if err != nil {
			return nil, err
		}
		if actionName == "lineup" {
			return &LineupAnalyzer{Config: cfg}, nil
		}
		return TopArtistsAnalyzer{Config: AnalyserConfig{20}, Lineup: cfg}, nil
	}
	return nil, fmt.Errorf("Invalid report: %s", actionName)
}
