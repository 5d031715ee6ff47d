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
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/festival-lineup/internal/catalog"
)

const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

type Analysis struct {
	results [][]string
	summary string
	user    string

	// data is the structured result, written for the yaml and json formats.
	data interface{}
}

type AnalyserConfig struct {
	// Number of results to return, default is all results.
	NumToReturn int
}

type Analyser interface {
	// Options says what the analysis needs collected.
	Options() catalog.CollectOptions

	GetResults(data *catalog.Collection) (Analysis, error)

	GetName() string
}

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	if len(a.results) > 0 {
		table := tablewriter.NewWriter(out)
		table.Header(a.results[0])
		for _, row := range a.results[1:] {
			if err := table.Append(row); err != nil {
				return fmt.Sprintf("Error rendering table: %v", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	fmt.Fprintf(out, "%s\n", a.summary)
	return out.String()
}

// Write renders the analysis in format.
func (a Analysis) Write(w io.Writer, format string) error {
	switch format {
	case formatTable, "":
		_, err := fmt.Fprint(w, a.String())
		return err
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(a.data); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return encoder.Close()
	case formatJSON:
		out, err := json.MarshalIndent(a.data, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	}
	return fmt.Errorf("unknown format %q, must be %s, %s or %s", format, formatTable, formatYAML, formatJSON)
}

// runAnalyser collects what the analyser needs from src and runs it.
func runAnalyser(ctx context.Context, src catalog.Source, a Analyser) (Analysis, error) {
	data, err := catalog.NewCollector(src, collectOptions(a.Options())).Collect(ctx)
	if err != nil {
		return Analysis{}, fmt.Errorf("collecting data for %s: %w", a.GetName(), err)
	}
	result, err := a.GetResults(data)
	if err != nil {
		return Analysis{}, err
	}
	result.user = data.User.DisplayName
	return result, nil
}
