package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/on-the-ground/boundrun/shared/lru"
)

// Report is the JSON document written by --out.
type Report struct {
	Limit    int          `json:"limit"`
	Store    string       `json:"store"`
	Words    int          `json:"words"`
	Terms    []TermResult `json:"terms"`
	LRUStats *lru.Stats   `json:"lru_stats,omitempty"`
}

func writeReport(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// printResults writes one line per prefix, e.g. "go: golang, gopher".
func printResults(out io.Writer, results []TermResult) {
	for _, r := range results {
		for _, s := range r.Suggestions {
			switch {
			case s.Error != "":
				fmt.Fprintf(out, "%s: error: %s\n", s.Prefix, s.Error)
			case len(s.Words) == 0:
				fmt.Fprintf(out, "%s: -\n", s.Prefix)
			default:
				fmt.Fprintf(out, "%s: %s\n", s.Prefix, strings.Join(s.Words, ", "))
			}
		}
	}
}
