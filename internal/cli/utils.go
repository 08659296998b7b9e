// Package cli provides CLI utilities for Kioku.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kioku-dev/kioku/internal/models"
	"github.com/kioku-dev/kioku/pkg/utils"
)

// OutputFormat is the format for query result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteMatches writes query results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteMatches(w io.Writer, response *models.QueryResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeMatchesText(w, response)
		return nil
	}
}

func writeMatchesText(w io.Writer, response *models.QueryResponse) {
	fmt.Fprintf(w, "\nFound %d matches in %dms\n\n", len(response.Matches), response.QueryTime)
	for i, match := range response.Matches {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.4f\n", i+1, match.Score)
		fmt.Fprintf(w, "Record: %s", match.RecordID)
		if match.DocumentID != "" {
			fmt.Fprintf(w, " | Document: %s", match.DocumentID)
		}
		fmt.Fprintf(w, "\n\n%s\n\n", utils.Truncate(match.Text, 200))
	}
}

// PrintMatches prints query results to stdout in text format.
func PrintMatches(response *models.QueryResponse) {
	_ = WriteMatches(os.Stdout, response, OutputText)
}
