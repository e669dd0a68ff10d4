// Package report renders inspection results for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/smazurov/movcat/internal/compat"
	"github.com/smazurov/movcat/internal/mov"
)

// Report bundles everything a single inspection run produced.
type Report struct {
	Files    []*mov.FileProfile `json:"files"`
	Findings []compat.Finding   `json:"findings,omitempty"`
}

// WriteJSON renders the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText renders a human-readable table of file profiles followed by
// compatibility findings, if any.
func WriteText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "FILE\tBRAND\tDURATION\tTRACKS")
	for _, p := range r.Files {
		fmt.Fprintf(tw, "%s\t%s\t%.2fs\t%s\n",
			p.Path, p.MajorBrand, p.DurationSeconds(), trackSummary(p))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Findings) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Findings:")
	for _, f := range r.Findings {
		fmt.Fprintf(w, "  [%s] %s: %s\n", f.Severity, f.Category, f.Message)
	}
	return nil
}

// trackSummary formats the track list compactly, e.g. "2 (video, audio)".
func trackSummary(p *mov.FileProfile) string {
	if len(p.Tracks) == 0 {
		return "0"
	}
	kinds := make([]string, 0, len(p.Tracks))
	for _, t := range p.Tracks {
		kinds = append(kinds, string(t.Kind))
	}
	return fmt.Sprintf("%d (%s)", len(p.Tracks), strings.Join(kinds, ", "))
}
