// Package report prints patch results for the operator.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/geocine/sitepatch/internal/inspect"
	"github.com/geocine/sitepatch/internal/models"
)

// Printer writes one status line per result and a closing summary
type Printer struct {
	Out     io.Writer
	Verbose bool
	// Diff prints a unified diff for results carrying Before/After content
	Diff bool
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{Out: out}
}

// Results prints every result followed by the summary banner for action
// (e.g. "favicon", "navigation").
func (p *Printer) Results(action string, results []models.Result) error {
	for _, r := range results {
		if err := p.Result(r); err != nil {
			return err
		}
	}
	s := models.Summarize(results)
	_, err := fmt.Fprintf(p.Out, "\n%s: %d updated, %d unchanged, %d skipped, %d failed (%d files)\n",
		action, s.Updated, s.Unchanged, s.Skipped, s.Failed, s.Total())
	return err
}

// Result prints a single result
func (p *Printer) Result(r models.Result) error {
	var line string
	switch r.Status {
	case models.StatusUpdated:
		line = fmt.Sprintf("updated   %s (%s)", r.File, strings.Join(r.Changes, ", "))
	case models.StatusUnchanged:
		line = "unchanged " + r.File
	case models.StatusSkipped:
		line = "skipped   " + r.File
	case models.StatusFailed:
		line = "FAILED    " + r.File
	default:
		line = string(r.Status) + " " + r.File
	}
	if r.Reason != "" {
		line += ": " + r.Reason
	}
	if _, err := fmt.Fprintln(p.Out, line); err != nil {
		return err
	}

	if p.Verbose {
		for _, n := range r.Notes {
			if _, err := fmt.Fprintf(p.Out, "          note: %s\n", n); err != nil {
				return err
			}
		}
	}

	if p.Diff && r.Before != r.After {
		diff, err := Diff(r.File, r.Before, r.After)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(p.Out, diff); err != nil {
			return err
		}
	}
	return nil
}

// Checks prints page check reports and returns the number of pages with problems
func (p *Printer) Checks(reports []inspect.PageReport) (int, error) {
	bad := 0
	for _, r := range reports {
		var err error
		switch {
		case r.Missing:
			bad++
			_, err = fmt.Fprintf(p.Out, "missing   %s\n", r.File)
		case r.OK():
			_, err = fmt.Fprintf(p.Out, "ok        %s\n", r.File)
		default:
			bad++
			_, err = fmt.Fprintf(p.Out, "PROBLEMS  %s\n", r.File)
			for _, prob := range r.Problems {
				if err != nil {
					break
				}
				_, err = fmt.Fprintf(p.Out, "          - %s\n", prob)
			}
		}
		if err != nil {
			return bad, err
		}
	}
	_, err := fmt.Fprintf(p.Out, "\ncheck: %d of %d pages need attention\n", bad, len(reports))
	return bad, err
}

// Diff returns a unified diff between two versions of a file
func Diff(name, before, after string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  2,
	}
	out, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("failed to diff '%s': %w", name, err)
	}
	return out, nil
}
