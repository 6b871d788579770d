// Package favicon adds a favicon link to every HTML page of a site.
package favicon

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/geocine/sitepatch/internal/config"
	"github.com/geocine/sitepatch/internal/markup"
	"github.com/geocine/sitepatch/internal/models"
	"github.com/geocine/sitepatch/internal/utils"
)

// TitleClose is the anchor the favicon link is inserted after
const TitleClose = "</title>"

// Patcher inserts the favicon tag after the first </title> of each page
// that does not already mention the marker.
type Patcher struct {
	Dir     string
	Include string
	Rule    markup.InsertRule
	DryRun  bool
}

// NewPatcher creates a patcher from config
func NewPatcher(cfg *config.Config) *Patcher {
	return &Patcher{
		Dir:     cfg.Site.Dir,
		Include: cfg.Favicon.Include,
		Rule:    markup.InsertAfter("favicon", cfg.Favicon.Marker, TitleClose, "\n"+cfg.Favicon.Tag),
	}
}

// SetDryRun toggles dry-run mode
func (p *Patcher) SetDryRun(v bool) {
	p.DryRun = v
}

// Run patches every matching file in the site directory. The first read or
// write error stops the run and is returned with the results gathered so far.
func (p *Patcher) Run(ctx context.Context) ([]models.Result, error) {
	files, err := utils.GlobFiles(p.Dir, p.Include)
	if err != nil {
		return nil, err
	}
	slog.Debug("scanning for pages", "dir", p.Dir, "pattern", p.Include, "count", len(files))

	results := make([]models.Result, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		path := filepath.Join(p.Dir, filepath.FromSlash(name))
		content, err := utils.ReadToString(path)
		if err != nil {
			return results, err
		}

		out, res := p.Patch(content)
		res.File = name
		if p.DryRun {
			res.Before, res.After = content, out
		} else if res.Status == models.StatusUpdated {
			if err := utils.WriteFile(path, []byte(out)); err != nil {
				return append(results, res), err
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// Patch applies the favicon rule to a single document
func (p *Patcher) Patch(doc string) (string, models.Result) {
	out, outcome := p.Rule.Apply(doc)
	switch outcome {
	case markup.Applied:
		return out, models.Result{Status: models.StatusUpdated, Changes: []string{p.Rule.Name}}
	case markup.Present:
		return doc, models.Result{Status: models.StatusUnchanged, Reason: "already has favicon"}
	default:
		return doc, models.Result{Status: models.StatusSkipped, Reason: "no " + TitleClose + " anchor"}
	}
}
