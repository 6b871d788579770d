package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/geocine/sitepatch/internal/config"
	"github.com/geocine/sitepatch/internal/markup"
	"github.com/geocine/sitepatch/internal/models"
	"github.com/geocine/sitepatch/internal/utils"
)

// Rewriter swaps the legacy site header for the pill navigation on each
// configured page and makes sure the nav stylesheet and script are linked.
type Rewriter struct {
	Dir     string
	Pages   []models.Page
	Builder *Builder

	Stylesheet markup.InsertRule
	Script     markup.InsertRule

	// Legacy is the old header; Generated is a block written by an earlier run.
	Legacy    markup.Selector
	Generated markup.Selector

	// DryRun leaves files untouched and fills Result.Before/After instead.
	DryRun bool
}

// NewRewriter creates a rewriter from config
func NewRewriter(cfg *config.Config, b *Builder) *Rewriter {
	css := cfg.Assets.Stylesheet
	js := cfg.Assets.Script
	return &Rewriter{
		Dir:        cfg.Site.Dir,
		Pages:      cfg.Pages(),
		Builder:    b,
		Stylesheet: markup.InsertAfter("stylesheet", css.Marker, css.Anchor, "\n    "+css.Tag),
		Script:     markup.InsertBefore("script", js.Marker, js.Anchor, js.Tag+"\n    "),
		Legacy:     markup.Selector{Tag: cfg.Nav.LegacyTag, Class: cfg.Nav.LegacyClass},
		Generated:  markup.Selector{Tag: "div", Class: ContainerClass, Lead: LeadComment},
	}
}

// SetDryRun toggles dry-run mode
func (rw *Rewriter) SetDryRun(v bool) {
	rw.DryRun = v
}

// Run processes every configured page in order. Missing pages are skipped and
// rejected documents are reported as failed; both let the run continue. A read
// or write error stops the run and is returned with the results gathered so far.
func (rw *Rewriter) Run(ctx context.Context) ([]models.Result, error) {
	results := make([]models.Result, 0, len(rw.Pages))
	for _, page := range rw.Pages {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		path := filepath.Join(rw.Dir, page.File)
		if !utils.FileExists(path) {
			slog.Debug("page not found", "file", page.File, "dir", rw.Dir)
			results = append(results, models.Result{File: page.File, Status: models.StatusSkipped, Reason: "not found"})
			continue
		}

		content, err := utils.ReadToString(path)
		if err != nil {
			return results, err
		}

		out, res := rw.Rewrite(content, page)
		if rw.DryRun {
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

// Rewrite applies the stylesheet, header and script edits to one document.
// On failure the original document is returned unchanged.
func (rw *Rewriter) Rewrite(doc string, page models.Page) (string, models.Result) {
	res := models.Result{File: page.File}
	out := doc

	out = rw.applyRule(rw.Stylesheet, out, &res)

	block, err := rw.Builder.Render(page.Active)
	if err != nil {
		return doc, failed(res, err.Error())
	}
	replaced, err := rw.replaceHeader(out, block)
	if err != nil {
		return doc, failed(res, err.Error())
	}
	if replaced != out {
		res.AddChange("header")
	}
	out = replaced

	out = rw.applyRule(rw.Script, out, &res)

	if out == doc {
		res.Status = models.StatusUnchanged
		res.Changes = nil
		return doc, res
	}
	res.Status = models.StatusUpdated
	return out, res
}

func (rw *Rewriter) applyRule(rule markup.InsertRule, doc string, res *models.Result) string {
	out, outcome := rule.Apply(doc)
	switch outcome {
	case markup.Applied:
		res.AddChange(rule.Name)
	case markup.NoAnchor:
		res.AddNote("%s anchor %q not found", rule.Name, rule.Anchor)
	}
	return out
}

// replaceHeader finds the single nav region, either the legacy header or a block
// from a previous run, and replaces it with block.
func (rw *Rewriter) replaceHeader(doc, block string) (string, error) {
	legacy, err := markup.FindRegions(doc, rw.Legacy)
	if err != nil {
		return doc, err
	}
	generated, err := markup.FindRegions(doc, rw.Generated)
	if err != nil {
		return doc, err
	}

	regions := markup.Outermost(append(legacy, generated...))
	out, err := markup.ReplaceOne(doc, regions, block)
	switch {
	case errors.Is(err, markup.ErrNoRegion):
		return doc, fmt.Errorf("no <%s> or generated nav block found", rw.Legacy)
	case errors.Is(err, markup.ErrAmbiguousRegion):
		return doc, fmt.Errorf("%d navigation regions found, expected exactly one", len(regions))
	case err != nil:
		return doc, err
	}
	return out, nil
}

func failed(res models.Result, reason string) models.Result {
	res.Status = models.StatusFailed
	res.Reason = reason
	res.Changes = nil
	return res
}
