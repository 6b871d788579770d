// Package inspect verifies pages after patching without modifying them.
package inspect

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/geocine/sitepatch/internal/config"
	"github.com/geocine/sitepatch/internal/models"
	"github.com/geocine/sitepatch/internal/navigation"
	"github.com/geocine/sitepatch/internal/utils"
)

// PageReport lists what is wrong with one page. No problems means the page is
// in the state the patchers would leave it in.
type PageReport struct {
	File     string
	Missing  bool
	Problems []string
}

// OK reports whether the page passed every check
func (r PageReport) OK() bool {
	return !r.Missing && len(r.Problems) == 0
}

func (r *PageReport) addf(format string, args ...interface{}) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Checker runs the page checks
type Checker struct {
	Dir           string
	Pages         []models.Page
	ActiveClass   string
	LegacyTag     string
	LegacyClass   string
	FaviconMarker string
	Stylesheet    string
	Script        string
}

// NewChecker creates a checker from config
func NewChecker(cfg *config.Config) *Checker {
	return &Checker{
		Dir:           cfg.Site.Dir,
		Pages:         cfg.Pages(),
		ActiveClass:   cfg.Nav.ActiveClass,
		LegacyTag:     cfg.Nav.LegacyTag,
		LegacyClass:   cfg.Nav.LegacyClass,
		FaviconMarker: cfg.Favicon.Marker,
		Stylesheet:    cfg.Assets.Stylesheet.Marker,
		Script:        cfg.Assets.Script.Marker,
	}
}

// Run checks every configured page. Absent pages are reported as missing.
func (c *Checker) Run(ctx context.Context) ([]PageReport, error) {
	reports := make([]PageReport, 0, len(c.Pages))
	for _, page := range c.Pages {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		path := filepath.Join(c.Dir, page.File)
		if !utils.FileExists(path) {
			reports = append(reports, PageReport{File: page.File, Missing: true})
			continue
		}
		content, err := utils.ReadToString(path)
		if err != nil {
			return reports, err
		}
		report, err := c.Check(content, page)
		if err != nil {
			return reports, fmt.Errorf("failed to check '%s': %w", path, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Check inspects a single document
func (c *Checker) Check(content string, page models.Page) (PageReport, error) {
	report := PageReport{File: page.File}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return report, err
	}

	if c.FaviconMarker != "" && !hasRef(doc.Find(`link[rel~="icon"]`), "href", c.FaviconMarker) {
		report.addf("no favicon link")
	}
	if c.Stylesheet != "" && !hasRef(doc.Find(`link[rel="stylesheet"]`), "href", c.Stylesheet) {
		report.addf("no %s stylesheet", c.Stylesheet)
	}
	if c.Script != "" && !hasRef(doc.Find("script[src]"), "src", c.Script) {
		report.addf("no %s script", c.Script)
	}

	legacy := c.LegacyTag
	if c.LegacyClass != "" {
		legacy += "." + c.LegacyClass
	}
	if n := doc.Find(legacy).Length(); n > 0 {
		report.addf("%d legacy %s element(s) left", n, legacy)
	}

	containers := doc.Find("div." + navigation.ContainerClass)
	if n := containers.Length(); n != 1 {
		report.addf("expected 1 nav block, found %d", n)
		return report, nil
	}

	if c.ActiveClass == "" {
		return report, nil
	}
	for _, list := range []struct{ name, sel string }{
		{"desktop", "ul.pill-list a.pill"},
		{"mobile", "ul.mobile-menu-list a.mobile-menu-link"},
	} {
		var active []string
		containers.Find(list.sel).Each(func(_ int, s *goquery.Selection) {
			if s.HasClass(c.ActiveClass) {
				// desktop pills repeat the label for the hover effect, aria-label holds it once
				active = append(active, s.AttrOr("aria-label", strings.TrimSpace(s.Text())))
			}
		})
		switch {
		case !page.HasActive() && len(active) > 0:
			report.addf("%s nav marks %q active, expected none", list.name, strings.Join(active, ", "))
		case page.HasActive() && (len(active) != 1 || active[0] != page.Active):
			report.addf("%s nav marks %q active, expected %q", list.name, strings.Join(active, ", "), page.Active)
		}
	}
	return report, nil
}

func hasRef(sel *goquery.Selection, attr, marker string) bool {
	found := false
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr(attr); ok && strings.Contains(v, marker) {
			found = true
			return false
		}
		return true
	})
	return found
}
