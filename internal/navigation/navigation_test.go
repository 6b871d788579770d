package navigation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/sitepatch/internal/config"
	"github.com/geocine/sitepatch/internal/models"
	"github.com/geocine/sitepatch/internal/testutil"
)

// repoAssets exposes frontend/templates from the repository root
var repoAssets = os.DirFS(filepath.Join("..", ".."))

func newBuilder(t *testing.T, cfg *config.Config) *Builder {
	b, err := NewBuilder(cfg, repoAssets)
	require.NoError(t, err)
	return b
}

func newRewriter(t *testing.T, dir string) *Rewriter {
	cfg := config.NewDefaultConfig()
	cfg.Site.Dir = dir
	return NewRewriter(cfg, newBuilder(t, cfg))
}

func parse(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestBuildItems(t *testing.T) {
	items := BuildItems([]string{"Home", "About", "Contact"}, "index.html", "About")
	assert.Equal(t, []models.NavItem{
		{Label: "Home", Href: "index.html"},
		{Label: "About", Href: "about.html", Active: true},
		{Label: "Contact", Href: "contact.html"},
	}, items)

	for _, it := range BuildItems([]string{"Home", "About"}, "index.html", "") {
		assert.False(t, it.Active, it.Label)
	}
	// a label that is not in the list marks nothing
	for _, it := range BuildItems([]string{"Home", "About"}, "index.html", "Ebooks") {
		assert.False(t, it.Active, it.Label)
	}
}

func TestRenderMarksOnlyActiveEntry(t *testing.T) {
	b := newBuilder(t, config.NewDefaultConfig())
	block, err := b.Render("About")
	require.NoError(t, err)

	doc := parse(t, block)
	desktop := doc.Find("ul.pill-list a.pill.is-active")
	require.Equal(t, 1, desktop.Length())
	assert.Equal(t, "About", desktop.AttrOr("aria-label", ""))
	href, _ := desktop.Attr("href")
	assert.Equal(t, "about.html", href)

	mobile := doc.Find("ul.mobile-menu-list a.mobile-menu-link.is-active")
	require.Equal(t, 1, mobile.Length())
	assert.Equal(t, "About", mobile.Text())

	assert.Equal(t, 8, doc.Find("ul.pill-list li").Length())
	assert.Equal(t, 8, doc.Find("ul.mobile-menu-list li").Length())
	home, _ := doc.Find("ul.pill-list a.pill").First().Attr("href")
	assert.Equal(t, "index.html", home)
	assert.Equal(t, "Psychoanalytically Speaking", strings.TrimSpace(doc.Find("a.pill-logo h1.site-title").Text()))
}

func TestRenderWithoutActiveLabel(t *testing.T) {
	b := newBuilder(t, config.NewDefaultConfig())
	block, err := b.Render("")
	require.NoError(t, err)

	doc := parse(t, block)
	assert.Equal(t, 0, doc.Find(".is-active").Length())
	assert.NotContains(t, block, "is-active")
}

func TestRenderIsDeterministic(t *testing.T) {
	cfg := config.NewDefaultConfig()
	first, err := newBuilder(t, cfg).Render("Lectures")
	require.NoError(t, err)
	second, err := newBuilder(t, cfg).Render("Lectures")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.True(t, strings.HasPrefix(first, "<!-- "+LeadComment+" -->"))
	assert.True(t, strings.HasSuffix(first, "</div>"))
}

func TestRenderEscapesTitle(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Site.Title = "Freud & <Friends>"
	block, err := newBuilder(t, cfg).Render("")
	require.NoError(t, err)
	assert.Contains(t, block, "Freud &amp; &lt;Friends&gt;")
}

func TestRewriteLegacyPage(t *testing.T) {
	rw := newRewriter(t, ".")
	page := testutil.LegacyPage("About")

	out, res := rw.Rewrite(page, models.Page{File: "about.html", Active: "About"})
	require.Equal(t, models.StatusUpdated, res.Status, res.Reason)
	assert.Equal(t, []string{"stylesheet", "header", "script"}, res.Changes)

	assert.NotContains(t, out, `class="site-header"`)
	assert.Contains(t, out, "<link rel=\"stylesheet\" href=\"css/animations.css\">\n    <link rel=\"stylesheet\" href=\"css/pill-nav.css\">")
	assert.Contains(t, out, "<script src=\"js/pill-nav.js\"></script>\n    <script src=\"js/main.js\"></script>")

	// bytes outside the header are untouched
	end := strings.Index(page, "</header>") + len("</header>")
	assert.True(t, strings.HasSuffix(out, strings.Replace(page[end:], `<script src="js/main.js">`, "<script src=\"js/pill-nav.js\"></script>\n    <script src=\"js/main.js\">", 1)))
	assert.Contains(t, out, "<body>\n  <!-- "+LeadComment+" -->")

	doc := parse(t, out)
	assert.Equal(t, 1, doc.Find("div."+ContainerClass).Length())
	assert.Equal(t, "About", doc.Find("a.pill.is-active").AttrOr("aria-label", ""))
	assert.Equal(t, "About", strings.TrimSpace(doc.Find("main h2").Text()))
}

func TestRewriteIsIdempotent(t *testing.T) {
	rw := newRewriter(t, ".")
	page := models.Page{File: "ebooks.html"}

	once, res := rw.Rewrite(testutil.LegacyPage("Ebooks"), page)
	require.Equal(t, models.StatusUpdated, res.Status)

	twice, res := rw.Rewrite(once, page)
	assert.Equal(t, models.StatusUnchanged, res.Status)
	assert.Empty(t, res.Changes)
	assert.Equal(t, once, twice)
}

func TestRewriteRegeneratesPreviousBlock(t *testing.T) {
	rw := newRewriter(t, ".")
	// a page written for "About" that is now configured for "Contact"
	once, _ := rw.Rewrite(testutil.LegacyPage("Contact"), models.Page{File: "contact.html", Active: "About"})

	out, res := rw.Rewrite(once, models.Page{File: "contact.html", Active: "Contact"})
	require.Equal(t, models.StatusUpdated, res.Status)
	assert.Equal(t, []string{"header"}, res.Changes)
	assert.Equal(t, 1, strings.Count(out, LeadComment))
	assert.Equal(t, "Contact", parse(t, out).Find("a.pill.is-active").AttrOr("aria-label", ""))
}

func TestRewriteRejectsMissingHeader(t *testing.T) {
	rw := newRewriter(t, ".")
	doc := `<html><head><title>x</title><link rel="stylesheet" href="css/animations.css"></head><body><p>no header</p></body></html>`

	out, res := rw.Rewrite(doc, models.Page{File: "x.html"})
	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Contains(t, res.Reason, "no <header.site-header>")
	assert.Equal(t, doc, out)
}

func TestRewriteRejectsSeveralHeaders(t *testing.T) {
	rw := newRewriter(t, ".")
	doc := `<header class="site-header">a</header><main></main><header class="site-header">b</header>`

	out, res := rw.Rewrite(doc, models.Page{File: "x.html"})
	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Contains(t, res.Reason, "2 navigation regions")
	assert.Equal(t, doc, out)
}

func TestRewriteNotesMissingAnchors(t *testing.T) {
	rw := newRewriter(t, ".")
	doc := `<header class="site-header">old</header>`

	out, res := rw.Rewrite(doc, models.Page{File: "x.html"})
	require.Equal(t, models.StatusUpdated, res.Status)
	assert.Equal(t, []string{"header"}, res.Changes)
	assert.Len(t, res.Notes, 2)
	assert.NotContains(t, out, "pill-nav.css")
}

func TestRunSkipsMissingPages(t *testing.T) {
	dir := testutil.TempSite(t)
	testutil.WriteFile(t, dir, "about.html", testutil.LegacyPage("About"))

	rw := newRewriter(t, dir)
	results, err := rw.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, len(rw.Pages))

	byFile := map[string]models.Result{}
	for _, r := range results {
		byFile[r.File] = r
	}
	assert.Equal(t, models.StatusUpdated, byFile["about.html"].Status)
	assert.Equal(t, models.StatusSkipped, byFile["lectures.html"].Status)
	assert.Equal(t, "not found", byFile["lectures.html"].Reason)
	assert.False(t, testutil.FileExists(t, filepath.Join(dir, "lectures.html")))

	summary := models.Summarize(results)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, len(rw.Pages)-1, summary.Skipped)
}

func TestRunTwiceLeavesFilesStable(t *testing.T) {
	dir := testutil.TempSite(t)
	testutil.WriteFile(t, dir, "about.html", testutil.LegacyPage("About"))
	testutil.WriteFile(t, dir, "ebooks.html", testutil.LegacyPage("Ebooks"))

	rw := newRewriter(t, dir)
	_, err := rw.Run(context.Background())
	require.NoError(t, err)
	about := testutil.ReadFile(t, dir, "about.html")
	ebooks := testutil.ReadFile(t, dir, "ebooks.html")

	results, err := rw.Run(context.Background())
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, models.StatusUpdated, r.Status, r.File)
	}
	assert.Equal(t, about, testutil.ReadFile(t, dir, "about.html"))
	assert.Equal(t, ebooks, testutil.ReadFile(t, dir, "ebooks.html"))
	assert.Equal(t, 0, parse(t, ebooks).Find(".is-active").Length())
}

func TestRunLeavesFailedPageUntouched(t *testing.T) {
	dir := testutil.TempSite(t)
	broken := `<html><body><p>nothing to replace</p></body></html>`
	testutil.WriteFile(t, dir, "about.html", broken)
	testutil.WriteFile(t, dir, "contact.html", testutil.LegacyPage("Contact"))

	results, err := newRewriter(t, dir).Run(context.Background())
	require.NoError(t, err)

	summary := models.Summarize(results)
	assert.True(t, summary.HasFailures())
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, broken, testutil.ReadFile(t, dir, "about.html"))
}
