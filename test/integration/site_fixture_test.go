package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/sitepatch/internal/config"
	"github.com/geocine/sitepatch/internal/favicon"
	"github.com/geocine/sitepatch/internal/inspect"
	"github.com/geocine/sitepatch/internal/models"
	"github.com/geocine/sitepatch/internal/navigation"
	th "github.com/geocine/sitepatch/test"
)

func byFile(results []models.Result) map[string]models.Result {
	m := make(map[string]models.Result, len(results))
	for _, r := range results {
		m[r.File] = r
	}
	return m
}

func snapshot(t *testing.T, dir string) map[string]string {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	out := map[string]string{}
	for _, e := range entries {
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		out[e.Name()] = string(b)
	}
	return out
}

func TestSiteFixtureFullPatch(t *testing.T) {
	dir := th.CopyFixture(t, "site")
	cfg := config.NewDefaultConfig()
	cfg.Site.Dir = dir
	ctx := context.Background()

	// favicon
	favResults, err := favicon.NewPatcher(cfg).Run(ctx)
	require.NoError(t, err)
	require.Len(t, favResults, 5)
	for _, r := range favResults {
		assert.Equal(t, models.StatusUpdated, r.Status, r.File)
	}

	// navigation
	b, err := navigation.NewBuilder(cfg, os.DirFS(th.RepoRoot()))
	require.NoError(t, err)
	rw := navigation.NewRewriter(cfg, b)
	navResults, err := rw.Run(ctx)
	require.NoError(t, err)

	res := byFile(navResults)
	assert.Equal(t, models.StatusUpdated, res["about.html"].Status)
	assert.Equal(t, models.StatusUpdated, res["ebooks.html"].Status)
	assert.Equal(t, models.StatusUpdated, res["contact.html"].Status)
	assert.Equal(t, models.StatusFailed, res["blogs.html"].Status)
	assert.Equal(t, models.StatusSkipped, res["lectures.html"].Status)
	_, listed := res["index.html"]
	assert.False(t, listed, "index.html is not in the page table")

	// the rejected page only got its favicon
	blogs := th.IntegrationData("site", "blogs.html")
	original, err := os.ReadFile(blogs)
	require.NoError(t, err)
	patchedBlogs, err := os.ReadFile(filepath.Join(dir, "blogs.html"))
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(string(original), "</title>", "</title>\n"+cfg.Favicon.Tag, 1), string(patchedBlogs))

	// structural checks on the patched pages
	reports, err := inspect.NewChecker(cfg).Run(ctx)
	require.NoError(t, err)
	for _, r := range reports {
		switch r.File {
		case "about.html", "ebooks.html", "contact.html":
			assert.True(t, r.OK(), "%s: %v", r.File, r.Problems)
		case "blogs.html":
			assert.False(t, r.OK())
		default:
			assert.True(t, r.Missing, r.File)
		}
	}

	// article headers survive, only the site header was replaced
	about, err := os.ReadFile(filepath.Join(dir, "about.html"))
	require.NoError(t, err)
	assert.Contains(t, string(about), "<header><h2>About</h2></header>")
	assert.Contains(t, string(about), `<footer class="site-footer">`)

	// a second pass over both patchers changes nothing
	before := snapshot(t, dir)
	favResults, err = favicon.NewPatcher(cfg).Run(ctx)
	require.NoError(t, err)
	for _, r := range favResults {
		assert.Equal(t, models.StatusUnchanged, r.Status, r.File)
	}
	navResults, err = rw.Run(ctx)
	require.NoError(t, err)
	for _, r := range navResults {
		assert.NotEqual(t, models.StatusUpdated, r.Status, r.File)
	}
	assert.Equal(t, before, snapshot(t, dir))
}
