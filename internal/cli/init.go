package cli

import (
	"fmt"
	"path/filepath"

	"github.com/geocine/sitepatch/internal/config"
	"github.com/geocine/sitepatch/internal/utils"
)

// InitOptions captures options for writing a starter config
type InitOptions struct {
	Root    string // directory the config file is written to, default "."
	SiteDir string // site.dir value, default "."
	Title   string // site.title value; defaults to the built-in title
}

// Init writes a sitepatch.toml holding the default settings into opts.Root.
// It never overwrites an existing config. The written path is returned.
func Init(opts InitOptions) (string, error) {
	if opts.Root == "" {
		opts.Root = "."
	}

	cfg := config.NewDefaultConfig()
	if opts.SiteDir != "" {
		cfg.Site.Dir = opts.SiteDir
	}
	if opts.Title != "" {
		cfg.Site.Title = opts.Title
	}

	path := filepath.Join(opts.Root, config.DefaultFile)
	if utils.FileExists(path) {
		return path, fmt.Errorf("'%s' already exists", path)
	}

	body, err := cfg.Encode()
	if err != nil {
		return path, err
	}
	header := []byte("# sitepatch configuration\n# Pages listed under [[nav.pages]] get the pill navigation.\n\n")
	if err := utils.WriteFile(path, append(header, body...)); err != nil {
		return path, err
	}
	return path, nil
}
