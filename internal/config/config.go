package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/geocine/sitepatch/internal/models"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "sitepatch.toml"

// SiteConfig describes the site being patched
type SiteConfig struct {
	Dir   string `toml:"dir"`   // Directory holding the HTML pages
	Title string `toml:"title"` // Title shown in the nav logo
}

// DefaultSiteConfig returns a site config with defaults
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Dir:   ".",
		Title: "Psychoanalytically Speaking",
	}
}

// FaviconConfig contains favicon patcher settings
type FaviconConfig struct {
	Include string `toml:"include"`
	Marker  string `toml:"marker"`
	Tag     string `toml:"tag"`
}

// DefaultFaviconConfig returns favicon settings with defaults
func DefaultFaviconConfig() FaviconConfig {
	return FaviconConfig{
		Include: "*.html",
		Marker:  "favicon.png",
		Tag:     `    <link rel="icon" type="image/png" href="favicon.png">`,
	}
}

// PageConfig pairs a page file with the nav label it highlights
type PageConfig struct {
	File   string `toml:"file"`
	Active string `toml:"active,omitempty"`
}

// NavConfig contains navigation rewriter settings
type NavConfig struct {
	Home        string       `toml:"home"`
	Labels      []string     `toml:"labels"`
	ActiveClass string       `toml:"active-class"`
	LegacyTag   string       `toml:"legacy-tag"`
	LegacyClass string       `toml:"legacy-class"`
	Pages       []PageConfig `toml:"pages"`
}

// DefaultNavConfig returns nav settings with defaults
func DefaultNavConfig() NavConfig {
	return NavConfig{
		Home:        "index.html",
		Labels:      []string{"Home", "About", "Approach", "Consultation", "Blogs", "Readings", "Lectures", "Contact"},
		ActiveClass: "is-active",
		LegacyTag:   "header",
		LegacyClass: "site-header",
		Pages: []PageConfig{
			{File: "about.html", Active: "About"},
			{File: "approach.html", Active: "Approach"},
			{File: "blogs.html", Active: "Blogs"},
			{File: "consultation.html", Active: "Consultation"},
			{File: "contact.html", Active: "Contact"},
			{File: "ebooks.html"},
			{File: "lectures.html", Active: "Lectures"},
			{File: "readings.html", Active: "Readings"},
			{File: "reading-groups.html"},
			{File: "special-requests.html"},
		},
	}
}

// AssetConfig describes a supporting asset reference that must be present on a page
type AssetConfig struct {
	Marker string `toml:"marker"`
	Anchor string `toml:"anchor"`
	Tag    string `toml:"tag"`
}

// AssetsConfig groups the stylesheet and script the pill nav depends on
type AssetsConfig struct {
	Stylesheet AssetConfig `toml:"stylesheet"`
	Script     AssetConfig `toml:"script"`
}

// DefaultAssetsConfig returns asset settings with defaults
func DefaultAssetsConfig() AssetsConfig {
	return AssetsConfig{
		Stylesheet: AssetConfig{
			Marker: "pill-nav.css",
			Anchor: `<link rel="stylesheet" href="css/animations.css">`,
			Tag:    `<link rel="stylesheet" href="css/pill-nav.css">`,
		},
		Script: AssetConfig{
			Marker: "pill-nav.js",
			Anchor: `<script src="js/main.js"></script>`,
			Tag:    `<script src="js/pill-nav.js"></script>`,
		},
	}
}

// Config is the top-level configuration
type Config struct {
	Site    SiteConfig    `toml:"site"`
	Favicon FaviconConfig `toml:"favicon"`
	Nav     NavConfig     `toml:"nav"`
	Assets  AssetsConfig  `toml:"assets"`
}

// NewDefaultConfig returns a config matching the site's original layout
func NewDefaultConfig() *Config {
	return &Config{
		Site:    DefaultSiteConfig(),
		Favicon: DefaultFaviconConfig(),
		Nav:     DefaultNavConfig(),
		Assets:  DefaultAssetsConfig(),
	}
}

// LoadFromFile loads configuration from a sitepatch.toml file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := LoadFromString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadFromString loads configuration from a TOML string
func LoadFromString(content string) (*Config, error) {
	cfg := NewDefaultConfig()
	var raw map[string]interface{}
	if err := toml.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	// Arrays given in the file replace the defaults instead of extending them.
	if nav, ok := raw["nav"].(map[string]interface{}); ok {
		if _, ok := nav["labels"]; ok {
			cfg.Nav.Labels = nil
		}
		if _, ok := nav["pages"]; ok {
			cfg.Nav.Pages = nil
		}
	}

	if err := toml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.UpdateFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the patchers cannot work with
func (c *Config) Validate() error {
	if len(c.Nav.Labels) == 0 {
		return fmt.Errorf("nav.labels must not be empty")
	}
	if c.Nav.LegacyTag == "" {
		return fmt.Errorf("nav.legacy-tag must not be empty")
	}
	seen := make(map[string]bool, len(c.Nav.Pages))
	for _, p := range c.Nav.Pages {
		if p.File == "" {
			return fmt.Errorf("nav.pages: entry without file")
		}
		if seen[p.File] {
			return fmt.Errorf("nav.pages: duplicate file %q", p.File)
		}
		seen[p.File] = true
	}
	return nil
}

// UpdateFromEnv updates config from environment variables
// Variables starting with SITEPATCH_ are used
// SITEPATCH_FOO_BAR -> foo-bar
// SITEPATCH_FOO__BAR -> foo.bar
func (c *Config) UpdateFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "SITEPATCH_") {
			continue
		}

		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "SITEPATCH_")
		configKey := strings.ToLower(key)
		configKey = strings.ReplaceAll(configKey, "__", ".")
		configKey = strings.ReplaceAll(configKey, "_", "-")

		c.Set(configKey, parts[1])
	}
}

// Set sets a configuration value using dot notation (e.g., "site.dir", "nav.active-class").
// Unknown keys are ignored.
func (c *Config) Set(key, value string) {
	switch strings.ToLower(key) {
	case "site.dir":
		c.Site.Dir = value
	case "site.title":
		c.Site.Title = value
	case "favicon.include":
		c.Favicon.Include = value
	case "favicon.marker":
		c.Favicon.Marker = value
	case "favicon.tag":
		c.Favicon.Tag = value
	case "nav.home":
		c.Nav.Home = value
	case "nav.labels":
		var labels []string
		for _, l := range strings.Split(value, ",") {
			if l = strings.TrimSpace(l); l != "" {
				labels = append(labels, l)
			}
		}
		c.Nav.Labels = labels
	case "nav.active-class":
		c.Nav.ActiveClass = value
	case "nav.legacy-tag":
		c.Nav.LegacyTag = value
	case "nav.legacy-class":
		c.Nav.LegacyClass = value
	}
}

// Pages returns the configured page table as model records
func (c *Config) Pages() []models.Page {
	pages := make([]models.Page, 0, len(c.Nav.Pages))
	for _, p := range c.Nav.Pages {
		pages = append(pages, models.Page{File: p.File, Active: p.Active})
	}
	return pages
}

// Encode renders the config back to TOML, used by `init`
func (c *Config) Encode() ([]byte, error) {
	b, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return b, nil
}
