package navigation

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"

	"github.com/geocine/sitepatch/internal/config"
	"github.com/geocine/sitepatch/internal/markup"
	"github.com/geocine/sitepatch/internal/models"
)

const (
	// ContainerClass marks the outer element of a generated nav block
	ContainerClass = "pill-nav-container"
	// LeadComment is the comment written right before the generated block
	LeadComment = "Header with Pill Navigation"

	templateName = "pill-nav.hbs"
)

// BuildItems derives the nav entries for a page. The first label links to home,
// every other label to "<lowercased label>.html". Only the entry equal to active
// is marked; an empty active marks none.
func BuildItems(labels []string, home, active string) []models.NavItem {
	items := make([]models.NavItem, 0, len(labels))
	for i, label := range labels {
		href := strings.ToLower(label) + ".html"
		if i == 0 {
			href = home
		}
		items = append(items, models.NavItem{
			Label:  label,
			Href:   href,
			Active: active != "" && label == active,
		})
	}
	return items
}

// Builder renders the pill navigation block from the nav settings
type Builder struct {
	SiteTitle   string
	Home        string
	Labels      []string
	ActiveClass string

	tpl *raymond.Template
}

// NewBuilder loads the nav template. assets is expected to hold
// "frontend/templates/"; when nil the template is read from disk.
func NewBuilder(cfg *config.Config, assets fs.FS) (*Builder, error) {
	var tmplFS fs.FS
	var base string
	if assets != nil {
		tmplFS = assets
		base = "frontend/templates/"
	} else {
		tmplDir := filepath.Join("frontend", "templates")
		if _, err := os.Stat(tmplDir); err != nil {
			return nil, fmt.Errorf("templates directory not found at %s", tmplDir)
		}
		tmplFS = os.DirFS(tmplDir)
	}

	src, err := fs.ReadFile(tmplFS, base+templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", templateName, err)
	}
	tpl, err := raymond.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", templateName, err)
	}

	return &Builder{
		SiteTitle:   cfg.Site.Title,
		Home:        cfg.Nav.Home,
		Labels:      append([]string(nil), cfg.Nav.Labels...),
		ActiveClass: cfg.Nav.ActiveClass,
		tpl:         tpl,
	}, nil
}

// Items returns the nav entries for the given active label
func (b *Builder) Items(active string) []models.NavItem {
	return BuildItems(b.Labels, b.Home, active)
}

// Render produces the nav block (desktop pill list plus mobile popover list)
// for a page. Output depends only on the builder settings and active.
func (b *Builder) Render(active string) (string, error) {
	items := b.Items(active)

	// Maps rather than structs: raymond resolves struct fields by Go name only.
	ctxItems := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		suffix := ""
		if it.Active && b.ActiveClass != "" {
			suffix = " " + b.ActiveClass
		}
		ctxItems = append(ctxItems, map[string]interface{}{
			"label":         it.Label,
			"href":          it.Href,
			"active_suffix": suffix,
		})
	}

	homeLabel := ""
	if len(b.Labels) > 0 {
		homeLabel = b.Labels[0]
	}

	data := map[string]interface{}{
		"lead_comment":    LeadComment,
		"container_class": ContainerClass,
		"home":            b.Home,
		"home_label":      homeLabel,
		"site_title":      b.SiteTitle,
		"items":           ctxItems,
	}

	out, err := b.tpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", templateName, err)
	}
	out = strings.TrimSpace(out)

	if err := markup.CheckBalanced(out); err != nil {
		return "", fmt.Errorf("rendered nav block is malformed: %w", err)
	}
	return out, nil
}
