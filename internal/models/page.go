package models

// Page is a site page paired with the nav label it highlights.
// An empty Active means no nav entry is marked.
type Page struct {
	File   string
	Active string
}

// HasActive reports whether the page highlights a nav entry
func (p Page) HasActive() bool {
	return p.Active != ""
}

// NavItem is one entry of the pill navigation
type NavItem struct {
	Label  string
	Href   string
	Active bool
}
