package markup

import "strings"

// Outcome is what an InsertRule did to a document
type Outcome int

const (
	// Applied means the text was inserted
	Applied Outcome = iota
	// Present means the marker was already in the document
	Present
	// NoAnchor means the anchor was not found, so nothing was inserted
	NoAnchor
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Present:
		return "present"
	case NoAnchor:
		return "no anchor"
	}
	return "unknown"
}

// InsertRule inserts Text next to the first occurrence of Anchor unless Marker
// already occurs somewhere in the document.
type InsertRule struct {
	Name   string
	Marker string
	Anchor string
	Text   string
	Before bool
}

// InsertAfter builds a rule placing text right after anchor
func InsertAfter(name, marker, anchor, text string) InsertRule {
	return InsertRule{Name: name, Marker: marker, Anchor: anchor, Text: text}
}

// InsertBefore builds a rule placing text right before anchor
func InsertBefore(name, marker, anchor, text string) InsertRule {
	return InsertRule{Name: name, Marker: marker, Anchor: anchor, Text: text, Before: true}
}

// Apply runs the rule against doc and returns the (possibly) edited document.
func (r InsertRule) Apply(doc string) (string, Outcome) {
	if r.Marker != "" && strings.Contains(doc, r.Marker) {
		return doc, Present
	}
	if r.Anchor == "" {
		return doc, NoAnchor
	}
	i := strings.Index(doc, r.Anchor)
	if i < 0 {
		return doc, NoAnchor
	}
	if !r.Before {
		i += len(r.Anchor)
	}
	return doc[:i] + r.Text + doc[i:], Applied
}
