// Package markup locates and edits regions of HTML documents without
// re-serializing them: the tokenizer is only used to find byte offsets, so
// every byte outside an edited region is preserved.
package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

var (
	// ErrNoRegion is returned when no element matches the selector
	ErrNoRegion = errors.New("no matching region")
	// ErrAmbiguousRegion is returned when more than one element matches
	ErrAmbiguousRegion = errors.New("more than one matching region")
	// ErrUnterminated is returned when a matched element is never closed
	ErrUnterminated = errors.New("unterminated region")
	// ErrUnbalanced is returned by CheckBalanced for mismatched tags
	ErrUnbalanced = errors.New("unbalanced markup")
)

// Selector picks elements by tag name and, optionally, one class token.
type Selector struct {
	Tag   string
	Class string
	// Lead, if set, is the text of a comment that belongs to the element when it
	// directly precedes it (whitespace only in between). The region then starts at
	// the comment.
	Lead string
}

func (s Selector) String() string {
	if s.Class == "" {
		return s.Tag
	}
	return s.Tag + "." + s.Class
}

func (s Selector) matches(tok html.Token) bool {
	if tok.Data != strings.ToLower(s.Tag) {
		return false
	}
	if s.Class == "" {
		return true
	}
	for _, a := range tok.Attr {
		if a.Namespace == "" && a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == s.Class {
					return true
				}
			}
		}
	}
	return false
}

// Region is a half-open byte range [Start, End) of a document.
type Region struct {
	Start int
	End   int
}

// Contains reports whether o lies within r
func (r Region) Contains(o Region) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// FindRegions returns the byte ranges of every element matching sel, from its
// start tag through its balancing end tag. Elements nested inside a match are
// part of that match and not reported separately.
func FindRegions(doc string, sel Selector) ([]Region, error) {
	z := html.NewTokenizer(strings.NewReader(doc))
	tag := strings.ToLower(sel.Tag)

	var (
		regions []Region
		offset  int
		depth   int
		start   int
		// start of the lead comment, -1 when none is pending
		leadStart = -1
	)

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return regions, fmt.Errorf("failed to tokenize document: %w", err)
			}
			if depth > 0 {
				return regions, fmt.Errorf("%w: <%s> opened at byte %d", ErrUnterminated, sel, start)
			}
			return regions, nil
		}

		tokStart := offset
		offset += len(z.Raw())
		tok := z.Token()

		if depth > 0 {
			switch {
			case tt == html.StartTagToken && tok.Data == tag:
				depth++
			case tt == html.EndTagToken && tok.Data == tag:
				depth--
				if depth == 0 {
					regions = append(regions, Region{Start: start, End: offset})
				}
			}
			continue
		}

		switch tt {
		case html.CommentToken:
			if sel.Lead != "" && strings.TrimSpace(tok.Data) == sel.Lead {
				leadStart = tokStart
			} else {
				leadStart = -1
			}
		case html.TextToken:
			if strings.TrimSpace(tok.Data) != "" {
				leadStart = -1
			}
		case html.StartTagToken:
			if sel.matches(tok) {
				start = tokStart
				if leadStart >= 0 {
					start = leadStart
				}
				depth = 1
			}
			leadStart = -1
		case html.SelfClosingTagToken:
			if sel.matches(tok) {
				regions = append(regions, Region{Start: tokStart, End: offset})
			}
			leadStart = -1
		default:
			leadStart = -1
		}
	}
}

// Outermost drops regions that lie inside another region of the slice.
func Outermost(regions []Region) []Region {
	var out []Region
	for i, r := range regions {
		inner := false
		for j, o := range regions {
			if i != j && o.Contains(r) && o != r {
				inner = true
				break
			}
		}
		if !inner {
			out = append(out, r)
		}
	}
	return out
}

// ReplaceOne substitutes replacement for the single region in regions.
// It refuses to guess when there are zero or several candidates.
func ReplaceOne(doc string, regions []Region, replacement string) (string, error) {
	switch len(regions) {
	case 0:
		return doc, ErrNoRegion
	case 1:
	default:
		return doc, fmt.Errorf("%w: found %d", ErrAmbiguousRegion, len(regions))
	}
	r := regions[0]
	if r.Start < 0 || r.End > len(doc) || r.Start > r.End {
		return doc, fmt.Errorf("region [%d,%d) out of range", r.Start, r.End)
	}
	return doc[:r.Start] + replacement + doc[r.End:], nil
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// CheckBalanced verifies that every non-void element in fragment is closed in order.
func CheckBalanced(fragment string) error {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var stack []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return fmt.Errorf("failed to tokenize fragment: %w", err)
			}
			if len(stack) > 0 {
				return fmt.Errorf("%w: <%s> not closed", ErrUnbalanced, stack[len(stack)-1])
			}
			return nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if !voidElements[string(name)] {
				stack = append(stack, string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			n := string(name)
			if len(stack) == 0 || stack[len(stack)-1] != n {
				return fmt.Errorf("%w: unexpected </%s>", ErrUnbalanced, n)
			}
			stack = stack[:len(stack)-1]
		}
	}
}
