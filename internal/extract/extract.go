// Package extract pulls text and attribute values out of parsed HTML
// documents using CSS selectors. All lookups walk the document with
// goquery; helpers that return slices preserve document order so that
// values from parallel selectors can be zipped back together by index.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoMatch is wrapped into errors returned when a selector matches
// nothing in the document.
var ErrNoMatch = errors.New("selector matched no elements")

// Texts returns the trimmed text content of every element matching
// selector, in document order. A selector that matches nothing yields
// an empty slice, not an error.
func Texts(doc *goquery.Document, selector string) []string {
	var texts []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(s.Text()))
	})
	return texts
}

// Attrs returns the named attribute of every element matching
// selector, in document order. Elements without the attribute
// contribute an empty string so positions stay aligned with other
// selectors run over the same document.
func Attrs(doc *goquery.Document, selector, attr string) []string {
	var values []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		values = append(values, strings.TrimSpace(s.AttrOr(attr, "")))
	})
	return values
}

// AttrsAny behaves like Attrs but tries each attribute name in order
// and keeps the first non-empty value per element. Sites that
// lazy-load images publish the real URL under data-src while src holds
// a placeholder, so callers pass both.
func AttrsAny(doc *goquery.Document, selector string, attrs ...string) []string {
	var values []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		var value string
		for _, attr := range attrs {
			if v := strings.TrimSpace(s.AttrOr(attr, "")); v != "" {
				value = v
				break
			}
		}
		values = append(values, value)
	})
	return values
}

// First returns the trimmed text of the first element matching
// selector, or an error wrapping ErrNoMatch.
func First(doc *goquery.Document, selector string) (string, error) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoMatch, selector)
	}
	return strings.TrimSpace(sel.Text()), nil
}

// FirstAttr returns the named attribute of the first element matching
// selector. Both a missing element and a missing attribute return an
// error wrapping ErrNoMatch, since either way the document carries no
// value for the caller.
func FirstAttr(doc *goquery.Document, selector, attr string) (string, error) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoMatch, selector)
	}
	v, ok := sel.Attr(attr)
	if !ok {
		return "", fmt.Errorf("%w: %q has no %q attribute", ErrNoMatch, selector, attr)
	}
	return strings.TrimSpace(v), nil
}
