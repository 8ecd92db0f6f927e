// Package scrape provides the narrow HTML landmark lookups the scraping
// pipeline relies on. Pages are located by characteristic markers (a class
// name, an info label) rather than fully modeled, so layout drift outside
// those landmarks goes unnoticed by design of the source site's markup.
package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Anchor is a hyperlink extracted from a landmark container.
type Anchor struct {
	Text string
	Href string
}

// Document wraps a parsed HTML page and exposes landmark queries.
type Document struct {
	doc *goquery.Document
}

// Parse builds a Document from raw HTML.
func Parse(body string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// Text returns the trimmed text of the first element carrying the given
// class, reporting whether such an element exists.
func (d *Document) Text(class string) (string, bool) {
	sel := d.doc.Find("." + class).First()
	if sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.Text()), true
}

// Anchors returns every hyperlink nested under elements carrying the given
// class, in document order.
func (d *Document) Anchors(class string) []Anchor {
	var anchors []Anchor

	d.doc.Find("." + class).Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		anchors = append(anchors, Anchor{
			Text: strings.TrimSpace(sel.Text()),
			Href: href,
		})
	})

	return anchors
}

// SiblingText returns the text node immediately following the element whose
// own text equals the given label. Info pages lay out metadata as
// "<span>Label</span> value" pairs, so the value lives in the label's raw
// sibling rather than in any addressable element.
func (d *Document) SiblingText(label string) (string, bool) {
	var value string
	var found bool

	d.doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.TrimSpace(sel.Text()) != label {
			return true
		}

		node := sel.Get(0)
		for next := node.NextSibling; next != nil; next = next.NextSibling {
			if next.Type != html.TextNode {
				continue
			}
			if text := strings.TrimSpace(next.Data); text != "" {
				value = text
				found = true
				return false
			}
		}

		return true
	})

	return value, found
}
