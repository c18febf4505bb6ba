package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "caption": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "figure": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true, "ol": true, "p": true,
	"section": true, "table": true, "tbody": true, "td": true, "th": true, "thead": true,
	"tr": true, "ul": true,
}

var skippedTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// RenderText approximates what a browser reports as an element's visible text: line
// breaks at <br> and block boundaries, non-breaking spaces as plain spaces, runs of
// whitespace collapsed and blank lines removed.
func RenderText(sel *goquery.Selection) string {
	var b strings.Builder

	sel.Each(func(_ int, s *goquery.Selection) {
		renderNode(&b, s)
	})

	return NormalizeText(b.String())
}

func renderNode(b *strings.Builder, s *goquery.Selection) {
	name := goquery.NodeName(s)

	switch {
	case name == "#text":
		b.WriteString(s.Text())

		return
	case name == "br":
		b.WriteByte('\n')

		return
	case skippedTags[name]:
		return
	}

	block := blockTags[name]
	if block {
		b.WriteByte('\n')
	}

	s.Contents().Each(func(_ int, child *goquery.Selection) {
		renderNode(b, child)
	})

	if block {
		b.WriteByte('\n')
	}
}

// NormalizeText applies the same whitespace rules as RenderText to plain text.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")

	lines := strings.Split(s, "\n")
	out := lines[:0]

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}

	return strings.Join(out, "\n")
}
