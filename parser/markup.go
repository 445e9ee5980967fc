package parser

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// skipText lists elements whose text is never rendered.
var skipText = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
}

// VisibleText walks markup with the tokenizer and joins the text nodes a
// browser would render, one space between nodes.
func VisibleText(markup string) string {
	return collapseSpace(project(markup).text)
}

// projection is the rendered text of a document plus, for every token, where
// it started in the markup and in the text.
type projection struct {
	text  string
	spans []span
}

// span places one token. n is the number of text bytes the token produced.
type span struct {
	src, dst, n int
}

// project tokenizes markup once. Tags, comments and skipped elements
// contribute no text, so quoted attribute values never leak into it.
func project(markup string) projection {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	var (
		b     strings.Builder
		spans []span
		src   int
		depth int
	)

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return projection{text: b.String(), spans: spans}
		}
		// Raw must be read before Text, which unescapes in place.
		raw := len(tokenizer.Raw())
		sp := span{src: src, dst: b.Len()}

		switch tt {
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if skipText[string(tn)] {
				depth++
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if skipText[string(tn)] && depth > 0 {
				depth--
			}
		case html.TextToken:
			if depth == 0 {
				text := tokenizer.Text()
				b.Write(text)
				b.WriteByte(' ')
				sp.n = len(text)
			}
		}

		spans = append(spans, sp)
		src += raw
	}
}

// offset maps a byte offset in the markup to the matching offset in text.
// Offsets inside a tag or a skipped element map to where that token sits in
// the rendered text.
func (p projection) offset(src int) int {
	i := sort.Search(len(p.spans), func(i int) bool { return p.spans[i].src > src }) - 1
	if i < 0 {
		return 0
	}
	sp := p.spans[i]
	return sp.dst + min(src-sp.src, sp.n)
}

// rowsFromMarkup returns the text of every element matching sel.
func rowsFromMarkup(markup string, sel cascadia.Selector) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	var rows []string
	doc.FindMatcher(sel).Each(func(_ int, s *goquery.Selection) {
		rows = append(rows, s.Text())
	})
	return rows, nil
}
