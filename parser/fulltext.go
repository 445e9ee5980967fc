package parser

import (
	"unicode/utf8"

	"github.com/use-agent/kitchenscan/models"
)

// contextWindow is the number of bytes kept on each side of an article code.
const contextWindow = 60

// FullText scans the whole rendered page for article codes.
type FullText struct {
	waitUntil models.WaitUntil
}

// NewFullText returns the fulltext-regex strategy.
func NewFullText(opts Options) *FullText {
	f := &FullText{waitUntil: opts.WaitUntil}
	if f.waitUntil == "" {
		f.waitUntil = models.WaitNetworkIdle
	}
	return f
}

func (f *FullText) Name() string                { return FullTextRegex }
func (f *FullText) Version() string             { return "fulltext-regex/v1" }
func (f *FullText) Mode() models.LocateMode     { return models.LocateFullPage }
func (f *FullText) WaitUntil() models.WaitUntil { return f.waitUntil }

// Parse returns one item per distinct article code. Rendered text is scanned
// before markup so the first occurrence, and its context, prefer what a user
// would see on screen. Codes found only in markup take their context from the
// rendered text around the element that carries them.
func (f *FullText) Parse(content *models.PageContent) ([]models.Item, error) {
	var proj projection
	if content.HTML != "" {
		proj = project(content.HTML)
	}

	text := content.Text
	if text == "" {
		text = collapseSpace(proj.text)
	}

	set := newItemSet()
	for _, m := range findArticles(text) {
		if set.seen(m.Number) {
			continue
		}
		set.add(models.Item{
			RawName:       window(text, m.Start, m.End, m.Number),
			ArticleNumber: m.Number,
			Qty:           1,
		})
	}

	for _, m := range findArticles(content.HTML) {
		if set.seen(m.Number) {
			continue
		}
		set.add(models.Item{
			RawName:       window(proj.text, proj.offset(m.Start), proj.offset(m.End), m.Number),
			ArticleNumber: m.Number,
			Qty:           1,
		})
	}

	return set.list(), nil
}

// window returns the whitespace-collapsed text within contextWindow bytes of
// src[start:end], or fallback when that is blank.
func window(src string, start, end int, fallback string) string {
	start = max(start-contextWindow, 0)
	end = min(end+contextWindow, len(src))
	// Keep the window on UTF-8 boundaries.
	for start > 0 && !utf8.RuneStart(src[start]) {
		start--
	}
	for end < len(src) && !utf8.RuneStart(src[end]) {
		end++
	}

	if out := collapseSpace(src[start:end]); out != "" {
		return out
	}
	return fallback
}
