package parser

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/use-agent/kitchenscan/models"
)

// Scoped classifies the rows of the planner's item modal by product line.
type Scoped struct {
	catalogue []string // upper-cased, in priority order
	labels    []string // original spelling, reported as gamme
	rowSel    cascadia.Selector
	waitUntil models.WaitUntil
}

// NewScoped returns the scoped-dom strategy. The row selector is compiled
// up front so a bad selector fails at startup rather than mid-request.
func NewScoped(opts Options) (*Scoped, error) {
	s := &Scoped{waitUntil: opts.WaitUntil}
	if s.waitUntil == "" {
		s.waitUntil = models.WaitDOMContentLoaded
	}

	for _, name := range opts.Catalogue {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s.labels = append(s.labels, name)
		s.catalogue = append(s.catalogue, strings.ToUpper(name))
	}

	if opts.RowSelector != "" {
		sel, err := cascadia.Compile(opts.RowSelector)
		if err != nil {
			return nil, err
		}
		s.rowSel = sel
	}
	return s, nil
}

func (s *Scoped) Name() string                { return ScopedDOM }
func (s *Scoped) Version() string             { return "scoped-dom/v1" }
func (s *Scoped) Mode() models.LocateMode     { return models.LocateModal }
func (s *Scoped) WaitUntil() models.WaitUntil { return s.waitUntil }

// Parse emits one item per non-empty row. Rows repeating an identity fold
// into the first one by quantity.
func (s *Scoped) Parse(content *models.PageContent) ([]models.Item, error) {
	rows := content.RowTexts
	if len(rows) == 0 && content.HTML != "" && s.rowSel != nil {
		recovered, err := rowsFromMarkup(content.HTML, s.rowSel)
		if err != nil {
			return nil, err
		}
		rows = recovered
	}

	set := newItemSet()
	for _, row := range rows {
		text := collapseSpace(row)
		if text == "" {
			continue
		}
		set.fold(models.Item{
			RawName:       text,
			ArticleNumber: firstArticle(text),
			Gamme:         s.Classify(text),
			Qty:           1,
		})
	}
	return set.list(), nil
}

// Classify returns the first catalogue entry contained in text, compared
// case-insensitively, or models.UnknownGamme.
func (s *Scoped) Classify(text string) string {
	upper := strings.ToUpper(text)
	for i, name := range s.catalogue {
		if strings.Contains(upper, name) {
			return s.labels[i]
		}
	}
	return models.UnknownGamme
}
