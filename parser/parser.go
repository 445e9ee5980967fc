// Package parser turns content located on the planner page into item records.
//
// Strategies are pure: they never touch the browser, so every one of them can
// be exercised with literal text and markup.
package parser

import (
	"fmt"
	"strings"

	"github.com/use-agent/kitchenscan/models"
)

// Strategy names.
const (
	ScopedDOM     = "scoped-dom"
	FullTextRegex = "fulltext-regex"
)

// Strategy is one way of reading items out of located page content.
type Strategy interface {
	// Name is the strategy identifier used in configuration and requests.
	Name() string

	// Version is reported as extract_version in the result.
	Version() string

	// Mode is the content the browser session must locate for this strategy.
	Mode() models.LocateMode

	// WaitUntil is the navigation lifecycle signal this strategy needs.
	WaitUntil() models.WaitUntil

	// Parse reads items from content. Items are de-duplicated and keep the
	// order of first occurrence.
	Parse(content *models.PageContent) ([]models.Item, error)
}

// Options configures strategy construction.
type Options struct {
	// Catalogue is the ordered list of product lines for scoped-dom.
	Catalogue []string

	// RowSelector recovers modal rows from captured markup (scoped-dom).
	RowSelector string

	// WaitUntil overrides the strategy's default lifecycle signal.
	WaitUntil models.WaitUntil
}

// New builds the strategy registered under name.
func New(name string, opts Options) (Strategy, error) {
	switch name {
	case ScopedDOM:
		return NewScoped(opts)
	case FullTextRegex:
		return NewFullText(opts), nil
	default:
		return nil, fmt.Errorf("unknown parsing strategy %q", name)
	}
}

// collapseSpace trims s and folds every whitespace run into a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// itemSet keeps items in first-occurrence order, keyed by identity.
type itemSet struct {
	index map[string]int
	items []models.Item
}

func newItemSet() *itemSet {
	return &itemSet{index: make(map[string]int)}
}

// identity is the article number when present, otherwise the raw text.
func identity(it models.Item) string {
	if it.ArticleNumber != "" {
		return "a:" + it.ArticleNumber
	}
	return "t:" + it.RawName
}

// add stores it unless its identity was already seen and reports whether
// it was new.
func (s *itemSet) add(it models.Item) bool {
	key := identity(it)
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, it)
	return true
}

// fold stores it, or adds its quantity to the item already holding the same
// identity.
func (s *itemSet) fold(it models.Item) {
	key := identity(it)
	if i, ok := s.index[key]; ok {
		s.items[i].Qty += it.Qty
		return
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, it)
}

func (s *itemSet) list() []models.Item {
	if s.items == nil {
		return []models.Item{}
	}
	return s.items
}

// seen reports whether an item with article number was already stored.
func (s *itemSet) seen(article string) bool {
	_, ok := s.index["a:"+article]
	return ok
}
