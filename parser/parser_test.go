package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/kitchenscan/models"
	"github.com/use-agent/kitchenscan/parser"
)

var catalogue = []string{"METOD", "ENHET", "KNOXHULT", "MAXIMERA"}

func TestNew(t *testing.T) {
	t.Parallel()

	s, err := parser.New(parser.ScopedDOM, parser.Options{Catalogue: catalogue})
	require.NoError(t, err)
	assert.Equal(t, parser.ScopedDOM, s.Name())
	assert.Equal(t, models.LocateModal, s.Mode())
	assert.Equal(t, models.WaitDOMContentLoaded, s.WaitUntil())

	f, err := parser.New(parser.FullTextRegex, parser.Options{WaitUntil: models.WaitDOMContentLoaded})
	require.NoError(t, err)
	assert.Equal(t, parser.FullTextRegex, f.Name())
	assert.Equal(t, models.LocateFullPage, f.Mode())
	assert.Equal(t, models.WaitDOMContentLoaded, f.WaitUntil())
	assert.NotEqual(t, s.Version(), f.Version())

	_, err = parser.New("llm", parser.Options{})
	assert.Error(t, err)

	_, err = parser.New(parser.ScopedDOM, parser.Options{RowSelector: "[[["})
	assert.Error(t, err)
}

func TestScoped_Classify(t *testing.T) {
	t.Parallel()

	s, err := parser.NewScoped(parser.Options{Catalogue: catalogue})
	require.NoError(t, err)

	tests := []struct {
		row  string
		want string
	}{
		{"METOD 60x80", "METOD"},
		{"Élément bas metod/maximera 60x60", "METOD"},
		{"Tiroir MAXIMERA", "MAXIMERA"},
		{"enhet armoire murale", "ENHET"},
		{"Plan de travail chêne", models.UnknownGamme},
		{"", models.UnknownGamme},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Classify(tt.row), tt.row)
	}
}

func TestScoped_Parse(t *testing.T) {
	t.Parallel()

	s, err := parser.NewScoped(parser.Options{Catalogue: catalogue})
	require.NoError(t, err)

	items, err := s.Parse(&models.PageContent{
		Mode: models.LocateModal,
		RowTexts: []string{
			"  METOD   60x80\n",
			"Plan de travail",
			"   ",
			"METOD 60x80",
			"Charnière UTRUSTA 702.125.58",
		},
	})
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, models.Item{RawName: "METOD 60x80", Gamme: "METOD", Qty: 2}, items[0])
	assert.Equal(t, models.Item{RawName: "Plan de travail", Gamme: models.UnknownGamme, Qty: 1}, items[1])
	assert.Equal(t, "702.125.58", items[2].ArticleNumber)
	assert.Equal(t, models.UnknownGamme, items[2].Gamme)
}

func TestScoped_ParseRecoversRowsFromMarkup(t *testing.T) {
	t.Parallel()

	s, err := parser.NewScoped(parser.Options{
		Catalogue:   catalogue,
		RowSelector: `li.row`,
	})
	require.NoError(t, err)

	items, err := s.Parse(&models.PageContent{
		Mode: models.LocateModal,
		HTML: `<ul><li class="row">KNOXHULT base</li><li class="other">METOD</li><li class="row">Evier</li></ul>`,
	})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "KNOXHULT", items[0].Gamme)
	assert.Equal(t, "Evier", items[1].RawName)
	assert.Equal(t, models.UnknownGamme, items[1].Gamme)
}

func TestScoped_ParseEmpty(t *testing.T) {
	t.Parallel()

	s, err := parser.NewScoped(parser.Options{Catalogue: catalogue})
	require.NoError(t, err)

	items, err := s.Parse(&models.PageContent{Mode: models.LocateModal})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFullText_Parse(t *testing.T) {
	t.Parallel()

	f := parser.NewFullText(parser.Options{})

	t.Run("separators normalize to one item", func(t *testing.T) {
		t.Parallel()

		items, err := f.Parse(&models.PageContent{
			Text: "Armoire 123.456.78 puis encore 123-456-78",
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "123.456.78", items[0].ArticleNumber)
		assert.Equal(t, 1, items[0].Qty)
		assert.Contains(t, items[0].RawName, "Armoire")
	})

	t.Run("keeps first occurrence order across text and markup", func(t *testing.T) {
		t.Parallel()

		items, err := f.Parse(&models.PageContent{
			Text: "Façade VOXTORP 003.934.11\nTiroir 602.214.38",
			HTML: `<div data-art="111-222-33">Poignée</div><span>003.934.11</span>`,
		})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "003.934.11", items[0].ArticleNumber)
		assert.Equal(t, "602.214.38", items[1].ArticleNumber)
		assert.Equal(t, "111.222.33", items[2].ArticleNumber)
		assert.NotContains(t, items[2].RawName, "<")
	})

	t.Run("ignores longer digit runs", func(t *testing.T) {
		t.Parallel()

		items, err := f.Parse(&models.PageContent{
			Text: "ref 1123.456.78 and 123.456.789 and 12.345.67",
		})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("adjacent codes", func(t *testing.T) {
		t.Parallel()

		items, err := f.Parse(&models.PageContent{Text: "123.456.78,876.543.21"})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "876.543.21", items[1].ArticleNumber)
	})

	t.Run("collapses whitespace and bounds the window", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", 90)
		items, err := f.Parse(&models.PageContent{
			Text: long + "   Caisson\n\n\t 402.052.91  " + long,
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Contains(t, items[0].RawName, "Caisson 402.052.91")
		assert.LessOrEqual(t, len(items[0].RawName), 60+len("402.052.91")+60)
		assert.NotContains(t, items[0].RawName, "  ")
	})

	t.Run("no matches is not an error", func(t *testing.T) {
		t.Parallel()

		items, err := f.Parse(&models.PageContent{Text: "rien ici", HTML: "<p>rien</p>"})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("falls back to markup text", func(t *testing.T) {
		t.Parallel()

		items, err := f.Parse(&models.PageContent{
			HTML: `<html><head><script>var a = "999.999.99";</script></head><body><p>Hotte</p><p>203.456.12</p></body></html>`,
		})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "203.456.12", items[0].ArticleNumber)
		assert.Contains(t, items[0].RawName, "Hotte")
		assert.Equal(t, "999.999.99", items[1].ArticleNumber)
	})
}

func TestFullText_MarkupContextIsRenderedText(t *testing.T) {
	t.Parallel()

	f := parser.NewFullText(parser.Options{})

	tests := []struct {
		name    string
		html    string
		article string
		want    string
	}{
		{
			name:    "quoted angle bracket in attribute",
			html:    `<td data-x="a>b">111-222-33</td>`,
			article: "111.222.33",
			want:    "111-222-33",
		},
		{
			name:    "code only in an attribute",
			html:    `<li data-sku='403.101.02' title="x > y">Plan de travail</li>`,
			article: "403.101.02",
			want:    "Plan de travail",
		},
		{
			name:    "entities are decoded",
			html:    `<p>Tiroir&nbsp;&amp;&nbsp;façade <b>702.341.56</b></p>`,
			article: "702.341.56",
			want:    "Tiroir & façade 702.341.56",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Rendered text is set so the code is only found in markup.
			items, err := f.Parse(&models.PageContent{Text: "Cuisine", HTML: tt.html})
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, tt.article, items[0].ArticleNumber)
			assert.Equal(t, tt.want, items[0].RawName)
			assert.NotContains(t, items[0].RawName, `"`)
			assert.NotContains(t, items[0].RawName, ">")
		})
	}
}

func TestFullText_NeverDuplicatesArticles(t *testing.T) {
	t.Parallel()

	f := parser.NewFullText(parser.Options{})
	items, err := f.Parse(&models.PageContent{
		Text: "100.200.30 100-200-30 100.200-30 300.200.10",
		HTML: "<b>100.200.30</b><i>300-200-10</i>",
	})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, it := range items {
		assert.False(t, seen[it.ArticleNumber], "duplicate %s", it.ArticleNumber)
		seen[it.ArticleNumber] = true
	}
	assert.Len(t, items, 2)
}

func TestVisibleText(t *testing.T) {
	t.Parallel()

	got := parser.VisibleText(`<html><head><title>T</title><style>p{}</style></head>
		<body><p>Bonjour&nbsp;le <b>monde</b></p><script>ignored()</script><noscript>x</noscript></body></html>`)
	assert.Equal(t, "Bonjour le monde", got)
}
