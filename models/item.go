package models

// UnknownGamme is the sentinel product line for rows that match nothing in
// the catalogue.
const UnknownGamme = "UNKNOWN"

// Item is one piece of furniture found in a plan.
type Item struct {
	// RawName is the scraped text the item was derived from. Never empty.
	RawName string `json:"raw_name"`

	// ArticleNumber is the canonical DDD.DDD.DD article code, when known.
	ArticleNumber string `json:"article_number,omitempty"`

	// Gamme is the product line tag, set by the scoped-dom strategy.
	Gamme string `json:"gamme,omitempty"`

	// Qty is always >= 1.
	Qty int `json:"qty"`
}

// LocateMode selects how the browser session discovers item content.
type LocateMode string

const (
	// LocateModal opens the items modal inside the planner frame and reads its rows.
	LocateModal LocateMode = "modal"

	// LocateFullPage skips interaction and captures the whole rendered page.
	LocateFullPage LocateMode = "fullpage"
)

// WaitUntil is the page lifecycle signal navigation waits for.
type WaitUntil string

const (
	WaitNetworkIdle      WaitUntil = "networkidle"
	WaitDOMContentLoaded WaitUntil = "domcontentloaded"
)

// Valid reports whether w is a known signal.
func (w WaitUntil) Valid() bool {
	return w == WaitNetworkIdle || w == WaitDOMContentLoaded
}

// PageContent is everything a browser session located on the planner page.
// Parsers consume it without touching the browser.
type PageContent struct {
	Mode LocateMode

	// RowTexts holds the text of each modal row that could be read (modal mode).
	RowTexts []string

	// SkippedRows counts rows whose text could not be read in time.
	SkippedRows int

	// Text is the rendered visible text (fullpage mode).
	Text string

	// HTML is the serialized markup of the page, or of the modal frame in modal mode.
	HTML string

	ModalFound bool
}
