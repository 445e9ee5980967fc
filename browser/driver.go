// Package browser owns the headless browser used by one extraction.
//
// The pipeline only sees the Driver, Controller, Page and Element
// capabilities declared here. RodDriver is the production implementation;
// tests drive Session with the fakes in package mock.
package browser

import (
	"context"

	"github.com/use-agent/kitchenscan/models"
)

// Element is one located node whose text can be read.
type Element interface {
	Text(ctx context.Context) (string, error)
}

// Page is a document the session can query: the top-level page or an
// embedded frame. Every call honours ctx for cancellation and deadlines.
type Page interface {
	// Frame waits for the iframe matching selector and returns its document.
	Frame(ctx context.Context, selector string) (Page, error)

	// Click waits for the element matching selector and clicks it.
	Click(ctx context.Context, selector string) error

	// WaitElements blocks until at least one element matches selector.
	WaitElements(ctx context.Context, selector string) error

	// Elements returns the elements currently matching selector.
	Elements(ctx context.Context, selector string) ([]Element, error)

	// Text returns the rendered visible text of the document.
	Text(ctx context.Context) (string, error)

	// HTML returns the serialized markup of the document.
	HTML(ctx context.Context) (string, error)
}

// Controller is one launched browser process with a single page.
type Controller interface {
	Page

	// Navigate loads url and waits for the lifecycle signal until.
	Navigate(ctx context.Context, url string, until models.WaitUntil) error

	// Close releases the page and kills the browser process.
	Close() error
}

// Driver launches browser processes.
type Driver interface {
	// Launch starts a browser and opens a page configured by opts.
	// On error nothing is left running.
	Launch(ctx context.Context, opts LaunchOptions) (Controller, error)
}

// LaunchOptions configures a browser process and its page.
type LaunchOptions struct {
	Headless   bool
	NoSandbox  bool
	Bin        string
	Proxy      string
	Locale     string
	Stealth    bool
	BlockTypes []string
}
