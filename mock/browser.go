// Package mock provides hand-written fakes of the browser capabilities.
package mock

import (
	"context"

	"github.com/use-agent/kitchenscan/browser"
	"github.com/use-agent/kitchenscan/models"
)

var (
	_ browser.Driver     = (*Driver)(nil)
	_ browser.Controller = (*Controller)(nil)
	_ browser.Page       = (*Page)(nil)
	_ browser.Element    = (*Element)(nil)
)

// Driver is a mock implementation of browser.Driver.
type Driver struct {
	LaunchFn func(ctx context.Context, opts browser.LaunchOptions) (browser.Controller, error)
}

func (d *Driver) Launch(ctx context.Context, opts browser.LaunchOptions) (browser.Controller, error) {
	return d.LaunchFn(ctx, opts)
}

// Page is a mock implementation of browser.Page.
type Page struct {
	FrameFn        func(ctx context.Context, selector string) (browser.Page, error)
	ClickFn        func(ctx context.Context, selector string) error
	WaitElementsFn func(ctx context.Context, selector string) error
	ElementsFn     func(ctx context.Context, selector string) ([]browser.Element, error)
	TextFn         func(ctx context.Context) (string, error)
	HTMLFn         func(ctx context.Context) (string, error)
}

func (p *Page) Frame(ctx context.Context, selector string) (browser.Page, error) {
	return p.FrameFn(ctx, selector)
}

func (p *Page) Click(ctx context.Context, selector string) error {
	return p.ClickFn(ctx, selector)
}

func (p *Page) WaitElements(ctx context.Context, selector string) error {
	return p.WaitElementsFn(ctx, selector)
}

func (p *Page) Elements(ctx context.Context, selector string) ([]browser.Element, error) {
	return p.ElementsFn(ctx, selector)
}

func (p *Page) Text(ctx context.Context) (string, error) {
	return p.TextFn(ctx)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

// Controller is a mock implementation of browser.Controller.
type Controller struct {
	Page
	NavigateFn func(ctx context.Context, url string, until models.WaitUntil) error
	CloseFn    func() error
}

func (c *Controller) Navigate(ctx context.Context, url string, until models.WaitUntil) error {
	return c.NavigateFn(ctx, url, until)
}

func (c *Controller) Close() error {
	return c.CloseFn()
}

// Element is a mock implementation of browser.Element.
type Element struct {
	TextFn func(ctx context.Context) (string, error)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.TextFn(ctx)
}

// TextElement returns an Element whose text is always s.
func TextElement(s string) *Element {
	return &Element{TextFn: func(context.Context) (string, error) { return s, nil }}
}
