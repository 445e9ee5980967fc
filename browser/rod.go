package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/kitchenscan/models"
	"github.com/ysmood/gson"
)

// Ensure RodDriver implements Driver at compile time.
var _ Driver = (*RodDriver)(nil)

// RodDriver launches one Chromium process per session through go-rod.
type RodDriver struct{}

// NewRodDriver returns a RodDriver.
func NewRodDriver() *RodDriver {
	return &RodDriver{}
}

// Launch starts Chromium, connects to it and opens a single page with the
// locale, stealth script and request blocking applied.
func (d *RodDriver) Launch(ctx context.Context, opts LaunchOptions) (Controller, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := launcher.New().
		Headless(opts.Headless).
		NoSandbox(opts.NoSandbox)

	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	if opts.Proxy != "" {
		l = l.Proxy(opts.Proxy)
	}
	if opts.Locale != "" {
		l.Set(flags.Flag("lang"), opts.Locale)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "TranslateUI")
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	slog.Debug("browser launched", "controlURL", controlURL, "pid", l.PID())

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		killLauncher(l)
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		killLauncher(l)
		return nil, fmt.Errorf("opening page: %w", err)
	}

	c := &rodController{
		rodPage:  rodPage{page: page},
		launcher: l,
		browser:  browser,
	}
	if err := c.prepare(opts); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func killLauncher(l *launcher.Launcher) {
	l.Kill()
	l.Cleanup()
}

// rodController is one Chromium process and its only page.
type rodController struct {
	rodPage
	launcher *launcher.Launcher
	browser  *rod.Browser
	router   *rod.HijackRouter
}

// prepare applies per-page settings. They must be installed before the
// first navigation to take effect.
func (c *rodController) prepare(opts LaunchOptions) error {
	if opts.Locale != "" {
		if err := (proto.EmulationSetLocaleOverride{Locale: opts.Locale}).Call(c.page); err != nil {
			return fmt.Errorf("setting locale: %w", err)
		}
		if err := (proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{"Accept-Language": gson.New(opts.Locale)},
		}).Call(c.page); err != nil {
			return fmt.Errorf("setting Accept-Language: %w", err)
		}
	}

	if opts.Stealth {
		if _, err := c.page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
		}
	}

	c.router = setupHijack(c.page, opts.BlockTypes)
	return nil
}

// Navigate registers the lifecycle waiter before navigating so the signal
// cannot fire unobserved.
func (c *rodController) Navigate(ctx context.Context, url string, until models.WaitUntil) error {
	p := c.page.Context(ctx)

	event := proto.PageLifecycleEventNameNetworkIdle
	if until == models.WaitDOMContentLoaded {
		event = proto.PageLifecycleEventNameDOMContentLoaded
	}
	wait := p.WaitNavigation(event)

	if err := p.Navigate(url); err != nil {
		return err
	}
	wait()
	return ctx.Err()
}

// Close stops request interception, closes the browser and kills the
// process. The temporary profile directory is removed.
func (c *rodController) Close() error {
	if c.router != nil {
		_ = c.router.Stop()
	}
	err := c.browser.Close()
	killLauncher(c.launcher)
	return err
}

// rodPage adapts a rod page or frame to Page.
type rodPage struct {
	page *rod.Page
}

func (p rodPage) Frame(ctx context.Context, selector string) (Page, error) {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return nil, err
	}
	frame, err := el.Frame()
	if err != nil {
		return nil, err
	}
	return rodPage{page: frame}, nil
}

func (p rodPage) Click(ctx context.Context, selector string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (p rodPage) WaitElements(ctx context.Context, selector string) error {
	return p.page.Context(ctx).WaitElementsMoreThan(selector, 0)
}

func (p rodPage) Elements(ctx context.Context, selector string) ([]Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = rodElement{el: el}
	}
	return out, nil
}

func (p rodPage) Text(ctx context.Context) (string, error) {
	res, err := p.page.Context(ctx).Eval(`() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (p rodPage) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

type rodElement struct {
	el *rod.Element
}

func (e rodElement) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}
