// Package extractor runs one planner extraction end to end: validate the
// link, drive a browser session, parse, hash, and report a uniform envelope.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/use-agent/kitchenscan/browser"
	"github.com/use-agent/kitchenscan/config"
	"github.com/use-agent/kitchenscan/fingerprint"
	"github.com/use-agent/kitchenscan/models"
	"github.com/use-agent/kitchenscan/parser"
	"github.com/use-agent/kitchenscan/planner"
)

// State is a step of the extraction state machine.
type State string

const (
	StateValidating      State = "validating"
	StateSessionOpening  State = "session_opening"
	StateNavigating      State = "navigating"
	StateLocatingContent State = "locating_content"
	StateParsing         State = "parsing"
	StateHashing         State = "hashing"
	StateDone            State = "done"
	StateFailed          State = "failed"
)

// Config is the immutable pipeline configuration.
type Config struct {
	// PlannerHost is the accepted planner host; subdomains are accepted too.
	PlannerHost string

	// Strategy is the default parsing strategy name.
	Strategy string

	// Catalogue is the ordered product-line list for scoped-dom.
	Catalogue []string

	// WaitScoped and WaitFullText are the navigation signals per strategy.
	WaitScoped   models.WaitUntil
	WaitFullText models.WaitUntil

	// Session configures the browser launched for every extraction.
	Session browser.Options
}

// ConfigFrom derives the pipeline configuration from application config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		PlannerHost:  cfg.Extraction.PlannerHost,
		Strategy:     cfg.Extraction.Strategy,
		Catalogue:    cfg.Extraction.Catalogue,
		WaitScoped:   models.WaitUntil(cfg.Extraction.WaitScoped),
		WaitFullText: models.WaitUntil(cfg.Extraction.WaitFullText),
		Session: browser.Options{
			Launch: browser.LaunchOptions{
				Headless:   cfg.Browser.Headless,
				NoSandbox:  cfg.Browser.NoSandbox,
				Bin:        cfg.Browser.BrowserBin,
				Proxy:      cfg.Browser.Proxy,
				Locale:     cfg.Browser.Locale,
				Stealth:    cfg.Browser.Stealth,
				BlockTypes: cfg.Browser.BlockedResourceTypes,
			},
			Timeouts: browser.Timeouts{
				Navigation: cfg.Extraction.NavigationTimeout,
				Modal:      cfg.Extraction.ModalTimeout,
				Row:        cfg.Extraction.RowTimeout,
				Settle:     cfg.Extraction.SettleDelay,
			},
			Selectors: browser.Selectors{
				Frame: cfg.Extraction.FrameSelector,
				Open:  cfg.Extraction.OpenSelector,
				Row:   cfg.Extraction.RowSelector,
			},
		},
	}
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces time.Now as the capture clock.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithNonceFunc replaces the generator used when a request carries no nonce.
func WithNonceFunc(fn func() string) Option {
	return func(o *Orchestrator) { o.newNonce = fn }
}

// Orchestrator runs extractions. It holds no per-request state and is safe
// for concurrent use; every call opens its own browser session.
type Orchestrator struct {
	cfg        Config
	driver     browser.Driver
	validator  *planner.Validator
	strategies map[string]parser.Strategy
	now        func() time.Time
	newNonce   func() string
}

// New builds an Orchestrator. It fails when the default strategy or a wait
// signal is unknown, or a strategy cannot be built from cfg. An empty wait
// signal selects the strategy's default.
func New(cfg Config, driver browser.Driver, opts ...Option) (*Orchestrator, error) {
	for _, w := range []models.WaitUntil{cfg.WaitScoped, cfg.WaitFullText} {
		if w != "" && !w.Valid() {
			return nil, fmt.Errorf("unknown wait signal %q: want %q or %q",
				w, models.WaitNetworkIdle, models.WaitDOMContentLoaded)
		}
	}

	cfg.Catalogue = append([]string(nil), cfg.Catalogue...)
	cfg.Session.Launch.BlockTypes = append([]string(nil), cfg.Session.Launch.BlockTypes...)

	scoped, err := parser.New(parser.ScopedDOM, parser.Options{
		Catalogue:   cfg.Catalogue,
		RowSelector: cfg.Session.Selectors.Row,
		WaitUntil:   cfg.WaitScoped,
	})
	if err != nil {
		return nil, fmt.Errorf("building %s strategy: %w", parser.ScopedDOM, err)
	}
	fulltext, err := parser.New(parser.FullTextRegex, parser.Options{
		WaitUntil: cfg.WaitFullText,
	})
	if err != nil {
		return nil, fmt.Errorf("building %s strategy: %w", parser.FullTextRegex, err)
	}

	o := &Orchestrator{
		cfg:       cfg,
		driver:    driver,
		validator: planner.NewValidator(cfg.PlannerHost),
		strategies: map[string]parser.Strategy{
			scoped.Name():   scoped,
			fulltext.Name(): fulltext,
		},
		now:      time.Now,
		newNonce: uuid.NewString,
	}
	if _, ok := o.strategies[cfg.Strategy]; !ok {
		return nil, fmt.Errorf("unknown default strategy %q", cfg.Strategy)
	}

	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Validate checks a planner link without touching the browser.
func (o *Orchestrator) Validate(rawURL string) (planner.Reference, error) {
	return o.validator.Validate(rawURL)
}

// Extract runs one extraction. It never returns nil and never panics:
// every failure, including a fault inside the browser or parser, comes back
// as a failure envelope. The browser session is closed before Extract
// returns.
func (o *Orchestrator) Extract(ctx context.Context, req models.ExtractRequest) (res *models.ExtractionResult) {
	start := time.Now()
	state := StateValidating

	nonce := req.RequestNonce
	if nonce == "" {
		nonce = o.newNonce()
	}
	res = &models.ExtractionResult{
		PlannerURL:   req.PlannerURL,
		RequestNonce: nonce,
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("extraction fault", "stage", state, "panic", r)
			res = o.fail(res, state, models.NewExtractError(
				models.ErrCodeParse,
				fmt.Sprintf("unexpected fault: %v", r),
				nil,
			))
		}
	}()

	// ── 1. Validate (no resources allocated yet) ────────────────────
	name := req.Strategy
	if name == "" {
		name = o.cfg.Strategy
	}
	strategy, ok := o.strategies[name]
	if !ok {
		return o.fail(res, state, models.NewExtractError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("unknown strategy %q", name),
			nil,
		))
	}
	res.ExtractVersion = strategy.Version()
	res.SourceContext.Mode = strategy.Mode()
	res.SourceContext.WaitUntil = strategy.WaitUntil()

	ref, err := o.validator.Validate(req.PlannerURL)
	if err != nil {
		return o.fail(res, state, err)
	}
	res.PlannerID = ref.ID

	// ── 2. Browser session: navigate + locate, closed on every path ──
	state = StateSessionOpening
	var (
		content    *models.PageContent
		capturedAt time.Time
	)
	err = browser.Run(ctx, o.driver, o.cfg.Session, func(s *browser.Session) error {
		state = StateNavigating
		navStart := time.Now()
		if err := s.Navigate(ctx, ref.URL, strategy.WaitUntil()); err != nil {
			return err
		}
		res.SourceContext.NavigationMs = time.Since(navStart).Milliseconds()

		state = StateLocatingContent
		locateStart := time.Now()
		c, err := s.LocateContent(ctx, strategy.Mode())
		if err != nil {
			return err
		}
		res.SourceContext.LocateMs = time.Since(locateStart).Milliseconds()
		capturedAt = o.now()
		content = c
		return nil
	})
	if err != nil {
		return o.fail(res, state, err)
	}
	describe(&res.SourceContext, content)

	// ── 3. Parse ────────────────────────────────────────────────────
	state = StateParsing
	items, err := strategy.Parse(content)
	if err != nil {
		return o.fail(res, state, models.NewExtractError(
			models.ErrCodeParse,
			"failed to parse item content",
			err,
		))
	}

	// ── 4. Hash ─────────────────────────────────────────────────────
	state = StateHashing
	res.Items = items
	res.ExtractedAt = fingerprint.FormatTime(capturedAt)
	res.ExtractionHash = fingerprint.Compute(items, ref.ID, nonce, capturedAt)
	res.Success = true

	state = StateDone
	slog.Info("extraction completed",
		"planner_id", ref.ID,
		"nonce", nonce,
		"version", res.ExtractVersion,
		"items", len(items),
		"modal_found", res.SourceContext.ModalFound,
		"hash", res.ExtractionHash,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res
}

// fail turns res into a failure envelope for err raised in state.
func (o *Orchestrator) fail(res *models.ExtractionResult, state State, err error) *models.ExtractionResult {
	var xe *models.ExtractError
	if !errors.As(err, &xe) {
		xe = models.NewExtractError(models.ErrCodeParse, err.Error(), err)
	}
	detail := xe.ToDetail()
	detail.Stage = string(state)

	res.Success = false
	res.Items = nil
	res.ExtractionHash = ""
	res.ExtractedAt = fingerprint.FormatTime(o.now())
	res.Error = detail

	slog.Warn("extraction failed",
		"planner_url", res.PlannerURL,
		"planner_id", res.PlannerID,
		"nonce", res.RequestNonce,
		"stage", state,
		"code", detail.Code,
		"error", err,
	)
	return res
}

// describe copies located-content metrics into the source context.
func describe(src *models.SourceContext, c *models.PageContent) {
	src.ModalFound = c.ModalFound
	src.RowsFound = len(c.RowTexts) + c.SkippedRows
	src.RowsSkipped = c.SkippedRows
	src.TextLength = len(c.Text)
	src.MarkupLength = len(c.HTML)
}
