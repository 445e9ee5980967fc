package browser

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/use-agent/kitchenscan/models"
)

// Timeouts are the per-phase limits of a session. Exceeding one aborts that
// phase only; the session is still closed by its owner.
type Timeouts struct {
	Navigation time.Duration
	Modal      time.Duration
	Row        time.Duration
	Settle     time.Duration
}

// Selectors locate the items modal on the planner page.
type Selectors struct {
	// Frame is the iframe hosting the planner. Empty means the top-level page.
	Frame string

	// Open is the affordance that opens the item list. Empty skips the click.
	Open string

	// Row matches one item row.
	Row string
}

// Options configures one session.
type Options struct {
	Launch    LaunchOptions
	Timeouts  Timeouts
	Selectors Selectors
}

// Session is one browser process driven for a single extraction.
// It is not safe for concurrent use and must not outlive the request.
type Session struct {
	ctrl Controller
	opts Options

	closeOnce sync.Once
	closeErr  error
}

// Open launches the browser for one extraction.
func Open(ctx context.Context, d Driver, opts Options) (*Session, error) {
	ctrl, err := d.Launch(ctx, opts.Launch)
	if err != nil {
		return nil, models.NewExtractError(
			models.ErrCodeLaunchFailed,
			"failed to launch browser",
			err,
		)
	}
	return &Session{ctrl: ctrl, opts: opts}, nil
}

// Run opens a session, hands it to fn and closes it on every exit path,
// including a panic in fn.
func Run(ctx context.Context, d Driver, opts Options, fn func(*Session) error) error {
	s, err := Open(ctx, d, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			slog.Warn("browser session close failed", "error", cerr)
		}
	}()
	return fn(s)
}

// Navigate loads url and waits for the page to settle.
func (s *Session) Navigate(ctx context.Context, url string, until models.WaitUntil) error {
	navCtx, cancel := withTimeout(ctx, s.opts.Timeouts.Navigation)
	defer cancel()

	if err := s.ctrl.Navigate(navCtx, url, until); err != nil {
		return categorizeError(navCtx, err,
			models.ErrCodeNavigationTimeout,
			models.ErrCodeNavigationFailed,
			"planner page did not load",
		)
	}
	return nil
}

// LocateContent finds the item content for mode.
//
// Modal mode opens the item list inside the planner frame and reads every
// row; rows that cannot be read within the row timeout are skipped.
// Full-page mode never fails: unreadable text or markup comes back empty.
func (s *Session) LocateContent(ctx context.Context, mode models.LocateMode) (*models.PageContent, error) {
	if mode == models.LocateModal {
		return s.locateModal(ctx)
	}
	return s.locateFullPage(ctx), nil
}

func (s *Session) locateFullPage(ctx context.Context) *models.PageContent {
	readCtx, cancel := withTimeout(ctx, s.opts.Timeouts.Modal)
	defer cancel()

	content := &models.PageContent{Mode: models.LocateFullPage}

	text, err := s.ctrl.Text(readCtx)
	if err != nil {
		slog.Warn("reading rendered text failed, continuing with markup only", "error", err)
	}
	content.Text = text

	markup, err := s.ctrl.HTML(readCtx)
	if err != nil {
		slog.Warn("reading page markup failed", "error", err)
	}
	content.HTML = markup

	return content
}

func (s *Session) locateModal(ctx context.Context) (*models.PageContent, error) {
	modalCtx, cancel := withTimeout(ctx, s.opts.Timeouts.Modal)
	defer cancel()

	sel := s.opts.Selectors
	modalErr := func(err error, msg string) error {
		return categorizeError(modalCtx, err,
			models.ErrCodeModalTimeout,
			models.ErrCodeParse,
			msg,
		)
	}

	var scope Page = s.ctrl
	if sel.Frame != "" {
		frame, err := s.ctrl.Frame(modalCtx, sel.Frame)
		if err != nil {
			return nil, modalErr(err, "planner frame did not appear")
		}
		scope = frame
	}

	if sel.Open != "" {
		if err := scope.Click(modalCtx, sel.Open); err != nil {
			return nil, modalErr(err, "item list button did not appear")
		}
	}

	if err := scope.WaitElements(modalCtx, sel.Row); err != nil {
		return nil, modalErr(err, "item list did not appear")
	}

	// Rows keep rendering for a moment after the first one shows up.
	if err := sleep(modalCtx, s.opts.Timeouts.Settle); err != nil {
		return nil, modalErr(err, "item list did not settle")
	}

	rows, err := scope.Elements(modalCtx, sel.Row)
	if err != nil {
		return nil, modalErr(err, "failed to list item rows")
	}

	content := &models.PageContent{Mode: models.LocateModal, ModalFound: true}
	for i, row := range rows {
		rowCtx, rowCancel := withTimeout(ctx, s.opts.Timeouts.Row)
		text, err := row.Text(rowCtx)
		rowCancel()
		if err != nil {
			content.SkippedRows++
			slog.Debug("skipping unreadable item row", "row", i, "error", err)
			continue
		}
		content.RowTexts = append(content.RowTexts, text)
	}

	// Markup lets the parser recover rows when none could be read directly.
	markupCtx, markupCancel := withTimeout(ctx, s.opts.Timeouts.Row)
	defer markupCancel()
	if markup, err := scope.HTML(markupCtx); err == nil {
		content.HTML = markup
	} else {
		slog.Debug("reading modal markup failed", "error", err)
	}

	return content, nil
}

// Close releases the browser process. Only the first call reaches the
// controller; later calls return the same result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.ctrl.Close()
	})
	return s.closeErr
}
