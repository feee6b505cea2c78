package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ospireports/internal/components/telemetry"
	libtelemetry "ospireports/lib/telemetry"

	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = libtelemetry.Tracer("ospireports.internal.browser")

const report_fetcher_fetch = "fetcher.fetch"

type FetcherOptions struct {
	// DownloadURL builds the url that serves a document.
	DownloadURL func(documentID int) string
	Headless    bool
	// RemoteUrl is a devtools websocket url, when set the fetcher attaches
	// to that browser instead of launching one.
	RemoteUrl       string
	UserAgent       string
	Referer         string
	DownloadTimeout time.Duration
}

// Fetcher downloads documents by navigating a browser to them. a single
// browser is shared by every fetch, each fetch gets its own tab.
type Fetcher struct {
	downloadURL     func(documentID int) string
	downloadTimeout time.Duration
	userAgent       string
	referer         string
	open            openPageFunc
	tel             telemetry.API

	cancel context.CancelFunc
}

func NewFetcher(ctx context.Context, opts FetcherOptions, tel telemetry.API) (*Fetcher, error) {
	if opts.DownloadURL == nil {
		return nil, fmt.Errorf("browser fetcher: DownloadURL must be set")
	}

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if opts.RemoteUrl != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, opts.RemoteUrl)
	} else {
		allocOpts := append(
			chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
		)
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, allocOpts...)
	}

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// starts the browser
	err := chromedp.Run(browserCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("browser fetcher: start browser: %w", err)
	}

	f := newFetcher(opts, tel, func(_ context.Context, popts pageOptions) (page, error) {
		return openChromePage(browserCtx, popts)
	})
	f.cancel = cancel
	return f, nil
}

func newFetcher(opts FetcherOptions, tel telemetry.API, open openPageFunc) *Fetcher {
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = 2 * time.Minute
	}
	return &Fetcher{
		downloadURL:     opts.DownloadURL,
		downloadTimeout: opts.DownloadTimeout,
		userAgent:       opts.UserAgent,
		referer:         opts.Referer,
		open:            open,
		tel:             telemetry.NewScopedAPI("browser", tel),
	}
}

// Close shuts down the browser, or detaches from it if it is remote.
func (f *Fetcher) Close() {
	if f.cancel != nil {
		f.cancel()
	}
}

// Fetch downloads the document into destinationPath, whose directory must
// already exist.
func (f *Fetcher) Fetch(ctx context.Context, documentID int, destinationPath string) error {
	url := f.downloadURL(documentID)

	ctx, span := tracer.Start(ctx, "fetcher:Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.Int("document_id", documentID),
		attribute.String("url", url),
	)

	fail := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch document")
		f.tel.ReportBroken(report_fetcher_fetch, "document_id", documentID, "url", url, "err", err)
		return fmt.Errorf("fetch document %d: %w", documentID, err)
	}

	p, err := f.open(ctx, pageOptions{
		downloadDir: filepath.Dir(destinationPath),
		userAgent:   f.userAgent,
		referer:     f.referer,
	})
	if err != nil {
		return fail(fmt.Errorf("open page: %w", err))
	}
	defer p.Close()

	nav := p.Navigate(ctx, url)
	span.SetAttributes(attribute.String("navigation", nav.Outcome.String()))
	switch nav.Outcome {
	case NavigationFailed:
		return fail(&NavigationError{URL: url, Reason: nav.Reason})
	case NavigationCompleted:
		f.tel.ReportDebug("navigation loaded a page, waiting for a download anyway", "url", url)
	}

	waitCtx, cancel := context.WithTimeout(ctx, f.downloadTimeout)
	defer cancel()

	downloaded, err := p.WaitDownload(waitCtx)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		err = fmt.Errorf("%w after %s", ErrDownloadTimeout, f.downloadTimeout)
	}
	if err != nil {
		return fail(err)
	}

	err = os.Rename(downloaded, destinationPath)
	if err != nil {
		return fail(fmt.Errorf("move download: %w", err))
	}

	f.tel.ReportDebug("fetched document", "document_id", documentID, "path", destinationPath)
	return nil
}
