package browser

import (
	"context"
	"path/filepath"
	"sync"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// page is a single browser tab, it is used for exactly one download.
type page interface {
	Navigate(ctx context.Context, url string) NavigationResult
	// WaitDownload blocks until the download started by the navigation
	// finishes and returns the path of the downloaded file.
	WaitDownload(ctx context.Context) (string, error)
	Close()
}

type pageOptions struct {
	downloadDir string
	userAgent   string
	referer     string
}

type openPageFunc func(ctx context.Context, opts pageOptions) (page, error)

type downloadResult struct {
	guid string
	err  error
}

type chromePage struct {
	ctx         context.Context
	cancel      context.CancelFunc
	downloadDir string

	mu     sync.Mutex
	began  bool
	once   sync.Once
	result chan downloadResult
}

// openChromePage opens a new tab in the browser of `browserCtx`, with
// downloads going to opts.downloadDir under the name of their guid.
func openChromePage(browserCtx context.Context, opts pageOptions) (*chromePage, error) {
	tabCtx, cancel := chromedp.NewContext(browserCtx)
	p := &chromePage{
		ctx:         tabCtx,
		cancel:      cancel,
		downloadDir: opts.downloadDir,
		result:      make(chan downloadResult, 1),
	}
	chromedp.ListenTarget(tabCtx, p.onEvent)

	actions := []chromedp.Action{
		cdpbrowser.SetDownloadBehavior(cdpbrowser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(opts.downloadDir).
			WithEventsEnabled(true),
		network.Enable(),
	}
	if opts.userAgent != "" {
		actions = append(actions, emulation.SetUserAgentOverride(opts.userAgent))
	}
	if opts.referer != "" {
		actions = append(actions, network.SetExtraHTTPHeaders(network.Headers{
			"Referer": opts.referer,
		}))
	}

	err := chromedp.Run(tabCtx, actions...)
	if err != nil {
		cancel()
		return nil, err
	}
	return p, nil
}

func (p *chromePage) onEvent(ev any) {
	switch ev := ev.(type) {
	case *cdpbrowser.EventDownloadWillBegin:
		p.mu.Lock()
		p.began = true
		p.mu.Unlock()
	case *cdpbrowser.EventDownloadProgress:
		switch ev.State {
		case cdpbrowser.DownloadProgressStateCompleted:
			p.finish(downloadResult{guid: ev.GUID})
		case cdpbrowser.DownloadProgressStateCanceled:
			p.finish(downloadResult{guid: ev.GUID, err: ErrDownloadCanceled})
		}
	}
}

// listeners must not block, result is buffered and written at most once.
func (p *chromePage) finish(res downloadResult) {
	p.once.Do(func() {
		p.result <- res
	})
}

func (p *chromePage) downloadBegan() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.began
}

func (p *chromePage) Navigate(ctx context.Context, url string) NavigationResult {
	stop := context.AfterFunc(ctx, p.cancel)
	defer stop()

	err := chromedp.Run(p.ctx, chromedp.Navigate(url))
	return classifyNavigation(err, p.downloadBegan())
}

func (p *chromePage) WaitDownload(ctx context.Context) (string, error) {
	select {
	case res := <-p.result:
		if res.err != nil {
			return "", res.err
		}
		return filepath.Join(p.downloadDir, res.guid), nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.ctx.Done():
		return "", p.ctx.Err()
	}
}

// Close closes the tab.
func (p *chromePage) Close() {
	p.cancel()
}
