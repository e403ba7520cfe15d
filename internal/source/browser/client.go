// Package browser drives a headless Chrome tab to render profile pages
// whose stats only appear after client-side scripts run. It is the most
// expensive adapter and sits late in the chain.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
	"github.com/riftwatch/rift-ledger/internal/source"
	"github.com/riftwatch/rift-ledger/internal/source/webscrape"
)

type ClientConfig struct {
	URLTemplates []string
	NavTimeout   time.Duration
	Headless     bool
	Logger       *logging.Logger
}

type Client struct {
	templates  []string
	navTimeout time.Duration
	headless   bool
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	templates := cfg.URLTemplates
	if len(templates) == 0 {
		templates = webscrape.DefaultURLTemplates
	}

	navTimeout := cfg.NavTimeout
	if navTimeout <= 0 {
		navTimeout = 20 * time.Second
	}

	return &Client{
		templates:  templates,
		navTimeout: navTimeout,
		headless:   cfg.Headless,
		logger:     logger,
	}
}

func (c *Client) Kind() summoner.Source {
	return summoner.SourceBrowser
}

func (c *Client) Fetch(ctx context.Context, name, region string) (source.Result, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var lastErr error
	for _, tmpl := range c.templates {
		target := fmt.Sprintf(tmpl, url.QueryEscape(name))

		page, err := c.render(allocCtx, target)
		if err != nil {
			lastErr = crerr.Wrapf(source.ErrUnreachable, "render %s: %v", target, err)
			c.logger.DebugContext(ctx, "browser candidate failed", "url", target, "error", err)
			continue
		}

		buf := bytebufferpool.Get()
		buf.SetString(page)
		profile, ok := webscrape.Extract(name, "text/html", buf)
		bytebufferpool.Put(buf)
		if !ok {
			lastErr = crerr.Wrapf(source.ErrNoPlayerMarkers, "no player markers at %s", target)
			continue
		}

		c.logger.InfoContext(ctx, "rendered profile", "url", target, "summoner", name)
		return source.Result{Identity: profile.Identity(summoner.SourceBrowser, name, region)}, nil
	}

	if lastErr == nil {
		lastErr = crerr.Wrap(source.ErrUnreachable, "no browser candidates configured")
	}
	return source.Result{}, lastErr
}

// render opens a fresh tab per candidate so a wedged page cannot poison
// the next attempt.
func (c *Client) render(allocCtx context.Context, target string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	navCtx, cancelNav := context.WithTimeout(tabCtx, c.navTimeout)
	defer cancelNav()

	var page string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &page, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}

	return page, nil
}
