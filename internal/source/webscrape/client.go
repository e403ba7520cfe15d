// Package webscrape fetches public profile pages and extracts whatever
// fields survive the markup. It probes a list of candidate URL shapes
// because the upstream site does not document a stable one.
package webscrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
	"github.com/riftwatch/rift-ledger/internal/source"
)

// DefaultURLTemplates are the profile URL shapes probed in order. Each
// template receives the escaped display name once.
var DefaultURLTemplates = []string{
	"https://lol.qq.com/zmtj/player/%s",
	"https://lol.qq.com/zmtj/search?name=%s",
	"https://www.wegame.com.cn/helper/lol/player/%s",
}

const maxBodyBytes = 2 << 20

type ClientConfig struct {
	HTTPClient   *http.Client
	URLTemplates []string
	Timeout      time.Duration
	UserAgent    string
	Logger       *logging.Logger
}

type Client struct {
	httpClient *http.Client
	templates  []string
	userAgent  string
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 8 * time.Second
	}

	templates := cfg.URLTemplates
	if len(templates) == 0 {
		templates = DefaultURLTemplates
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}

	return &Client{
		httpClient: httpClient,
		templates:  templates,
		userAgent:  userAgent,
		logger:     logger,
	}
}

func (c *Client) Kind() summoner.Source {
	return summoner.SourceWebScrape
}

func (c *Client) Fetch(ctx context.Context, name, region string) (source.Result, error) {
	var lastErr error
	for _, tmpl := range c.templates {
		target := fmt.Sprintf(tmpl, url.QueryEscape(name))

		body, contentType, err := c.get(ctx, target)
		if err != nil {
			lastErr = err
			c.logger.DebugContext(ctx, "scrape candidate failed", "url", target, "error", err)
			continue
		}

		profile, ok := Extract(name, contentType, body)
		bytebufferpool.Put(body)
		if !ok {
			lastErr = crerr.Wrapf(source.ErrNoPlayerMarkers, "no player markers at %s", target)
			continue
		}

		c.logger.InfoContext(ctx, "scraped profile", "url", target, "summoner", name)
		return source.Result{Identity: profile.Identity(summoner.SourceWebScrape, name, region)}, nil
	}

	if lastErr == nil {
		lastErr = crerr.Wrap(source.ErrUnreachable, "no scrape candidates configured")
	}
	return source.Result{}, lastErr
}

// get returns the body in a pooled buffer. The caller returns it to the
// pool once parsing is done.
func (c *Client) get(ctx context.Context, target string) (*bytebufferpool.ByteBuffer, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", crerr.Wrapf(source.ErrUnreachable, "send request: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", crerr.Wrap(source.ErrNotFound, "profile page returned 404")
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, "", crerr.Wrap(source.ErrRateLimited, "profile page returned 429")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, "", crerr.Wrapf(source.ErrUnreachable, "profile page status=%d", resp.StatusCode)
	}

	buf := bytebufferpool.Get()
	if _, err := io.Copy(buf, io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		bytebufferpool.Put(buf)
		return nil, "", crerr.Wrapf(source.ErrUnreachable, "read body: %v", err)
	}

	return buf, strings.ToLower(resp.Header.Get("Content-Type")), nil
}
