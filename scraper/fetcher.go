package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"lyrics-visualizer/utils"
)

const DefaultUserAgent = "lyrics-visualizer/0.1"

// Fetcher downloads web pages with a fixed user agent and parses them into goquery documents.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    *logrus.Logger
}

func NewFetcher(logger *logrus.Logger, client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{client: client, userAgent: userAgent, logger: utils.LoggerOr(logger)}
}

// Document fetches url and parses the body. Transport failures and non-200 responses wrap utils.ErrNetwork.
func (f *Fetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	f.logger.Debugf("Fetching HTML from URL: %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrNetwork, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: status %d", utils.ErrNetwork, url, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML document: %w", err)
	}
	return doc, nil
}

// checkReachable reports whether url answers with a parseable page.
func (f *Fetcher) checkReachable(ctx context.Context, url string) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := f.Document(ctx, url); err != nil {
		return false, fmt.Sprintf("%s is unavailable: %v", url, err)
	}
	return true, fmt.Sprintf("%s is reachable", url)
}

// Reachability is a health check against a single URL.
type Reachability struct {
	Fetcher *Fetcher
	URL     string
}

func (r Reachability) CheckHealth(ctx context.Context) (bool, string) {
	return r.Fetcher.checkReachable(ctx, r.URL)
}
