package scraper

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"lyrics-visualizer/utils"
)

const (
	DefaultSearchBaseURL = "https://html.duckduckgo.com/html/?q="
	DefaultSiteFilter    = "www.lyrical-nonsense.com/lyrics"
	DefaultResultLink    = "a.result__url"
	DefaultSearchDelay   = 10 * time.Second
)

// BuildQuery returns a search URL restricted to siteFilter for the given free-text terms.
func BuildQuery(baseURL, siteFilter string, terms ...string) string {
	words := []string{"site:" + siteFilter}
	for _, term := range terms {
		words = append(words, strings.Fields(term)...)
	}
	return baseURL + url.QueryEscape(strings.Join(words, " "))
}

// Resolver finds the first organic search result for a query.
// It sleeps for a fixed delay before every fetch so the search engine is not hammered.
type Resolver struct {
	fetcher    *Fetcher
	baseURL    string
	siteFilter string
	resultLink string
	delay      time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *logrus.Logger
}

type ResolverOption func(*Resolver)

func WithSearchBaseURL(u string) ResolverOption {
	return func(r *Resolver) { r.baseURL = u }
}

func WithSiteFilter(site string) ResolverOption {
	return func(r *Resolver) { r.siteFilter = site }
}

func WithResultSelector(selector string) ResolverOption {
	return func(r *Resolver) { r.resultLink = selector }
}

func WithDelay(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.delay = d }
}

func withSleep(sleep func(ctx context.Context, d time.Duration) error) ResolverOption {
	return func(r *Resolver) { r.sleep = sleep }
}

func NewResolver(logger *logrus.Logger, fetcher *Fetcher, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fetcher:    fetcher,
		baseURL:    DefaultSearchBaseURL,
		siteFilter: DefaultSiteFilter,
		resultLink: DefaultResultLink,
		delay:      DefaultSearchDelay,
		sleep:      sleepContext,
		logger:     utils.LoggerOr(logger),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Query builds the search URL for terms using the resolver's base URL and site filter.
func (r *Resolver) Query(terms ...string) string {
	return BuildQuery(r.baseURL, r.siteFilter, terms...)
}

// FirstLink returns the first result URL on the results page for query.
// A page without a result link yields ErrNotFound.
func (r *Resolver) FirstLink(ctx context.Context, query string) (string, error) {
	if err := r.sleep(ctx, r.delay); err != nil {
		return "", err
	}

	doc, err := r.fetcher.Document(ctx, query)
	if err != nil {
		return "", err
	}

	link := strings.TrimSpace(doc.Find(r.resultLink).First().Text())
	if link == "" {
		r.logger.Debugf("No search result found for query: %s", query)
		return "", ErrNotFound
	}
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		link = "https://" + link
	}
	return link, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SearchSource finds lyrics by searching for the track and scraping the first result.
type SearchSource struct {
	resolver *Resolver
	scraper  *LyricScraper
}

func NewSearchSource(resolver *Resolver, scraper *LyricScraper) *SearchSource {
	return &SearchSource{resolver: resolver, scraper: scraper}
}

func (s *SearchSource) Lyrics(ctx context.Context, track Track) (string, error) {
	link, err := s.resolver.FirstLink(ctx, s.resolver.Query(track.Artist, track.Title))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return s.scraper.Scrape(ctx, link)
}
