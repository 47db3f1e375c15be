package cmd

import (
	"context"
	"fmt"
	"net/http"

	"lyrics-visualizer/analysis"
	"lyrics-visualizer/config"
	"lyrics-visualizer/pipeline"
	"lyrics-visualizer/scraper"
	"lyrics-visualizer/spotify"
	"lyrics-visualizer/storage"
	"lyrics-visualizer/utils"
)

func newTokenManager(c *config.Config) *spotify.TokenManager {
	return spotify.NewTokenManager(logger, c.Spotify.ClientID, c.Spotify.ClientSecret,
		spotify.WithTokenURL(c.Spotify.TokenURL))
}

func newPlaylistService(c *config.Config) (*spotify.PlaylistService, error) {
	if err := c.RequireSpotify(true); err != nil {
		return nil, err
	}
	return spotify.NewPlaylistService(logger, newTokenManager(c), spotify.WithAPIBaseURL(c.Spotify.APIBaseURL)), nil
}

func newFetcher(c *config.Config) *scraper.Fetcher {
	return scraper.NewFetcher(logger, &http.Client{Timeout: c.Lyrics.Timeout}, c.Lyrics.UserAgent)
}

func newResolver(c *config.Config, fetcher *scraper.Fetcher) *scraper.Resolver {
	return scraper.NewResolver(logger, fetcher,
		scraper.WithSearchBaseURL(c.Lyrics.SearchURL),
		scraper.WithSiteFilter(c.Lyrics.Site),
		scraper.WithResultSelector(c.Lyrics.ResultSelector),
		scraper.WithDelay(c.Lyrics.Delay),
	)
}

// newSource builds the search-and-scrape source, followed by lrclib when the fallback is enabled.
func newSource(c *config.Config) scraper.Source {
	fetcher := newFetcher(c)
	search := scraper.NewSearchSource(
		newResolver(c, fetcher),
		scraper.NewLyricScraper(logger, fetcher, c.Lyrics.Prefix, c.Lyrics.Container),
	)
	if !c.Lyrics.Fallback {
		return search
	}
	return scraper.NewSources(logger, search, scraper.NewLRCLibSource(logger, c.Lyrics.LRCLibURL, c.Lyrics.UserAgent))
}

func newDownloader(c *config.Config) (*pipeline.Downloader, error) {
	playlists, err := newPlaylistService(c)
	if err != nil {
		return nil, err
	}
	return pipeline.NewDownloader(logger, playlists, newSource(c)), nil
}

func newLemmatizer(c *config.Config) (*analysis.Lemmatizer, error) {
	stopwords, err := c.Stopwords()
	if err != nil {
		return nil, err
	}
	analyzer, err := analysis.NewKagomeAnalyzer()
	if err != nil {
		return nil, fmt.Errorf("initializing tokenizer: %w", err)
	}
	return analysis.NewLemmatizer(analyzer, stopwords), nil
}

func openStorage(c *config.Config) (storage.Storage, error) {
	store, err := storage.NewStorage(c.Storage.Type, c.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	if err := store.Init(); err != nil {
		store.Close()
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// storageCheck reports whether the configured store answers.
type storageCheck struct {
	config *config.Config
}

func (s storageCheck) CheckHealth(context.Context) (bool, string) {
	store, err := openStorage(s.config)
	if err != nil {
		return false, err.Error()
	}
	defer store.Close()

	corpora, err := store.ListCorpora()
	if err != nil {
		return false, fmt.Sprintf("%s storage is unavailable: %v", s.config.Storage.Type, err)
	}
	return true, fmt.Sprintf("%s storage holds %d corpora", s.config.Storage.Type, len(corpora))
}

var _ utils.HealthChecker = storageCheck{}
