package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"lyrics-visualizer/utils"
)

const DefaultLRCLibURL = "https://lrclib.net/api/get"

// LRCLibSource looks tracks up in the lrclib.net JSON API and returns the plain lyrics.
type LRCLibSource struct {
	client    *http.Client
	endpoint  string
	userAgent string
	logger    *logrus.Logger
}

func NewLRCLibSource(logger *logrus.Logger, endpoint, userAgent string) *LRCLibSource {
	if endpoint == "" {
		endpoint = DefaultLRCLibURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &LRCLibSource{
		client:    &http.Client{Timeout: 10 * time.Second},
		endpoint:  endpoint,
		userAgent: userAgent,
		logger:    utils.LoggerOr(logger),
	}
}

func (s *LRCLibSource) Lyrics(ctx context.Context, track Track) (string, error) {
	params := url.Values{}
	params.Set("artist_name", track.Artist)
	params.Set("track_name", track.Title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", utils.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: lrclib status %d", utils.ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", utils.ErrNetwork, err)
	}
	if !gjson.ValidBytes(body) {
		s.logger.Debugf("Invalid JSON from lrclib for %s", track)
		return "", ErrNotFound
	}

	result := gjson.GetBytes(body, "plainLyrics")
	if gjson.GetBytes(body, "instrumental").Bool() || result.String() == "" {
		return "", ErrNotFound
	}
	return result.String(), nil
}
