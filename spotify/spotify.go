package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"lyrics-visualizer/scraper"
	"lyrics-visualizer/utils"
)

const (
	DefaultAPIBaseURL = "https://api.spotify.com/v1/"
	acceptLanguage    = "ja;q=1"
)

// PlaylistService reads playlist contents from the Spotify Web API.
type PlaylistService struct {
	client *spotify.Client
	logger *logrus.Logger
}

type PlaylistOption func(*playlistOptions)

type playlistOptions struct {
	baseURL string
	base    http.RoundTripper
}

// WithAPIBaseURL points the client at another API root, e.g. a test server. It must end with "/".
func WithAPIBaseURL(u string) PlaylistOption {
	return func(o *playlistOptions) { o.baseURL = u }
}

func WithTransport(rt http.RoundTripper) PlaylistOption {
	return func(o *playlistOptions) { o.base = rt }
}

func NewPlaylistService(logger *logrus.Logger, tokens oauth2.TokenSource, opts ...PlaylistOption) *PlaylistService {
	o := playlistOptions{base: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &oauth2.Transport{
			Source: tokens,
			Base:   &languageTransport{base: o.base, language: acceptLanguage},
		},
	}

	var clientOpts []spotify.ClientOption
	if o.baseURL != "" && o.baseURL != DefaultAPIBaseURL {
		clientOpts = append(clientOpts, spotify.WithBaseURL(o.baseURL))
	}

	return &PlaylistService{
		client: spotify.New(httpClient, clientOpts...),
		logger: utils.LoggerOr(logger),
	}
}

// PlaylistTracks returns every track in the playlist, in playlist order.
// A non-success API status yields an empty result rather than an error.
func (s *PlaylistService) PlaylistTracks(ctx context.Context, playlistID string) ([]scraper.Track, error) {
	page, err := s.client.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(100))
	if err != nil {
		return s.handleError(playlistID, err)
	}

	var tracks []scraper.Track
	for {
		for _, item := range page.Items {
			track, ok := trackFromItem(item)
			if !ok {
				continue
			}
			tracks = append(tracks, track)
		}

		err = s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return s.handleError(playlistID, err)
		}
	}

	s.logger.Debugf("Fetched %d tracks from playlist %s", len(tracks), playlistID)
	return tracks, nil
}

// TracksTable returns the playlist's (artist, title) pairs sorted by artist, then title.
func (s *PlaylistService) TracksTable(ctx context.Context, playlistID string) ([]scraper.Track, error) {
	tracks, err := s.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	SortTracks(tracks)
	return tracks, nil
}

func SortTracks(tracks []scraper.Track) {
	sort.SliceStable(tracks, func(i, j int) bool {
		if tracks[i].Artist != tracks[j].Artist {
			return tracks[i].Artist < tracks[j].Artist
		}
		return tracks[i].Title < tracks[j].Title
	})
}

func (s *PlaylistService) handleError(playlistID string, err error) ([]scraper.Track, error) {
	if errors.Is(err, utils.ErrAuth) || errors.Is(err, utils.ErrConfig) || errors.Is(err, utils.ErrNetwork) {
		return nil, err
	}

	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		s.logger.Warnf("Spotify returned status %d for playlist %s: %s", apiErr.Status, playlistID, apiErr.Message)
		return nil, nil
	}

	return nil, fmt.Errorf("%w: fetch playlist %s: %w", utils.ErrNetwork, playlistID, err)
}

func trackFromItem(item spotify.PlaylistItem) (scraper.Track, bool) {
	full := item.Track.Track
	if full == nil || len(full.Artists) == 0 {
		return scraper.Track{}, false
	}
	return scraper.Track{Artist: full.Artists[0].Name, Title: full.Name}, true
}

type languageTransport struct {
	base     http.RoundTripper
	language string
}

func (t *languageTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept-Language", t.language)
	return t.base.RoundTrip(req)
}
