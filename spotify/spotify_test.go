package spotify

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyrics-visualizer/scraper"
	"lyrics-visualizer/utils"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type tokenServer struct {
	*httptest.Server
	calls     int
	expiresIn int
	status    int
	lastAuth  string
}

func newTokenServer(t *testing.T) *tokenServer {
	ts := &tokenServer{expiresIn: 3600, status: http.StatusOK}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.calls++
		ts.lastAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		if ts.status != http.StatusOK {
			w.WriteHeader(ts.status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"token-%d","token_type":"Bearer","expires_in":%d}`, ts.calls, ts.expiresIn)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestTokenManager_CachesUntilExpiry(t *testing.T) {
	ts := newTokenServer(t)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewTokenManager(quietLogger(), "id", "secret", WithTokenURL(ts.URL), WithClock(clock.Now))

	token, err := m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("id:secret")), ts.lastAuth)

	clock.now = clock.now.Add(59 * time.Minute)
	token, err = m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, 1, ts.calls)
}

func TestTokenManager_ExpiryBoundaryRenews(t *testing.T) {
	ts := newTokenServer(t)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewTokenManager(quietLogger(), "id", "secret", WithTokenURL(ts.URL), WithClock(clock.Now))

	_, err := m.AccessToken(context.Background())
	require.NoError(t, err)

	clock.now = clock.now.Add(time.Hour)
	token, err := m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
	assert.Equal(t, 2, ts.calls)
}

func TestAccessToken_ValidAt(t *testing.T) {
	now := time.Now()
	var missing *AccessToken
	assert.False(t, missing.ValidAt(now))
	assert.False(t, (&AccessToken{Value: "x", ExpiresAt: now}).ValidAt(now))
	assert.True(t, (&AccessToken{Value: "x", ExpiresAt: now.Add(time.Nanosecond)}).ValidAt(now))
	assert.False(t, (&AccessToken{ExpiresAt: now.Add(time.Hour)}).ValidAt(now))
}

func TestTokenManager_Failures(t *testing.T) {
	t.Run("rejected credentials", func(t *testing.T) {
		ts := newTokenServer(t)
		ts.status = http.StatusBadRequest
		m := NewTokenManager(quietLogger(), "id", "wrong", WithTokenURL(ts.URL))

		_, err := m.AccessToken(context.Background())
		assert.ErrorIs(t, err, utils.ErrAuth)
	})

	t.Run("missing credentials", func(t *testing.T) {
		ts := newTokenServer(t)
		m := NewTokenManager(quietLogger(), "", "", WithTokenURL(ts.URL))

		_, err := m.AccessToken(context.Background())
		assert.ErrorIs(t, err, utils.ErrConfig)
		assert.Equal(t, 0, ts.calls)
	})

	t.Run("token expired on arrival", func(t *testing.T) {
		ts := newTokenServer(t)
		ts.expiresIn = 0
		m := NewTokenManager(quietLogger(), "id", "secret", WithTokenURL(ts.URL))

		_, err := m.AccessToken(context.Background())
		assert.ErrorIs(t, err, utils.ErrAuth)
		assert.Equal(t, 1, ts.calls)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		ts := newTokenServer(t)
		ts.Close()
		m := NewTokenManager(quietLogger(), "id", "secret", WithTokenURL(ts.URL))

		_, err := m.AccessToken(context.Background())
		assert.ErrorIs(t, err, utils.ErrNetwork)

		ok, _ := m.CheckHealth(context.Background())
		assert.False(t, ok)
	})
}

func TestTokenManager_InstancesDoNotShareTokens(t *testing.T) {
	ts := newTokenServer(t)
	a := NewTokenManager(quietLogger(), "a", "secret", WithTokenURL(ts.URL))
	b := NewTokenManager(quietLogger(), "b", "secret", WithTokenURL(ts.URL))

	ta, err := a.AccessToken(context.Background())
	require.NoError(t, err)
	tb, err := b.AccessToken(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, ta, tb)
	assert.Equal(t, 2, ts.calls)
}

const playlistPage = `{
	"href": "", "limit": 100, "offset": 0, "total": 3, "next": null, "previous": null,
	"items": [
		{"track": {"type": "track", "id": "1", "name": "夜に駆ける", "artists": [{"name": "YOASOBI"}, {"name": "Ayase"}]}},
		{"track": {"type": "track", "id": "2", "name": "Back in Black", "artists": [{"name": "AC/DC"}]}},
		{"track": {"type": "track", "id": "3", "name": "アイドル", "artists": [{"name": "YOASOBI"}]}}
	]
}`

func newAPIServer(t *testing.T) (*httptest.Server, *[]string) {
	var languages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		languages = append(languages, r.Header.Get("Accept-Language"))

		switch {
		case strings.HasPrefix(r.URL.Path, "/v1/playlists/good"):
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, playlistPage)
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"status":404,"message":"Not found."}}`)
		}
	}))
	t.Cleanup(server.Close)
	return server, &languages
}

func TestPlaylistService_TracksTable(t *testing.T) {
	ts := newTokenServer(t)
	api, languages := newAPIServer(t)

	tokens := NewTokenManager(quietLogger(), "id", "secret", WithTokenURL(ts.URL))
	svc := NewPlaylistService(quietLogger(), tokens, WithAPIBaseURL(api.URL+"/v1/"))

	tracks, err := svc.TracksTable(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, []scraper.Track{
		{Artist: "AC/DC", Title: "Back in Black"},
		{Artist: "YOASOBI", Title: "アイドル"},
		{Artist: "YOASOBI", Title: "夜に駆ける"},
	}, tracks)
	assert.Equal(t, []string{acceptLanguage}, *languages)
}

func TestPlaylistService_NonSuccessIsEmpty(t *testing.T) {
	ts := newTokenServer(t)
	api, _ := newAPIServer(t)

	tokens := NewTokenManager(quietLogger(), "id", "secret", WithTokenURL(ts.URL))
	svc := NewPlaylistService(quietLogger(), tokens, WithAPIBaseURL(api.URL+"/v1/"))

	tracks, err := svc.PlaylistTracks(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestPlaylistService_AuthFailurePropagates(t *testing.T) {
	ts := newTokenServer(t)
	ts.status = http.StatusUnauthorized
	api, _ := newAPIServer(t)

	tokens := NewTokenManager(quietLogger(), "id", "secret", WithTokenURL(ts.URL))
	svc := NewPlaylistService(quietLogger(), tokens, WithAPIBaseURL(api.URL+"/v1/"))

	_, err := svc.TracksTable(context.Background(), "good")
	assert.ErrorIs(t, err, utils.ErrAuth)
}

func TestSortTracks(t *testing.T) {
	tracks := []scraper.Track{
		{Artist: "b", Title: "a"},
		{Artist: "a", Title: "z"},
		{Artist: "a", Title: "b"},
	}
	SortTracks(tracks)
	assert.Equal(t, []scraper.Track{
		{Artist: "a", Title: "b"},
		{Artist: "a", Title: "z"},
		{Artist: "b", Title: "a"},
	}, tracks)
}
