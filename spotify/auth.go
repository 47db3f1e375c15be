package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"lyrics-visualizer/utils"
)

const DefaultTokenURL = "https://accounts.spotify.com/api/token"

// AccessToken is a bearer token and the instant it stops being usable.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// ValidAt reports whether the token can be used at now. A token expiring exactly at now is expired.
func (t *AccessToken) ValidAt(now time.Time) bool {
	return t != nil && t.Value != "" && now.Before(t.ExpiresAt)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenManager obtains and renews client-credential tokens for one id/secret pair.
// The token state belongs to the manager and is never shared between instances.
type TokenManager struct {
	clientID     string
	clientSecret string
	tokenURL     string
	http         *resty.Client
	now          func() time.Time
	token        *AccessToken
	logger       *logrus.Logger
}

type TokenOption func(*TokenManager)

func WithTokenURL(u string) TokenOption {
	return func(m *TokenManager) { m.tokenURL = u }
}

func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) { m.now = now }
}

func NewTokenManager(logger *logrus.Logger, clientID, clientSecret string, opts ...TokenOption) *TokenManager {
	m := &TokenManager{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     DefaultTokenURL,
		http:         resty.New().SetTimeout(30 * time.Second),
		now:          time.Now,
		logger:       utils.LoggerOr(logger),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AccessToken returns a token that is valid now, authenticating first when there is none or it expired.
func (m *TokenManager) AccessToken(ctx context.Context) (string, error) {
	if m.token.ValidAt(m.now()) {
		return m.token.Value, nil
	}

	if err := m.authenticate(ctx); err != nil {
		return "", err
	}

	if !m.token.ValidAt(m.now()) {
		return "", fmt.Errorf("%w: token expired on arrival (expires at %s)", utils.ErrAuth, m.token.ExpiresAt.Format(time.RFC3339))
	}
	return m.token.Value, nil
}

// Token implements oauth2.TokenSource.
func (m *TokenManager) Token() (*oauth2.Token, error) {
	value, err := m.AccessToken(context.Background())
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: value,
		TokenType:   "Bearer",
		Expiry:      m.token.ExpiresAt,
	}, nil
}

func (m *TokenManager) authenticate(ctx context.Context) error {
	if m.clientID == "" || m.clientSecret == "" {
		return fmt.Errorf("%w: client ID and client secret must be set", utils.ErrConfig)
	}

	m.logger.Debugf("Requesting client credentials token from %s", m.tokenURL)
	resp, err := m.http.R().
		SetContext(ctx).
		SetBasicAuth(m.clientID, m.clientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&tokenResponse{}).
		Post(m.tokenURL)
	if err != nil {
		return fmt.Errorf("%w: token request: %w", utils.ErrNetwork, err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("%w: token endpoint returned %s", utils.ErrAuth, resp.Status())
	}

	result, ok := resp.Result().(*tokenResponse)
	if !ok || result.AccessToken == "" {
		return fmt.Errorf("%w: token response has no access_token", utils.ErrAuth)
	}

	now := m.now()
	m.token = &AccessToken{
		Value:     result.AccessToken,
		ExpiresAt: now.Add(time.Duration(result.ExpiresIn) * time.Second),
	}
	m.logger.Debugf("Got access token valid until %s", m.token.ExpiresAt.Format(time.RFC3339))
	return nil
}

// CheckHealth reports whether a token can be obtained with the configured credentials.
func (m *TokenManager) CheckHealth(ctx context.Context) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := m.AccessToken(ctx); err != nil {
		return false, fmt.Sprintf("Spotify authentication is unavailable: %v", err)
	}
	return true, "Spotify authentication is working"
}
