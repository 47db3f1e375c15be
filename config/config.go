package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"lyrics-visualizer/analysis"
	"lyrics-visualizer/report"
	"lyrics-visualizer/scraper"
	"lyrics-visualizer/spotify"
	"lyrics-visualizer/utils"
)

const (
	AppName   = "lyrics-visualizer"
	EnvPrefix = "LYRICS"
)

type SpotifyConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	TokenURL     string `mapstructure:"token_url"`
	APIBaseURL   string `mapstructure:"api_url"`
}

type LyricsConfig struct {
	Folder         string        `mapstructure:"folder"`
	SearchURL      string        `mapstructure:"search_url"`
	Site           string        `mapstructure:"site"`
	ResultSelector string        `mapstructure:"result_selector"`
	Prefix         string        `mapstructure:"prefix"`
	Container      string        `mapstructure:"container"`
	Delay          time.Duration `mapstructure:"delay"`
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	Fallback       bool          `mapstructure:"fallback"`
	LRCLibURL      string        `mapstructure:"lrclib_url"`
}

type AnalysisConfig struct {
	Stopwords     []string `mapstructure:"stopwords"`
	StopwordsFile string   `mapstructure:"stopwords_file"`
}

type ResultsConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
	Top    int    `mapstructure:"top"`
}

type StorageConfig struct {
	Type string `mapstructure:"type"`
	Path string `mapstructure:"path"`
}

type Config struct {
	Playlist string         `mapstructure:"playlist"`
	LogLevel string         `mapstructure:"log_level"`
	Spotify  SpotifyConfig  `mapstructure:"spotify"`
	Lyrics   LyricsConfig   `mapstructure:"lyrics"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Results  ResultsConfig  `mapstructure:"results"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("playlist", "")
	v.SetDefault("log_level", "info")

	v.SetDefault("spotify.client_id", "")
	v.SetDefault("spotify.client_secret", "")
	v.SetDefault("spotify.token_url", spotify.DefaultTokenURL)
	v.SetDefault("spotify.api_url", spotify.DefaultAPIBaseURL)

	v.SetDefault("lyrics.folder", "output")
	v.SetDefault("lyrics.search_url", scraper.DefaultSearchBaseURL)
	v.SetDefault("lyrics.site", scraper.DefaultSiteFilter)
	v.SetDefault("lyrics.result_selector", scraper.DefaultResultLink)
	v.SetDefault("lyrics.prefix", scraper.DefaultLyricPrefix)
	v.SetDefault("lyrics.container", scraper.DefaultLyricContainer)
	v.SetDefault("lyrics.delay", scraper.DefaultSearchDelay)
	v.SetDefault("lyrics.timeout", 30*time.Second)
	v.SetDefault("lyrics.user_agent", scraper.DefaultUserAgent)
	v.SetDefault("lyrics.fallback", false)
	v.SetDefault("lyrics.lrclib_url", scraper.DefaultLRCLibURL)

	v.SetDefault("analysis.stopwords", []string{})
	v.SetDefault("analysis.stopwords_file", "")

	v.SetDefault("results.dir", "results")
	v.SetDefault("results.format", report.FormatCSV)
	v.SetDefault("results.top", 20)

	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.path", filepath.Join(xdg.DataHome, AppName))
}

// BindEnv makes every key readable from LYRICS_<SECTION>_<KEY>. The client credentials are
// also read from SPOTIFY_ID and SPOTIFY_SECRET.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("spotify.client_id", EnvPrefix+"_SPOTIFY_CLIENT_ID", "SPOTIFY_ID")
	v.BindEnv("spotify.client_secret", EnvPrefix+"_SPOTIFY_CLIENT_SECRET", "SPOTIFY_SECRET")
}

// SearchPaths lists the directories searched for config.yaml, in order.
func SearchPaths() []string {
	return []string{".", filepath.Join(xdg.ConfigHome, AppName)}
}

// ReadFile reads config.yaml from the first search path that has one. A missing file is not an error.
func ReadFile(v *viper.Viper) error {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range SearchPaths() {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			utils.Logger.Debugf("No config file found, using environment variables and defaults")
			return nil
		}
		return fmt.Errorf("%w: %w", utils.ErrConfig, err)
	}
	utils.Logger.Debugf("Using config file %s", v.ConfigFileUsed())
	return nil
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Type {
	case "file", "sqlite", "postgres", "redis", "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown storage type %q", c.Storage.Type))
	}
	switch c.Results.Format {
	case report.FormatCSV, report.FormatText:
	default:
		errs = append(errs, fmt.Errorf("unknown report format %q", c.Results.Format))
	}
	if c.Results.Top < 1 {
		errs = append(errs, fmt.Errorf("results.top must be at least 1, got %d", c.Results.Top))
	}
	if c.Lyrics.Delay < 0 {
		errs = append(errs, fmt.Errorf("lyrics.delay must not be negative, got %s", c.Lyrics.Delay))
	}
	if c.Lyrics.Folder == "" {
		errs = append(errs, errors.New("lyrics.folder must be set"))
	}
	if !strings.HasSuffix(c.Spotify.APIBaseURL, "/") {
		errs = append(errs, fmt.Errorf("spotify.api_url must end with a slash, got %q", c.Spotify.APIBaseURL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", utils.ErrConfig, errors.Join(errs...))
	}
	return nil
}

// RequireSpotify checks what talking to Spotify needs.
func (c *Config) RequireSpotify(needPlaylist bool) error {
	var missing []string
	if c.Spotify.ClientID == "" {
		missing = append(missing, "client ID (SPOTIFY_ID)")
	}
	if c.Spotify.ClientSecret == "" {
		missing = append(missing, "client secret (SPOTIFY_SECRET)")
	}
	if needPlaylist && c.Playlist == "" {
		missing = append(missing, "playlist ID (--playlist)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", utils.ErrConfig, strings.Join(missing, ", "))
	}
	return nil
}

// Stopwords builds the stopword set from the defaults, the configured words and the stopwords file.
func (c *Config) Stopwords() (analysis.Stopwords, error) {
	extra := append([]string(nil), c.Analysis.Stopwords...)
	if c.Analysis.StopwordsFile != "" {
		words, err := analysis.LoadStopwordsFile(c.Analysis.StopwordsFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", utils.ErrConfig, err)
		}
		extra = append(extra, words...)
	}
	return analysis.DefaultStopwords(extra...), nil
}
