package scraper

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"lyrics-visualizer/utils"
)

// ErrNotFound reports that no lyrics could be located. It is an expected outcome, not a failure.
var ErrNotFound = errors.New("lyrics not found")

type Track struct {
	Artist string
	Title  string
}

// Sanitized returns the track with every "/" replaced by a space so that it can be used in a file name.
func (t Track) Sanitized() Track {
	return Track{
		Artist: strings.ReplaceAll(t.Artist, "/", " "),
		Title:  strings.ReplaceAll(t.Title, "/", " "),
	}
}

func (t Track) String() string {
	return t.Artist + "「" + t.Title + "」"
}

// Source looks up the lyrics of a track.
type Source interface {
	Lyrics(ctx context.Context, track Track) (string, error)
}

// Sources tries each source in order and returns the first lyrics found.
type Sources struct {
	sources []Source
	logger  *logrus.Logger
}

func NewSources(logger *logrus.Logger, sources ...Source) *Sources {
	return &Sources{sources: sources, logger: utils.LoggerOr(logger)}
}

func (s *Sources) Lyrics(ctx context.Context, track Track) (string, error) {
	var lastErr error
	for _, source := range s.sources {
		lyrics, err := source.Lyrics(ctx, track)
		if err == nil {
			return lyrics, nil
		}
		if !errors.Is(err, ErrNotFound) {
			s.logger.Debugf("Source %T failed for %s: %v", source, track, err)
			lastErr = err
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", ErrNotFound
}
