package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"lyrics-visualizer/scraper"
	"lyrics-visualizer/utils"
)

// ErrCacheWrite marks a failure to write the lyrics folder. Unlike lookup failures it is fatal to a batch.
var ErrCacheWrite = errors.New("cannot write lyrics cache")

type Status int

const (
	StatusExists Status = iota
	StatusCreated
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusExists:
		return "exists"
	case StatusCreated:
		return "created"
	case StatusNotFound:
		return "not found"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// LyricCache stores one text file per track in a folder. A file being present is the only
// signal that a track was fetched, so misses are never written.
type LyricCache struct {
	folder string
	source scraper.Source
	logger *logrus.Logger
}

func NewLyricCache(logger *logrus.Logger, folder string, source scraper.Source) *LyricCache {
	return &LyricCache{
		folder: folder,
		source: source,
		logger: utils.LoggerOr(logger),
	}
}

func (c *LyricCache) Folder() string {
	return c.folder
}

// FileName returns the cache file name for a track, e.g. YOASOBI「夜に駆ける」.txt.
func FileName(artist, title string) string {
	return artist + "「" + title + "」.txt"
}

func (c *LyricCache) Path(artist, title string) string {
	return filepath.Join(c.folder, FileName(artist, title))
}

func (c *LyricCache) Exists(artist, title string) bool {
	_, err := os.Stat(c.Path(artist, title))
	return err == nil
}

// EnsureCached makes sure the lyrics of track are on disk. Lookup errors other than
// scraper.ErrNotFound are returned as is, write errors wrap ErrCacheWrite.
func (c *LyricCache) EnsureCached(ctx context.Context, track scraper.Track) (Status, error) {
	if c.Exists(track.Artist, track.Title) {
		c.logger.Debugf("%s already cached", track)
		return StatusExists, nil
	}

	lyrics, err := c.source.Lyrics(ctx, track)
	if err != nil {
		if errors.Is(err, scraper.ErrNotFound) {
			c.logger.Infof("Could not find lyrics for %s", track)
			return StatusNotFound, nil
		}
		return StatusNotFound, err
	}

	if err := os.MkdirAll(c.folder, os.ModePerm); err != nil {
		return StatusNotFound, fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	path := c.Path(track.Artist, track.Title)
	err = writeFileAtomic(path, func(f *os.File) error {
		_, err := f.WriteString(lyrics)
		return err
	})
	if err != nil {
		return StatusNotFound, fmt.Errorf("%w: %s: %w", ErrCacheWrite, path, err)
	}
	c.logger.Infof("Saved lyrics for %s", track)
	return StatusCreated, nil
}
