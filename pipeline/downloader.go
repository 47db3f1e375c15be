package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"lyrics-visualizer/scraper"
	"lyrics-visualizer/storage"
	"lyrics-visualizer/utils"
)

// TrackLister returns the sorted (artist, title) table of a playlist.
type TrackLister interface {
	TracksTable(ctx context.Context, playlistID string) ([]scraper.Track, error)
}

// Summary counts what happened to each track of a download run.
type Summary struct {
	Tracks   int
	Created  int
	Existing int
	NotFound int
	Failed   int
}

func (s Summary) Processed() int {
	return s.Created + s.Existing + s.NotFound + s.Failed
}

type Downloader struct {
	tracks TrackLister
	source scraper.Source
	logger *logrus.Logger
}

func NewDownloader(logger *logrus.Logger, tracks TrackLister, source scraper.Source) *Downloader {
	return &Downloader{
		tracks: tracks,
		source: source,
		logger: utils.LoggerOr(logger),
	}
}

// DownloadAll fetches the lyrics of every track of the playlist into folder, one track at a time.
// Missing lyrics and network failures are counted and skipped. A cache write failure or a
// cancelled context stops the run and the partial summary is returned with the error.
func (d *Downloader) DownloadAll(ctx context.Context, playlistID, folder string) (*Summary, error) {
	tracks, err := d.tracks.TracksTable(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %s", utils.ErrEmptyPlaylist, playlistID)
	}

	cache := storage.NewLyricCache(d.logger, folder, d.source)
	summary := &Summary{Tracks: len(tracks)}
	d.logger.Infof("Downloading lyrics for %d tracks into %s", len(tracks), folder)

	for i, track := range tracks {
		if err := ctx.Err(); err != nil {
			d.logger.Warnf("Stopped after %d of %d tracks", i, len(tracks))
			return summary, err
		}

		track = track.Sanitized()
		d.logger.Debugf("[%d/%d] %s", i+1, len(tracks), track)

		status, err := cache.EnsureCached(ctx, track)
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrCacheWrite):
			return summary, err
		case ctx.Err() != nil:
			d.logger.Warnf("Stopped after %d of %d tracks", i, len(tracks))
			return summary, ctx.Err()
		default:
			d.logger.Warnf("Error fetching lyrics for %s: %v", track, err)
			summary.Failed++
			continue
		}

		switch status {
		case storage.StatusCreated:
			summary.Created++
		case storage.StatusExists:
			summary.Existing++
		case storage.StatusNotFound:
			summary.NotFound++
		}
	}

	d.logger.Infof("Finished: %d created, %d already cached, %d not found, %d failed",
		summary.Created, summary.Existing, summary.NotFound, summary.Failed)
	return summary, nil
}
