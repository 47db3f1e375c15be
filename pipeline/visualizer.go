package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"lyrics-visualizer/analysis"
	"lyrics-visualizer/report"
	"lyrics-visualizer/storage"
	"lyrics-visualizer/utils"
)

// CountOptions controls how a lyrics folder is aggregated and reported.
type CountOptions struct {
	Folder     string
	ResultsDir string
	// ReportName defaults to the folder's base name.
	ReportName string
	Format     string
	// Merge adds the counts stored for the corpus instead of replacing them.
	Merge bool
}

func (o CountOptions) corpus() string {
	return filepath.Base(filepath.Clean(o.Folder))
}

func (o CountOptions) reportName() string {
	if o.ReportName != "" {
		return o.ReportName
	}
	return o.corpus()
}

type CountResult struct {
	Ranked     []analysis.WordCount
	ReportPath string
}

// Visualizer ties the download, count and chart stages together.
type Visualizer struct {
	downloader *Downloader
	lemmatizer *analysis.Lemmatizer
	store      storage.Storage
	logger     *logrus.Logger
}

// NewVisualizer wires the stages. downloader may be nil when only counting, store may be nil
// to skip persistence.
func NewVisualizer(logger *logrus.Logger, downloader *Downloader, lemmatizer *analysis.Lemmatizer, store storage.Storage) *Visualizer {
	return &Visualizer{
		downloader: downloader,
		lemmatizer: lemmatizer,
		store:      store,
		logger:     utils.LoggerOr(logger),
	}
}

// Count aggregates the folder, writes the report and saves the ranking to the store.
func (v *Visualizer) Count(opts CountOptions) (*CountResult, error) {
	counter, err := analysis.CountFolder(v.logger, opts.Folder, v.lemmatizer)
	if err != nil {
		return nil, err
	}

	corpus := opts.corpus()
	if opts.Merge && v.store != nil {
		stored, err := v.store.LoadCounts(corpus)
		switch {
		case err == nil:
			merged := analysis.CounterFrom(stored)
			merged.Merge(counter)
			counter = merged
			v.logger.Infof("Merged with %d stored words for %s", len(stored), corpus)
		case errors.Is(err, storage.ErrCorpusNotFound):
			v.logger.Debugf("Nothing stored for %s yet", corpus)
		default:
			return nil, fmt.Errorf("loading stored counts: %w", err)
		}
	}

	ranked := counter.Ranked()
	path, err := report.Save(opts.ResultsDir, opts.reportName(), opts.Format, ranked)
	if err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	v.logger.Infof("Wrote %d words to %s", len(ranked), path)

	if v.store != nil {
		if err := v.store.SaveCounts(corpus, ranked); err != nil {
			return nil, fmt.Errorf("storing counts: %w", err)
		}
	}
	return &CountResult{Ranked: ranked, ReportPath: path}, nil
}

// RunResult is everything the visualize command prints.
type RunResult struct {
	Summary *Summary
	CountResult
	Chart string
}

// Run downloads the playlist's lyrics into the folder, counts them and renders the top words.
func (v *Visualizer) Run(ctx context.Context, playlistID string, top int, opts CountOptions) (*RunResult, error) {
	if v.downloader == nil {
		return nil, fmt.Errorf("%w: no downloader configured", utils.ErrConfig)
	}
	summary, err := v.downloader.DownloadAll(ctx, playlistID, opts.Folder)
	if err != nil {
		return &RunResult{Summary: summary}, err
	}

	counted, err := v.Count(opts)
	if err != nil {
		return &RunResult{Summary: summary}, err
	}

	return &RunResult{
		Summary:     summary,
		CountResult: *counted,
		Chart:       report.BarChart(counted.Ranked, top, report.ChartTitle(top, opts.corpus())),
	}, nil
}
