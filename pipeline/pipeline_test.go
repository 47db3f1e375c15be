package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyrics-visualizer/analysis"
	"lyrics-visualizer/report"
	"lyrics-visualizer/scraper"
	"lyrics-visualizer/storage"
	"lyrics-visualizer/utils"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeLister struct {
	tracks []scraper.Track
	err    error
}

func (f fakeLister) TracksTable(context.Context, string) ([]scraper.Track, error) {
	return f.tracks, f.err
}

// mapSource answers from a map keyed by Track.String and records every lookup.
type mapSource struct {
	lyrics map[string]string
	errs   map[string]error
	asked  []string
	onCall func()
}

func (m *mapSource) Lyrics(_ context.Context, track scraper.Track) (string, error) {
	m.asked = append(m.asked, track.String())
	if m.onCall != nil {
		m.onCall()
	}
	if err, ok := m.errs[track.String()]; ok {
		return "", err
	}
	if text, ok := m.lyrics[track.String()]; ok {
		return text, nil
	}
	return "", scraper.ErrNotFound
}

// fieldsAnalyzer splits on whitespace and uses the surface as lemma.
type fieldsAnalyzer struct{}

func (fieldsAnalyzer) Analyze(text string) []analysis.Token {
	var tokens []analysis.Token
	for _, f := range strings.Fields(text) {
		tokens = append(tokens, analysis.Token{Surface: f, Lemma: f})
	}
	return tokens
}

func TestDownloadAll(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, storage.FileName("Aimer", "カタオモイ")), []byte("cached"), 0o644))

	lister := fakeLister{tracks: []scraper.Track{
		{Artist: "AC/DC", Title: "夢"},
		{Artist: "Aimer", Title: "カタオモイ"},
		{Artist: "Ado", Title: "うっせぇわ"},
		{Artist: "YOASOBI", Title: "群青"},
	}}
	source := &mapSource{
		lyrics: map[string]string{"AC DC「夢」": "夢 夢"},
		errs:   map[string]error{"YOASOBI「群青」": errors.Join(utils.ErrNetwork, errors.New("reset"))},
	}

	summary, err := NewDownloader(quietLogger(), lister, source).DownloadAll(context.Background(), "pl", folder)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Tracks: 4, Created: 1, Existing: 1, NotFound: 1, Failed: 1}, summary)
	assert.Equal(t, 4, summary.Processed())

	// The cached track is never looked up and the artist is sanitized before lookup.
	assert.Equal(t, []string{"AC DC「夢」", "Ado「うっせぇわ」", "YOASOBI「群青」"}, source.asked)

	data, err := os.ReadFile(filepath.Join(folder, "AC DC「夢」.txt"))
	require.NoError(t, err)
	assert.Equal(t, "夢 夢", string(data))
	_, err = os.Stat(filepath.Join(folder, "Ado「うっせぇわ」.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownloadAllEmptyPlaylist(t *testing.T) {
	summary, err := NewDownloader(quietLogger(), fakeLister{}, &mapSource{}).DownloadAll(context.Background(), "pl", t.TempDir())
	assert.ErrorIs(t, err, utils.ErrEmptyPlaylist)
	assert.Nil(t, summary)
}

func TestDownloadAllListError(t *testing.T) {
	lister := fakeLister{err: utils.ErrAuth}
	_, err := NewDownloader(quietLogger(), lister, &mapSource{}).DownloadAll(context.Background(), "pl", t.TempDir())
	assert.ErrorIs(t, err, utils.ErrAuth)
}

func TestDownloadAllStopsOnWriteError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "lyrics")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	lister := fakeLister{tracks: []scraper.Track{{Artist: "a", Title: "1"}, {Artist: "a", Title: "2"}}}
	source := &mapSource{lyrics: map[string]string{"a「1」": "x", "a「2」": "y"}}

	summary, err := NewDownloader(quietLogger(), lister, source).DownloadAll(context.Background(), "pl", blocker)
	assert.ErrorIs(t, err, storage.ErrCacheWrite)
	assert.Equal(t, 0, summary.Processed())
	assert.Len(t, source.asked, 1)
}

func TestDownloadAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lister := fakeLister{tracks: []scraper.Track{{Artist: "a", Title: "1"}, {Artist: "a", Title: "2"}, {Artist: "a", Title: "3"}}}
	source := &mapSource{lyrics: map[string]string{"a「1」": "x"}, onCall: cancel}

	summary, err := NewDownloader(quietLogger(), lister, source).DownloadAll(ctx, "pl", t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, summary.Created)
	assert.Len(t, source.asked, 1)
}

func newTestVisualizer(store storage.Storage, downloader *Downloader) *Visualizer {
	lemmatizer := analysis.NewLemmatizer(fieldsAnalyzer{}, analysis.DefaultStopwords())
	return NewVisualizer(quietLogger(), downloader, lemmatizer, store)
}

func TestCount(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "anime")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "a.txt"), []byte("猫 犬 猫"), 0o644))
	results := t.TempDir()
	store := storage.NewMemoryStorage()

	res, err := newTestVisualizer(store, nil).Count(CountOptions{Folder: folder, ResultsDir: results})
	require.NoError(t, err)
	assert.Equal(t, []analysis.WordCount{{Word: "猫", Count: 2}, {Word: "犬", Count: 1}}, res.Ranked)
	assert.Equal(t, filepath.Join(results, "anime.csv"), res.ReportPath)

	f, err := os.Open(res.ReportPath)
	require.NoError(t, err)
	defer f.Close()
	fromCSV, err := report.ReadCSV(f)
	require.NoError(t, err)
	assert.Equal(t, res.Ranked, fromCSV)

	stored, err := store.LoadCounts("anime")
	require.NoError(t, err)
	assert.Equal(t, res.Ranked, stored)
}

func TestCountMerge(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "anime")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "a.txt"), []byte("猫 犬"), 0o644))

	store := storage.NewMemoryStorage()
	require.NoError(t, store.SaveCounts("anime", []analysis.WordCount{{Word: "犬", Count: 4}, {Word: "空", Count: 1}}))

	opts := CountOptions{Folder: folder, ResultsDir: t.TempDir(), ReportName: "merged", Format: report.FormatText, Merge: true}
	res, err := newTestVisualizer(store, nil).Count(opts)
	require.NoError(t, err)
	assert.Equal(t, []analysis.WordCount{{Word: "犬", Count: 5}, {Word: "空", Count: 1}, {Word: "猫", Count: 1}}, res.Ranked)
	assert.Equal(t, "merged.txt", filepath.Base(res.ReportPath))

	// Without merge the stored counts are replaced.
	opts.Merge = false
	res, err = newTestVisualizer(store, nil).Count(opts)
	require.NoError(t, err)
	assert.Equal(t, []analysis.WordCount{{Word: "猫", Count: 1}, {Word: "犬", Count: 1}}, res.Ranked)
}

func TestCountMissingFolder(t *testing.T) {
	_, err := newTestVisualizer(nil, nil).Count(CountOptions{Folder: filepath.Join(t.TempDir(), "nope"), ResultsDir: t.TempDir()})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "songs")
	lister := fakeLister{tracks: []scraper.Track{{Artist: "a", Title: "1"}, {Artist: "b", Title: "2"}}}
	source := &mapSource{lyrics: map[string]string{"a「1」": "星 星 夜", "b「2」": "星"}}
	downloader := NewDownloader(quietLogger(), lister, source)

	res, err := newTestVisualizer(nil, downloader).Run(context.Background(), "pl", 1, CountOptions{Folder: folder, ResultsDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Summary.Created)
	assert.Equal(t, []analysis.WordCount{{Word: "星", Count: 3}, {Word: "夜", Count: 1}}, res.Ranked)
	assert.Contains(t, res.Chart, "Top 1 words in the folder 'songs'")
	assert.Contains(t, res.Chart, "星")
	assert.NotContains(t, res.Chart, "夜")
}

func TestRunWithoutDownloader(t *testing.T) {
	_, err := newTestVisualizer(nil, nil).Run(context.Background(), "pl", 5, CountOptions{Folder: t.TempDir()})
	assert.ErrorIs(t, err, utils.ErrConfig)
}
