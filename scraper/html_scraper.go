package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"lyrics-visualizer/utils"
)

const (
	DefaultLyricPrefix    = "https://www.lyrical-nonsense.com/lyrics"
	DefaultLyricContainer = "div.olyrictext"
	DefaultLyricParagraph = "p"
)

// LyricScraper extracts lyric text from pages of a single lyrics site.
type LyricScraper struct {
	fetcher   *Fetcher
	prefix    string
	container string
	paragraph string
	logger    *logrus.Logger
}

func NewLyricScraper(logger *logrus.Logger, fetcher *Fetcher, prefix, container string) *LyricScraper {
	if prefix == "" {
		prefix = DefaultLyricPrefix
	}
	if container == "" {
		container = DefaultLyricContainer
	}
	return &LyricScraper{
		fetcher:   fetcher,
		prefix:    prefix,
		container: container,
		paragraph: DefaultLyricParagraph,
		logger:    utils.LoggerOr(logger),
	}
}

// Scrape returns the lyrics on the page at url, paragraphs separated by a blank line.
// Every failure, including fetch errors, is reported as ErrNotFound.
func (s *LyricScraper) Scrape(ctx context.Context, url string) (string, error) {
	if url == "" || !strings.HasPrefix(url, s.prefix) {
		s.logger.Debugf("Skipping URL outside %s: %q", s.prefix, url)
		return "", ErrNotFound
	}

	doc, err := s.fetcher.Document(ctx, url)
	if err != nil {
		s.logger.Warnf("Error fetching lyrics page %s: %v", url, err)
		return "", ErrNotFound
	}

	lyrics := s.extract(doc)
	if lyrics == "" {
		s.logger.Debugf("Lyrics container %s not found at %s", s.container, url)
		return "", ErrNotFound
	}
	return lyrics, nil
}

func (s *LyricScraper) extract(doc *goquery.Document) string {
	container := doc.Find(s.container).First()
	if container.Length() == 0 {
		return ""
	}

	var sections []string
	container.Find(s.paragraph).Each(func(_ int, p *goquery.Selection) {
		sections = append(sections, p.Text())
	})
	if strings.TrimSpace(strings.Join(sections, "")) == "" {
		return ""
	}
	return strings.Join(sections, "\n\n")
}
