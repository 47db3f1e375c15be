package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"lyrics-visualizer/utils"
)

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Counter accumulates word counts and remembers the order in which words were first seen.
type Counter struct {
	counts map[string]int
	order  []string
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// CounterFrom rebuilds a counter from ranked counts, e.g. ones loaded from storage.
func CounterFrom(entries []WordCount) *Counter {
	c := NewCounter()
	for _, e := range entries {
		c.add(e.Word, e.Count)
	}
	return c
}

func (c *Counter) Update(words []string) {
	for _, w := range words {
		c.add(w, 1)
	}
}

// Merge adds every count of other into c. Words new to c are appended in other's first-seen order.
func (c *Counter) Merge(other *Counter) {
	for _, w := range other.order {
		c.add(w, other.counts[w])
	}
}

func (c *Counter) add(word string, n int) {
	if n <= 0 {
		return
	}
	if _, ok := c.counts[word]; !ok {
		c.order = append(c.order, word)
	}
	c.counts[word] += n
}

func (c *Counter) Count(word string) int {
	return c.counts[word]
}

// Len is the number of distinct words.
func (c *Counter) Len() int {
	return len(c.order)
}

// Total is the number of words counted.
func (c *Counter) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Ranked returns the counts sorted by descending count. Ties keep first-seen order.
func (c *Counter) Ranked() []WordCount {
	ranked := make([]WordCount, 0, len(c.order))
	for _, w := range c.order {
		ranked = append(ranked, WordCount{Word: w, Count: c.counts[w]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// Top returns at most n entries of ranked. A non-positive n returns everything.
func Top(ranked []WordCount, n int) []WordCount {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

// CountFolder lemmatizes every file in dir and returns the combined counts.
// Files are visited in name order. Subdirectories and dot files (including
// in-progress cache writes) are skipped; file extensions are not checked.
func CountFolder(logger *logrus.Logger, dir string, lemmatizer *Lemmatizer) (*Counter, error) {
	logger = utils.LoggerOr(logger)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read lyrics folder: %w", err)
	}

	counter := NewCounter()
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		lemmas := lemmatizer.Lemmatize(string(text))
		counter.Update(lemmas)
		logger.Debugf("Counted %d words in %s", len(lemmas), entry.Name())
	}
	return counter, nil
}
