package storage

import (
	"sort"
	"sync"

	"lyrics-visualizer/analysis"
	"lyrics-visualizer/utils"
)

type MemoryStorage struct {
	mu     sync.Mutex
	counts map[string][]analysis.WordCount
}

func NewMemoryStorage() *MemoryStorage {
	utils.Logger.Debug("Initializing in-memory storage")
	return &MemoryStorage{
		counts: make(map[string][]analysis.WordCount),
	}
}

func (s *MemoryStorage) Init() error { return nil }

func (s *MemoryStorage) SaveCounts(corpus string, counts []analysis.WordCount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[corpus] = append([]analysis.WordCount(nil), counts...)
	utils.Logger.Debugf("Stored %d counts for corpus %s in memory", len(counts), corpus)
	return nil
}

func (s *MemoryStorage) LoadCounts(corpus string) ([]analysis.WordCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts, ok := s.counts[corpus]
	if !ok {
		return nil, ErrCorpusNotFound
	}
	return append([]analysis.WordCount(nil), counts...), nil
}

func (s *MemoryStorage) ListCorpora() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	corpora := make([]string, 0, len(s.counts))
	for corpus := range s.counts {
		corpora = append(corpora, corpus)
	}
	sort.Strings(corpora)
	return corpora, nil
}

func (s *MemoryStorage) Close() error { return nil }
