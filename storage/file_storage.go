package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"lyrics-visualizer/analysis"
)

const fileStorageName = "counts.json"

// FileStorage keeps every corpus in a single JSON file inside a directory.
type FileStorage struct {
	mu       sync.Mutex
	counts   map[string][]analysis.WordCount
	filePath string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}

	fs := &FileStorage{
		counts:   make(map[string][]analysis.WordCount),
		filePath: filepath.Join(dir, fileStorageName),
	}
	if err := fs.loadFromFile(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (s *FileStorage) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadFromFile()
}

func (s *FileStorage) SaveCounts(corpus string, counts []analysis.WordCount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[corpus] = append([]analysis.WordCount(nil), counts...)
	return s.saveToFile()
}

func (s *FileStorage) LoadCounts(corpus string) ([]analysis.WordCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts, ok := s.counts[corpus]
	if !ok {
		return nil, ErrCorpusNotFound
	}
	return append([]analysis.WordCount(nil), counts...), nil
}

func (s *FileStorage) ListCorpora() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var corpora []string
	for corpus := range s.counts {
		corpora = append(corpora, corpus)
	}
	sort.Strings(corpora)
	return corpora, nil
}

func (s *FileStorage) Close() error { return nil }

func (s *FileStorage) loadFromFile() error {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File does not exist, will create when storing
		}
		return err
	}
	defer file.Close()

	counts := make(map[string][]analysis.WordCount)
	if err := json.NewDecoder(file).Decode(&counts); err != nil {
		return err
	}
	s.counts = counts
	return nil
}

func (s *FileStorage) saveToFile() error {
	return writeFileAtomic(s.filePath, func(f *os.File) error {
		encoder := json.NewEncoder(f)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s.counts)
	})
}

// writeFileAtomic writes through a dot-prefixed temp file in the same directory and renames it over path.
func writeFileAtomic(path string, write func(f *os.File) error) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
