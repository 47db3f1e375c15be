package storage

import (
	"errors"
	"fmt"

	"lyrics-visualizer/analysis"
	"lyrics-visualizer/utils"
)

// ErrCorpusNotFound is returned by LoadCounts when nothing was saved under the corpus name.
var ErrCorpusNotFound = errors.New("no counts stored for corpus")

// Storage persists ranked word counts per corpus (usually the lyrics folder name).
type Storage interface {
	Init() error
	SaveCounts(corpus string, counts []analysis.WordCount) error
	LoadCounts(corpus string) ([]analysis.WordCount, error)
	ListCorpora() ([]string, error)
	Close() error
}

// NewStorage creates the backend named by storageType. path is a directory for file and sqlite,
// a connection string for postgres and a URL for redis.
func NewStorage(storageType, path string) (Storage, error) {
	switch storageType {
	case "file":
		return NewFileStorage(path)
	case "sqlite":
		return NewSQLiteStorage(path)
	case "postgres":
		return NewPostgreSQLStorage(path)
	case "redis":
		return NewRedisStorage(path)
	case "memory", "":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage type %q", utils.ErrConfig, storageType)
	}
}
