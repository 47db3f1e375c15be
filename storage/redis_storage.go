package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	redisClient "github.com/go-redis/redis/v8"

	"lyrics-visualizer/analysis"
	"lyrics-visualizer/utils"
)

const (
	redisCorporaKey = "lyrics:corpora"
	redisCountsKey  = "lyrics:counts:"
)

type RedisStorage struct {
	client *redisClient.Client
}

// NewRedisStorage connects to a redis URL such as redis://localhost:6379/0.
func NewRedisStorage(url string) (*RedisStorage, error) {
	if url == "" || url == "data" {
		return nil, fmt.Errorf("%w: missing redis URL. Example: redis://localhost:6379/0 | provide via --storage-path", utils.ErrConfig)
	}
	opt, err := redisClient.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrConfig, err)
	}
	return &RedisStorage{client: redisClient.NewClient(opt)}, nil
}

func (s *RedisStorage) Init() error {
	return s.client.Ping(context.Background()).Err()
}

func (s *RedisStorage) SaveCounts(corpus string, counts []analysis.WordCount) error {
	ctx := context.Background()
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redisClient.Pipeliner) error {
		pipe.Set(ctx, redisCountsKey+corpus, data, 0)
		pipe.SAdd(ctx, redisCorporaKey, corpus)
		return nil
	})
	return err
}

func (s *RedisStorage) LoadCounts(corpus string) ([]analysis.WordCount, error) {
	data, err := s.client.Get(context.Background(), redisCountsKey+corpus).Bytes()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return nil, ErrCorpusNotFound
		}
		return nil, err
	}
	var counts []analysis.WordCount
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *RedisStorage) ListCorpora() ([]string, error) {
	corpora, err := s.client.SMembers(context.Background(), redisCorporaKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(corpora)
	return corpora, nil
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
