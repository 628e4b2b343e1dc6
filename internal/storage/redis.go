package storage

import (
	"context"
	"time"

	"github.com/rohankatakam/codeinsight/internal/cache"
	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/models"
)

// RedisStore shares records between service instances through Redis.
// Records expire after ttl; zero keeps them.
type RedisStore struct {
	client *cache.Client
}

// NewRedisStore connects to Redis at addr
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client, err := cache.NewClient(ctx, cache.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		TTL:      ttl,
	})
	if err != nil {
		return nil, errors.DatabaseError(err, "connect to redis")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) SaveJob(ctx context.Context, job *models.Job) error {
	if err := validateJob(job); err != nil {
		return err
	}
	if err := s.client.Set(ctx, cache.Key("job", job.ID), job); err != nil {
		return errors.DatabaseErrorf(err, "save job %s", job.ID)
	}
	return nil
}

func (s *RedisStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	found, err := s.client.Get(ctx, cache.Key("job", id), &job)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "get job %s", id)
	}
	if !found {
		return nil, notFound("job", id)
	}
	return &job, nil
}

func (s *RedisStore) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	stamp(record)
	if err := s.client.Set(ctx, cache.Key("analysis", record.JobID), cloneRecord(record)); err != nil {
		return errors.DatabaseErrorf(err, "save analysis %s", record.JobID)
	}
	return nil
}

func (s *RedisStore) GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	found, err := s.client.Get(ctx, cache.Key("analysis", id), &record)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "get analysis %s", id)
	}
	if !found {
		return nil, notFound("analysis", id)
	}
	return cloneRecord(&record), nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
