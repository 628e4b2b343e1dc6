package storage

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rohankatakam/codeinsight/internal/models"
)

const (
	jobKeyPrefix      = "job:"
	analysisKeyPrefix = "analysis:"
)

// MemoryStore keeps records in process memory. Records expire after ttl;
// a zero ttl keeps them until the process exits.
type MemoryStore struct {
	items *cache.Cache
	ttl   time.Duration
}

// NewMemoryStore creates an in-memory store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = 10 * time.Minute
		if ttl < cleanup {
			cleanup = ttl
		}
	}
	return &MemoryStore{
		items: cache.New(expiration, cleanup),
		ttl:   expiration,
	}
}

func (s *MemoryStore) SaveJob(ctx context.Context, job *models.Job) error {
	if err := validateJob(job); err != nil {
		return err
	}
	s.items.Set(jobKeyPrefix+job.ID, cloneJob(job), s.ttl)
	return nil
}

func (s *MemoryStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	cached, found := s.items.Get(jobKeyPrefix + id)
	if !found {
		return nil, notFound("job", id)
	}
	return cloneJob(cached.(*models.Job)), nil
}

func (s *MemoryStore) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	stamp(record)
	s.items.Set(analysisKeyPrefix+record.JobID, cloneRecord(record), s.ttl)
	return nil
}

func (s *MemoryStore) GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	cached, found := s.items.Get(analysisKeyPrefix + id)
	if !found {
		return nil, notFound("analysis", id)
	}
	return cloneRecord(cached.(*models.AnalysisRecord)), nil
}

// Close drops every record
func (s *MemoryStore) Close() error {
	s.items.Flush()
	return nil
}
