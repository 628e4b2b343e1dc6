package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/models"
	bolt "go.etcd.io/bbolt"
)

var (
	jobsBucket     = []byte("jobs")
	analysesBucket = []byte("analyses")
)

// BoltStore persists records as JSON values in an embedded bbolt file
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the bbolt file at path
func NewBoltStore(path string) (*BoltStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "open bolt database %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{jobsBucket, analysesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.DatabaseError(err, "init buckets")
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) put(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

// get returns false when the key is absent
func (s *BoltStore) get(bucket []byte, key string, target interface{}) (bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			// v is only valid inside the transaction
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || data == nil {
		return false, err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *BoltStore) SaveJob(ctx context.Context, job *models.Job) error {
	if err := validateJob(job); err != nil {
		return err
	}
	if err := s.put(jobsBucket, job.ID, job); err != nil {
		return errors.DatabaseErrorf(err, "save job %s", job.ID)
	}
	return nil
}

func (s *BoltStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	found, err := s.get(jobsBucket, id, &job)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "get job %s", id)
	}
	if !found {
		return nil, notFound("job", id)
	}
	return &job, nil
}

func (s *BoltStore) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	stamp(record)
	if err := s.put(analysesBucket, record.JobID, cloneRecord(record)); err != nil {
		return errors.DatabaseErrorf(err, "save analysis %s", record.JobID)
	}
	return nil
}

func (s *BoltStore) GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	found, err := s.get(analysesBucket, id, &record)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "get analysis %s", id)
	}
	if !found {
		return nil, notFound("analysis", id)
	}
	return cloneRecord(&record), nil
}

// Close closes the database file
func (s *BoltStore) Close() error {
	return s.db.Close()
}
