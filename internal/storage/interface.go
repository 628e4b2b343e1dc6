package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/rohankatakam/codeinsight/internal/config"
	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/models"
)

// ErrNotFound is returned (wrapped) when no record exists under an id
var ErrNotFound = errors.ErrNotFound

// Store persists processing jobs and analysis records. Implementations are
// safe for concurrent use. Get* returns an error matching ErrNotFound when
// the id is unknown.
type Store interface {
	// Job operations
	SaveJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)

	// Analysis operations
	SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error
	GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error)

	// Close connection
	Close() error
}

// Open builds the backend selected by cfg.Type
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "storage", "backend", cfg.Type)

	var (
		store Store
		err   error
	)
	switch cfg.Type {
	case config.StorageMemory, "":
		store = NewMemoryStore(cfg.TTL)
	case config.StorageBolt:
		store, err = NewBoltStore(cfg.LocalPath)
	case config.StorageSQLite:
		store, err = NewSQLiteStore(ctx, cfg.LocalPath)
	case config.StoragePostgres:
		store, err = NewPostgresStore(ctx, cfg.PostgresDSN)
	case config.StorageRedis:
		store, err = NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
	default:
		return nil, errors.ConfigErrorf("unknown storage type %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("store opened")
	return store, nil
}

func notFound(kind, id string) error {
	return errors.NotFound(kind, id)
}

func cloneJob(job *models.Job) *models.Job {
	out := *job
	if job.Result != nil {
		out.Result = append([]byte(nil), job.Result...)
	}
	return &out
}

func cloneRecord(record *models.AnalysisRecord) *models.AnalysisRecord {
	out := *record
	out.Patterns = append([]models.PatternTag{}, record.Patterns...)
	return &out
}

func validateJob(job *models.Job) error {
	if job == nil || job.ID == "" {
		return errors.ValidationError("job id is required")
	}
	return nil
}

func validateRecord(record *models.AnalysisRecord) error {
	if record == nil || record.JobID == "" {
		return errors.ValidationError("analysis id is required")
	}
	return nil
}

// stamp fills CreatedAt for records saved without one. Microsecond
// precision is what postgres keeps.
func stamp(record *models.AnalysisRecord) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
}
