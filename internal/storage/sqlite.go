package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/models"
)

// SQLiteStore implements storage using SQLite (for local/development)
type SQLiteStore struct {
	db *sqlx.DB
}

// sqliteAnalysisRow keeps the pattern set as a JSON array
type sqliteAnalysisRow struct {
	JobID              string    `db:"job_id"`
	EntitiesFound      int       `db:"entities_found"`
	RelationshipsFound int       `db:"relationships_found"`
	Language           string    `db:"language"`
	ProcessingTime     float64   `db:"processing_time"`
	Patterns           string    `db:"patterns"`
	CreatedAt          time.Time `db:"created_at"`
}

// NewSQLiteStore creates a new SQLite storage
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, errors.DatabaseError(err, "connect to sqlite")
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, errors.DatabaseError(err, "init schema")
	}

	return store, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		data TEXT NOT NULL DEFAULT '',
		submitted_at DATETIME NOT NULL,
		status TEXT NOT NULL,
		result TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS analysis_results (
		job_id TEXT PRIMARY KEY,
		entities_found INTEGER NOT NULL,
		relationships_found INTEGER NOT NULL,
		language TEXT NOT NULL,
		processing_time REAL NOT NULL,
		patterns TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	CREATE INDEX IF NOT EXISTS idx_analysis_language ON analysis_results(language);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *SQLiteStore) SaveJob(ctx context.Context, job *models.Job) error {
	if err := validateJob(job); err != nil {
		return err
	}
	if _, err := s.db.NamedExecContext(ctx, upsertJobQuery, newJobRow(job)); err != nil {
		return errors.DatabaseErrorf(err, "save job %s", job.ID)
	}
	return nil
}

func (s *SQLiteStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var row jobRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(selectJobQuery), id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound("job", id)
		}
		return nil, errors.DatabaseErrorf(err, "get job %s", id)
	}
	return row.toModel(), nil
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	stamp(record)

	patterns, err := json.Marshal(models.PatternStrings(record.Patterns))
	if err != nil {
		return fmt.Errorf("encode patterns: %w", err)
	}

	row := sqliteAnalysisRow{
		JobID:              record.JobID,
		EntitiesFound:      record.EntitiesFound,
		RelationshipsFound: record.RelationshipsFound,
		Language:           record.Language,
		ProcessingTime:     record.ProcessingTime,
		Patterns:           string(patterns),
		CreatedAt:          record.CreatedAt.UTC(),
	}
	if _, err := s.db.NamedExecContext(ctx, upsertAnalysisQuery, row); err != nil {
		return errors.DatabaseErrorf(err, "save analysis %s", record.JobID)
	}
	return nil
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var row sqliteAnalysisRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(selectAnalysisQuery), id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound("analysis", id)
		}
		return nil, errors.DatabaseErrorf(err, "get analysis %s", id)
	}

	var patterns []string
	if err := json.Unmarshal([]byte(row.Patterns), &patterns); err != nil {
		return nil, errors.DatabaseErrorf(err, "decode patterns of %s", id)
	}

	return &models.AnalysisRecord{
		JobID:              row.JobID,
		EntitiesFound:      row.EntitiesFound,
		RelationshipsFound: row.RelationshipsFound,
		Language:           row.Language,
		ProcessingTime:     row.ProcessingTime,
		Patterns:           models.PatternTags(patterns),
		CreatedAt:          row.CreatedAt.UTC(),
	}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
