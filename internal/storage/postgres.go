package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/models"
)

// PostgresStore implements storage using PostgreSQL (shared deployments)
type PostgresStore struct {
	db *sqlx.DB
}

// postgresAnalysisRow keeps the pattern set in a TEXT[] column
type postgresAnalysisRow struct {
	JobID              string         `db:"job_id"`
	EntitiesFound      int            `db:"entities_found"`
	RelationshipsFound int            `db:"relationships_found"`
	Language           string         `db:"language"`
	ProcessingTime     float64        `db:"processing_time"`
	Patterns           pq.StringArray `db:"patterns"`
	CreatedAt          time.Time      `db:"created_at"`
}

// NewPostgresStore creates a new PostgreSQL storage
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, errors.DatabaseError(err, "connect to postgres")
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, errors.DatabaseError(err, "init schema")
	}

	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		data TEXT NOT NULL DEFAULT '',
		submitted_at TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL,
		result TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS analysis_results (
		job_id TEXT PRIMARY KEY,
		entities_found INTEGER NOT NULL,
		relationships_found INTEGER NOT NULL,
		language TEXT NOT NULL,
		processing_time DOUBLE PRECISION NOT NULL,
		patterns TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	CREATE INDEX IF NOT EXISTS idx_analysis_language ON analysis_results(language);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Job operations

func (s *PostgresStore) SaveJob(ctx context.Context, job *models.Job) error {
	if err := validateJob(job); err != nil {
		return err
	}
	if _, err := s.db.NamedExecContext(ctx, upsertJobQuery, newJobRow(job)); err != nil {
		return errors.DatabaseErrorf(err, "save job %s", job.ID)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
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

// Analysis operations

func (s *PostgresStore) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	stamp(record)

	row := postgresAnalysisRow{
		JobID:              record.JobID,
		EntitiesFound:      record.EntitiesFound,
		RelationshipsFound: record.RelationshipsFound,
		Language:           record.Language,
		ProcessingTime:     record.ProcessingTime,
		Patterns:           pq.StringArray(models.PatternStrings(record.Patterns)),
		CreatedAt:          record.CreatedAt.UTC(),
	}
	if _, err := s.db.NamedExecContext(ctx, upsertAnalysisQuery, row); err != nil {
		return errors.DatabaseErrorf(err, "save analysis %s", record.JobID)
	}
	return nil
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var row postgresAnalysisRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(selectAnalysisQuery), id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound("analysis", id)
		}
		return nil, errors.DatabaseErrorf(err, "get analysis %s", id)
	}

	return &models.AnalysisRecord{
		JobID:              row.JobID,
		EntitiesFound:      row.EntitiesFound,
		RelationshipsFound: row.RelationshipsFound,
		Language:           row.Language,
		ProcessingTime:     row.ProcessingTime,
		Patterns:           models.PatternTags(row.Patterns),
		CreatedAt:          row.CreatedAt.UTC(),
	}, nil
}
