package storage

import (
	"encoding/json"
	"time"

	"github.com/rohankatakam/codeinsight/internal/models"
)

// jobRow is the column layout of the jobs table. Result and error are
// stored as empty strings rather than NULL.
type jobRow struct {
	ID          string    `db:"id"`
	Action      string    `db:"action"`
	Data        string    `db:"data"`
	SubmittedAt time.Time `db:"submitted_at"`
	Status      string    `db:"status"`
	Result      string    `db:"result"`
	Error       string    `db:"error"`
}

func newJobRow(job *models.Job) jobRow {
	return jobRow{
		ID:          job.ID,
		Action:      job.Action,
		Data:        job.Data,
		SubmittedAt: job.Timestamp.UTC(),
		Status:      string(job.Status),
		Result:      string(job.Result),
		Error:       job.Error,
	}
}

func (r jobRow) toModel() *models.Job {
	job := &models.Job{
		ID:        r.ID,
		Action:    r.Action,
		Data:      r.Data,
		Timestamp: r.SubmittedAt.UTC(),
		Status:    models.JobStatus(r.Status),
		Error:     r.Error,
	}
	if r.Result != "" {
		job.Result = json.RawMessage(r.Result)
	}
	return job
}

const upsertJobQuery = `
	INSERT INTO jobs (id, action, data, submitted_at, status, result, error)
	VALUES (:id, :action, :data, :submitted_at, :status, :result, :error)
	ON CONFLICT (id) DO UPDATE SET
		status = excluded.status,
		result = excluded.result,
		error = excluded.error
`

const selectJobQuery = `
	SELECT id, action, data, submitted_at, status, result, error
	FROM jobs WHERE id = ?
`

const upsertAnalysisQuery = `
	INSERT INTO analysis_results (job_id, entities_found, relationships_found,
		language, processing_time, patterns, created_at)
	VALUES (:job_id, :entities_found, :relationships_found,
		:language, :processing_time, :patterns, :created_at)
	ON CONFLICT (job_id) DO UPDATE SET
		entities_found = excluded.entities_found,
		relationships_found = excluded.relationships_found,
		language = excluded.language,
		processing_time = excluded.processing_time,
		patterns = excluded.patterns
`

const selectAnalysisQuery = `
	SELECT job_id, entities_found, relationships_found, language,
		processing_time, patterns, created_at
	FROM analysis_results WHERE job_id = ?
`
