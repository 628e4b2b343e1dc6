package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rohankatakam/codeinsight/internal/analysis"
	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/models"
	"github.com/rohankatakam/codeinsight/internal/peer"
)

type processRequest struct {
	Action string `json:"action"`
	Data   string `json:"data"`
}

type processResponse struct {
	JobID  string           `json:"job_id"`
	Status models.JobStatus `json:"status"`
	Result interface{}      `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type codeRequest struct {
	Code         string `json:"code"`
	Language     string `json:"language,omitempty"`
	PeerLanguage string `json:"peer_language,omitempty"`
}

type languageAnalysisResponse struct {
	AnalysisID     string                 `json:"analysis_id"`
	Language       string                 `json:"language"`
	ProcessingTime float64                `json:"processing_time"`
	Results        *models.AnalysisRecord `json:"results"`
	Details        *models.AnalysisResult `json:"details"`
}

var errNoData = errors.ValidationError("No data provided")

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	if err := s.decode(w, r, &fields); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(fields) == 0 {
		s.writeError(w, r, errNoData)
		return
	}

	var req processRequest
	raw, _ := json.Marshal(fields)
	if err := json.Unmarshal(raw, &req); err != nil {
		s.writeError(w, r, errors.ValidationError("action and data must be strings"))
		return
	}
	if req.Action == "" {
		req.Action = "analyze"
	}

	ctx := r.Context()
	job := &models.Job{
		ID:        "job_" + uuid.NewString(),
		Action:    req.Action,
		Data:      req.Data,
		Timestamp: time.Now().UTC(),
		Status:    models.JobPending,
	}
	if err := s.store.SaveJob(ctx, job); err != nil {
		s.writeError(w, r, err)
		return
	}

	action, ok := s.actions[req.Action]
	if !ok {
		job.Status = models.JobFailed
		job.Error = fmt.Sprintf("Unknown action: %s", req.Action)
		if err := s.store.SaveJob(ctx, job); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusBadRequest, processResponse{
			JobID:  job.ID,
			Status: job.Status,
			Error:  job.Error,
		})
		return
	}

	result, err := action(req.Data)
	if err == nil {
		job.Result, err = json.Marshal(result)
	}
	if err != nil {
		job.Status = models.JobFailed
		job.Error = err.Error()
		if saveErr := s.store.SaveJob(ctx, job); saveErr != nil {
			s.logger.Error("failed to record job failure", "job_id", job.ID, "error", saveErr)
		}
		s.writeError(w, r, err)
		return
	}

	job.Status = models.JobCompleted
	if err := s.store.SaveJob(ctx, job); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Debug("job completed", "job_id", job.ID, "action", job.Action)
	s.writeJSON(w, http.StatusOK, processResponse{
		JobID:  job.ID,
		Status: job.Status,
		Result: result,
	})
}

// handleAnalyze is the peer-facing endpoint: a structural scan, specialized
// when the body names a language
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Language == "" {
		s.writeJSON(w, http.StatusOK, analysis.ScanStructure(req.Code))
		return
	}

	result, err := analysis.AnalyzeLanguage(req.Code, req.Language)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalyzeLanguage(w http.ResponseWriter, r *http.Request) {
	lang, err := analysis.ParseLanguage(r.PathValue("language"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req codeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	start := time.Now()
	result, err := analysis.Specialize(nil, req.Code, lang)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	elapsed := time.Since(start).Seconds()

	record := &models.AnalysisRecord{
		JobID:              "analysis_" + uuid.NewString(),
		EntitiesFound:      result.EntitiesCount,
		RelationshipsFound: result.RelationshipsCount,
		Language:           string(lang),
		ProcessingTime:     elapsed,
		Patterns:           result.Patterns,
	}
	if err := s.store.SaveAnalysis(r.Context(), record); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, languageAnalysisResponse{
		AnalysisID:     record.JobID,
		Language:       record.Language,
		ProcessingTime: elapsed,
		Results:        record,
		Details:        result,
	})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.peer == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "No peer service configured"})
		return
	}

	var req codeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := peer.Synchronize(r.Context(), s.peer, req.Code, req.Language, req.PeerLanguage)
	if err != nil {
		if stderrors.Is(err, errors.ErrPeerUnavailable) {
			s.logger.Warn("peer synchronization failed", "error", err)
			s.writeJSON(w, http.StatusBadGateway, errorBody{Error: "Failed to communicate with peer service"})
			return
		}
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	record, err := s.store.GetAnalysis(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

// decode reads a JSON body bounded by maxBody. An empty body is reported as
// "No data provided".
func (s *Server) decode(w http.ResponseWriter, r *http.Request, target interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.Is(err, io.EOF):
			return errNoData
		case stderrors.As(err, &tooLarge):
			return errors.ValidationErrorf("request body exceeds %d bytes", tooLarge.Limit)
		default:
			return errors.ValidationErrorf("invalid JSON body: %s", strings.TrimPrefix(err.Error(), "json: "))
		}
	}
	return nil
}
