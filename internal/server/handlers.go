package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kioku-dev/kioku/internal/embedding"
	"github.com/kioku-dev/kioku/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type loadRequest struct {
	Path string `json:"path"`
}

type statusResponse struct {
	Status     string `json:"status"`
	Records    int64  `json:"records"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	Metric     string `json:"metric"`
	ChunkSize  int    `json:"chunk_size"`
}

func (s *Server) handleIngestDocument(w http.ResponseWriter, r *http.Request) {
	var doc models.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if doc.Text == "" {
		respondError(w, http.StatusBadRequest, "text cannot be empty")
		return
	}

	result, err := s.ingester.IngestDocument(r.Context(), &doc)
	if err != nil {
		s.logger.Error("Document ingestion failed",
			zap.String("document_id", doc.ID),
			zap.Error(err))
		respondError(w, ingestStatusCode(err), err.Error())
		return
	}

	s.logger.Debug("Document ingested",
		zap.String("document_id", result.DocumentID),
		zap.Int("chunks", result.ChunksIngested))
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleLoadFile(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		respondError(w, http.StatusBadRequest, "path cannot be empty")
		return
	}

	result, err := s.ingester.IngestFile(r.Context(), req.Path)
	if err != nil && result == nil {
		s.logger.Error("File load failed", zap.String("path", req.Path), zap.Error(err))
		respondError(w, ingestStatusCode(err), err.Error())
		return
	}
	if err != nil {
		// Some lines failed but others were stored. Report the partial
		// result along with the first error.
		s.logger.Warn("File partially loaded",
			zap.String("path", req.Path),
			zap.Int("chunks", result.ChunksIngested),
			zap.Error(err))
	}
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.querier.Query(r.Context(), &req)
	if err != nil {
		if resp == nil && req.Query == "" {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Query failed", zap.String("query", req.Query), zap.Error(err))
		respondError(w, queryStatusCode(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		s.logger.Error("Record count failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "store unavailable")
		return
	}

	respondJSON(w, http.StatusOK, &statusResponse{
		Status:     "ok",
		Records:    count,
		Model:      s.config.Embedding.Model,
		Dimensions: s.config.Embedding.Dimensions,
		Metric:     s.config.Query.Metric,
		ChunkSize:  s.config.Chunking.ChunkSize,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ingestStatusCode maps ingestion errors to HTTP status codes. Provider
// failures are reported as 502 so clients can distinguish them from bad input.
func ingestStatusCode(err error) int {
	switch {
	case errors.Is(err, embedding.ErrProviderUnavailable),
		errors.Is(err, embedding.ErrProviderError),
		errors.Is(err, embedding.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func queryStatusCode(err error) int {
	var dim *models.DimensionMismatchError
	switch {
	case errors.Is(err, embedding.ErrProviderUnavailable),
		errors.Is(err, embedding.ErrProviderError),
		errors.Is(err, embedding.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.As(err, &dim):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
