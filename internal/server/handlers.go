package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/localmind/localmind/internal/docid"
	"github.com/localmind/localmind/internal/extract"
	"github.com/localmind/localmind/internal/index"
	"github.com/localmind/localmind/internal/models"
	"github.com/localmind/localmind/pkg/utils"
	"go.uber.org/zap"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if query.Limit <= 0 {
		query.Limit = s.config.Search.DefaultLimit
	}
	if err := query.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if query.Limit > s.config.Search.MaxLimit {
		query.Limit = s.config.Search.MaxLimit
	}
	s.logger.Debug("search request",
		zap.String("query", utils.Truncate(query.Query, 200)), zap.Int("limit", query.Limit))

	start := time.Now()
	results := s.store.Search(query.Query, query.Limit)
	if results == nil {
		results = []*models.SearchResult{}
	}
	s.respondJSON(w, http.StatusOK, &models.SearchResponse{
		Results:   results,
		Total:     len(results),
		Query:     query.Query,
		QueryTime: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var input models.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := input.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if input.ID == "" {
		input.ID = uuid.NewString()
	}
	s.logger.Debug("index document request", zap.String("id", input.ID), zap.String("title", input.Title))
	if err := s.store.Add(&input); err != nil {
		s.logger.Error("indexing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": input.ID, "status": "indexed"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Ingest.MaxFileBytes+4096)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Size > s.config.Ingest.MaxFileBytes {
		s.respondError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !extract.Supported(ext, s.config.Ingest.AllowedExtensions) {
		s.respondError(w, http.StatusUnsupportedMediaType,
			"unsupported file type, allowed: "+strings.Join(s.config.Ingest.AllowedExtensions, ", "))
		return
	}
	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	if len(content) == 0 {
		s.respondError(w, http.StatusBadRequest, "file is empty")
		return
	}

	res, err := extract.File(content, header.Filename)
	if err != nil {
		s.logger.Warn("extraction failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	res.Metadata["type"] = res.Type

	id := docid.FromContent(header.Filename, content)
	input := &models.DocumentInput{
		ID:       id,
		Title:    header.Filename,
		Content:  res.Content,
		Metadata: res.Metadata,
	}
	if err := s.store.Add(input); err != nil {
		s.logger.Error("indexing upload failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("file indexed",
		zap.String("id", id), zap.String("filename", header.Filename), zap.Int("bytes", len(content)))
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "file processed and indexed",
		"document": map[string]interface{}{
			"id":       id,
			"title":    header.Filename,
			"type":     res.Type,
			"metadata": res.Metadata,
		},
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 50)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 50
	}

	docs := s.store.List()
	total := len(docs)
	if skip > total {
		skip = total
	}
	end := skip + limit
	if end > total {
		end = total
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs[skip:end],
		"total":     total,
		"skip":      skip,
		"limit":     limit,
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.store.Get(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete document request", zap.String("id", id))
	if err := s.store.Remove(id); err != nil {
		if errors.Is(err, index.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.store.Stats()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"document_count":   stats.DocumentCount,
		"total_text_bytes": stats.TotalTextBytes,
		"search_count":     stats.SearchCount,
		"vocabulary_size":  stats.VocabularySize,
		"recent_queries":   stats.RecentQueries,
		"config": map[string]interface{}{
			"max_upload_bytes":  s.config.Ingest.MaxFileBytes,
			"supported_formats": s.config.Ingest.AllowedExtensions,
			"max_vocabulary":    s.config.Search.MaxVocabulary,
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
