package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hyperjump/talentmatch/internal/analysis"
	"github.com/hyperjump/talentmatch/internal/config"
	"github.com/hyperjump/talentmatch/internal/keyword"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/internal/ranking"
	"github.com/hyperjump/talentmatch/internal/storage"
	"go.uber.org/zap"
)

const (
	defaultListLimit   = 50
	maxListLimit       = 500
	defaultSearchLimit = 10
)

func (s *Server) handleFindCandidates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.FindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, models.ValidationMessage(err))
		return
	}
	if minLen := s.config.Matching.MinDescriptionLengthOrDefault(); minLen > 0 &&
		len([]rune(strings.TrimSpace(req.JobDescription))) < minLen {
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("job description must be at least %d characters long", minLen))
		return
	}

	query := req.JobQuery(s.config.Matching.DefaultLimit, s.config.Matching.MaxLimit)
	s.logger.Debug("find candidates request", zap.Int("limit", query.Limit),
		zap.Int("description_length", len(query.Description)))

	pool, err := s.storage.AllCandidates(r.Context())
	if err != nil {
		s.logger.Error("failed to load candidate pool", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load candidates")
		return
	}
	required, results, err := s.ranker.Rank(r.Context(), query, pool)
	if err != nil {
		if errors.Is(err, ranking.ErrInvalidInput) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("ranking failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, ranking.NewFindResponse(query, required, results, len(pool), time.Since(start)))
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		s.respondError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit < 1 {
		s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	ctx := r.Context()
	candidates, err := s.storage.ListCandidates(ctx, offset, limit)
	if err != nil {
		s.logger.Error("list candidates failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountCandidates(ctx)
	if err != nil {
		s.logger.Error("count candidates failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if candidates == nil {
		candidates = []*models.Candidate{}
	}
	s.respondJSON(w, http.StatusOK, &models.CandidateList{
		Candidates: candidates,
		Total:      int(total),
		Offset:     offset,
		Limit:      limit,
	})
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var input models.CandidateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("create candidate request", zap.String("id", input.ID), zap.String("name", input.Name))
	c, err := s.ingester.IngestCandidate(r.Context(), &input)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			s.respondError(w, http.StatusBadRequest, models.ValidationMessage(err))
			return
		}
		s.logger.Error("create candidate failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := s.storage.GetCandidate(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "candidate not found")
			return
		}
		s.logger.Error("get candidate failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete candidate request", zap.String("id", id))
	if err := s.ingester.DeleteCandidate(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "candidate not found")
			return
		}
		s.logger.Error("delete candidate failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleSearchCandidates(w http.ResponseWriter, r *http.Request) {
	if s.keyword == nil {
		s.respondError(w, http.StatusNotImplemented, "keyword search not enabled")
		return
	}
	start := time.Now()
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	skillFilter := splitList(r.URL.Query().Get("skills"))
	if q == "" && len(skillFilter) == 0 {
		s.respondError(w, http.StatusBadRequest, "q or skills is required")
		return
	}
	limit, err := queryInt(r, "limit", defaultSearchLimit)
	if err != nil || limit < 1 {
		s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	if maxLimit := s.config.Matching.MaxLimit; maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	// Skill filters are matched on canonical names.
	vocab := s.ranker.Extractor().Vocabulary()
	canonical := make([]string, len(skillFilter))
	for i, sk := range skillFilter {
		if c, ok := vocab.Lookup(sk); ok {
			sk = c
		}
		canonical[i] = sk
	}

	ctx := r.Context()
	hits, err := s.keyword.Search(ctx, q, limit, &keyword.SearchOptions{
		NameBoost:    2,
		Skills:       canonical,
		FuzzyEnabled: true,
	})
	if err != nil {
		s.logger.Error("keyword search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := &models.SearchResponse{Query: q, Hits: make([]*models.SearchHit, 0, len(hits))}
	for _, h := range hits {
		c, err := s.storage.GetCandidate(ctx, h.ID)
		if err != nil {
			// Index entries can briefly outlive their candidate.
			continue
		}
		resp.Hits = append(resp.Hits, &models.SearchHit{Candidate: c, Score: h.Score, Rank: len(resp.Hits) + 1})
	}
	resp.Total = len(resp.Hits)
	resp.QueryTime = time.Since(start).Milliseconds()
	s.respondJSON(w, http.StatusOK, resp)
}

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleExtractSkills(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	found := s.ranker.Extractor().Extract(req.Text)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"skills": found.Sorted()})
}

type analyzeRequest struct {
	ResumeText     string `json:"resume_text"`
	TargetJobTitle string `json:"target_job_title,omitempty"`
}

func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.analyzer.Analyze(req.ResumeText, req.TargetJobTitle)
	if err != nil {
		if errors.Is(err, analysis.ErrResumeTooShort) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("resume analysis failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"analysis": result})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	count, err := s.storage.CountCandidates(ctx)
	if err != nil {
		s.logger.Error("status: count candidates failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rc := s.ranker.GetConfig()
	resp := map[string]interface{}{
		"candidates":     count,
		"skills_known":   s.ranker.Extractor().Vocabulary().Len(),
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"config": map[string]interface{}{
			"skill_weight":           rc.SkillWeight,
			"text_weight":            rc.TextWeight,
			"workers":                rc.Workers,
			"default_limit":          s.config.Matching.DefaultLimit,
			"max_limit":              s.config.Matching.MaxLimit,
			"min_description_length": s.config.Matching.MinDescriptionLengthOrDefault(),
			"database_path":          s.config.Storage.DatabasePath,
			"index_path":             s.config.Storage.IndexPath,
		},
	}
	if s.keyword != nil {
		if n, err := s.keyword.DocCount(); err == nil {
			resp["indexed_candidates"] = n
		}
	}
	if s.watch != nil {
		watch := map[string]interface{}{"directories": s.watch.Directories()}
		if sp, ok := s.watch.(statsProvider); ok {
			watch["stats"] = sp.Stats()
		}
		resp["watch"] = watch
	}
	if size, err := storage.DiskUsageBytes(s.config.Storage.DatabasePath, s.config.Storage.IndexPath); err == nil {
		resp["disk_usage_bytes"] = size
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWatchDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.watch.Directories()})
}

type watchAddRequest struct {
	Path string `json:"path"`
	Sync *bool  `json:"sync,omitempty"`
}

func (s *Server) handleWatchDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	var req watchAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	syncExisting := req.Sync == nil || *req.Sync
	s.logger.Debug("watch add directory request", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	if err := s.watch.AddDirectory(abs, syncExisting); err != nil {
		s.logger.Error("watch add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleWatchDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		var body struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			path = body.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("watch remove directory request", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("watch remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

// persistWatchDirectories saves the current watch roots to the config file, if one is known.
func (s *Server) persistWatchDirectories() {
	if s.configPath == "" {
		return
	}
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config.Watch.Directories = s.watch.Directories()
	if err := config.Save(s.configPath, s.config); err != nil {
		s.logger.Warn("failed to persist watch config", zap.Error(err))
	}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
