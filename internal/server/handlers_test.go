package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/talentmatch/internal/config"
	"github.com/hyperjump/talentmatch/internal/ingest"
	"github.com/hyperjump/talentmatch/internal/keyword"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/internal/ranking"
	"github.com/hyperjump/talentmatch/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockWatchService struct {
	dirs []string
}

func (m *mockWatchService) Directories() []string {
	return append([]string(nil), m.dirs...)
}

func (m *mockWatchService) AddDirectory(path string, _ bool) error {
	for _, d := range m.dirs {
		if d == path {
			return nil
		}
	}
	m.dirs = append(m.dirs, path)
	return nil
}

func (m *mockWatchService) RemoveDirectory(path string) error {
	for i, d := range m.dirs {
		if d == path {
			m.dirs = append(m.dirs[:i], m.dirs[i+1:]...)
			return nil
		}
	}
	return nil
}

type testEnv struct {
	handler http.Handler
	config  *config.Config
	watch   *mockWatchService
}

// newTestEnv builds a server over a seeded SQLite pool and an in-memory keyword index.
func newTestEnv(t *testing.T, configure func(*config.Config)) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.DatabasePath = filepath.Join(dir, "candidates.db")
	cfg.Storage.IndexPath = filepath.Join(dir, "bleve")
	if configure != nil {
		configure(cfg)
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	idx, err := keyword.NewMemoryBleveIndex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	ranker := ranking.NewRanker(&ranking.Config{SkillWeight: cfg.Matching.SkillWeight, TextWeight: cfg.Matching.TextWeight})
	ingester := ingest.NewIngester(store, idx, ranker.Extractor())
	_, err = ingester.Seed(context.Background())
	require.NoError(t, err)

	watch := &mockWatchService{dirs: []string{"/tmp/resumes"}}
	srv := NewServer(cfg, store, ranker, ingester,
		WithLogger(zap.NewNop()),
		WithKeywordIndex(idx),
		WithWatch(watch, ""),
	)
	return &testEnv{handler: srv.Handler(), config: cfg, watch: watch}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out), w.Body.String())
	return out
}

func TestHandleFindCandidates(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodPost, "/candidates/find", map[string]interface{}{
		"job_description": "Looking for a Python developer with Django and PostgreSQL experience",
		"limit":           2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.FindResponse](t, w)
	assert.Equal(t, []string{"Django", "PostgreSQL", "Python"}, resp.JobSkills)
	assert.Equal(t, 4, resp.TotalCandidates)
	assert.Equal(t, 2, resp.MatchedCandidates)
	require.Len(t, resp.Candidates, 2)
	for _, c := range resp.Candidates {
		assert.Equal(t, 100, c.SkillMatch)
		assert.Equal(t, []string{"Django", "PostgreSQL", "Python"}, c.MatchingSkills)
		assert.Empty(t, c.MissingSkills)
		assert.Contains(t, []string{"1", "4"}, c.ID)
	}
	assert.GreaterOrEqual(t, resp.Candidates[0].MatchScore, resp.Candidates[1].MatchScore)
}

func TestHandleFindCandidates_versionedRouteAndDefaultLimit(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodPost, "/api/v1/candidates/find", map[string]interface{}{
		"job_description": "DevOps engineer: Docker, Kubernetes, Terraform on AWS",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.FindResponse](t, w)
	require.Len(t, resp.Candidates, 4)
	assert.Equal(t, "3", resp.Candidates[0].ID)
	assert.Equal(t, 100, resp.Candidates[0].SkillMatch)
}

func TestHandleFindCandidates_limitCappedAtMax(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.Matching.MaxLimit = 3 })
	w := env.do(t, http.MethodPost, "/candidates/find", map[string]interface{}{
		"job_description": "React and Node.js frontend engineer",
		"limit":           1000,
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.FindResponse](t, w)
	assert.Equal(t, 3, resp.MatchedCandidates)
	assert.Equal(t, "2", resp.Candidates[0].ID)
}

func TestHandleFindCandidates_badRequests(t *testing.T) {
	env := newTestEnv(t, nil)
	tests := []struct {
		name string
		body interface{}
	}{
		{"invalid json", "{not json"},
		{"short description", map[string]interface{}{"job_description": "Go dev"}},
		{"zero limit", map[string]interface{}{"job_description": "Senior Go developer wanted", "limit": 0}},
		{"negative limit", map[string]interface{}{"job_description": "Senior Go developer wanted", "limit": -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/candidates/find", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode[map[string]string](t, w)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleFindCandidates_emptyDescriptionWhenCheckDisabled(t *testing.T) {
	zero := 0
	env := newTestEnv(t, func(c *config.Config) { c.Matching.MinDescriptionLength = &zero })
	w := env.do(t, http.MethodPost, "/candidates/find", map[string]interface{}{"job_description": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.FindResponse](t, w)
	assert.Empty(t, resp.JobSkills)
	ids := make([]string, len(resp.Candidates))
	for i, c := range resp.Candidates {
		ids[i] = c.ID
		assert.Equal(t, 0, c.MatchScore)
		assert.Equal(t, 100, c.SkillMatch)
		assert.Empty(t, c.MissingSkills)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
}

func TestHandleCandidatesCRUD(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/v1/candidates", map[string]string{
		"id":     "erin",
		"name":   "Erin Park",
		"email":  "erin@example.com",
		"resume": "Rust and Go systems engineer with Redis experience",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Candidate](t, w)
	assert.Equal(t, []string{"Go", "Redis", "Rust"}, created.Skills)

	w = env.do(t, http.MethodGet, "/api/v1/candidates/erin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Erin Park", decode[models.Candidate](t, w).Name)

	w = env.do(t, http.MethodGet, "/api/v1/candidates?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.CandidateList](t, w)
	assert.Equal(t, 5, list.Total)
	assert.Len(t, list.Candidates, 2)

	w = env.do(t, http.MethodDelete, "/api/v1/candidates/erin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/v1/candidates/erin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodDelete, "/api/v1/candidates/erin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCandidates_badRequests(t *testing.T) {
	env := newTestEnv(t, nil)
	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{"create missing name", http.MethodPost, "/api/v1/candidates", map[string]string{"resume": "Python"}},
		{"create bad email", http.MethodPost, "/api/v1/candidates", map[string]string{"name": "X", "resume": "Python", "email": "x"}},
		{"create invalid json", http.MethodPost, "/api/v1/candidates", "{"},
		{"list bad offset", http.MethodGet, "/api/v1/candidates?offset=-1", nil},
		{"list bad limit", http.MethodGet, "/api/v1/candidates?limit=abc", nil},
		{"search no query", http.MethodGet, "/api/v1/candidates/search", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestHandleSearchCandidates(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/candidates/search?q=kubernetes", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.SearchResponse](t, w)
	ids := make([]string, 0, len(resp.Hits))
	for i, h := range resp.Hits {
		assert.Equal(t, i+1, h.Rank)
		ids = append(ids, h.Candidate.ID)
	}
	assert.ElementsMatch(t, []string{"1", "3"}, ids)

	w = env.do(t, http.MethodGet, "/api/v1/candidates/search?skills=k8s,terraform", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = decode[models.SearchResponse](t, w)
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, "Carol Davis", resp.Hits[0].Candidate.Name)
}

func TestHandleExtractSkills(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodPost, "/api/v1/skills/extract", map[string]string{
		"text": "We use golang, k8s and machine learning",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string][]string](t, w)
	assert.Equal(t, []string{"Go", "Kubernetes", "Machine Learning"}, body["skills"])
}

func TestHandleAnalyzeResume(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/v1/resumes/analyze", map[string]string{"resume_text": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/resumes/analyze", map[string]string{
		"resume_text":      "Python and Django developer using PostgreSQL, Docker and AWS",
		"target_job_title": "Backend Engineer",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Analysis struct {
			ExtractedSkills []string `json:"extracted_skills"`
			ExperienceLevel string   `json:"experience_level"`
			TargetJobTitle  string   `json:"target_job_title"`
		} `json:"analysis"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, []string{"AWS", "Django", "Docker", "PostgreSQL", "Python"}, body.Analysis.ExtractedSkills)
	assert.Equal(t, "Mid-level", body.Analysis.ExperienceLevel)
	assert.Equal(t, "Backend Engineer", body.Analysis.TargetJobTitle)
}

func TestHandleWatchDirectories(t *testing.T) {
	env := newTestEnv(t, nil)
	dir := t.TempDir()

	w := env.do(t, http.MethodGet, "/api/v1/watch/directories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"/tmp/resumes"}, decode[map[string][]string](t, w)["directories"])

	w = env.do(t, http.MethodPost, "/api/v1/watch/directories", map[string]string{"path": dir})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, env.watch.Directories(), dir)

	w = env.do(t, http.MethodPost, "/api/v1/watch/directories", map[string]string{"path": filepath.Join(dir, "missing")})
	assert.Equal(t, http.StatusNotFound, w.Code)

	file := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(file, []byte("Go"), 0o600))
	w = env.do(t, http.MethodPost, "/api/v1/watch/directories", map[string]string{"path": file})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/watch/directories?path="+dir, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, env.watch.Directories(), dir)

	w = env.do(t, http.MethodDelete, "/api/v1/watch/directories", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleWatchDirectories_persistsConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := config.Default()
	require.NoError(t, config.Save(cfgPath, cfg))

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "candidates.db"))
	require.NoError(t, err)
	defer store.Close()
	ranker := ranking.NewRanker(nil)
	watch := &mockWatchService{}
	srv := NewServer(cfg, store, ranker, ingest.NewIngester(store, nil, ranker.Extractor()), WithWatch(watch, cfgPath))

	body, _ := json.Marshal(map[string]string{"path": dir})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/watch/directories", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	saved, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, saved.Watch.Directories)
}

func TestHandleWatchDirectories_notEnabled(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "candidates.db"))
	require.NoError(t, err)
	defer store.Close()
	ranker := ranking.NewRanker(nil)
	srv := NewServer(nil, store, ranker, ingest.NewIngester(store, nil, nil))
	h := srv.Handler()

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/watch/directories", nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/candidates/search?q=go", nil),
	} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotImplemented, w.Code, req.URL.Path)
	}
}

func TestHandleStatusAndHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	w = env.do(t, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[map[string]interface{}](t, w)
	assert.EqualValues(t, 4, status["candidates"])
	assert.EqualValues(t, 4, status["indexed_candidates"])
	assert.Contains(t, status, "disk_usage_bytes")
	cfg, ok := status["config"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 0.6, cfg["skill_weight"])
	assert.EqualValues(t, 10, cfg["min_description_length"])
}
