// Package ingest adds candidates to the pool, keeping the store and the keyword index in sync.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperjump/talentmatch/internal/extract"
	"github.com/hyperjump/talentmatch/internal/keyword"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/internal/skills"
	"github.com/hyperjump/talentmatch/internal/storage"
	"github.com/hyperjump/talentmatch/pkg/utils"
	"go.uber.org/zap"
)

// Ingester derives skills from resumes and stores candidates.
type Ingester struct {
	store  storage.Storage
	index  keyword.KeywordIndex
	skills *skills.Extractor
	files  *extract.Extractor
	logger *zap.Logger
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(in *Ingester) { in.logger = l }
}

// WithFileExtractor overrides the resume file extractor.
func WithFileExtractor(e *extract.Extractor) Option {
	return func(in *Ingester) { in.files = e }
}

// NewIngester creates an ingester. index may be nil, in which case only the store is updated.
// A nil skill extractor uses the default vocabulary.
func NewIngester(store storage.Storage, index keyword.KeywordIndex, extractor *skills.Extractor, opts ...Option) *Ingester {
	if extractor == nil {
		extractor = skills.NewExtractor(nil)
	}
	in := &Ingester{
		store:  store,
		index:  index,
		skills: extractor,
		files:  extract.NewExtractor(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.logger = utils.OrNop(in.logger)
	return in
}

// IngestCandidate validates input and stores the candidate, replacing any candidate
// with the same ID. A missing ID is filled with a random UUID.
func (in *Ingester) IngestCandidate(ctx context.Context, input *models.CandidateInput) (*models.Candidate, error) {
	if input == nil {
		return nil, errors.New("candidate input is nil")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.New().String()
	}
	resume := strings.TrimSpace(input.Resume)
	c := &models.Candidate{
		ID:     id,
		Name:   strings.TrimSpace(input.Name),
		Email:  strings.TrimSpace(input.Email),
		Resume: resume,
		Skills: in.skills.Extract(resume).Sorted(),
		Source: input.Source,
	}
	if err := in.store.UpsertCandidate(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to store candidate: %w", err)
	}
	if err := in.indexCandidate(ctx, c); err != nil {
		return nil, err
	}
	in.logger.Debug("candidate ingested",
		zap.String("id", c.ID), zap.Int("skills", len(c.Skills)))
	return c, nil
}

func (in *Ingester) indexCandidate(ctx context.Context, c *models.Candidate) error {
	if in.index == nil {
		return nil
	}
	if err := in.index.Index(ctx, c); err != nil {
		return fmt.Errorf("failed to index candidate: %w", err)
	}
	return nil
}

// IngestFile extracts a resume file and stores it as a candidate whose ID is derived
// from the absolute path, so re-ingesting a file updates the same candidate. If
// allowedExts is non-empty the extension must be listed. Files unchanged since the
// candidate was last stored are skipped.
func (in *Ingester) IngestFile(ctx context.Context, path string, allowedExts []string) (*models.Candidate, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !ExtensionAllowed(ext, allowedExts) {
		return nil, fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}

	id := FileID(absPath)
	if existing, err := in.store.GetCandidate(ctx, id); err == nil &&
		existing.Source == absPath && !info.ModTime().After(existing.UpdatedAt) {
		// Re-index so a freshly created keyword index catches up with the store.
		if err := in.indexCandidate(ctx, existing); err != nil {
			return nil, err
		}
		in.logger.Debug("skipping unchanged resume", zap.String("path", absPath))
		return existing, nil
	}

	text, err := in.files.Extract(absPath)
	if err != nil {
		return nil, fmt.Errorf("extract resume: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("resume %s has no text", absPath)
	}
	input := &models.CandidateInput{
		ID:     id,
		Name:   NameFromFilename(absPath),
		Email:  FindEmail(text),
		Resume: text,
		Source: absPath,
	}
	c, err := in.IngestCandidate(ctx, input)
	if err != nil {
		return nil, err
	}
	in.logger.Debug("resume ingested", zap.String("path", absPath), zap.String("id", c.ID))
	return c, nil
}

// IngestDirectory walks dir and ingests every regular file whose extension is allowed.
// It returns the number of candidates ingested and the first error encountered.
func (in *Ingester) IngestDirectory(ctx context.Context, dir string, allowedExts []string, recursive bool) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != absDir && (!recursive || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if len(allowedExts) > 0 && !ExtensionAllowed(filepath.Ext(path), allowedExts) {
			return nil
		}
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if _, ingestErr := in.IngestFile(ctx, path, allowedExts); ingestErr != nil {
			return fmt.Errorf("%s: %w", path, ingestErr)
		}
		n++
		return nil
	})
	return n, err
}

// IngestPath ingests a single file or, for a directory, every allowed file beneath it.
func (in *Ingester) IngestPath(ctx context.Context, path string, allowedExts []string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat path: %w", err)
	}
	if info.IsDir() {
		return in.IngestDirectory(ctx, path, allowedExts, true)
	}
	if _, err := in.IngestFile(ctx, path, allowedExts); err != nil {
		return 0, err
	}
	return 1, nil
}

// DeleteCandidate removes a candidate from the keyword index and the store.
// It returns storage.ErrNotFound when the candidate does not exist.
func (in *Ingester) DeleteCandidate(ctx context.Context, id string) error {
	if in.index != nil {
		if err := in.index.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete from keyword index: %w", err)
		}
	}
	if err := in.store.DeleteCandidate(ctx, id); err != nil {
		return err
	}
	in.logger.Debug("candidate deleted", zap.String("id", id))
	return nil
}

// DeletePath removes every candidate ingested from path or from files beneath it.
func (in *Ingester) DeletePath(ctx context.Context, path string) (int, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	ids, err := in.store.CandidatesBySourcePrefix(ctx, absPath)
	if err != nil {
		return 0, fmt.Errorf("failed to list candidates under %s: %w", absPath, err)
	}
	n := 0
	for _, id := range ids {
		if err := in.DeleteCandidate(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return n, err
		}
		n++
	}
	return n, nil
}

// Reindex rebuilds the keyword index from the store.
func (in *Ingester) Reindex(ctx context.Context) (int, error) {
	if in.index == nil {
		return 0, nil
	}
	all, err := in.store.AllCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load candidates: %w", err)
	}
	for i := range all {
		if err := in.index.Index(ctx, &all[i]); err != nil {
			return i, fmt.Errorf("failed to index candidate %s: %w", all[i].ID, err)
		}
	}
	return len(all), nil
}

// ExtensionAllowed reports whether ext matches one of allowed, ignoring case and the leading dot.
func ExtensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	if extNorm == "" {
		return false
	}
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
