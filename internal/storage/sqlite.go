package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/talentmatch/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS candidates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		resume TEXT NOT NULL,
		skills TEXT,
		source TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_candidates_created_at ON candidates(created_at);
	CREATE INDEX IF NOT EXISTS idx_candidates_source ON candidates(source);
	`
	_, err := db.Exec(schema)
	return err
}

const candidateColumns = `id, name, email, resume, skills, source, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	var c models.Candidate
	var email, skillsJSON, source sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &email, &c.Resume, &skillsJSON, &source, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Source = source.String
	if skillsJSON.String != "" {
		if err := json.Unmarshal([]byte(skillsJSON.String), &c.Skills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal skills for %s: %w", c.ID, err)
		}
	}
	return &c, nil
}

func marshalSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", fmt.Errorf("failed to marshal skills: %w", err)
	}
	return string(b), nil
}

// CreateCandidate inserts a candidate.
func (s *SQLiteStorage) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	skillsJSON, err := marshalSkills(c.Skills)
	if err != nil {
		return err
	}

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO candidates (`+candidateColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Resume, skillsJSON, c.Source, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert candidate %s: %w", c.ID, err)
	}
	return nil
}

// GetCandidate returns a candidate by ID, or ErrNotFound.
func (s *SQLiteStorage) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id)
	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCandidate updates an existing candidate, or returns ErrNotFound.
func (s *SQLiteStorage) UpdateCandidate(ctx context.Context, c *models.Candidate) error {
	skillsJSON, err := marshalSkills(c.Skills)
	if err != nil {
		return err
	}

	c.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx,
		`UPDATE candidates SET name = ?, email = ?, resume = ?, skills = ?, source = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name, c.Email, c.Resume, skillsJSON, c.Source, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, c.ID)
	}
	return nil
}

// UpsertCandidate inserts c or replaces the candidate with the same ID.
func (s *SQLiteStorage) UpsertCandidate(ctx context.Context, c *models.Candidate) error {
	skillsJSON, err := marshalSkills(c.Skills)
	if err != nil {
		return err
	}

	now := time.Now()
	c.UpdatedAt = now
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO candidates (`+candidateColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			resume = excluded.resume,
			skills = excluded.skills,
			source = excluded.source,
			updated_at = excluded.updated_at`,
		c.ID, c.Name, c.Email, c.Resume, skillsJSON, c.Source, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate %s: %w", c.ID, err)
	}
	return nil
}

// DeleteCandidate removes a candidate by ID, or returns ErrNotFound.
func (s *SQLiteStorage) DeleteCandidate(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ListCandidates returns candidates newest first with offset and limit.
func (s *SQLiteStorage) ListCandidates(ctx context.Context, offset, limit int) ([]*models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllCandidates returns every candidate ordered by ID.
func (s *SQLiteStorage) AllCandidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// CandidatesBySourcePrefix returns IDs of candidates whose source path is prefix
// or lies under it.
func (s *SQLiteStorage) CandidatesBySourcePrefix(ctx context.Context, prefix string) ([]string, error) {
	prefix = filepath.Clean(prefix)
	under := strings.TrimSuffix(prefix, string(filepath.Separator)) + string(filepath.Separator)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM candidates WHERE source = ? OR instr(source, ?) = 1 ORDER BY id`,
		prefix, under,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountCandidates returns the total number of candidates.
func (s *SQLiteStorage) CountCandidates(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
