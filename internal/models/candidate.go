// Package models defines core data structures for candidates, job queries, and match results.
package models

import "time"

// Candidate is a stored candidate profile. Skills holds the canonical skills
// derived from the resume at ingestion time.
type Candidate struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Resume    string    `json:"resume" db:"resume"`
	Skills    []string  `json:"skills" db:"skills"`
	Source    string    `json:"source,omitempty" db:"source"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CandidateInput is the input for creating or updating a candidate.
type CandidateInput struct {
	ID     string `json:"id,omitempty" validate:"omitempty,max=128"`
	Name   string `json:"name" validate:"required,max=200"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Resume string `json:"resume" validate:"required"`
	Source string `json:"source,omitempty"`
}

// Validate checks required fields and formats.
func (in *CandidateInput) Validate() error {
	return validate.Struct(in)
}

// CandidateList is the response for listing candidates.
type CandidateList struct {
	Candidates []*Candidate `json:"candidates"`
	Total      int          `json:"total"`
	Offset     int          `json:"offset"`
	Limit      int          `json:"limit"`
}
