package ingest

import (
	"context"
	"fmt"

	"github.com/hyperjump/talentmatch/internal/models"
)

// SampleCandidates is a small pool for demos and tests.
var SampleCandidates = []models.CandidateInput{
	{
		ID:     "1",
		Name:   "Alice Johnson",
		Email:  "alice@example.com",
		Resume: "Senior Python developer with 5 years experience. Expertise in FastAPI, Django, PostgreSQL, Docker, Kubernetes, AWS. Strong in microservices architecture and CI/CD pipelines.",
		Source: "seed",
	},
	{
		ID:     "2",
		Name:   "Bob Smith",
		Email:  "bob@example.com",
		Resume: "Full-stack developer proficient in React, Node.js, JavaScript. Experience with MongoDB, MySQL, REST APIs. 3 years in web development and UX optimization.",
		Source: "seed",
	},
	{
		ID:     "3",
		Name:   "Carol Davis",
		Email:  "carol@example.com",
		Resume: "DevOps engineer with Docker, Kubernetes, Terraform, CI/CD expertise. AWS and Azure cloud platforms. 4 years infrastructure and deployment automation.",
		Source: "seed",
	},
	{
		ID:     "4",
		Name:   "David Wilson",
		Email:  "david@example.com",
		Resume: "Junior Python developer with Django experience. Learning FastAPI and PostgreSQL. Git and basic Docker knowledge. 1 year professional experience.",
		Source: "seed",
	},
}

// Seed ingests SampleCandidates, replacing earlier copies. It returns the number stored.
func (in *Ingester) Seed(ctx context.Context) (int, error) {
	for i := range SampleCandidates {
		input := SampleCandidates[i]
		if _, err := in.IngestCandidate(ctx, &input); err != nil {
			return i, fmt.Errorf("seed %s: %w", input.Name, err)
		}
	}
	return len(SampleCandidates), nil
}
