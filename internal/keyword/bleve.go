package keyword

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	keywordanalyzer "github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/talentmatch/internal/models"
)

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path.
// An existing index is reopened; remove the directory after changing the mapping.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, candidateMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// NewMemoryBleveIndex creates an in-memory index.
func NewMemoryBleveIndex() (*BleveIndex, error) {
	index, err := bleve.NewMemOnly(candidateMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

func candidateMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer: lowercase and tokenize without stemming, so "go" stays "go".
	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("name", text)
	docMapping.AddFieldMappingsAt("resume", text)

	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keywordanalyzer.Name
	docMapping.AddFieldMappingsAt("skills", exact)
	docMapping.AddFieldMappingsAt("email", exact)

	im.AddDocumentMapping("candidate", docMapping)
	im.DefaultType = "candidate"
	im.DefaultMapping = docMapping
	return im
}

// Index indexes a candidate under its ID, replacing any previous version.
func (b *BleveIndex) Index(ctx context.Context, c *models.Candidate) error {
	skills := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		skills = append(skills, strings.ToLower(s))
	}
	doc := map[string]interface{}{
		"name":   c.Name,
		"email":  strings.ToLower(c.Email),
		"resume": c.Resume,
		"skills": skills,
	}
	if err := b.index.Index(c.ID, doc); err != nil {
		return fmt.Errorf("failed to index candidate %s: %w", c.ID, err)
	}
	return nil
}

// Search runs a match query over name and resume and returns up to limit hits.
// Name matches are boosted by opts.NameBoost; opts.Skills filters by exact skill.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordResult, error) {
	nameBoost := 1.0
	fuzziness := 0
	var skills []string
	if opts != nil {
		if opts.NameBoost > 0 {
			nameBoost = opts.NameBoost
		}
		if opts.FuzzyEnabled {
			fuzziness = 1
			if opts.Fuzziness > 0 {
				fuzziness = opts.Fuzziness
			}
		}
		skills = opts.Skills
	}

	var q blevequery.Query
	if strings.TrimSpace(query) == "" {
		if len(skills) == 0 {
			return []*KeywordResult{}, nil
		}
		q = bleve.NewMatchAllQuery()
	} else {
		name := bleve.NewMatchQuery(query)
		name.SetField("name")
		name.SetFuzziness(fuzziness)
		name.SetBoost(nameBoost)
		resume := bleve.NewMatchQuery(query)
		resume.SetField("resume")
		resume.SetFuzziness(fuzziness)
		q = bleve.NewDisjunctionQuery(name, resume)
	}

	if len(skills) > 0 {
		must := []blevequery.Query{q}
		for _, s := range skills {
			tq := bleve.NewTermQuery(strings.ToLower(strings.TrimSpace(s)))
			tq.SetField("skills")
			must = append(must, tq)
		}
		q = bleve.NewConjunctionQuery(must...)
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &KeywordResult{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// Delete removes a candidate from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// DocCount returns the total number of candidates in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
