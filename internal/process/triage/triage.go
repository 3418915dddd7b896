package triage

import (
	"sort"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/process/extract"
)

// controversyWeight scales the ambiguity score against the external weight
// when ranking candidates.
const controversyWeight = 10

// Candidate is an unresolved record with its fresh controversy score.
// Scores are recomputed every run, never cached across runs.
type Candidate struct {
	Record      domain.Record
	Features    extract.Features
	Controversy float64
}

// Priority is the escalation rank of a candidate.
func (c Candidate) Priority() float64 {
	return c.Record.Weight + c.Controversy*controversyWeight
}

// SelectTopK ranks candidates by priority, descending, and returns at most
// topK of them. The sort is stable so ties keep their original ingestion
// order and selection stays deterministic. The input slice is not modified.
func SelectTopK(candidates []Candidate, topK int) []Candidate {
	if topK <= 0 || len(candidates) == 0 {
		return nil
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority() > ranked[j].Priority()
	})

	if topK < len(ranked) {
		ranked = ranked[:topK]
	}

	return ranked
}
