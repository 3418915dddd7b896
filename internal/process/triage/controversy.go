// Package triage decides which unresolved records are worth LLM spend: it
// scores their ambiguity and selects a bounded, prioritized top-K.
package triage

import (
	"strings"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/process/extract"
)

// Independent, capped contributions to the controversy score. The function is
// monotone and has no learned weights so operators can audit why a record was
// escalated.
const (
	longTitleRunes      = 100
	longTitleScore      = 0.3
	manyWordsCount      = 15
	manyWordsScore      = 0.2
	manyLinksCount      = 3
	manyLinksScore      = 0.2
	manyDomainsCount    = 2
	manyDomainsScore    = 0.3
	mixedContentScore   = 0.2
	noLexicalMatchScore = 0.4
	corruptedTextScore  = 0.5
)

// Controversy computes the ambiguity score of a record the deterministic
// rules could not resolve. The result is clamped to [0, 1].
func Controversy(rec domain.Record, f extract.Features) float64 {
	score := 0.0

	if len([]rune(rec.Title)) > longTitleRunes {
		score += longTitleScore
	}

	if len(strings.Fields(rec.Title)) > manyWordsCount {
		score += manyWordsScore
	}

	if len(rec.Links) > manyLinksCount {
		score += manyLinksScore
	}

	if len(f.Domains) > manyDomainsCount {
		score += manyDomainsScore
	}

	if len(rec.Links) > 0 && len(rec.Files) > 0 {
		score += mixedContentScore
	}

	if len(f.LexicalFlags) == 0 {
		score += noLexicalMatchScore
	}

	if extract.CorruptedText(rec.Title) || extract.CorruptedText(rec.Description) {
		score += corruptedTextScore
	}

	if score > 1.0 {
		score = 1.0
	}

	return score
}
