package rules

import (
	"strings"
	"unicode"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/process/extract"
)

// GarbageConfidence is the fixed confidence of a garbage verdict.
const GarbageConfidence = 0.98

const (
	minTitleRunes          = 3
	minCombinedContentLen  = 15
	minDistinctTitleRunes  = 3
	maxCorruptedTitleRunes = 2
)

// Placeholder titles that mark a record as worthless on their own.
var garbageTitles = map[string]bool{
	"test":     true,
	"тест":     true,
	"...":      true,
	"-":        true,
	".":        true,
	"untitled": true,
}

// IsGarbage is the garbage predicate: it marks records for archival rather
// than repair. It takes precedence over every rewrite rule.
func IsGarbage(rec domain.Record) bool {
	title := strings.TrimSpace(rec.Title)

	if len([]rune(title)) < minTitleRunes {
		return true
	}

	if garbageTitles[strings.ToLower(title)] {
		return true
	}

	if len(rec.Links) == 0 && len(rec.Files) == 0 &&
		len([]rune(title+strings.TrimSpace(rec.Description))) < minCombinedContentLen {
		return true
	}

	if extract.CorruptionCount(title) > maxCorruptedTitleRunes {
		return true
	}

	return distinctNonSpaceRunes(title) < minDistinctTitleRunes
}

func distinctNonSpaceRunes(text string) int {
	seen := make(map[rune]bool)

	for _, r := range text {
		if !unicode.IsSpace(r) {
			seen[r] = true
		}
	}

	return len(seen)
}
