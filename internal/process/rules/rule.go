// Package rules implements the deterministic rule engine: an ordered table of
// pure transforms that rewrite titles and descriptions, propose tags and flag
// garbage records, all without any network or LLM cost.
package rules

import (
	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/process/extract"
)

// Rewrite is a rule's proposed change. Empty strings mean "no change";
// Tags are additions only.
type Rewrite struct {
	Title       string
	Description string
	Tags        []string
}

func (rw Rewrite) isZero() bool {
	return rw.Title == "" && rw.Description == "" && len(rw.Tags) == 0
}

// TransformFunc inspects the current title, description and extracted
// features and proposes a rewrite. Returning false means the rule did not
// match. Transforms must be pure and idempotent: feeding a rule its own
// output must not match again.
type TransformFunc func(title, description string, f extract.Features) (Rewrite, bool)

// Rule is one entry of the ordered rule table. Rules apply in slice order and
// later matches overwrite earlier ones.
type Rule struct {
	ID         string
	Action     domain.RuleAction
	Confidence float64
	// Media marks tag rules driven purely by attached-file categories.
	// Records resolved only by media rules are attributed to the
	// media_analysis method.
	Media     bool
	Transform TransformFunc
}

// RuleSet is the injected, read-mostly rule configuration for a run.
// Order is explicit and significant.
type RuleSet struct {
	Rules []Rule
}
