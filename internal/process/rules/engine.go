package rules

import (
	"github.com/rs/zerolog"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/process/extract"
)

const mediaConfidence = 0.8

// Engine applies an ordered rule table to records. It is safe for concurrent
// use: the rule table is read-only during a run and every Process call works
// on its own copies.
type Engine struct {
	ruleSet RuleSet
	logger  *zerolog.Logger
}

// Outcome is the engine's verdict for one record. Result is nil when no rule
// produced an effective change and the record stays unresolved.
type Outcome struct {
	Result       *domain.ProcessingResult
	RulesApplied int
	RulesSkipped int
}

func NewEngine(ruleSet RuleSet, logger *zerolog.Logger) *Engine {
	return &Engine{ruleSet: ruleSet, logger: logger}
}

// Process runs the garbage predicate and then the rule table against one
// record. Garbage takes precedence: a flagged record gets a delete result and
// no rewrite output. Re-running Process on an already-cleaned record yields
// no further change.
func (e *Engine) Process(rec domain.Record, f extract.Features) Outcome {
	if IsGarbage(rec) {
		return Outcome{Result: &domain.ProcessingResult{
			RecordID:            rec.ID,
			OriginalTitle:       rec.Title,
			OriginalDescription: rec.Description,
			ActionTaken:         domain.ActionDelete,
			Confidence:          GarbageConfidence,
			Method:              domain.MethodDeterministic,
		}}
	}

	title := rec.Title
	description := rec.Description

	var (
		tags         []string
		appliedIDs   []string
		skipped      int
		titleChanged bool
		descChanged  bool
		confidence   float64
		nonMedia     bool
	)

	for _, rule := range e.ruleSet.Rules {
		rw, ok := e.applyRule(rule, title, description, f, &skipped)
		if !ok {
			continue
		}

		fired := false

		if rw.Title != "" && rw.Title != title {
			title = rw.Title
			titleChanged = true
			fired = true
		}

		if rw.Description != "" && rw.Description != description {
			description = rw.Description
			descChanged = true
			fired = true
		}

		for _, tag := range rw.Tags {
			if rec.HasTag(tag) || contains(tags, tag) {
				continue
			}

			tags = append(tags, tag)
			fired = true
		}

		if !fired {
			continue
		}

		appliedIDs = append(appliedIDs, rule.ID)

		if rule.Confidence > confidence {
			confidence = rule.Confidence
		}

		if !rule.Media {
			nonMedia = true
		}
	}

	if !titleChanged && !descChanged && len(tags) == 0 {
		return Outcome{RulesSkipped: skipped}
	}

	result := &domain.ProcessingResult{
		RecordID:            rec.ID,
		OriginalTitle:       rec.Title,
		OriginalDescription: rec.Description,
		TagsAdded:           tags,
		ActionTaken:         actionFor(titleChanged, descChanged, len(tags) > 0, nonMedia),
		Confidence:          confidence,
		Method:              domain.MethodDeterministic,
		RuleIDs:             appliedIDs,
	}

	if titleChanged {
		result.NewTitle = title
	}

	if descChanged {
		result.NewDescription = description
	}

	// Tag-only changes from file categories alone are media analysis.
	if !nonMedia {
		result.Method = domain.MethodMediaAnalysis
		result.Confidence = mediaConfidence
	}

	return Outcome{
		Result:       result,
		RulesApplied: len(appliedIDs),
		RulesSkipped: skipped,
	}
}

func actionFor(title, description, tags, nonMedia bool) domain.ActionTaken {
	changes := 0
	for _, changed := range []bool{title, description, tags} {
		if changed {
			changes++
		}
	}

	switch {
	case changes > 1:
		return domain.ActionFullCleanup
	case title:
		return domain.ActionTitleCleaned
	case description:
		return domain.ActionDescriptionCleaned
	case !nonMedia:
		return domain.ActionMediaTags
	default:
		return domain.ActionTagsAdded
	}
}

// applyRule runs one transform, recovering a panicking rule so a single bad
// rule never aborts the record.
func (e *Engine) applyRule(rule Rule, title, description string, f extract.Features, skipped *int) (rw Rewrite, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			*skipped++

			rw, ok = Rewrite{}, false

			if e.logger != nil {
				e.logger.Warn().
					Str("rule_id", rule.ID).
					Interface("panic", r).
					Msg("rule panicked, skipping for this record")
			}
		}
	}()

	rw, ok = rule.Transform(title, description, f)

	return rw, ok
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}

	return false
}
