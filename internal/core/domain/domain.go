// Package domain defines the core types shared across the cleanup pipeline:
// records, processing results, patches and per-run statistics.
package domain

import "time"

// RecordStatus is the lifecycle state of a record in the backing store.
// Records are never deleted, only archived.
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusArchived RecordStatus = "archived"
)

// Record is a content item captured from a chat export: a title, a free-form
// description, embedded links and attached file references. Weight is an
// externally assigned importance score (>= 0).
type Record struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	Links       []string
	Files       []string
	Weight      float64
	Status      RecordStatus
}

// HasTag reports whether the record already carries the given tag.
func (r *Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}

	return false
}

// ActionTaken describes what a ProcessingResult did to a record.
type ActionTaken string

const (
	ActionNone               ActionTaken = "none"
	ActionTitleCleaned       ActionTaken = "title_cleaned"
	ActionDescriptionCleaned ActionTaken = "description_cleaned"
	ActionTagsAdded          ActionTaken = "tags_added"
	ActionDelete             ActionTaken = "delete"
	ActionLLMBatch           ActionTaken = "llm_batch"
	ActionMediaTags          ActionTaken = "media_tags"
	// ActionFullCleanup marks results combining several rewrite kinds.
	ActionFullCleanup ActionTaken = "full_cleanup"
)

// ProcessingMethod identifies which stage produced a result.
// Methods are mutually exclusive per result.
type ProcessingMethod string

const (
	MethodDeterministic ProcessingMethod = "deterministic"
	MethodMediaAnalysis ProcessingMethod = "media_analysis"
	MethodLLMBatch      ProcessingMethod = "llm_batch"
)

// ProcessingResult is the single, immutable outcome of processing one record
// in one run. TokensUsed is zero for every method except MethodLLMBatch.
type ProcessingResult struct {
	RecordID            string
	OriginalTitle       string
	NewTitle            string // empty means unchanged
	OriginalDescription string
	NewDescription      string // empty means unchanged
	TagsAdded           []string
	TagsRemoved         []string
	ActionTaken         ActionTaken
	Confidence          float64
	Method              ProcessingMethod
	TokensUsed          int
	RuleIDs             []string // deterministic rules that fired, in order
}

// RecordPatch is the typed set of mutations handed to the record store.
// Nil fields mean "leave unchanged"; Tags, when non-nil, is the full
// replacement tag set.
type RecordPatch struct {
	Title       *string
	Description *string
	Tags        []string
}

// IsZero reports whether the patch carries no changes.
func (p RecordPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Tags == nil
}

// RuleAction is the kind of mutation a deterministic rule proposes.
type RuleAction string

const (
	RuleRewriteTitle       RuleAction = "rewrite_title"
	RuleRewriteDescription RuleAction = "rewrite_description"
	RuleAddTags            RuleAction = "add_tags"
	RuleFlagDelete         RuleAction = "flag_delete"
)

// RuleUsage is the persisted per-rule ledger row surfaced for tuning.
// Success rates are recorded, never applied automatically.
type RuleUsage struct {
	RuleID       string
	UsageCount   int
	SuccessCount int
	SuccessRate  float64
}

// Economics compares actual token spend against the naive baseline of
// sending every record through the LLM individually.
type Economics struct {
	BaselineTokens int     `json:"baseline_tokens"`
	ActualTokens   int     `json:"actual_tokens"`
	SavedTokens    int     `json:"saved_tokens"`
	SavedCostUSD   float64 `json:"saved_cost_usd"`
}

// RunStatistics aggregates everything that happened in one pipeline run.
// Terminal failures are reported here as counts, never raised to the caller.
type RunStatistics struct {
	RunID          string    `json:"run_id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	TotalRecords   int       `json:"total_records"`
	SkippedInvalid int       `json:"skipped_invalid"`
	AutoProcessed  int       `json:"auto_processed"`
	MediaProcessed int       `json:"media_processed"`
	LLMProcessed   int       `json:"llm_processed"`
	Escalated      int       `json:"escalated"`
	BatchesIssued  int       `json:"batches_issued"`
	BatchesFailed  int       `json:"batches_failed"`
	TokensUsed     int       `json:"tokens_used"`
	RulesApplied   int       `json:"rules_applied"`
	RulesSkipped   int       `json:"rules_skipped"`
	Updated        int       `json:"updated"`
	Deleted        int       `json:"deleted"`
	ApplyFailures  int       `json:"apply_failures"`
	Economics      Economics `json:"economics"`
}

// Unresolved returns how many records ended the run without a result.
func (s RunStatistics) Unresolved() int {
	n := s.TotalRecords - s.SkippedInvalid - s.AutoProcessed - s.MediaProcessed - s.LLMProcessed
	if n < 0 {
		return 0
	}

	return n
}
