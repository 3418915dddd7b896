// Package llmbatch groups escalated records into capped, category-homogeneous
// batches, issues one prompt per batch and maps the positional reply back to
// records. A batch whose reply cannot be parsed fails as a whole.
package llmbatch

import (
	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/process/extract"
)

// Batch categories. Predicates are checked in this order; anything that
// matches nothing lands in mixed-content.
const (
	CategoryEncodingIssue = "encoding-issue"
	CategoryLinkHeavy     = "link-heavy"
	CategoryMixedContent  = "mixed-content"
	CategoryLongTitle     = "long-title"
)

const (
	linkHeavyThreshold = 5
	longTitleThreshold = 100
	// DefaultBatchSize bounds prompt length and keeps the failure
	// blast-radius of one bad reply small.
	DefaultBatchSize = 10
)

// categoryOrder fixes the order batches are built and issued in.
var categoryOrder = []string{
	CategoryEncodingIssue,
	CategoryLinkHeavy,
	CategoryMixedContent,
	CategoryLongTitle,
}

// Item is one escalated record with its extracted features.
type Item struct {
	Record   domain.Record
	Features extract.Features
}

// Batch is an ephemeral group of escalated records processed in one LLM call.
type Batch struct {
	Category string
	Items    []Item
	Prompt   string
}

// Categorize assigns an item to its batch category.
func Categorize(it Item) string {
	switch {
	case extract.CorruptedText(it.Record.Title):
		return CategoryEncodingIssue
	case len(it.Record.Links) > linkHeavyThreshold:
		return CategoryLinkHeavy
	case len(it.Record.Links) > 0 && len(it.Record.Files) > 0:
		return CategoryMixedContent
	case len([]rune(it.Record.Title)) > longTitleThreshold:
		return CategoryLongTitle
	default:
		return CategoryMixedContent
	}
}

// BuildBatches groups items into category buckets and splits every bucket
// into batches of at most batchSize items, each with its prompt built.
func BuildBatches(items []Item, batchSize, titleTruncate int) []Batch {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	buckets := make(map[string][]Item)
	for _, it := range items {
		category := Categorize(it)
		buckets[category] = append(buckets[category], it)
	}

	var batches []Batch

	for _, category := range categoryOrder {
		bucket := buckets[category]

		for start := 0; start < len(bucket); start += batchSize {
			end := start + batchSize
			if end > len(bucket) {
				end = len(bucket)
			}

			batch := Batch{
				Category: category,
				Items:    bucket[start:end],
			}
			batch.Prompt = buildPrompt(batch.Category, batch.Items, titleTruncate)

			batches = append(batches, batch)
		}
	}

	return batches
}
