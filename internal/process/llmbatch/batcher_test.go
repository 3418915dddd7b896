package llmbatch

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/process/extract"
)

func mixedItems(n int) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, Item{Record: domain.Record{
			ID:    fmt.Sprintf("rec-%d", i),
			Title: fmt.Sprintf("Запись без очевидной темы %d", i),
		}})
	}

	return items
}

func TestCategorize(t *testing.T) {
	sixLinks := []string{"a", "b", "c", "d", "e", "f"}

	tests := []struct {
		name     string
		rec      domain.Record
		expected string
	}{
		{
			name:     "corrupted title wins",
			rec:      domain.Record{Title: "пер�ц", Links: sixLinks},
			expected: CategoryEncodingIssue,
		},
		{
			name:     "link heavy",
			rec:      domain.Record{Title: "Подборка", Links: sixLinks},
			expected: CategoryLinkHeavy,
		},
		{
			name:     "links plus files",
			rec:      domain.Record{Title: "Подборка", Links: []string{"a"}, Files: []string{"b.jpg"}},
			expected: CategoryMixedContent,
		},
		{
			name:     "long title",
			rec:      domain.Record{Title: strings.Repeat("о", 101)},
			expected: CategoryLongTitle,
		},
		{
			name:     "default bucket",
			rec:      domain.Record{Title: "Обычная запись"},
			expected: CategoryMixedContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Item{Record: tt.rec, Features: extract.Extract(tt.rec)}
			if got := Categorize(it); got != tt.expected {
				t.Errorf("Categorize() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildBatchesRespectsSize(t *testing.T) {
	batches := BuildBatches(mixedItems(23), 10, 0)

	if len(batches) != 3 {
		t.Fatalf("len = %d, want 3", len(batches))
	}

	for i, batch := range batches {
		if len(batch.Items) > 10 {
			t.Errorf("batch %d has %d items, want <= 10", i, len(batch.Items))
		}

		if batch.Prompt == "" {
			t.Errorf("batch %d has no prompt", i)
		}
	}
}

func TestBuildBatchesKeepsCategoriesHomogeneous(t *testing.T) {
	items := mixedItems(3)
	items = append(items, Item{Record: domain.Record{ID: "bad", Title: "пер�ц из магазина"}})

	batches := BuildBatches(items, 10, 0)

	if len(batches) != 2 {
		t.Fatalf("len = %d, want 2", len(batches))
	}

	if batches[0].Category != CategoryEncodingIssue || len(batches[0].Items) != 1 {
		t.Errorf("first batch = %s/%d, want encoding-issue/1", batches[0].Category, len(batches[0].Items))
	}

	if batches[1].Category != CategoryMixedContent || len(batches[1].Items) != 3 {
		t.Errorf("second batch = %s/%d, want mixed-content/3", batches[1].Category, len(batches[1].Items))
	}
}

func TestBuildBatchesEmpty(t *testing.T) {
	if got := BuildBatches(nil, 10, 0); got != nil {
		t.Errorf("BuildBatches(nil) = %v, want nil", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	items := []Item{
		{Record: domain.Record{Title: "Первая запись из выгрузки"}},
		{Record: domain.Record{Title: strings.Repeat("ю", 150)}},
	}

	prompt := buildPrompt(CategoryLongTitle, items, 100)

	if !strings.Contains(prompt, "1. Первая запись из выгрузки") {
		t.Error("prompt must number items starting at 1")
	}

	if strings.Contains(prompt, strings.Repeat("ю", 101)) {
		t.Error("titles must be truncated to the limit")
	}

	if !strings.Contains(prompt, "строго 2 строками") {
		t.Error("prompt must state the exact expected reply count")
	}
}
