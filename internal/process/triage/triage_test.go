package triage

import (
	"strings"
	"testing"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/process/extract"
)

func TestControversy(t *testing.T) {
	manyLinks := []string{
		"https://a.example.com", "https://b.example.com",
		"https://c.example.com", "https://d.example.com",
	}

	tests := []struct {
		name     string
		rec      domain.Record
		expected float64
	}{
		{
			name:     "plain short record with a keyword",
			rec:      domain.Record{Title: "Дизайн системы"},
			expected: 0,
		},
		{
			name:     "no lexical match",
			rec:      domain.Record{Title: "Просто запись"},
			expected: 0.4,
		},
		{
			name:     "long title",
			rec:      domain.Record{Title: "дизайн " + strings.Repeat("о", 101)},
			expected: 0.3,
		},
		{
			name:     "many words",
			rec:      domain.Record{Title: "дизайн " + strings.Repeat("аб ", 16)},
			expected: 0.2,
		},
		{
			name:     "many links many domains",
			rec:      domain.Record{Title: "дизайн", Links: manyLinks},
			expected: 0.5,
		},
		{
			name:     "mixed content",
			rec:      domain.Record{Title: "дизайн", Links: []string{"https://a.example.com"}, Files: []string{"a.jpg"}},
			expected: 0.2,
		},
		{
			name:     "corrupted description",
			rec:      domain.Record{Title: "дизайн", Description: "пер�ц"},
			expected: 0.5,
		},
		{
			name: "clamped to one",
			rec: domain.Record{
				Title: strings.Repeat("�слово ", 20),
				Links: manyLinks,
				Files: []string{"a.jpg"},
			},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Controversy(tt.rec, extract.Extract(tt.rec))
			if diff := got - tt.expected; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Controversy() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestControversyIsMonotone(t *testing.T) {
	base := domain.Record{Title: "дизайн"}
	worse := domain.Record{Title: "дизайн", Links: []string{"https://a.example.com"}, Files: []string{"a.jpg"}}

	if Controversy(base, extract.Extract(base)) > Controversy(worse, extract.Extract(worse)) {
		t.Error("adding a signal must never lower the score")
	}
}

func TestPriority(t *testing.T) {
	c := Candidate{Record: domain.Record{Weight: 3}, Controversy: 0.5}
	if got := c.Priority(); got != 8 {
		t.Errorf("Priority() = %v, want 8", got)
	}
}

func TestSelectTopK(t *testing.T) {
	candidates := []Candidate{
		{Record: domain.Record{ID: "low", Weight: 1}},
		{Record: domain.Record{ID: "high", Weight: 9}},
		{Record: domain.Record{ID: "mid", Weight: 5}},
	}

	selected := SelectTopK(candidates, 2)

	if len(selected) != 2 {
		t.Fatalf("len = %d, want 2", len(selected))
	}

	if selected[0].Record.ID != "high" || selected[1].Record.ID != "mid" {
		t.Errorf("got %s, %s; want high, mid", selected[0].Record.ID, selected[1].Record.ID)
	}

	if candidates[0].Record.ID != "low" {
		t.Error("input slice order must not change")
	}
}

func TestSelectTopKBounds(t *testing.T) {
	candidates := []Candidate{
		{Record: domain.Record{ID: "a"}},
		{Record: domain.Record{ID: "b"}},
	}

	if got := SelectTopK(candidates, 10); len(got) != 2 {
		t.Errorf("fewer candidates than topK: len = %d, want 2", len(got))
	}

	if got := SelectTopK(candidates, 0); got != nil {
		t.Errorf("topK 0: got %v, want nil", got)
	}

	if got := SelectTopK(nil, 5); got != nil {
		t.Errorf("no candidates: got %v, want nil", got)
	}
}

func TestSelectTopKStableTies(t *testing.T) {
	candidates := []Candidate{
		{Record: domain.Record{ID: "first", Weight: 2}},
		{Record: domain.Record{ID: "second", Weight: 2}},
		{Record: domain.Record{ID: "third", Weight: 2}},
	}

	selected := SelectTopK(candidates, 2)

	if selected[0].Record.ID != "first" || selected[1].Record.ID != "second" {
		t.Errorf("ties must keep ingestion order, got %s, %s", selected[0].Record.ID, selected[1].Record.ID)
	}
}
