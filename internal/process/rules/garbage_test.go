package rules

import (
	"testing"

	"github.com/ametelin/record-sweeper/internal/core/domain"
)

func TestIsGarbage(t *testing.T) {
	tests := []struct {
		name     string
		rec      domain.Record
		expected bool
	}{
		{
			name:     "short title",
			rec:      domain.Record{ID: "1", Title: "ab"},
			expected: true,
		},
		{
			name:     "placeholder title test",
			rec:      domain.Record{ID: "2", Title: "test", Links: []string{"https://example.com"}},
			expected: true,
		},
		{
			name:     "placeholder title cyrillic",
			rec:      domain.Record{ID: "3", Title: "Тест"},
			expected: true,
		},
		{
			name:     "no content and nothing attached",
			rec:      domain.Record{ID: "4", Title: "привет", Description: ""},
			expected: true,
		},
		{
			name:     "short text but has a link",
			rec:      domain.Record{ID: "5", Title: "привет", Links: []string{"https://example.com"}},
			expected: false,
		},
		{
			name:     "short text but has a file",
			rec:      domain.Record{ID: "6", Title: "привет", Files: []string{"doc.pdf"}},
			expected: false,
		},
		{
			name:     "heavily corrupted title",
			rec:      domain.Record{ID: "7", Title: "б�лг�рский пер�ц", Links: []string{"https://example.com"}},
			expected: true,
		},
		{
			name:     "two corruption markers tolerated",
			rec:      domain.Record{ID: "8", Title: "болг�рский пер�ц из магазина", Links: []string{"https://example.com"}},
			expected: false,
		},
		{
			name:     "repeated single rune",
			rec:      domain.Record{ID: "9", Title: "яяяяяяяя яя", Links: []string{"https://example.com"}},
			expected: true,
		},
		{
			name:     "normal record",
			rec:      domain.Record{ID: "10", Title: "Подборка статей про архитектуру", Description: "несколько ссылок"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGarbage(tt.rec); got != tt.expected {
				t.Errorf("IsGarbage(%q) = %v, want %v", tt.rec.Title, got, tt.expected)
			}
		})
	}
}
