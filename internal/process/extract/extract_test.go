package extract

import (
	"reflect"
	"testing"

	"github.com/ametelin/record-sweeper/internal/core/domain"
)

func TestLinkDomains(t *testing.T) {
	tests := []struct {
		name     string
		links    []string
		expected []string
	}{
		{
			name:     "no links",
			links:    nil,
			expected: nil,
		},
		{
			name:     "strips www prefix",
			links:    []string{"https://www.youtube.com/watch?v=abc"},
			expected: []string{"youtube.com"},
		},
		{
			name:     "lowercases host",
			links:    []string{"https://GitHub.com/user/repo"},
			expected: []string{"github.com"},
		},
		{
			name:     "deduplicates",
			links:    []string{"https://habr.com/a", "https://habr.com/b"},
			expected: []string{"habr.com"},
		},
		{
			name:     "skips malformed urls",
			links:    []string{"://not-a-url", "https://figma.com/file/x"},
			expected: []string{"figma.com"},
		},
		{
			name:     "skips bare text without host",
			links:    []string{"just some text"},
			expected: nil,
		},
		{
			name:     "preserves first seen order",
			links:    []string{"https://youtu.be/x", "https://github.com/y"},
			expected: []string{"youtu.be", "github.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LinkDomains(tt.links); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("LinkDomains(%v) = %v, want %v", tt.links, got, tt.expected)
			}
		})
	}
}

func TestExtractFileCategories(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected []string
	}{
		{
			name:     "images",
			files:    []string{"photo.jpg", "scan.png"},
			expected: []string{CategoryImage},
		},
		{
			name:     "mixed kinds",
			files:    []string{"clip.mp4", "notes.pdf"},
			expected: []string{CategoryVideo, CategoryDocument},
		},
		{
			name:     "unknown extension ignored",
			files:    []string{"data.xyz"},
			expected: nil,
		},
		{
			name:     "no extension ignored",
			files:    []string{"README"},
			expected: nil,
		},
		{
			name:     "case insensitive",
			files:    []string{"ARCHIVE.ZIP"},
			expected: []string{CategoryArchive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Extract(domain.Record{Files: tt.files})
			if !reflect.DeepEqual(f.FileCategories, tt.expected) {
				t.Errorf("FileCategories = %v, want %v", f.FileCategories, tt.expected)
			}
		})
	}
}

func TestExtractLexicalFlags(t *testing.T) {
	tests := []struct {
		name  string
		title string
		flags []string
	}{
		{
			name:  "russian design keyword",
			title: "Сделал дизайн лендинга",
			flags: []string{FlagDesign},
		},
		{
			name:  "english code keyword",
			title: "new python tutorial",
			flags: []string{FlagCode, FlagLearning},
		},
		{
			name:  "no match",
			title: "пример загадочного заголовка",
			flags: nil,
		},
		{
			name:  "matching is case insensitive",
			title: "FIGMA Components",
			flags: []string{FlagDesign},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Extract(domain.Record{Title: tt.title})
			if !reflect.DeepEqual(f.LexicalFlags, tt.flags) {
				t.Errorf("LexicalFlags(%q) = %v, want %v", tt.title, f.LexicalFlags, tt.flags)
			}
		})
	}
}

func TestExtractUsesTitleAndDescription(t *testing.T) {
	f := Extract(domain.Record{Title: "без темы", Description: "ссылка на github репозиторий"})
	if !f.HasFlag(FlagCode) {
		t.Errorf("expected %s flag from description, got %v", FlagCode, f.LexicalFlags)
	}
}

func TestCorruptedText(t *testing.T) {
	if CorruptedText("чистый текст") {
		t.Error("clean text reported as corrupted")
	}

	if !CorruptedText("болг�рский пер�ц") {
		t.Error("replacement characters not detected")
	}

	if got := CorruptionCount("��а�"); got != 3 {
		t.Errorf("CorruptionCount = %d, want 3", got)
	}
}
