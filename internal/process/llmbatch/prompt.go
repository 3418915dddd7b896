package llmbatch

import (
	"fmt"
	"strings"
)

// DefaultTitleTruncate caps per-item title length inside prompts.
const DefaultTitleTruncate = 100

var categoryInstructions = map[string]string{
	CategoryLinkHeavy:     "Обработай записи с множеством ссылок. Создай краткие осмысленные названия:",
	CategoryMixedContent:  "Обработай записи со смешанным контентом. Определи основную тему и дай каждой записи понятное название:",
	CategoryLongTitle:     "Сократи сложные названия до 50 символов, сохранив суть:",
	CategoryEncodingIssue: "Исправь проблемы с кодировкой и создай понятные названия:",
}

// buildPrompt embeds up to batch-size truncated titles with a
// category-specific instruction and a strict positional reply contract.
func buildPrompt(category string, items []Item, titleTruncate int) string {
	if titleTruncate <= 0 {
		titleTruncate = DefaultTitleTruncate
	}

	instruction, ok := categoryInstructions[category]
	if !ok {
		instruction = "Обработай следующие записи и дай каждой понятное название:"
	}

	var sb strings.Builder

	sb.WriteString(instruction)
	sb.WriteString("\n\n")

	for i, it := range items {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, truncateRunes(it.Record.Title, titleTruncate)))
	}

	sb.WriteString(fmt.Sprintf(
		"\nОтветь строго %d строками, по одной на запись, в формате:\n1. Новое название\n2. Новое название\nБез пояснений и пустых строк между ответами.",
		len(items),
	))

	return sb.String()
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return string(runes[:limit])
}
