package rules

import (
	"regexp"
	"strings"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/process/extract"
)

// Sentence bounds for titles extracted out of file-list placeholders.
const (
	minExtractedTitleLen = 15
	maxExtractedTitleLen = 100
)

var (
	phoneEmojiPrefixRe = regexp.MustCompile(`^📱\s*`)
	filesTitleRe       = regexp.MustCompile(`^📁\s*Файлы\s*\(\d+\):?\s*`)
	saveAsBotLineRe    = regexp.MustCompile(`(?im)^.*@SaveAsBot.*$\n?`)
	saveAsBotThanksRe  = regexp.MustCompile(`Спасибо, что пользуетесь[^\n]*`)
	longHashRe         = regexp.MustCompile(`[a-f0-9]{32,}`)
	fileListBlockRe    = regexp.MustCompile(`(?s)📁\s*Файлы\s*\(\d+\):.*?(\n\n|$)`)
	techFileNameRe     = regexp.MustCompile(`(?m)^\s*•\s*\S+@\d{2}-\d{2}-\d{4}_\d{2}-\d{2}-\d{2}\.\w+.*$\n?`)
	fileSizeNoiseRe    = regexp.MustCompile(`\([0-9.]+MB\)\s*\[\w+\]\s*-\s*`)
	sentenceSplitRe    = regexp.MustCompile(`[.!?\n]`)
	spaceRunRe         = regexp.MustCompile(`\s+`)
)

// Domain-derived tag pairs, e.g. a known video platform implies both the
// platform tag and a content-type tag.
var domainTags = []struct {
	domain string
	tags   []string
}{
	{"instagram.com", []string{"Instagram", "Социальные сети"}},
	{"youtube.com", []string{"YouTube", "Видео"}},
	{"youtu.be", []string{"YouTube", "Видео"}},
	{"github.com", []string{"GitHub", "Код"}},
	{"figma.com", []string{"Figma", "Дизайн"}},
	{"habr.com", []string{"Хабр", "Статьи"}},
	{"yadi.sk", []string{"Яндекс.Диск"}},
	{"disk.yandex.ru", []string{"Яндекс.Диск"}},
}

var flagTags = map[string]string{
	extract.FlagDesign:   "Дизайн",
	extract.FlagCode:     "Код",
	extract.FlagVideo:    "Видео",
	extract.FlagImage:    "Изображения",
	extract.FlagAudio:    "Аудио",
	extract.FlagIdea:     "Идеи",
	extract.FlagBusiness: "Бизнес",
	extract.FlagLearning: "Обучение",
	extract.FlagAI:       "AI",
	extract.FlagNews:     "Новости",
	extract.FlagTools:    "Инструменты",
}

var categoryTags = map[string]string{
	extract.CategoryImage:    "Изображения",
	extract.CategoryVideo:    "Видео",
	extract.CategoryAudio:    "Аудио",
	extract.CategoryDocument: "Документы",
	extract.CategoryArchive:  "Архивы",
}

var categoryLabels = map[string]string{
	extract.CategoryImage:    "фото",
	extract.CategoryVideo:    "видео",
	extract.CategoryAudio:    "аудио",
	extract.CategoryDocument: "документов",
	extract.CategoryArchive:  "архивов",
}

// DefaultRuleSet returns the built-in ordered rule table. Order is part of
// the contract: later matches overwrite earlier ones.
func DefaultRuleSet() RuleSet {
	return RuleSet{Rules: []Rule{
		{
			ID:         "collapse_files_title",
			Action:     domain.RuleRewriteTitle,
			Confidence: 0.95,
			Transform:  collapseFilesTitle,
		},
		{
			ID:         "strip_emoji_prefix",
			Action:     domain.RuleRewriteTitle,
			Confidence: 0.95,
			Transform:  stripEmojiPrefix,
		},
		{
			ID:         "strip_savebot_spam",
			Action:     domain.RuleRewriteDescription,
			Confidence: 0.9,
			Transform:  stripSaveAsBotSpam,
		},
		{
			ID:         "strip_long_hashes",
			Action:     domain.RuleRewriteDescription,
			Confidence: 0.9,
			Transform:  stripLongHashes,
		},
		{
			ID:         "strip_file_list_noise",
			Action:     domain.RuleRewriteDescription,
			Confidence: 0.9,
			Transform:  stripFileListNoise,
		},
		{
			ID:         "normalize_whitespace",
			Action:     domain.RuleRewriteTitle,
			Confidence: 0.95,
			Transform:  normalizeWhitespace,
		},
		{
			ID:         "domain_tags",
			Action:     domain.RuleAddTags,
			Confidence: 0.85,
			Transform:  tagsFromDomains,
		},
		{
			ID:         "keyword_tags",
			Action:     domain.RuleAddTags,
			Confidence: 0.85,
			Transform:  tagsFromKeywords,
		},
		{
			ID:         "media_tags",
			Action:     domain.RuleAddTags,
			Confidence: 0.8,
			Media:      true,
			Transform:  tagsFromFileCategories,
		},
	}}
}

// collapseFilesTitle replaces "📁 Файлы (N): ..." placeholder titles with the
// first description sentence of reasonable length, falling back to a generic
// collection label derived from the attached file categories.
func collapseFilesTitle(title, description string, f extract.Features) (Rewrite, bool) {
	if !filesTitleRe.MatchString(title) {
		return Rewrite{}, false
	}

	if sentence := firstMeaningfulSentence(description); sentence != "" {
		return Rewrite{Title: sentence}, true
	}

	var kinds []string

	for _, category := range []string{extract.CategoryImage, extract.CategoryVideo, extract.CategoryAudio, extract.CategoryDocument, extract.CategoryArchive} {
		if f.HasCategory(category) {
			kinds = append(kinds, categoryLabels[category])
		}
	}

	if len(kinds) > 0 {
		return Rewrite{Title: "Коллекция " + strings.Join(kinds, ", ")}, true
	}

	return Rewrite{Title: "Коллекция файлов"}, true
}

func firstMeaningfulSentence(description string) string {
	for _, part := range sentenceSplitRe.Split(description, -1) {
		sentence := strings.TrimSpace(part)
		if strings.HasPrefix(sentence, "📁") {
			continue
		}

		if n := len([]rune(sentence)); n >= minExtractedTitleLen && n <= maxExtractedTitleLen {
			return sentence
		}
	}

	return ""
}

func stripEmojiPrefix(title, _ string, _ extract.Features) (Rewrite, bool) {
	cleaned := phoneEmojiPrefixRe.ReplaceAllString(title, "")
	if cleaned == title || strings.TrimSpace(cleaned) == "" {
		return Rewrite{}, false
	}

	return Rewrite{Title: strings.TrimSpace(cleaned)}, true
}

func stripSaveAsBotSpam(title, description string, _ extract.Features) (Rewrite, bool) {
	rw := Rewrite{}

	if cleaned := cleanSpam(title); cleaned != title && cleaned != "" {
		rw.Title = cleaned
	}

	if cleaned := cleanSpam(description); cleaned != description {
		rw.Description = cleaned
	}

	return rw, !rw.isZero()
}

func cleanSpam(text string) string {
	cleaned := saveAsBotLineRe.ReplaceAllString(text, "")
	cleaned = saveAsBotThanksRe.ReplaceAllString(cleaned, "")

	return strings.TrimSpace(cleaned)
}

func stripLongHashes(title, description string, _ extract.Features) (Rewrite, bool) {
	rw := Rewrite{}

	if cleaned := strings.TrimSpace(longHashRe.ReplaceAllString(title, "")); cleaned != title && cleaned != "" {
		rw.Title = cleaned
	}

	if cleaned := strings.TrimSpace(longHashRe.ReplaceAllString(description, "")); cleaned != description {
		rw.Description = cleaned
	}

	return rw, !rw.isZero()
}

func stripFileListNoise(_, description string, _ extract.Features) (Rewrite, bool) {
	cleaned := fileListBlockRe.ReplaceAllString(description, "")
	cleaned = techFileNameRe.ReplaceAllString(cleaned, "")
	cleaned = fileSizeNoiseRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == description {
		return Rewrite{}, false
	}

	return Rewrite{Description: cleaned}, true
}

func normalizeWhitespace(title, description string, _ extract.Features) (Rewrite, bool) {
	rw := Rewrite{}

	if cleaned := collapseSpace(title); cleaned != title && cleaned != "" {
		rw.Title = cleaned
	}

	if cleaned := collapseSpace(description); cleaned != description {
		rw.Description = cleaned
	}

	return rw, !rw.isZero()
}

func collapseSpace(text string) string {
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(text, " "))
}

func tagsFromDomains(_, _ string, f extract.Features) (Rewrite, bool) {
	var tags []string

	for _, dt := range domainTags {
		if f.HasDomain(dt.domain) {
			tags = appendUnique(tags, dt.tags...)
		}
	}

	if len(tags) == 0 {
		return Rewrite{}, false
	}

	return Rewrite{Tags: tags}, true
}

func tagsFromKeywords(_, _ string, f extract.Features) (Rewrite, bool) {
	var tags []string

	for _, flag := range f.LexicalFlags {
		if tag, ok := flagTags[flag]; ok {
			tags = appendUnique(tags, tag)
		}
	}

	if len(tags) == 0 {
		return Rewrite{}, false
	}

	return Rewrite{Tags: tags}, true
}

func tagsFromFileCategories(_, _ string, f extract.Features) (Rewrite, bool) {
	var tags []string

	for _, category := range f.FileCategories {
		if tag, ok := categoryTags[category]; ok {
			tags = appendUnique(tags, tag)
		}
	}

	if len(tags) == 0 {
		return Rewrite{}, false
	}

	return Rewrite{Tags: tags}, true
}

func appendUnique(tags []string, add ...string) []string {
	for _, tag := range add {
		seen := false

		for _, existing := range tags {
			if existing == tag {
				seen = true
				break
			}
		}

		if !seen {
			tags = append(tags, tag)
		}
	}

	return tags
}
