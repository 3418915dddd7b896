// Package extract derives cheap, deterministic features from raw records:
// link domains, file extension categories and lexical keyword flags.
// Everything here is pure and makes no external calls.
package extract

import (
	"net/url"
	"path"
	"strings"

	"github.com/ametelin/record-sweeper/internal/core/domain"
)

// Features is the bundle the rule engine and the controversy scorer consume.
// Slices keep first-seen order and hold no duplicates.
type Features struct {
	Domains        []string
	FileCategories []string
	LexicalFlags   []string
}

// HasDomain reports whether the given host (www-stripped) was seen.
func (f Features) HasDomain(domain string) bool {
	return contains(f.Domains, domain)
}

// HasCategory reports whether any attached file fell into the category.
func (f Features) HasCategory(category string) bool {
	return contains(f.FileCategories, category)
}

// HasFlag reports whether the lexical flag matched.
func (f Features) HasFlag(flag string) bool {
	return contains(f.LexicalFlags, flag)
}

// Extract computes the feature bundle for a record.
func Extract(rec domain.Record) Features {
	return Features{
		Domains:        LinkDomains(rec.Links),
		FileCategories: fileCategoriesOf(rec.Files),
		LexicalFlags:   lexicalFlagsOf(rec.Title + " " + rec.Description),
	}
}

// LinkDomains parses each link's host and strips a leading "www.".
// Malformed URLs are skipped, not fatal.
func LinkDomains(links []string) []string {
	var domains []string

	for _, link := range links {
		parsed, err := url.Parse(strings.TrimSpace(link))
		if err != nil {
			continue
		}

		host := strings.ToLower(parsed.Hostname())
		if host == "" {
			continue
		}

		host = strings.TrimPrefix(host, "www.")

		if !contains(domains, host) {
			domains = append(domains, host)
		}
	}

	return domains
}

func fileCategoriesOf(files []string) []string {
	var categories []string

	for _, file := range files {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(file), "."))
		if ext == "" {
			continue
		}

		for category, exts := range fileCategories {
			if contains(exts, ext) && !contains(categories, category) {
				categories = append(categories, category)
			}
		}
	}

	return categories
}

func lexicalFlagsOf(text string) []string {
	lowered := strings.ToLower(text)

	var flags []string

	for _, flag := range lexicalFlagOrder {
		for _, keyword := range lexicalKeywords[flag] {
			if strings.Contains(lowered, keyword) {
				flags = append(flags, flag)
				break
			}
		}
	}

	return flags
}

// CorruptedText reports whether the text carries replacement-character
// markers left by a broken encoding conversion.
func CorruptedText(text string) bool {
	return strings.ContainsRune(text, '�')
}

// CorruptionCount returns the number of replacement characters in the text.
func CorruptionCount(text string) int {
	return strings.Count(text, "�")
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}

	return false
}
