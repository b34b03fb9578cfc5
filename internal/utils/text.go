package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9]+`)
	spacesRe          = regexp.MustCompile(`\s+`)
	emphasisRe        = regexp.MustCompile("\\*\\*|__|`")
	headingRe         = regexp.MustCompile(`^\s{0,3}#{1,6}\s*`)
	linkRe            = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
)

// NormalizeKey folds a product name into a comparison key: accents are
// decomposed and dropped, punctuation becomes a space, garment synonyms are
// canonicalized.
func NormalizeKey(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "t-shirt", "tshirt")
	s = nonAlphanumericRe.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = CanonicalGarment(w)
	}
	return strings.Join(words, " ")
}

// CollapseSpaces trims s and folds runs of whitespace into one space
func CollapseSpaces(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// CleanMarkdown removes inline emphasis, heading hashes and link targets.
// Bullets and ordinals are kept so list structure survives.
func CleanMarkdown(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		line = headingRe.ReplaceAllString(line, "")
		line = linkRe.ReplaceAllString(line, "$1")
		line = emphasisRe.ReplaceAllString(line, "")
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// TitleCase upper-cases the first letter of every word
func TitleCase(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}
