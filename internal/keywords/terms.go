package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Term is a keyword compiled into a whole-word matcher
type Term struct {
	Text string
	re   *regexp.Regexp
}

// NewTerm compiles text into a case-insensitive whole-word pattern.
// With plural set the pattern also accepts an "s" or "es" suffix.
func NewTerm(text string, plural bool) Term {
	text = strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(text)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}

	var b strings.Builder
	b.WriteString(`(?i)`)
	if first, _ := utf8.DecodeRuneInString(text); isWordRune(first) {
		b.WriteString(`\b`)
	}
	b.WriteString(strings.Join(quoted, `\s+`))
	if plural {
		b.WriteString(`(?:s|es)?`)
	}
	if last, _ := utf8.DecodeLastRuneInString(text); isWordRune(last) {
		b.WriteString(`\b`)
	}

	return Term{Text: strings.Join(words, " "), re: regexp.MustCompile(b.String())}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// In reports whether the term occurs in text
func (t Term) In(text string) bool {
	return t.re.MatchString(text)
}

// Count returns the number of non-overlapping occurrences in text
func (t Term) Count(text string) int {
	return len(t.re.FindAllStringIndex(text, -1))
}

// TermList is an ordered, immutable list of compiled terms
type TermList struct {
	terms []Term
}

// NewTermList compiles words in order, skipping blanks and duplicates
func NewTermList(words []string, plural bool) TermList {
	seen := make(map[string]bool, len(words))
	terms := make([]Term, 0, len(words))
	for _, w := range words {
		key := strings.Join(strings.Fields(strings.ToLower(w)), " ")
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, NewTerm(key, plural))
	}
	return TermList{terms: terms}
}

// Len returns the number of terms
func (l TermList) Len() int {
	return len(l.terms)
}

// Terms returns the compiled terms in order
func (l TermList) Terms() []Term {
	return l.terms
}

// Words returns the term texts in order
func (l TermList) Words() []string {
	words := make([]string, len(l.terms))
	for i, t := range l.terms {
		words[i] = t.Text
	}
	return words
}

// Any reports whether any term occurs in text
func (l TermList) Any(text string) bool {
	_, ok := l.First(text)
	return ok
}

// First returns the first term, in list order, that occurs in text
func (l TermList) First(text string) (string, bool) {
	for _, t := range l.terms {
		if t.In(text) {
			return t.Text, true
		}
	}
	return "", false
}

// Hits returns every term that occurs in text, in list order
func (l TermList) Hits(text string) []string {
	var hits []string
	for _, t := range l.terms {
		if t.In(text) {
			hits = append(hits, t.Text)
		}
	}
	return hits
}

// Contains reports whether word is one of the terms
func (l TermList) Contains(word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	for _, t := range l.terms {
		if t.Text == word {
			return true
		}
	}
	return false
}

// Alternation returns a regexp fragment matching any term, longest first
func (l TermList) Alternation() string {
	words := l.Words()
	sortByLengthDesc(words)
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = strings.ReplaceAll(regexp.QuoteMeta(w), " ", `\s+`)
	}
	return "(?:" + strings.Join(parts, "|") + ")"
}

func sortByLengthDesc(words []string) {
	sort.SliceStable(words, func(i, j int) bool {
		return len(words[i]) > len(words[j])
	})
}
