package analyzer

import (
	"regexp"
	"strings"

	"stylelens/internal/keywords"
	"stylelens/internal/model"
)

// Mention is a raw product mention found by a pass
type Mention struct {
	Name    string
	Context string
	// Matched is the text the relevance gate is applied to.
	Matched string
	Pass    model.PassKind
}

// Pass finds product mentions in cleaned text
type Pass interface {
	Kind() model.PassKind
	Find(text string) []Mention
}

var (
	listItemRe     = regexp.MustCompile(`^\s*(?:\d+[.)]|[-•*+])\s+`)
	structuredRe   = regexp.MustCompile(`^\s*(?:\d+[.)]|[-•*+])\s+([^:\n]{3,80}?)\s*:\s*(.*)$`)
	bulletRe       = regexp.MustCompile(`^\s*[-•*+]\s+(.+)$`)
	numberedRe     = regexp.MustCompile(`^\s*\d+[.)]\s+(.+)$`)
	sentenceSplitR = regexp.MustCompile(`[.!?\n]+`)
)

// DefaultPasses returns the six extraction passes in their fixed order
func DefaultPasses(tables *keywords.Tables) []Pass {
	return []Pass{
		structuredPass{},
		bulletPass{},
		numberedPass{},
		newSentencePass(),
		headingPass{},
		newNounPhrasePass(tables),
	}
}

// structuredPass reads "1. Label: description" and "- Label: description" items,
// folding indented follow-up lines into the description.
type structuredPass struct{}

func (structuredPass) Kind() model.PassKind { return model.PassStructured }

func (p structuredPass) Find(text string) []Mention {
	lines := strings.Split(text, "\n")
	var out []Mention
	for i, line := range lines {
		m := structuredRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		desc := joinContinuation(m[2], lines[i+1:])
		out = append(out, Mention{
			Name:    m[1],
			Context: desc,
			Matched: m[1] + " " + desc,
			Pass:    p.Kind(),
		})
	}
	return out
}

// bulletPass reads bulleted lines of 10 to 100 characters
type bulletPass struct{}

func (bulletPass) Kind() model.PassKind { return model.PassBullet }

func (p bulletPass) Find(text string) []Mention {
	var out []Mention
	for _, line := range strings.Split(text, "\n") {
		m := bulletRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		content := strings.TrimSpace(m[1])
		if n := len(content); n < 10 || n > 100 {
			continue
		}
		name := content
		if i := strings.Index(content, ":"); i > 0 {
			name = content[:i]
		}
		out = append(out, Mention{Name: name, Context: content, Matched: content, Pass: p.Kind()})
	}
	return out
}

// numberedPass reads "N. title" lines with the text that follows until the next ordinal
type numberedPass struct{}

func (numberedPass) Kind() model.PassKind { return model.PassNumbered }

func (p numberedPass) Find(text string) []Mention {
	lines := strings.Split(text, "\n")
	var out []Mention
	for i, line := range lines {
		m := numberedRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title, desc := m[1], ""
		if j := strings.Index(title, ":"); j > 0 {
			title, desc = title[:j], title[j+1:]
		}
		title = strings.TrimSpace(title)
		if n := len(title); n < 3 || n > 80 {
			continue
		}
		desc = joinContinuation(desc, lines[i+1:])
		out = append(out, Mention{Name: title, Context: desc, Matched: title + " " + desc, Pass: p.Kind()})
	}
	return out
}

// sentencePass applies imperative and descriptive sentence templates
type sentencePass struct {
	patterns []sentencePattern
}

type sentencePattern struct {
	re       *regexp.Regexp
	maxWords int
}

func newSentencePass() sentencePass {
	return sentencePass{patterns: []sentencePattern{
		{re: regexp.MustCompile(`(?i)\b(?:show|find|buy|get|search for|look for|looking for|recommend|suggest|try)(?:\s+me)?\s+(?:(?:a|an|some|the)\s+)?([a-z][a-z' -]{2,50}?)\s+(?:online|for|from|at|in|with|under)\b`)},
		{re: regexp.MustCompile(`(?i)\b([a-z][a-z' -]{2,40}?)\s+(?:is|are)\s+(?:trending|popular|perfect|ideal|a must)\b`), maxWords: 4},
		{re: regexp.MustCompile(`(?i)\b(?:men|women|male|female|boys|girls)(?:'s)?\s+([a-z][a-z -]{4,50})`)},
	}}
}

func (sentencePass) Kind() model.PassKind { return model.PassSentence }

func (p sentencePass) Find(text string) []Mention {
	var out []Mention
	for _, sentence := range sentenceSplitR.Split(text, -1) {
		sentence = strings.TrimSpace(listItemRe.ReplaceAllString(sentence, ""))
		if len(sentence) <= 10 {
			continue
		}
		for _, pat := range p.patterns {
			for _, m := range pat.re.FindAllStringSubmatch(sentence, -1) {
				name := trimPhrase(m[1])
				if pat.maxWords > 0 {
					name = lastWords(name, pat.maxWords)
				}
				if name == "" {
					continue
				}
				out = append(out, Mention{Name: name, Context: sentence, Matched: m[0], Pass: p.Kind()})
			}
		}
	}
	return out
}

// headingPass treats every short line as a possible product heading
type headingPass struct{}

func (headingPass) Kind() model.PassKind { return model.PassHeading }

func (p headingPass) Find(text string) []Mention {
	var out []Mention
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(listItemRe.ReplaceAllString(line, ""))
		if strings.Contains(line, ":") {
			continue
		}
		line = strings.TrimRight(line, ".!?,;")
		if n := len(line); n < 10 || n > 80 {
			continue
		}
		out = append(out, Mention{Name: line, Matched: line, Pass: p.Kind()})
	}
	return out
}

// nounPhrasePass applies adjective, fabric, gendered and product-noun templates line by line
type nounPhrasePass struct {
	templates []nounTemplate
}

type nounTemplate struct {
	re *regexp.Regexp
	// build assembles the name from the submatches.
	build func(m []string) string
}

func newNounPhrasePass(tables *keywords.Tables) nounPhrasePass {
	templates := []nounTemplate{
		{
			re:    regexp.MustCompile(`(?i)\b(?:designer|trendy|stylish|elegant|modern|classic|chic)\s+([a-z][a-z' -]{2,40}?\s+(?:set|collection|piece|wear|outfit)s?)\b`),
			build: func(m []string) string { return m[1] },
		},
		{
			re:    regexp.MustCompile(`(?i)\b(?:men|women|male|female|boys|girls)(?:'s)?\s+([a-z][a-z -]{2,40}?)\s+wear\b`),
			build: func(m []string) string { return m[1] + " wear" },
		},
	}
	if tables.Materials.Len() > 0 {
		templates = append(templates, nounTemplate{
			re: regexp.MustCompile(`(?i)\b(` + tables.Materials.Alternation() + `)\s+([a-z][a-z-]{2,20}(?:\s+[a-z][a-z-]{2,20})?)`),
			build: func(m []string) string {
				phrase := trimPhrase(m[2])
				if phrase == "" {
					return ""
				}
				return m[1] + " " + phrase
			},
		})
	}
	if tables.ProductNouns.Len() > 0 {
		modifiers := ""
		if tables.Modifiers.Len() > 0 {
			modifiers = `(?:` + tables.Modifiers.Alternation() + `\s+)?`
		}
		templates = append(templates, nounTemplate{
			re:    regexp.MustCompile(`(?i)\b(` + modifiers + tables.ProductNouns.Alternation() + `(?:s|es)?)\b`),
			build: func(m []string) string { return m[1] },
		})
	}
	return nounPhrasePass{templates: templates}
}

func (nounPhrasePass) Kind() model.PassKind { return model.PassNounPhrase }

func (p nounPhrasePass) Find(text string) []Mention {
	var out []Mention
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, tpl := range p.templates {
			for _, m := range tpl.re.FindAllStringSubmatch(line, -1) {
				name := tpl.build(m)
				if name == "" {
					continue
				}
				out = append(out, Mention{Name: name, Context: line, Matched: m[0], Pass: p.Kind()})
			}
		}
	}
	return out
}

// joinContinuation appends the lines after a list item up to the next item or blank line
func joinContinuation(first string, rest []string) string {
	parts := []string{strings.TrimSpace(first)}
	for _, line := range rest {
		if strings.TrimSpace(line) == "" || listItemRe.MatchString(line) {
			break
		}
		parts = append(parts, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

var (
	connectorWords = map[string]bool{
		"in": true, "with": true, "for": true, "from": true, "made": true, "featuring": true,
		"that": true, "which": true, "and": true, "or": true, "to": true, "at": true, "on": true,
		"by": true, "under": true, "is": true, "are": true, "like": true,
	}
	leadingFillers = map[string]bool{
		"a": true, "an": true, "the": true, "some": true, "me": true, "my": true, "your": true,
		"these": true, "those": true, "this": true, "that": true, "season": true, "our": true,
	}
)

// trimPhrase cuts a captured phrase at the first connector word and drops leading fillers
func trimPhrase(s string) string {
	words := strings.Fields(strings.Trim(s, " -'"))
	for i, w := range words {
		if connectorWords[strings.ToLower(w)] {
			words = words[:i]
			break
		}
	}
	for len(words) > 0 && leadingFillers[strings.ToLower(words[0])] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

func lastWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}
