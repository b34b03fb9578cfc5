package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyInput is returned when there is nothing to parse
var ErrEmptyInput = errors.New("empty input")

var (
	fencedJSONRe    = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.+?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_]\w*)(\s*:)`)
	controlCharsRe  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// ParseAIJSON decodes JSON out of LLM output. It accepts plain JSON, JSON in a
// markdown fence, JSON surrounded by prose, and JSON with trailing commas,
// unquoted keys or single-quoted strings.
func ParseAIJSON(input string, target any) error {
	input = strings.TrimSpace(strings.TrimPrefix(input, "\ufeff"))
	if input == "" {
		return ErrEmptyInput
	}

	candidates := []func(string) string{
		func(s string) string { return s },
		fromFence,
		fromSurroundingText,
		repair,
		func(s string) string { return repair(fromSurroundingText(s)) },
	}
	for _, extract := range candidates {
		snippet := extract(input)
		if snippet == "" {
			continue
		}
		if err := json.Unmarshal([]byte(snippet), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no JSON found in model output: %s", truncate(input, 100))
}

// LooksLikeJSON reports whether s starts with a JSON object or array, possibly fenced
func LooksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(fromFence(s))
	}
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

func fromFence(input string) string {
	m := fencedJSONRe.FindStringSubmatch(input)
	if len(m) < 2 {
		return ""
	}
	body := strings.TrimSpace(m[1])
	if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
		return body
	}
	return ""
}

func fromSurroundingText(input string) string {
	obj := strings.Index(input, "{")
	arr := strings.Index(input, "[")
	switch {
	case obj >= 0 && (arr < 0 || obj < arr):
		return balanced(input[obj:], '{', '}')
	case arr >= 0:
		return balanced(input[arr:], '[', ']')
	}
	return ""
}

// balanced returns the prefix of input up to the bracket closing its first one
func balanced(input string, open, close rune) string {
	depth := 0
	inString, escape := false, false
	for i, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[:i+1]
			}
		}
	}
	return ""
}

func repair(input string) string {
	if input == "" {
		return ""
	}
	s := trailingCommaRe.ReplaceAllString(input, "$1")
	s = bareKeyRe.ReplaceAllString(s, `$1"$2"$3`)
	s = singleToDoubleQuotes(s)
	return controlCharsRe.ReplaceAllString(s, "")
}

// singleToDoubleQuotes swaps single quotes that delimit JSON strings,
// leaving apostrophes inside words alone.
func singleToDoubleQuotes(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	inDouble, escape := false, false
	var prev rune
	for _, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"':
			inDouble = !inDouble
		case ch == '\'' && !inDouble:
			if prev == 0 || strings.ContainsRune(":,[{ ", prev) || nextIsDelimiter(input, b.Len()) {
				ch = '"'
			}
		}
		b.WriteRune(ch)
		if ch != ' ' {
			prev = ch
		}
	}
	return b.String()
}

func nextIsDelimiter(input string, at int) bool {
	rest := strings.TrimLeft(input[at+1:], " ")
	return rest == "" || strings.ContainsRune(":,]}", rune(rest[0]))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
