package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrUnrepairable indicates no repair step produced valid JSON.
var ErrUnrepairable = errors.New("no repair step produced valid JSON")

// RepairJSON coerces provider text into a JSON value. Steps are tried
// strictly in order, each only after the previous failed, because later
// steps are more aggressive: skipping ahead risks accepting a degraded
// parse of text an earlier step would have handled.
//
//  1. Parse the text as-is.
//  2. Re-escape raw control characters inside quoted strings, then parse.
//  3. Extract the first fenced code block, clean it as in step 2, then parse.
//  4. Extract the first balanced-looking {...} span, clean it, then parse.
func RepairJSON(text string) (json.RawMessage, error) {
	candidates := []string{
		text,
		escapeControlChars(text),
	}
	if fenced, ok := extractFencedBlock(text); ok {
		candidates = append(candidates, escapeControlChars(fenced))
	}
	if span, ok := extractBraceSpan(text); ok {
		candidates = append(candidates, escapeControlChars(span))
	}

	for _, candidate := range candidates {
		trimmed := strings.TrimSpace(candidate)
		if trimmed == "" {
			continue
		}
		if json.Valid([]byte(trimmed)) {
			return json.RawMessage(trimmed), nil
		}
	}
	return nil, ErrUnrepairable
}

// escapeControlChars rewrites literal newline/carriage-return/tab characters
// found inside quoted JSON string values as their escape sequences. Models
// frequently emit literal newlines inside strings, which is invalid JSON.
func escapeControlChars(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inString := false
	escaped := false
	for _, r := range text {
		if inString {
			if escaped {
				escaped = false
				b.WriteRune(r)
				continue
			}
			switch r {
			case '\\':
				escaped = true
				b.WriteRune(r)
			case '"':
				inString = false
				b.WriteRune(r)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				b.WriteRune(r)
			}
			continue
		}
		if r == '"' {
			inString = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

// extractFencedBlock returns the contents of the first triple-backtick code
// block, tolerating an optional language tag after the opening fence.
func extractFencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		tag := strings.TrimSpace(rest[:nl])
		if tag == "" || isFenceTag(tag) {
			rest = rest[nl+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return strings.TrimSpace(rest), strings.TrimSpace(rest) != ""
	}
	block := strings.TrimSpace(rest[:end])
	return block, block != ""
}

func isFenceTag(tag string) bool {
	for _, r := range tag {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// extractBraceSpan returns the widest {...} span in the text.
func extractBraceSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
