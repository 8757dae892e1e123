package jsonval

import (
	"regexp"
	"strings"
)

// Repair runs the textual repair chain over malformed JSON and reports
// whether it changed anything. The fixes are each idempotent and applied in
// a fixed order:
//
//  1. normalizeQuotes: single-quoted keys and strings become double-quoted
//  2. fixBarewordTokens: True/False/None become true/false/null
//  3. stripTrailingCommas: dangling commas before ] or } are removed
//
// Repair itself never fails: if a fix panics, the original text is returned
// unchanged and the caller treats repair as not applicable.
func Repair(text string) (repaired string, changed bool) {
	defer func() {
		if r := recover(); r != nil {
			repaired, changed = text, false
		}
	}()

	out := text
	for _, fix := range repairChain {
		out = fix(out)
	}
	return out, out != text
}

var repairChain = []func(string) string{
	normalizeQuotes,
	fixBarewordTokens,
	stripTrailingCommas,
}

// normalizeQuotes rewrites single-quoted strings as double-quoted ones,
// escaping any embedded double quotes. Content inside existing double-quoted
// strings is left untouched.
func normalizeQuotes(s string) string {
	const (
		stateNone = iota
		stateDouble
		stateSingle
	)

	var b strings.Builder
	b.Grow(len(s))
	state := stateNone
	escaped := false

	for _, r := range s {
		switch state {
		case stateNone:
			switch r {
			case '"':
				state = stateDouble
				b.WriteRune(r)
			case '\'':
				state = stateSingle
				b.WriteRune('"')
			default:
				b.WriteRune(r)
			}
		case stateDouble:
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
				state = stateNone
				b.WriteRune(r)
			default:
				b.WriteRune(r)
			}
		case stateSingle:
			if escaped {
				escaped = false
				switch r {
				case '\'': // \' is not valid JSON, emit a bare quote
					b.WriteRune('\'')
				case '"':
					b.WriteString(`\"`)
				default:
					b.WriteRune('\\')
					b.WriteRune(r)
				}
				continue
			}
			switch r {
			case '\\':
				escaped = true
			case '\'':
				state = stateNone
				b.WriteRune('"')
			case '"':
				b.WriteString(`\"`)
			default:
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

var (
	reTrue          = regexp.MustCompile(`\bTrue\b`)
	reFalse         = regexp.MustCompile(`\bFalse\b`)
	reNone          = regexp.MustCompile(`\bNone\b`)
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// fixBarewordTokens converts Python-style literals outside of strings.
func fixBarewordTokens(s string) string {
	return mapOutsideStrings(s, func(seg string) string {
		seg = reTrue.ReplaceAllString(seg, "true")
		seg = reFalse.ReplaceAllString(seg, "false")
		seg = reNone.ReplaceAllString(seg, "null")
		return seg
	})
}

// stripTrailingCommas drops commas immediately preceding a closing bracket,
// outside of strings.
func stripTrailingCommas(s string) string {
	return mapOutsideStrings(s, func(seg string) string {
		return reTrailingComma.ReplaceAllString(seg, "$1")
	})
}

// mapOutsideStrings applies fn to the stretches of s that are not inside
// double-quoted string literals. String literals pass through verbatim.
func mapOutsideStrings(s string, fn func(string) string) string {
	var b strings.Builder
	b.Grow(len(s))

	start := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
				b.WriteString(s[start : i+1])
				start = i + 1
			}
			continue
		}
		if c == '"' {
			b.WriteString(fn(s[start:i]))
			start = i
			inString = true
		}
	}
	if start < len(s) {
		if inString {
			// Unterminated string, leave the tail as-is.
			b.WriteString(s[start:])
		} else {
			b.WriteString(fn(s[start:]))
		}
	}
	return b.String()
}
