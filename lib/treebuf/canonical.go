// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treebuf

import (
	"strings"
	"unicode"
)

// CanonicalName converts a field or variant name to the camel-case form
// written on the wire. Words are split at separators (anything that is
// not a letter or digit), at lower-to-upper transitions, and before the
// last capital of an acronym that runs into a word ("HTTPServer" is
// "HTTP", "Server"). The first word is lower-cased and the rest are
// capitalized: "user_id", "UserID" and "userId" all become "userId".
//
// Distinct names can map to the same canonical name. Such fields share
// a wire name, and when both are present in a document the last one
// written wins.
func CanonicalName(name string) string {
	var builder strings.Builder
	builder.Grow(len(name))
	for index, word := range splitWords(name) {
		for position, r := range word {
			if position == 0 && index > 0 {
				builder.WriteRune(unicode.ToUpper(r))
			} else {
				builder.WriteRune(unicode.ToLower(r))
			}
		}
	}
	return builder.String()
}

func splitWords(name string) []string {
	runes := []rune(name)
	var words []string
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for index, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(index)
			continue
		}
		if start < 0 {
			start = index
			continue
		}
		previous := runes[index-1]
		switch {
		case unicode.IsUpper(r) && (unicode.IsLower(previous) || unicode.IsDigit(previous)):
			flush(index)
			start = index
		case unicode.IsUpper(r) && unicode.IsUpper(previous) &&
			index+1 < len(runes) && unicode.IsLower(runes[index+1]):
			flush(index)
			start = index
		}
	}
	flush(len(runes))
	return words
}
