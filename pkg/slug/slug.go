// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Catalog categories are addressed by slug (e.g. "turismo-de-aventura"), so
// Spanish names lose their accents: "Ecoturismo Amazónico" becomes
// "ecoturismo-amazonico".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and drops the combining marks.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// Letters and digits outside ASCII after accent removal (e.g. "ñ" survives
// as "n", but "東" does not) are treated as separators. The result is empty
// when s has no ASCII letters or digits.
func From(s string) string {
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		stripped = s
	}

	var builder strings.Builder
	builder.Grow(len(stripped))

	pendingHyphen := false
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}

	return builder.String()
}
