// Package naming derives SQL identifiers from Go type and field names.
package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Snake converts a CamelCase identifier to snake_case. Acronyms stay in one
// word, so "UserID" becomes "user_id" and "HTTPServer" becomes "http_server".
func Snake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 && wordStart(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// wordStart reports whether the upper-case rune at i opens a new word.
func wordStart(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// Table is the plural snake_case table for a type: "BlogPost" -> "blog_posts".
func Table(typeName string) string {
	return inflection.Plural(Snake(typeName))
}

// JoinTable names the association table between two types by joining their
// tables in the given order: ("Post", "Tag") -> "posts_tags".
func JoinTable(left, right string) string {
	return Table(left) + "_" + Table(right)
}
