// Package casing renames object keys between camelCase and snake_case.
package casing

import "strings"

// SnakeKey inserts an underscore before every ASCII uppercase letter and
// lowercases it: "accountId" becomes "account_id", "ID" becomes "_i_d".
func SnakeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('_')
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// CamelKey drops every underscore that is followed by an ASCII lowercase
// letter and uppercases that letter. Other underscores are kept, so
// "line_1" stays "line_1".
func CamelKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' && i+1 < len(s) && s[i+1] >= 'a' && s[i+1] <= 'z' {
			b.WriteByte(s[i+1] - ('a' - 'A'))
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ToSnakeCase renames every key of every nested map to snake_case.
// Slices are transformed element-wise; scalars and nil are returned as-is.
func ToSnakeCase(v any) any {
	return transform(v, SnakeKey)
}

// ToCamelCase is the inverse of ToSnakeCase for keys made of lowercase words.
func ToCamelCase(v any) any {
	return transform(v, CamelKey)
}

func transform(v any, rename func(string) string) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[rename(k)] = transform(val, rename)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = transform(val, rename)
		}
		return out
	default:
		return v
	}
}
