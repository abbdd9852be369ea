// Package dbstrings provides string manipulation helpers for
// database-related naming, including case conversion between Go
// identifiers and SQL identifiers.
package dbstrings

import (
	"strings"
	"unicode"
)

// ToPascalCase converts a snake_case string to PascalCase.
// Examples:
//
//	"user_id" -> "UserId"
//	"created_at" -> "CreatedAt"
//	"id" -> "Id"
func ToPascalCase(s string) string {
	parts := strings.Split(s, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, "")
}

// ToLowerCamel converts a PascalCase string to lowerCamelCase.
// Examples:
//
//	"GetUser" -> "getUser"
//	"UserID" -> "userID"
func ToLowerCamel(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ToSnakeCase converts a PascalCase or camelCase string to snake_case.
// Runs of uppercase letters are treated as a single word.
// Examples:
//
//	"UserID" -> "user_id"
//	"CreatedAt" -> "created_at"
//	"GetUserByEmail" -> "get_user_by_email"
func ToSnakeCase(s string) string {
	runes := []rune(s)
	var result strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Break before an upper only at a word boundary: previous rune
			// is lower, or next rune is lower (end of an acronym run).
			if i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && !unicode.IsUpper(runes[i+1]))) {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
