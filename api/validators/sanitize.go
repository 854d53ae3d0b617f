package validators

import "strings"

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// NormalizeEmail trims and lowercases an address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// OptionalString trims a pointer value, mapping blank to nil.
func OptionalString(in *string, maxLen int) *string {
	if in == nil {
		return nil
	}
	out := SanitizeString(*in, maxLen)
	if out == "" {
		return nil
	}
	return &out
}
