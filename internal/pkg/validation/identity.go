package validation

import "strings"

// InstitutionalSuffix is the fixed email domain required for all student
// accounts.
const InstitutionalSuffix = "@vku.udn.vn"

// PasswordMinLength applies to self-registration only; admin-created records
// carry no minimum.
const PasswordMinLength = 6

// NormalizeUsername strips leading and trailing whitespace. Case is kept:
// usernames are case-sensitive.
func NormalizeUsername(raw string) string {
	return strings.TrimSpace(raw)
}

// NormalizeEmail strips whitespace and lowercases the whole address.
// Idempotent: NormalizeEmail(NormalizeEmail(x)) == NormalizeEmail(x).
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsInstitutionalEmail reports whether a normalized address carries the
// institutional domain suffix.
func IsInstitutionalEmail(normalized string) bool {
	return strings.HasSuffix(normalized, InstitutionalSuffix)
}
