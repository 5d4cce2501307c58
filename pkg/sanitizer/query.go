package sanitizer

import "strings"

// MaxQueryLength bounds the query text stored on a lock record. Captured
// statements can be arbitrarily large; findings only need enough to
// identify the statement.
const MaxQueryLength = 2048

const redactedPlaceholder = "?"

// SanitizeQueryText normalizes a captured SQL statement for persistence:
// literals are replaced with placeholders so customer data never lands in
// findings, whitespace is collapsed, and the result is length-bounded.
func SanitizeQueryText(query string) string {
	p := Pipeline{
		redactLiterals,
		collapseWhitespace,
		trimSpace,
		truncate(MaxQueryLength),
	}
	return p.Apply(query)
}

// NormalizeApplication trims and collapses the application_name reported
// by the client. Empty stays empty; callers decide on a fallback.
func NormalizeApplication(name string) string {
	p := Pipeline{
		collapseWhitespace,
		trimSpace,
		truncate(128),
	}
	return p.Apply(name)
}

// NormalizeClientAddr validates that a reported client address looks like
// an IPv4 or IPv6 literal. Anything else is dropped rather than stored.
func NormalizeClientAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" || !reValidClientOct.MatchString(addr) {
		return ""
	}
	return addr
}

func redactLiterals(s string) string {
	s = reDollarQuoted.ReplaceAllString(s, redactedPlaceholder)
	s = reStringLiteral.ReplaceAllString(s, redactedPlaceholder)
	s = reNumberLiteral.ReplaceAllString(s, redactedPlaceholder)
	return s
}
