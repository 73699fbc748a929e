package scraper

import (
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var emailShape = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// placeholderEmails are syntactically valid addresses that only ever appear
// in templates and examples.
var placeholderEmails = map[string]struct{}{
	"email@example.com":   {},
	"example@example.com": {},
	"your@email.com":      {},
	"user@example.com":    {},
}

// placeholderTerms mark addresses as test or placeholder data. Rejecting them
// trades a few false negatives for not exporting junk contacts.
var placeholderTerms = []string{"example", "domain", "test", "noreply"}

// validEmail reports whether a lowercased candidate is a plausibly real
// address: strict local@domain shape, not a known placeholder, and a domain
// that survives an IDNA lookup fold.
func validEmail(email string) bool {
	if !emailShape.MatchString(email) {
		return false
	}
	if _, ok := placeholderEmails[email]; ok {
		return false
	}
	for _, term := range placeholderTerms {
		if strings.Contains(email, term) {
			return false
		}
	}

	domain := email[strings.LastIndex(email, "@")+1:]
	if ascii, err := idna.Lookup.ToASCII(domain); err != nil || ascii == "" {
		return false
	}
	return true
}

// normalizePhone reduces a candidate to canonical +<digits> form. Everything
// except digits and a leading plus is stripped; fewer than ten digits rejects
// the candidate. Bare numbers of exactly ten digits get the configured
// calling-code prefix, and numbers already carrying the calling code get a
// plus. The result is idempotent: feeding it back in returns it unchanged.
func normalizePhone(raw, callingCode string) string {
	raw = strings.TrimSpace(raw)
	hasPlus := strings.HasPrefix(raw, "+")

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	if len(number) < 10 {
		return ""
	}

	switch {
	case hasPlus:
		return "+" + number
	case len(number) == 10:
		return callingCode + number
	default:
		// Covers numbers already carrying a calling code, e.g. eleven
		// digits starting with 1 under the NANP default.
		return "+" + number
	}
}
