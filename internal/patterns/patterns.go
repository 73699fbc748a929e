// Package patterns holds the fixed extraction pattern library used by the
// contact scraper. Every matcher returns whole-match candidate strings so
// callers never deal with capture-group shapes; candidates from overlapping
// patterns are pooled and validated downstream.
package patterns

import (
	"regexp"

	"github.com/octobees/leads-scraper/internal/entity"
)

var emailPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
	regexp.MustCompile(`(?i)[a-zA-Z0-9._%+-]+\[at\][a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
	regexp.MustCompile(`(?i)[a-zA-Z0-9._%+-]+\(at\)[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
	regexp.MustCompile(`(?i)[a-zA-Z0-9._%+-]+\s*@\s*[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
}

// Phone groupings covered: 3-3-4, 2-4-4, 4-3-3 and 5-3-2 digits, each with an
// optional country code and optional separators or parentheses.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{2}\)?[-.\s]?\d{4}[-.\s]?\d{4}`),
	regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{4}\)?[-.\s]?\d{3}[-.\s]?\d{3}`),
	regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{5}\)?[-.\s]?\d{3}[-.\s]?\d{2}`),
	regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`\(\d{2}\)\s*\d{4}[-.\s]?\d{4}`),
}

type platformPatterns struct {
	platform entity.Platform
	patterns []*regexp.Regexp
}

// socialPatterns is ordered: the first platform with a matching pattern wins
// when classifying a link, and a link never maps to more than one platform.
var socialPatterns = []platformPatterns{
	{entity.PlatformFacebook, compileAll(`facebook\.com/`, `fb\.com/`, `fb\.me/`, `facebook`)},
	{entity.PlatformTwitter, compileAll(`twitter\.com/`, `t\.co/`, `twitter`, `x\.com/`)},
	{entity.PlatformLinkedIn, compileAll(`linkedin\.com/`, `linkedin`, `lnkd\.in/`)},
	{entity.PlatformInstagram, compileAll(`instagram\.com/`, `instagr\.am/`, `instagram`)},
	{entity.PlatformYouTube, compileAll(`youtube\.com/`, `youtu\.be/`, `youtube`)},
	{entity.PlatformPinterest, compileAll(`pinterest\.com/`, `pin\.it/`, `pinterest`)},
	{entity.PlatformTikTok, compileAll(`tiktok\.com/`, `tiktok`)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+expr))
	}
	return compiled
}

// Emails returns every email-shaped substring in text, pooled across all
// email patterns. Duplicates are possible; callers deduplicate after
// validation.
func Emails(text string) []string {
	return matchAll(emailPatterns, text)
}

// Phones returns every phone-shaped substring in text, pooled across all
// phone patterns.
func Phones(text string) []string {
	return matchAll(phonePatterns, text)
}

// MatchPlatform classifies a link by testing its target and visible text
// against each platform's patterns, case-insensitively. A single matching
// pattern is enough; the first matching platform wins.
func MatchPlatform(href, text string) (entity.Platform, bool) {
	for _, pp := range socialPatterns {
		for _, re := range pp.patterns {
			if re.MatchString(href) || re.MatchString(text) {
				return pp.platform, true
			}
		}
	}
	return "", false
}

func matchAll(res []*regexp.Regexp, text string) []string {
	var out []string
	for _, re := range res {
		out = append(out, re.FindAllString(text, -1)...)
	}
	return out
}
