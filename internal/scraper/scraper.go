// Package scraper turns fetched website HTML into validated, deduplicated
// contact facts: emails, phones and social links.
package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nyaruka/phonenumbers"

	"github.com/octobees/leads-scraper/internal/entity"
	"github.com/octobees/leads-scraper/internal/patterns"
)

// Fetcher retrieves a page's HTML. How pages are fetched (client, proxies,
// pacing) is the collaborator's concern; a failure here is the normal
// empty-result path for one business, never an abort.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// contactIndicators mark anchors that likely lead to a contact page. The
// first matching anchor is followed, once, when the primary page yields
// neither emails nor phones.
var contactIndicators = []string{
	"contact", "contact-us", "contact.html", "contact.php",
	"about", "about-us", "connect", "get-in-touch",
}

// Scraper extracts contact details from websites.
type Scraper struct {
	fetcher     Fetcher
	callingCode string
	logger      *log.Logger
}

// New builds a scraper. region is an ISO 3166-1 alpha-2 code (e.g. "US")
// whose calling code is applied to bare ten-digit phone numbers; unknown
// regions fall back to +1.
func New(fetcher Fetcher, region string, logger *log.Logger) *Scraper {
	code := phonenumbers.GetCountryCodeForRegion(strings.ToUpper(strings.TrimSpace(region)))
	if code == 0 {
		code = 1
	}
	if logger == nil {
		logger = log.New(log.Writer(), "scraper: ", log.LstdFlags)
	}
	return &Scraper{
		fetcher:     fetcher,
		callingCode: fmt.Sprintf("+%d", code),
		logger:      logger,
	}
}

// Scrape fetches pageURL and extracts contact details. It never returns an
// error: fetch or parse failures come back as an empty ContactResult with the
// Error field set.
func (s *Scraper) Scrape(ctx context.Context, pageURL, businessName string) *entity.ContactResult {
	if pageURL == "" {
		return &entity.ContactResult{Error: "no URL provided"}
	}

	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		s.logger.Printf("fetch failed for %s (%s): %v", businessName, pageURL, err)
		return &entity.ContactResult{SourceURL: pageURL, Error: fmt.Sprintf("failed to fetch URL: %v", err)}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return &entity.ContactResult{SourceURL: pageURL, Error: fmt.Sprintf("failed to parse page: %v", err)}
	}

	emails := s.extractEmails(html, doc)
	phones := s.extractPhones(html, doc)
	socials := extractSocialLinks(doc, pageURL)

	if len(emails) == 0 && len(phones) == 0 {
		s.tryContactPage(ctx, doc, pageURL, emails, phones)
	}

	return &entity.ContactResult{
		Emails:      sortedKeys(emails),
		Phones:      sortedKeys(phones),
		SocialLinks: socials,
		SourceURL:   pageURL,
	}
}

// tryContactPage follows the first contact-looking anchor and unions any
// emails and phones found there into the given sets. Social links are not
// re-extracted on the fallback page.
func (s *Scraper) tryContactPage(ctx context.Context, doc *goquery.Document, pageURL string, emails, phones map[string]struct{}) {
	contactURL := findContactPage(doc, pageURL)
	if contactURL == "" || contactURL == pageURL {
		return
	}

	s.logger.Printf("trying contact page: %s", contactURL)
	html, err := s.fetcher.Fetch(ctx, contactURL)
	if err != nil {
		return
	}
	contactDoc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}

	for email := range s.extractEmails(html, contactDoc) {
		emails[email] = struct{}{}
	}
	for phone := range s.extractPhones(html, contactDoc) {
		phones[phone] = struct{}{}
	}
}

// extractEmails pools regex candidates from the raw markup with explicit
// mailto: targets, then validates and lowercases each into a set.
func (s *Scraper) extractEmails(html string, doc *goquery.Document) map[string]struct{} {
	emails := make(map[string]struct{})

	for _, candidate := range patterns.Emails(html) {
		email := strings.ToLower(strings.TrimSpace(candidate))
		if validEmail(email) {
			emails[email] = struct{}{}
		}
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if len(href) < len("mailto:") || !strings.EqualFold(href[:len("mailto:")], "mailto:") {
			return
		}
		addr := href[len("mailto:"):]
		// Drop any ?subject=... style suffix.
		if i := strings.Index(addr, "?"); i >= 0 {
			addr = addr[:i]
		}
		email := strings.ToLower(strings.TrimSpace(addr))
		if validEmail(email) {
			emails[email] = struct{}{}
		}
	})

	return emails
}

// extractPhones pools regex candidates with explicit tel: targets and
// normalizes each into a set; candidates that normalize to "" are dropped.
func (s *Scraper) extractPhones(html string, doc *goquery.Document) map[string]struct{} {
	phones := make(map[string]struct{})

	for _, candidate := range patterns.Phones(html) {
		if normalized := normalizePhone(candidate, s.callingCode); normalized != "" {
			phones[normalized] = struct{}{}
		}
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if len(href) < len("tel:") || !strings.EqualFold(href[:len("tel:")], "tel:") {
			return
		}
		if normalized := normalizePhone(href[len("tel:"):], s.callingCode); normalized != "" {
			phones[normalized] = struct{}{}
		}
	})

	return phones
}

// extractSocialLinks classifies every anchor against the platform patterns,
// keeping discovery order. Duplicate links are permitted; the resolved URL
// preserves the original casing of the target.
func extractSocialLinks(doc *goquery.Document, pageURL string) []entity.SocialLink {
	var links []entity.SocialLink

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" {
			return
		}
		platform, ok := patterns.MatchPlatform(href, sel.Text())
		if !ok {
			return
		}
		links = append(links, entity.SocialLink{
			Platform: platform,
			URL:      resolveURL(pageURL, href),
		})
	})

	return links
}

// findContactPage returns the absolute URL of the first anchor whose target
// or text contains a contact indicator, or "" when none matches.
func findContactPage(doc *goquery.Document, pageURL string) string {
	var found string

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		hrefLower := strings.ToLower(href)
		textLower := strings.ToLower(sel.Text())

		for _, indicator := range contactIndicators {
			if strings.Contains(hrefLower, indicator) || strings.Contains(textLower, indicator) {
				found = resolveURL(pageURL, href)
				return false
			}
		}
		return true
	})

	return found
}

// resolveURL joins a link target against the page base. Unparseable inputs
// fall back to the raw target.
func resolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
