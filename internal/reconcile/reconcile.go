// Package reconcile merges the outputs of the independent pipeline stages
// (extracted names, resolved URLs, scraped contacts) into one record per
// business, tracking failures without dropping anything that was attempted.
package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/octobees/leads-scraper/internal/entity"
)

// Reconcile produces exactly one BusinessRecord for every business name the
// URL-resolution stage attempted, i.e. every key of urls. A missing contact
// lookup is treated as an empty result, not an error. The second return value
// lists businesses considered failed: no resolved URL, or neither an email
// nor a phone found. Failed businesses are still emitted.
//
// Names that never made it into urls are excluded entirely; that boundary is
// deliberate and pinned by tests.
func Reconcile(names []string, urls map[string]string, contacts map[string]*entity.ContactResult) ([]entity.BusinessRecord, []string) {
	records := make([]entity.BusinessRecord, 0, len(urls))
	failed := make([]string, 0)
	now := time.Now()

	for _, name := range orderedKeys(names, urls) {
		url := urls[name]
		contact := contacts[name]
		if contact == nil {
			contact = &entity.ContactResult{}
		}

		records = append(records, entity.BusinessRecord{
			BusinessName: name,
			WebsiteURL:   url,
			Emails:       emptyIfNil(contact.Emails),
			Phones:       emptyIfNil(contact.Phones),
			SocialLinks:  emptyLinksIfNil(contact.SocialLinks),
			SourcePage:   contact.SourceURL,
			ScrapedAt:    now,
			Errors:       contact.Error,
		})

		if url == "" || !contact.HasContacts() {
			failed = append(failed, name)
		}
	}

	return records, failed
}

// BuildReport derives the run summary. The success-rate denominator is the
// extracted-name count, matching the report consumers expect even when some
// names never reached URL resolution.
func BuildReport(names []string, urls map[string]string, contacts map[string]*entity.ContactResult, failed []string) entity.Report {
	withURLs := 0
	for _, url := range urls {
		if url != "" {
			withURLs++
		}
	}

	withContacts := 0
	totalEmails := 0
	totalPhones := 0
	for _, contact := range contacts {
		if contact == nil {
			continue
		}
		if contact.HasContacts() {
			withContacts++
		}
		totalEmails += len(contact.Emails)
		totalPhones += len(contact.Phones)
	}

	total := len(names)
	rate := "0%"
	if total > 0 {
		rate = fmt.Sprintf("%.1f%%", float64(withContacts)/float64(total)*100)
	}

	if failed == nil {
		failed = []string{}
	}

	return entity.Report{
		Timestamp:              time.Now(),
		TotalBusinesses:        total,
		BusinessesWithURLs:     withURLs,
		BusinessesWithContacts: withContacts,
		SuccessRate:            rate,
		TotalEmailsCollected:   totalEmails,
		TotalPhonesCollected:   totalPhones,
		FailedBusinesses:       failed,
		FailedCount:            len(failed),
	}
}

// orderedKeys walks urls in a stable order: input-name order first, then any
// remaining url keys sorted. Duplicate names collapse to one record.
func orderedKeys(names []string, urls map[string]string) []string {
	ordered := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))

	for _, name := range names {
		if _, attempted := urls[name]; !attempted {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		ordered = append(ordered, name)
	}

	var extra []string
	for name := range urls {
		if _, done := seen[name]; !done {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	return append(ordered, extra...)
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func emptyLinksIfNil(links []entity.SocialLink) []entity.SocialLink {
	if links == nil {
		return []entity.SocialLink{}
	}
	return links
}
