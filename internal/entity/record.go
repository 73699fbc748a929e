package entity

import (
	"time"

	"github.com/google/uuid"
)

// Platform identifies a social network a scraped link points at.
type Platform string

// Supported social platforms, in the order they are matched against links.
const (
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformPinterest Platform = "pinterest"
	PlatformTikTok    Platform = "tiktok"
)

// SocialLink is one classified anchor found on a scraped page. Links keep
// their discovery order and may repeat across platforms.
type SocialLink struct {
	Platform Platform `json:"platform"`
	URL      string   `json:"url"`
}

// ContactResult holds the contact details scraped from one website. Emails
// and Phones behave as sets: entries are normalized and deduplicated before
// they are added. A fetch failure leaves the sets empty and populates Error.
type ContactResult struct {
	Emails      []string     `json:"emails"`
	Phones      []string     `json:"phones"`
	SocialLinks []SocialLink `json:"social_media"`
	SourceURL   string       `json:"source_url,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// HasContacts reports whether at least one email or phone was found.
func (r *ContactResult) HasContacts() bool {
	return r != nil && (len(r.Emails) > 0 || len(r.Phones) > 0)
}

// BusinessRecord is one reconciled output row per business. Records are
// emitted even when the business failed (no URL or no contacts found).
type BusinessRecord struct {
	BusinessName string       `json:"business_name"`
	WebsiteURL   string       `json:"website_url,omitempty"`
	Emails       []string     `json:"emails"`
	Phones       []string     `json:"phones"`
	SocialLinks  []SocialLink `json:"social_media"`
	SourcePage   string       `json:"source_page,omitempty"`
	ScrapedAt    time.Time    `json:"scrape_timestamp"`
	Errors       string       `json:"errors,omitempty"`
}

// Report summarises one pipeline run.
type Report struct {
	Timestamp              time.Time `json:"timestamp"`
	TotalBusinesses        int       `json:"total_businesses"`
	BusinessesWithURLs     int       `json:"businesses_with_urls"`
	BusinessesWithContacts int       `json:"businesses_with_contacts"`
	SuccessRate            string    `json:"success_rate"`
	TotalEmailsCollected   int       `json:"total_emails_collected"`
	TotalPhonesCollected   int       `json:"total_phones_collected"`
	FailedBusinesses       []string  `json:"failed_businesses"`
	FailedCount            int       `json:"failed_count"`
}

// RunStatus describes the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusHalted    RunStatus = "halted_empty"
	RunStatusFailed    RunStatus = "failed"
)

// Run tracks a pipeline invocation triggered through the API.
type Run struct {
	ID         uuid.UUID `json:"id"`
	Status     RunStatus `json:"status"`
	TargetURL  string    `json:"target_url"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Report     *Report   `json:"report,omitempty"`
	Error      string    `json:"error,omitempty"`
}
