package dto

// StartRunRequest captures the input for launching a scraping run.
type StartRunRequest struct {
	TargetURL string `json:"target_url"`
	Location  string `json:"location,omitempty"`
}
