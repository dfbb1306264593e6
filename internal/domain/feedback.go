package domain

import "time"

// GuestSubmitter marks feedback sent without an active session.
const GuestSubmitter = "guest"

// FeedbackEntry is an append-only feedback record.
// SubmittedAt is assigned by the remote service.
type FeedbackEntry struct {
	ID          string    `json:"id,omitempty"`
	Text        string    `json:"text"`
	Submitter   string    `json:"userId"`
	SubmittedAt time.Time `json:"createdAt"`
}
