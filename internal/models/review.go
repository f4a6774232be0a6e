package models

import "time"

// Review pairs one submitted source file with the review text generated for
// it. Records are immutable once stored: the pipeline creates them, the
// history listing reads them, and nothing updates or deletes them.
type Review struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	CodeContent string    `json:"codeContent"`
	AIReview    string    `json:"aiReview"`
	CreatedAt   time.Time `json:"createdAt"`
}
