// models/submission.go - submission payloads as served by the backend API
package models

import (
	"encoding/json"
	"time"
)

// Submission is a funding/reward request record owned by the upstream backend.
// Field naming across backend versions is inconsistent, so the decoded struct
// keeps the raw payload alongside the typed fields; display and export code
// fall back through Raw when a typed field is empty.
type Submission struct {
	SubmissionID     int        `json:"submission_id"`
	SubmissionNumber string     `json:"submission_number"`
	SubmissionType   string     `json:"submission_type"`
	UserID           int        `json:"user_id"`
	YearID           int        `json:"year_id"`
	CategoryID       *int       `json:"category_id"`
	SubcategoryID    *int       `json:"subcategory_id"`
	StatusID         int        `json:"status_id"`
	Title            string     `json:"title"`
	RequestedAmount  *float64   `json:"requested_amount"`
	ApprovedAmount   *float64   `json:"approved_amount"`
	SubmittedAt      *time.Time `json:"submitted_at"`
	ApprovedAt       *time.Time `json:"approved_at"`
	CreatedAt        *time.Time `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`

	User        *User              `json:"user,omitempty"`
	Status      *ApplicationStatus `json:"status,omitempty"`
	Category    *Category          `json:"category,omitempty"`
	Subcategory *Subcategory       `json:"subcategory,omitempty"`
	Year        *Year              `json:"year,omitempty"`

	Raw map[string]any `json:"-"`
}

// UnmarshalJSON decodes the typed fields and retains the raw object.
func (s *Submission) UnmarshalJSON(data []byte) error {
	type alias Submission
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded.Raw = raw
	*s = Submission(decoded)

	// Older payloads use "id" instead of "submission_id".
	if s.SubmissionID == 0 {
		if v, ok := raw["id"].(float64); ok {
			s.SubmissionID = int(v)
		}
	}
	return nil
}

// Key returns the deduplication key for aggregated rows.
func (s Submission) Key() int {
	return s.SubmissionID
}

// Pagination mirrors the backend listing pagination block. Total count and
// next-page signalling vary between backend versions, hence the pointer
// fields.
type Pagination struct {
	CurrentPage int    `json:"current_page"`
	PerPage     int    `json:"per_page"`
	TotalPages  int    `json:"total_pages"`
	TotalCount  *int64 `json:"total_count"`
	TotalItems  *int64 `json:"total_items"`
	HasNext     *bool  `json:"has_next"`
	HasPrev     *bool  `json:"has_prev"`
}

// Total returns the advertised row count, preferring total_count.
func (p Pagination) Total() (int64, bool) {
	if p.TotalCount != nil {
		return *p.TotalCount, true
	}
	if p.TotalItems != nil {
		return *p.TotalItems, true
	}
	return 0, false
}

// More reports whether another page should be requested after receiving
// `returned` rows for `page` with the given limit. Explicit has_next wins,
// then total-page comparison, then the short-page heuristic.
func (p Pagination) More(page, returned, limit int) bool {
	if p.HasNext != nil {
		return *p.HasNext
	}
	if p.TotalPages > 0 {
		return page < p.TotalPages
	}
	return returned >= limit && limit > 0
}

// TypedDetail is the {type,data} block of a detail bundle. Data stays raw
// because fund_application and publication_reward payloads share no schema.
type TypedDetail struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// SubmissionDocument is an attachment row of the detail bundle.
type SubmissionDocument struct {
	DocumentID     int            `json:"document_id"`
	FileID         int            `json:"file_id"`
	DocumentTypeID int            `json:"document_type_id"`
	Description    string         `json:"description"`
	DocumentType   map[string]any `json:"document_type"`
	File           map[string]any `json:"file"`
}

// SubmissionDetails is the full per-submission bundle returned by
// GET /admin/submissions/:id/details.
type SubmissionDetails struct {
	Submission      *Submission          `json:"submission"`
	Applicant       *User                `json:"applicant"`
	SubmissionUsers []SubmissionUser     `json:"submission_users"`
	Documents       []SubmissionDocument `json:"documents"`
	Details         *TypedDetail         `json:"details"`
	ResearchFund    *ResearchFundPayload `json:"research_fund"`

	Raw map[string]any `json:"-"`
}

// UnmarshalJSON keeps the raw bundle for fallback field resolution.
func (d *SubmissionDetails) UnmarshalJSON(data []byte) error {
	type alias SubmissionDetails
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded.Raw = raw
	*d = SubmissionDetails(decoded)
	return nil
}

// DetailData returns the typed detail data block, never nil.
func (d *SubmissionDetails) DetailData() map[string]any {
	if d == nil || d.Details == nil || d.Details.Data == nil {
		return map[string]any{}
	}
	return d.Details.Data
}
