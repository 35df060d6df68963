// models/research_fund.go - research fund ledger payloads
package models

import (
	"encoding/json"
	"time"
)

const (
	ResearchFundEventTypeNote    = "note"
	ResearchFundEventTypePayment = "payment"
	ResearchFundEventTypeClosure = "closure"
)

// ResearchFundEvent is a single ledger entry recorded against an approved
// submission. Events are append-only; the gateway never edits or deletes them.
type ResearchFundEvent struct {
	EventID       int                `json:"event_id"`
	SubmissionID  int                `json:"submission_id"`
	EventType     string             `json:"event_type"`
	Comment       string             `json:"comment"`
	Amount        *float64           `json:"amount,omitempty"`
	StatusAfterID *int               `json:"status_after_id,omitempty"`
	StatusAfter   *ApplicationStatus `json:"status_after,omitempty"`
	CreatedBy     int                `json:"created_by"`
	Creator       *User              `json:"creator,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Files         []EventFile        `json:"files"`
}

// EventFile associates an uploaded attachment with a ledger event.
type EventFile struct {
	EventFileID int            `json:"event_file_id"`
	EventID     int            `json:"event_id"`
	FileID      int            `json:"file_id"`
	File        map[string]any `json:"file"`
}

// IsPayment reports whether the event records a disbursement.
func (e ResearchFundEvent) IsPayment() bool {
	return e.EventType == ResearchFundEventTypePayment ||
		(e.EventType == "" && e.Amount != nil && *e.Amount > 0)
}

// FundTotals is the derived aggregate for a submission's ledger. The backend
// recomputes it after every write; the gateway normalizes the server payload
// and only projects totals locally for pre-submit validation.
type FundTotals struct {
	ApprovedAmount  float64 `json:"approved_amount"`
	PaidAmount      float64 `json:"paid_amount"`
	PendingAmount   float64 `json:"pending_amount"`
	RemainingAmount float64 `json:"remaining_amount"`
	TotalEvents     int     `json:"total_events"`
	IsClosed        bool    `json:"is_closed"`
	StatusCode      string  `json:"status_code,omitempty"`
	StatusName      string  `json:"status_name,omitempty"`
}

// ResearchFundPayload is the events+summary bundle of the ledger endpoints.
// Summary stays raw; field naming differs across backend versions and the
// ledger service owns the normalization.
type ResearchFundPayload struct {
	SubmissionID int                 `json:"submission_id"`
	Events       []ResearchFundEvent `json:"events"`
	Summary      map[string]any      `json:"summary"`
}

// UnmarshalJSON tolerates a missing summary block.
func (p *ResearchFundPayload) UnmarshalJSON(data []byte) error {
	type alias ResearchFundPayload
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.Summary == nil {
		decoded.Summary = map[string]any{}
	}
	*p = ResearchFundPayload(decoded)
	return nil
}
