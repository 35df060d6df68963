// services/ledger.go - research fund disbursement ledger guard and totals
package services

import (
	"errors"
	"fmt"

	"fund-admin-gateway/models"
	"fund-admin-gateway/utils"
)

const (
	// ClosureEpsilon is the residual balance below which a fund may close.
	ClosureEpsilon = 0.01

	// EventStatusApproved keeps the fund open for further events.
	EventStatusApproved = "approved"
	// EventStatusClosed closes the fund; terminal by policy.
	EventStatusClosed = "closed"
)

var (
	ErrAmountNegative       = errors.New("amount must not be negative")
	ErrAmountExceedsCeiling = errors.New("amount exceeds the system ceiling")
	ErrAmountExceedsBalance = errors.New("amount exceeds the remaining fund balance")
	ErrAttachmentRequired   = errors.New("payment events require at least one attachment")
	ErrUnsupportedStatus    = errors.New("resulting status must be approved or closed")
	ErrPrematureClosure     = errors.New("fund cannot close while a balance remains")
	ErrFundClosed           = errors.New("fund is closed; no further events accepted")
)

// EventInput is a ledger event as entered by the admin, validated before any
// network call. The backend remains the authority; these checks only stop
// requests that are certain to be wrong.
type EventInput struct {
	Comment         string
	Amount          float64
	Status          string // resulting fund status: approved | closed
	AttachmentCount int
}

// ValidateEvent checks an event against the current totals and the hard
// amount ceiling. A zero ceiling falls back to the configured default.
func ValidateEvent(in EventInput, totals models.FundTotals, maxAmount float64) error {
	if maxAmount <= 0 {
		maxAmount = 100_000_000
	}

	if totals.IsClosed {
		return ErrFundClosed
	}
	if in.Amount < 0 {
		return ErrAmountNegative
	}
	if in.Amount > maxAmount {
		return ErrAmountExceedsCeiling
	}
	if in.Amount > totals.RemainingAmount+ClosureEpsilon {
		return ErrAmountExceedsBalance
	}
	if in.Amount > 0 && in.AttachmentCount == 0 {
		return ErrAttachmentRequired
	}

	switch utils.CanonicalStatusCode(in.Status) {
	case utils.StatusCodeApproved:
	case utils.StatusCodeAdminClosed:
		projected := ProjectTotals(totals, in.Amount)
		if projected.RemainingAmount > ClosureEpsilon {
			return fmt.Errorf("%w: %s outstanding", ErrPrematureClosure,
				utils.FormatAmountGrouped(projected.RemainingAmount))
		}
	default:
		return ErrUnsupportedStatus
	}

	return nil
}

// ProjectTotals applies a prospective event amount to the current totals.
// Projection is for pre-submit validation only; after a successful write the
// backend's recomputed summary replaces it.
func ProjectTotals(totals models.FundTotals, amount float64) models.FundTotals {
	projected := totals
	projected.PaidAmount += amount
	projected.RemainingAmount = totals.ApprovedAmount - (projected.PaidAmount + projected.PendingAmount)
	projected.TotalEvents++
	return projected
}

// NormalizeTotals reshapes a backend summary payload into FundTotals,
// tolerating the field-naming drift between backend versions. prior, when
// non-nil, supplies the approved amount if the payload omits it.
func NormalizeTotals(summary map[string]any, prior *models.FundTotals) models.FundTotals {
	var totals models.FundTotals

	if approved := utils.NumberAt(summary, "approved_amount", "ApprovedAmount", "approve_amount", "total_approve_amount"); approved != nil {
		totals.ApprovedAmount = *approved
	} else if prior != nil {
		totals.ApprovedAmount = prior.ApprovedAmount
	}

	if paid := utils.NumberAt(summary, "paid_amount", "total_paid_amount", "PaidAmount"); paid != nil {
		totals.PaidAmount = *paid
	}
	if pending := utils.NumberAt(summary, "pending_amount", "PendingAmount"); pending != nil {
		totals.PendingAmount = *pending
	}

	if remaining := utils.NumberAt(summary, "remaining_amount", "RemainingAmount"); remaining != nil {
		totals.RemainingAmount = *remaining
	} else {
		totals.RemainingAmount = totals.ApprovedAmount - (totals.PaidAmount + totals.PendingAmount)
	}

	if count, ok := utils.IntAt(summary, "total_events", "event_count"); ok {
		totals.TotalEvents = count
	}

	totals.StatusCode = utils.StringAt(summary, "status_code", "status")
	totals.StatusName = utils.StringAt(summary, "status_name", "status_label")

	if closed, ok := utils.BoolAt(summary, "is_closed", "closed"); ok {
		totals.IsClosed = closed
	} else if totals.StatusCode != "" {
		totals.IsClosed = utils.IsClosedCode(totals.StatusCode)
	} else if totals.StatusName != "" {
		totals.IsClosed = utils.IsClosedCode(totals.StatusName)
	}

	return totals
}

// TotalsFromEvents derives totals from an event feed when the backend sends
// no summary block at all.
func TotalsFromEvents(events []models.ResearchFundEvent, approvedAmount float64) models.FundTotals {
	totals := models.FundTotals{
		ApprovedAmount: approvedAmount,
		TotalEvents:    len(events),
	}
	for _, event := range events {
		if event.IsPayment() && event.Amount != nil {
			totals.PaidAmount += *event.Amount
		}
		if event.StatusAfter != nil && utils.IsClosedCode(event.StatusAfter.StatusCode) {
			totals.IsClosed = true
		} else if event.StatusAfter != nil {
			totals.IsClosed = false
		}
	}
	totals.RemainingAmount = totals.ApprovedAmount - (totals.PaidAmount + totals.PendingAmount)
	return totals
}
