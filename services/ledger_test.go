package services

import (
	"errors"
	"math"
	"testing"

	"fund-admin-gateway/models"
)

func openFund(approved, paid float64) models.FundTotals {
	return models.FundTotals{
		ApprovedAmount:  approved,
		PaidAmount:      paid,
		RemainingAmount: approved - paid,
	}
}

func TestValidateEventPaymentRequiresAttachment(t *testing.T) {
	totals := openFund(10000, 0)

	err := ValidateEvent(EventInput{Amount: 500, Status: EventStatusApproved}, totals, 0)
	if !errors.Is(err, ErrAttachmentRequired) {
		t.Fatalf("expected ErrAttachmentRequired, got %v", err)
	}

	err = ValidateEvent(EventInput{Amount: 500, Status: EventStatusApproved, AttachmentCount: 1}, totals, 0)
	if err != nil {
		t.Fatalf("payment with attachment should pass, got %v", err)
	}

	// Zero-amount notes need no attachment.
	err = ValidateEvent(EventInput{Comment: "note", Status: EventStatusApproved}, totals, 0)
	if err != nil {
		t.Fatalf("zero-amount note should pass, got %v", err)
	}
}

func TestValidateEventAmountBounds(t *testing.T) {
	totals := openFund(10000, 3000)

	cases := []struct {
		name   string
		amount float64
		want   error
	}{
		{"negative", -1, ErrAmountNegative},
		{"over ceiling", 200_000_000, ErrAmountExceedsCeiling},
		{"over balance", 7500, ErrAmountExceedsBalance},
		{"exact balance", 7000, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEvent(EventInput{
				Amount:          tc.amount,
				Status:          EventStatusApproved,
				AttachmentCount: 1,
			}, totals, 0)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateEventClosure(t *testing.T) {
	// Approved 10000, paid 3000. A 7000 payment that closes the fund is
	// accepted; closing with 6000 leaves 1000 outstanding and is refused.
	totals := openFund(10000, 3000)

	err := ValidateEvent(EventInput{
		Amount:          7000,
		Status:          EventStatusClosed,
		AttachmentCount: 1,
	}, totals, 0)
	if err != nil {
		t.Fatalf("closing payment for the full balance should pass, got %v", err)
	}

	err = ValidateEvent(EventInput{
		Amount:          6000,
		Status:          EventStatusClosed,
		AttachmentCount: 1,
	}, totals, 0)
	if !errors.Is(err, ErrPrematureClosure) {
		t.Fatalf("expected ErrPrematureClosure, got %v", err)
	}
}

func TestValidateEventClosureEpsilon(t *testing.T) {
	// A residual below one satang does not block closure.
	totals := openFund(10000, 9999.995)

	err := ValidateEvent(EventInput{Status: EventStatusClosed}, totals, 0)
	if err != nil {
		t.Fatalf("sub-satang residual should allow closure, got %v", err)
	}

	totals = openFund(10000, 9999.90)
	err = ValidateEvent(EventInput{Status: EventStatusClosed}, totals, 0)
	if !errors.Is(err, ErrPrematureClosure) {
		t.Fatalf("expected ErrPrematureClosure for 0.10 residual, got %v", err)
	}
}

func TestValidateEventClosedFund(t *testing.T) {
	totals := openFund(10000, 10000)
	totals.IsClosed = true

	err := ValidateEvent(EventInput{Comment: "late note", Status: EventStatusApproved}, totals, 0)
	if !errors.Is(err, ErrFundClosed) {
		t.Fatalf("expected ErrFundClosed, got %v", err)
	}
}

func TestValidateEventUnsupportedStatus(t *testing.T) {
	err := ValidateEvent(EventInput{Status: "pending"}, openFund(1000, 0), 0)
	if !errors.Is(err, ErrUnsupportedStatus) {
		t.Fatalf("expected ErrUnsupportedStatus, got %v", err)
	}
}

func TestValidateEventStatusAliases(t *testing.T) {
	totals := openFund(1000, 1000)

	// Thai label and numeric code both canonicalize to the closed status.
	for _, status := range []string{"ปิดทุน", "6", "closed"} {
		if err := ValidateEvent(EventInput{Status: status}, totals, 0); err != nil {
			t.Fatalf("status %q should close a settled fund, got %v", status, err)
		}
	}
}

func TestProjectTotals(t *testing.T) {
	totals := openFund(10000, 3000)
	totals.TotalEvents = 2

	projected := ProjectTotals(totals, 7000)
	if projected.PaidAmount != 10000 {
		t.Errorf("paid = %v, want 10000", projected.PaidAmount)
	}
	if math.Abs(projected.RemainingAmount) > 1e-9 {
		t.Errorf("remaining = %v, want 0", projected.RemainingAmount)
	}
	if projected.TotalEvents != 3 {
		t.Errorf("total events = %d, want 3", projected.TotalEvents)
	}
	if totals.PaidAmount != 3000 {
		t.Errorf("projection must not mutate the input, paid = %v", totals.PaidAmount)
	}
}

func TestNormalizeTotalsFieldDrift(t *testing.T) {
	cases := []struct {
		name    string
		summary map[string]any
		prior   *models.FundTotals
		want    models.FundTotals
	}{
		{
			name: "canonical fields",
			summary: map[string]any{
				"approved_amount":  10000.0,
				"paid_amount":      3000.0,
				"remaining_amount": 7000.0,
				"total_events":     3.0,
			},
			want: models.FundTotals{ApprovedAmount: 10000, PaidAmount: 3000, RemainingAmount: 7000, TotalEvents: 3},
		},
		{
			name: "legacy field names",
			summary: map[string]any{
				"total_approve_amount": "10000",
				"total_paid_amount":    "2,500.50",
			},
			want: models.FundTotals{ApprovedAmount: 10000, PaidAmount: 2500.50, RemainingAmount: 7499.50},
		},
		{
			name:    "approved from prior",
			summary: map[string]any{"paid_amount": 4000.0},
			prior:   &models.FundTotals{ApprovedAmount: 9000},
			want:    models.FundTotals{ApprovedAmount: 9000, PaidAmount: 4000, RemainingAmount: 5000},
		},
		{
			name:    "closed via status code",
			summary: map[string]any{"status": "6"},
			want:    models.FundTotals{IsClosed: true, StatusCode: "6"},
		},
		{
			name:    "closed via thai status name",
			summary: map[string]any{"status_name": "ปิดทุน"},
			want:    models.FundTotals{IsClosed: true, StatusName: "ปิดทุน"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeTotals(tc.summary, tc.prior)
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestTotalsFromEvents(t *testing.T) {
	amount := func(v float64) *float64 { return &v }

	events := []models.ResearchFundEvent{
		{EventType: models.ResearchFundEventTypePayment, Amount: amount(3000)},
		{EventType: models.ResearchFundEventTypeNote, Comment: "progress report"},
		{Amount: amount(2000)}, // untyped positive amount counts as payment
	}

	totals := TotalsFromEvents(events, 10000)
	if totals.PaidAmount != 5000 {
		t.Errorf("paid = %v, want 5000", totals.PaidAmount)
	}
	if totals.RemainingAmount != 5000 {
		t.Errorf("remaining = %v, want 5000", totals.RemainingAmount)
	}
	if totals.TotalEvents != 3 {
		t.Errorf("total events = %d, want 3", totals.TotalEvents)
	}
	if totals.IsClosed {
		t.Error("fund should not be closed")
	}

	closed := models.ApplicationStatus{StatusCode: "6", StatusName: "ปิดทุน"}
	events = append(events, models.ResearchFundEvent{
		EventType:   models.ResearchFundEventTypeClosure,
		StatusAfter: &closed,
	})
	if totals = TotalsFromEvents(events, 10000); !totals.IsClosed {
		t.Error("closure event should mark the fund closed")
	}
}

func TestTotalsFromEventsEmptyFeed(t *testing.T) {
	// A fresh fund with no events yet keeps its full approved amount available.
	totals := TotalsFromEvents(nil, 10000)
	if totals.RemainingAmount != 10000 {
		t.Fatalf("remaining = %v, want 10000", totals.RemainingAmount)
	}
	if totals.IsClosed {
		t.Error("fresh fund should not be closed")
	}

	input := EventInput{Amount: 5000, Status: EventStatusApproved, AttachmentCount: 1}
	if err := ValidateEvent(input, totals, 0); err != nil {
		t.Fatalf("first event on a fresh fund rejected: %v", err)
	}
}
