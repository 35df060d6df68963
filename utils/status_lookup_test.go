package utils

import (
	"context"
	"errors"
	"testing"

	"fund-admin-gateway/models"
)

var lookupFixture = []models.ApplicationStatus{
	{ApplicationStatusID: 1, StatusCode: "0", StatusName: "อยู่ระหว่างการพิจารณา"},
	{ApplicationStatusID: 2, StatusCode: "1", StatusName: "อนุมัติ"},
	{ApplicationStatusID: 3, StatusCode: "2", StatusName: "ปฏิเสธ"},
	{ApplicationStatusID: 7, StatusCode: "6", StatusName: "ปิดทุน"},
}

func fixtureLookup(t *testing.T) *StatusLookup {
	t.Helper()
	return NewStatusLookup(func(context.Context) ([]models.ApplicationStatus, error) {
		return lookupFixture, nil
	})
}

func TestCanonicalStatusCode(t *testing.T) {
	cases := map[string]string{
		"approved":  "1",
		"Approved":  "1",
		"1":         "1",
		"อนุมัติ":   "1",
		"closed":    "6",
		"ปิดทุน":    "6",
		"revision":  "3",
		"unrelated": "unrelated",
	}
	for alias, want := range cases {
		if got := CanonicalStatusCode(alias); got != want {
			t.Errorf("CanonicalStatusCode(%q) = %q, want %q", alias, got, want)
		}
	}
}

func TestIsClosedCode(t *testing.T) {
	for _, code := range []string{"6", "closed", "admin_closed", "ปิดทุน"} {
		if !IsClosedCode(code) {
			t.Errorf("IsClosedCode(%q) = false", code)
		}
	}
	if IsClosedCode("1") {
		t.Error("approved must not count as closed")
	}
}

func TestStatusLookupResolvesAliases(t *testing.T) {
	ctx := context.Background()
	lookup := fixtureLookup(t)

	for _, alias := range []string{"1", "approved", "อนุมัติ"} {
		status, err := lookup.ByCode(ctx, alias)
		if err != nil {
			t.Fatalf("ByCode(%q): %v", alias, err)
		}
		if status.ApplicationStatusID != 2 {
			t.Errorf("ByCode(%q) = id %d, want 2", alias, status.ApplicationStatusID)
		}
	}

	if id, err := lookup.IDByCode(ctx, "closed"); err != nil || id != 7 {
		t.Errorf("IDByCode(closed) = %d, %v", id, err)
	}
	if _, err := lookup.ByCode(ctx, "no-such-status"); err == nil {
		t.Error("unknown code should error")
	}
}

func TestStatusLookupLabelByID(t *testing.T) {
	ctx := context.Background()
	lookup := fixtureLookup(t)

	if got := lookup.LabelByID(ctx, 2); got != "อนุมัติ" {
		t.Errorf("LabelByID(2) = %q", got)
	}
	if got := lookup.LabelByID(ctx, 99); got != "99" {
		t.Errorf("unknown id should fall back to the number, got %q", got)
	}
}

func TestStatusLookupIsClosed(t *testing.T) {
	ctx := context.Background()
	lookup := fixtureLookup(t)

	closed, err := lookup.IsClosed(ctx, 7)
	if err != nil || !closed {
		t.Errorf("IsClosed(7) = %v, %v", closed, err)
	}
	closed, err = lookup.IsClosed(ctx, 2)
	if err != nil || closed {
		t.Errorf("IsClosed(2) = %v, %v", closed, err)
	}
}

func TestStatusLookupFetchesOnce(t *testing.T) {
	ctx := context.Background()
	calls := 0
	lookup := NewStatusLookup(func(context.Context) ([]models.ApplicationStatus, error) {
		calls++
		return lookupFixture, nil
	})

	for i := 0; i < 3; i++ {
		if _, err := lookup.ByCode(ctx, "approved"); err != nil {
			t.Fatalf("ByCode: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("fetch calls = %d, want 1", calls)
	}
}

func TestStatusLookupPropagatesFetchErrors(t *testing.T) {
	boom := errors.New("backend down")
	lookup := NewStatusLookup(func(context.Context) ([]models.ApplicationStatus, error) {
		return nil, boom
	})

	if _, err := lookup.ByCode(context.Background(), "approved"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}
