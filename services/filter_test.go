package services

import (
	"context"
	"testing"
	"time"

	"fund-admin-gateway/models"
)

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func filterFixture() []models.Submission {
	amount := floatPtr(15000)
	return []models.Submission{
		{
			SubmissionID:     1,
			SubmissionNumber: "R-0001",
			CategoryID:       intPtr(1),
			SubcategoryID:    intPtr(10),
			StatusID:         1,
			Title:            "การพัฒนาระบบสารสนเทศ",
			ApprovedAmount:   amount,
			User:             &models.User{UserFname: "สมชาย", UserLname: "ใจดี"},
			Category:         &models.Category{CategoryID: 1, CategoryName: "ทุนวิจัยทั่วไป"},
		},
		{
			SubmissionID:     2,
			SubmissionNumber: "R-0002",
			CategoryID:       intPtr(1),
			SubcategoryID:    intPtr(11),
			StatusID:         2,
			Title:            "Machine Learning Survey",
			User:             &models.User{UserFname: "Jane", UserLname: "Walker"},
		},
		{
			SubmissionID:     3,
			SubmissionNumber: "R-0003",
			CategoryID:       intPtr(2),
			StatusID:         2,
			Raw: map[string]any{
				"fund_application_detail": map[string]any{
					"project_title": "โครงการวิจัยชุมชน",
				},
			},
		},
	}
}

func TestFilterSubmissionsByIdentifiers(t *testing.T) {
	ctx := context.Background()
	rows := filterFixture()

	got := FilterSubmissions(ctx, rows, Filters{CategoryID: intPtr(1)}, nil)
	if len(got) != 2 {
		t.Fatalf("category filter returned %d rows, want 2", len(got))
	}
	for _, row := range got {
		if row.CategoryID == nil || *row.CategoryID != 1 {
			t.Errorf("row %d does not satisfy the category filter", row.SubmissionID)
		}
	}

	got = FilterSubmissions(ctx, rows, Filters{CategoryID: intPtr(1), StatusID: intPtr(2)}, nil)
	if len(got) != 1 || got[0].SubmissionID != 2 {
		t.Fatalf("combined filter should return only row 2, got %v", got)
	}

	got = FilterSubmissions(ctx, rows, Filters{SubcategoryID: intPtr(99)}, nil)
	if len(got) != 0 {
		t.Fatalf("unmatched subcategory should return no rows, got %d", len(got))
	}
}

func TestFilterSubmissionsSearch(t *testing.T) {
	ctx := context.Background()
	rows := filterFixture()

	cases := []struct {
		query string
		want  []int
	}{
		{"r-0002", []int{2}},
		{"สมชาย", []int{1}},
		{"walker", []int{2}},
		{"15,000.00", []int{1}},
		{"15000.00", []int{1}},
		{"ชุมชน", []int{3}}, // title resolved through the raw fallback
		{"no-such-thing", nil},
	}

	for _, tc := range cases {
		got := FilterSubmissions(ctx, rows, Filters{Search: tc.query}, nil)
		ids := make([]int, 0, len(got))
		for _, row := range got {
			ids = append(ids, row.SubmissionID)
		}
		if len(ids) != len(tc.want) {
			t.Errorf("search %q returned %v, want %v", tc.query, ids, tc.want)
			continue
		}
		for i := range ids {
			if ids[i] != tc.want[i] {
				t.Errorf("search %q returned %v, want %v", tc.query, ids, tc.want)
				break
			}
		}
	}
}

func TestFilterSubmissionsEmptyPassesThrough(t *testing.T) {
	rows := filterFixture()
	got := FilterSubmissions(context.Background(), rows, Filters{}, nil)
	if len(got) != len(rows) {
		t.Fatalf("empty filter returned %d rows, want %d", len(got), len(rows))
	}
}

func TestSortSubmissionsByCreatedAt(t *testing.T) {
	base := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	rows := []models.Submission{
		{SubmissionID: 1, CreatedAt: timePtr(base.Add(2 * time.Hour))},
		{SubmissionID: 2, CreatedAt: timePtr(base)},
		{SubmissionID: 3, CreatedAt: timePtr(base.Add(time.Hour))},
		{SubmissionID: 4}, // missing timestamp sorts as zero
	}

	SortSubmissions(rows, "created_at", "asc")
	for i := 1; i < len(rows); i++ {
		a, b := epoch(rows[i-1]), epoch(rows[i])
		if a > b {
			t.Fatalf("ascending sort violated at %d: %d > %d", i, a, b)
		}
	}

	SortSubmissions(rows, "created_at", "desc")
	for i := 1; i < len(rows); i++ {
		a, b := epoch(rows[i-1]), epoch(rows[i])
		if a < b {
			t.Fatalf("descending sort violated at %d: %d < %d", i, a, b)
		}
	}
}

func epoch(row models.Submission) int64 {
	if row.CreatedAt == nil {
		return 0
	}
	return row.CreatedAt.UnixMilli()
}

func TestSortSubmissionsBySubmissionNumber(t *testing.T) {
	rows := []models.Submission{
		{SubmissionID: 1, SubmissionNumber: "R-0003"},
		{SubmissionID: 2, SubmissionNumber: "R-0001"},
		{SubmissionID: 3, SubmissionNumber: "R-0002"},
	}

	SortSubmissions(rows, "submission_number", "asc")
	want := []string{"R-0001", "R-0002", "R-0003"}
	for i, row := range rows {
		if row.SubmissionNumber != want[i] {
			t.Fatalf("position %d = %s, want %s", i, row.SubmissionNumber, want[i])
		}
	}
}

func TestSortSubmissionsStableOnTies(t *testing.T) {
	shared := timePtr(time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC))
	rows := []models.Submission{
		{SubmissionID: 1, CreatedAt: shared},
		{SubmissionID: 2, CreatedAt: shared},
		{SubmissionID: 3, CreatedAt: shared},
	}

	SortSubmissions(rows, "created_at", "desc")
	for i, row := range rows {
		if row.SubmissionID != i+1 {
			t.Fatalf("tied rows must keep input order, position %d = %d", i, row.SubmissionID)
		}
	}
}

func TestSortSubmissionsUnknownKeyFallsBack(t *testing.T) {
	base := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	rows := []models.Submission{
		{SubmissionID: 1, CreatedAt: timePtr(base.Add(time.Hour))},
		{SubmissionID: 2, CreatedAt: timePtr(base)},
	}

	SortSubmissions(rows, "drop table", "asc")
	if rows[0].SubmissionID != 2 {
		t.Fatal("unknown sort key should fall back to created_at")
	}
}
