// services/filter.go - client-side filtering and sorting of aggregated rows
package services

import (
	"context"
	"sort"
	"strings"

	"fund-admin-gateway/models"
	"fund-admin-gateway/utils"
)

// Filters are the client-side predicates applied to the aggregated set.
// Identifier filters match exactly; Search is a case-insensitive substring
// match over the row's derived searchable fields.
type Filters struct {
	CategoryID    *int
	SubcategoryID *int
	StatusID      *int
	Search        string
}

// Empty reports whether no predicate is active.
func (f Filters) Empty() bool {
	return f.CategoryID == nil && f.SubcategoryID == nil && f.StatusID == nil &&
		strings.TrimSpace(f.Search) == ""
}

// FilterSubmissions returns the rows satisfying every active predicate.
func FilterSubmissions(ctx context.Context, rows []models.Submission, f Filters, statuses *utils.StatusLookup) []models.Submission {
	if f.Empty() {
		return rows
	}

	query := strings.ToLower(strings.TrimSpace(utils.SanitizeInput(f.Search)))
	out := make([]models.Submission, 0, len(rows))

	for _, row := range rows {
		if f.CategoryID != nil && (row.CategoryID == nil || *row.CategoryID != *f.CategoryID) {
			continue
		}
		if f.SubcategoryID != nil && (row.SubcategoryID == nil || *row.SubcategoryID != *f.SubcategoryID) {
			continue
		}
		if f.StatusID != nil && row.StatusID != *f.StatusID {
			continue
		}
		if query != "" && !matchesSearch(ctx, row, query, statuses) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchesSearch(ctx context.Context, row models.Submission, query string, statuses *utils.StatusLookup) bool {
	for _, field := range SearchableFields(ctx, row, statuses) {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// SearchableFields derives the strings the free-text filter matches against:
// submission number, category/subcategory names, title, applicant name, the
// amount in plain and grouped form, the status label, and the creation date.
func SearchableFields(ctx context.Context, row models.Submission, statuses *utils.StatusLookup) []string {
	fields := []string{
		row.SubmissionNumber,
		resolveCategoryName(row),
		resolveSubcategoryName(row),
		resolveTitle(row),
		resolveApplicantName(row),
	}

	if amount := resolveAmount(row); amount != nil {
		fields = append(fields,
			utils.FormatAmount(*amount),
			utils.FormatAmountGrouped(*amount),
		)
	}

	fields = append(fields, resolveStatusLabel(ctx, row, statuses))
	fields = append(fields, utils.FormatDateTime(row.CreatedAt))
	return fields
}

func resolveCategoryName(row models.Submission) string {
	if row.Category != nil && row.Category.CategoryName != "" {
		return row.Category.CategoryName
	}
	return utils.StringAt(row.Raw,
		"category.category_name",
		"Category.category_name",
		"category_name",
	)
}

func resolveSubcategoryName(row models.Submission) string {
	if row.Subcategory != nil && row.Subcategory.SubcategoryName != "" {
		return row.Subcategory.SubcategoryName
	}
	return utils.StringAt(row.Raw,
		"subcategory.subcategory_name",
		"Subcategory.subcategory_name",
		"subcategory_name",
	)
}

func resolveTitle(row models.Submission) string {
	if strings.TrimSpace(row.Title) != "" {
		return row.Title
	}
	return utils.StringAt(row.Raw,
		"fund_application_detail.project_title",
		"FundApplicationDetail.project_title",
		"publication_reward_detail.paper_title",
		"PublicationRewardDetail.paper_title",
		"project_title",
		"paper_title",
	)
}

func resolveApplicantName(row models.Submission) string {
	if row.User != nil {
		if name := row.User.FullName(); name != "" {
			return name
		}
	}
	fname := utils.StringAt(row.Raw, "user.user_fname", "User.user_fname", "applicant.user_fname")
	lname := utils.StringAt(row.Raw, "user.user_lname", "User.user_lname", "applicant.user_lname")
	return strings.TrimSpace(fname + " " + lname)
}

func resolveAmount(row models.Submission) *float64 {
	if row.ApprovedAmount != nil {
		return row.ApprovedAmount
	}
	if row.RequestedAmount != nil {
		return row.RequestedAmount
	}
	return utils.NumberAt(row.Raw,
		"approved_amount",
		"requested_amount",
		"fund_application_detail.approved_amount",
		"FundApplicationDetail.approved_amount",
		"fund_application_detail.requested_amount",
		"FundApplicationDetail.requested_amount",
		"publication_reward_detail.total_approve_amount",
		"PublicationRewardDetail.total_approve_amount",
	)
}

func resolveStatusLabel(ctx context.Context, row models.Submission, statuses *utils.StatusLookup) string {
	if row.Status != nil && row.Status.StatusName != "" {
		return row.Status.StatusName
	}
	if statuses != nil && row.StatusID != 0 {
		return statuses.LabelByID(ctx, row.StatusID)
	}
	return utils.StringAt(row.Raw, "status.status_name", "Status.status_name")
}

// Allowed sort keys mirror the backend listing contract.
var allowedSortFields = map[string]bool{
	"created_at":        true,
	"updated_at":        true,
	"submitted_at":      true,
	"approved_at":       true,
	"submission_number": true,
	"status_id":         true,
}

// SortSubmissions orders rows in place by the requested key and direction.
// Unknown keys fall back to created_at; unknown orders to desc. String keys
// compare lexicographically, the rest numerically with missing values as 0.
func SortSubmissions(rows []models.Submission, sortBy, sortOrder string) {
	if !allowedSortFields[sortBy] {
		sortBy = "created_at"
	}
	ascending := strings.EqualFold(sortOrder, "asc")

	sort.SliceStable(rows, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "submission_number":
			less = rows[i].SubmissionNumber < rows[j].SubmissionNumber
		case "status_id":
			less = rows[i].StatusID < rows[j].StatusID
		default:
			less = sortTimestamp(rows[i], sortBy) < sortTimestamp(rows[j], sortBy)
		}
		if ascending {
			return less
		}
		return !less &&
			!sortKeysEqual(rows[i], rows[j], sortBy)
	})
}

func sortKeysEqual(a, b models.Submission, sortBy string) bool {
	switch sortBy {
	case "submission_number":
		return a.SubmissionNumber == b.SubmissionNumber
	case "status_id":
		return a.StatusID == b.StatusID
	default:
		return sortTimestamp(a, sortBy) == sortTimestamp(b, sortBy)
	}
}

func sortTimestamp(row models.Submission, key string) int64 {
	switch key {
	case "updated_at":
		return utils.EpochMillis(row.UpdatedAt)
	case "submitted_at":
		return utils.EpochMillis(row.SubmittedAt)
	case "approved_at":
		if row.ApprovedAt != nil {
			return utils.EpochMillis(row.ApprovedAt)
		}
		return utils.EpochMillis(utils.TimeAt(row.Raw, "approved_at", "admin_approved_at"))
	default:
		return utils.EpochMillis(row.CreatedAt)
	}
}
