package backend

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"fund-admin-gateway/models"
)

// ListOptions controls one page request against the listing endpoint.
type ListOptions struct {
	YearID    int
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// ListPage is one decoded page of the admin listing.
type ListPage struct {
	Rows       []models.Submission
	Pagination models.Pagination
}

// ListSubmissions fetches one page of GET /admin/submissions. Row payloads
// arrive under either "submissions" or "data" depending on backend version.
func (c *Client) ListSubmissions(ctx context.Context, opt ListOptions) (*ListPage, error) {
	query := url.Values{}
	if opt.Page > 0 {
		query.Set("page", strconv.Itoa(opt.Page))
	}
	if opt.Limit > 0 {
		query.Set("limit", strconv.Itoa(opt.Limit))
	}
	if opt.YearID > 0 {
		query.Set("year_id", strconv.Itoa(opt.YearID))
	}
	if opt.SortBy != "" {
		query.Set("sort_by", opt.SortBy)
	}
	if opt.SortOrder != "" {
		query.Set("sort_order", opt.SortOrder)
	}

	var decoded struct {
		Submissions []models.Submission `json:"submissions"`
		Data        []models.Submission `json:"data"`
		Pagination  models.Pagination   `json:"pagination"`
	}
	if err := c.getJSON(ctx, "/admin/submissions", query, &decoded); err != nil {
		return nil, err
	}

	rows := decoded.Submissions
	if len(rows) == 0 && len(decoded.Data) > 0 {
		rows = decoded.Data
	}
	return &ListPage{Rows: rows, Pagination: decoded.Pagination}, nil
}

// GetSubmissionDetails fetches the full detail bundle for one submission.
func (c *Client) GetSubmissionDetails(ctx context.Context, submissionID int) (*models.SubmissionDetails, error) {
	var decoded models.SubmissionDetails
	path := "/admin/submissions/" + strconv.Itoa(submissionID) + "/details"
	if err := c.getJSON(ctx, path, nil, &decoded); err != nil {
		return nil, err
	}
	return &decoded, nil
}

// ApprovalRequest carries the admin approval amounts. Publication rewards use
// the per-fee fields; research funds use the legacy approved_amount field.
type ApprovalRequest struct {
	RewardApproveAmount         *float64 `json:"reward_approve_amount,omitempty"`
	RevisionFeeApproveAmount    *float64 `json:"revision_fee_approve_amount,omitempty"`
	PublicationFeeApproveAmount *float64 `json:"publication_fee_approve_amount,omitempty"`
	TotalApproveAmount          *float64 `json:"total_approve_amount,omitempty"`
	AnnounceReferenceNumber     string   `json:"announce_reference_number,omitempty"`
	ApprovedAmount              *float64 `json:"approved_amount,omitempty"`
	ApprovalComment             string   `json:"approval_comment,omitempty"`
}

// ApproveSubmission posts an admin approval decision.
func (c *Client) ApproveSubmission(ctx context.Context, submissionID int, req ApprovalRequest) error {
	path := "/admin/submissions/" + strconv.Itoa(submissionID) + "/approve"
	return c.postJSON(ctx, path, req, nil)
}

// RejectSubmission posts an admin rejection; the reason is mandatory.
func (c *Client) RejectSubmission(ctx context.Context, submissionID int, reason, comment string) error {
	path := "/admin/submissions/" + strconv.Itoa(submissionID) + "/reject"
	payload := map[string]string{"rejection_reason": strings.TrimSpace(reason)}
	if strings.TrimSpace(comment) != "" {
		payload["comment"] = strings.TrimSpace(comment)
	}
	return c.postJSON(ctx, path, payload, nil)
}

// RequestRevision asks the applicant for more information.
func (c *Client) RequestRevision(ctx context.Context, submissionID int, comment string) error {
	path := "/admin/submissions/" + strconv.Itoa(submissionID) + "/request-revision"
	payload := map[string]string{"comment": strings.TrimSpace(comment)}
	return c.postJSON(ctx, path, payload, nil)
}
