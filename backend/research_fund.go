package backend

import (
	"context"
	"strconv"

	"fund-admin-gateway/models"
	"fund-admin-gateway/utils"
)

// ListResearchFundEvents fetches the ledger feed and summary for a submission.
func (c *Client) ListResearchFundEvents(ctx context.Context, submissionID int) (*models.ResearchFundPayload, error) {
	var decoded models.ResearchFundPayload
	path := "/admin/submissions/" + strconv.Itoa(submissionID) + "/research-fund/events"
	if err := c.getJSON(ctx, path, nil, &decoded); err != nil {
		return nil, err
	}
	if decoded.SubmissionID == 0 {
		decoded.SubmissionID = submissionID
	}
	return &decoded, nil
}

// EventForm is the multipart body of a ledger event append.
type EventForm struct {
	Comment string
	Amount  *float64
	Status  string // resulting fund status: approved | closed
	Files   []MultipartFile
}

// CreateResearchFundEvent appends a ledger event and returns the refreshed
// events and summary from the backend, which supersede any local projection.
func (c *Client) CreateResearchFundEvent(ctx context.Context, submissionID int, form EventForm) (*models.ResearchFundPayload, error) {
	fields := map[string]string{
		"comment": form.Comment,
		"status":  form.Status,
	}
	if form.Amount != nil {
		fields["amount"] = strconv.FormatFloat(*form.Amount, 'f', -1, 64)
	}

	var decoded models.ResearchFundPayload
	path := "/admin/submissions/" + strconv.Itoa(submissionID) + "/research-fund/events"
	if err := c.postMultipart(ctx, path, fields, form.Files, &decoded); err != nil {
		return nil, err
	}
	if decoded.SubmissionID == 0 {
		decoded.SubmissionID = submissionID
	}
	return &decoded, nil
}

// GetStatuses loads the application status lookup. The result feeds the
// session status cache (utils.StatusLookup).
func (c *Client) GetStatuses(ctx context.Context) ([]models.ApplicationStatus, error) {
	var decoded struct {
		Statuses []models.ApplicationStatus `json:"statuses"`
		Data     []models.ApplicationStatus `json:"data"`
	}
	if err := c.getJSON(ctx, "/statuses", nil, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Statuses) > 0 {
		return decoded.Statuses, nil
	}
	return decoded.Data, nil
}

// StatusFetcher adapts the client to the status lookup's fetch contract.
func (c *Client) StatusFetcher() utils.StatusFetchFunc {
	return func(ctx context.Context) ([]models.ApplicationStatus, error) {
		return c.GetStatuses(ctx)
	}
}
