package backend

import (
	"context"
	"net/url"
	"strconv"
)

// Thin trigger wrappers for the bibliographic import endpoints. The gateway
// only starts runs and relays their status; the backend owns the jobs.

// TriggerScholarImport starts a Google Scholar author import run.
func (c *Client) TriggerScholarImport(ctx context.Context, userIDs []int) (map[string]any, error) {
	payload := map[string]any{}
	if len(userIDs) > 0 {
		payload["user_ids"] = userIDs
	}
	var decoded map[string]any
	if err := c.postJSON(ctx, "/admin/import/scholar", payload, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// TriggerScopusImport starts a Scopus author batch import run.
func (c *Client) TriggerScopusImport(ctx context.Context, userIDs []int) (map[string]any, error) {
	payload := map[string]any{}
	if len(userIDs) > 0 {
		payload["user_ids"] = userIDs
	}
	var decoded map[string]any
	if err := c.postJSON(ctx, "/admin/import/scopus", payload, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// TriggerKKUPeopleScrape starts a KKU people directory scraper run.
func (c *Client) TriggerKKUPeopleScrape(ctx context.Context) (map[string]any, error) {
	var decoded map[string]any
	if err := c.postJSON(ctx, "/admin/import/kku-people", nil, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// GetImportRunStatus relays the status of an import run.
func (c *Client) GetImportRunStatus(ctx context.Context, source string, runID int) (map[string]any, error) {
	var decoded map[string]any
	path := "/admin/import/" + url.PathEscape(source) + "/runs/" + strconv.Itoa(runID)
	if err := c.getJSON(ctx, path, nil, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// GetImportRunLogs relays the log lines of an import run.
func (c *Client) GetImportRunLogs(ctx context.Context, source string, runID int) (map[string]any, error) {
	var decoded map[string]any
	path := "/admin/import/" + url.PathEscape(source) + "/runs/" + strconv.Itoa(runID) + "/logs"
	if err := c.getJSON(ctx, path, nil, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}
