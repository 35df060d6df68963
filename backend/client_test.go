package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "", "service-token", server.Client())
}

func TestListSubmissionsDecodesBothRowKeys(t *testing.T) {
	payloads := map[string]string{
		"submissions": `{
			"submissions": [{"submission_id": 1}, {"submission_id": 2}],
			"pagination": {"current_page": 1, "total_pages": 1, "has_next": false}
		}`,
		"data": `{
			"data": [{"submission_id": 1}, {"submission_id": 2}],
			"pagination": {"current_page": 1, "total_pages": 1}
		}`,
	}

	for name, body := range payloads {
		t.Run(name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/admin/submissions" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("year_id"); got != "2568" {
					t.Errorf("year_id = %s", got)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer service-token" {
					t.Errorf("authorization = %s", got)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			})

			page, err := client.ListSubmissions(context.Background(), ListOptions{YearID: 2568, Page: 1, Limit: 100})
			if err != nil {
				t.Fatalf("ListSubmissions: %v", err)
			}
			if len(page.Rows) != 2 {
				t.Fatalf("rows = %d, want 2", len(page.Rows))
			}
			if page.Rows[1].SubmissionID != 2 {
				t.Errorf("row decode broken: %+v", page.Rows[1])
			}
		})
	}
}

func TestSubmissionRowKeepsRawPayload(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"submissions": [{
				"submission_id": 7,
				"fund_application_detail": {"project_title": "โครงการ ก"}
			}]
		}`))
	})

	page, err := client.ListSubmissions(context.Background(), ListOptions{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	row := page.Rows[0]
	detail, ok := row.Raw["fund_application_detail"].(map[string]any)
	if !ok || detail["project_title"] != "โครงการ ก" {
		t.Fatalf("raw payload not retained: %#v", row.Raw)
	}
}

func TestDoMapsNotFound(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "submission not found"}`, http.StatusNotFound)
	})

	_, err := client.GetSubmissionDetails(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDoSurfacesBackendRejection(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "payment would exceed approved amount"}`))
	})

	err := client.ApproveSubmission(context.Background(), 1, ApprovalRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "payment would exceed approved amount" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestWithTokenDerivesCallerView(t *testing.T) {
	var seen []string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"submissions": []}`))
	})

	caller := client.WithToken("caller-token")
	if _, err := caller.ListSubmissions(context.Background(), ListOptions{Page: 1, Limit: 1}); err != nil {
		t.Fatalf("caller list: %v", err)
	}
	if _, err := client.ListSubmissions(context.Background(), ListOptions{Page: 1, Limit: 1}); err != nil {
		t.Fatalf("service list: %v", err)
	}

	if len(seen) != 2 || seen[0] != "Bearer caller-token" || seen[1] != "Bearer service-token" {
		t.Fatalf("authorization headers = %v", seen)
	}

	// A blank caller token keeps the service identity.
	if client.WithToken("  ") != client {
		t.Error("blank token should return the same client")
	}
}

func TestCreateResearchFundEventSendsMultipart(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/submissions/42/research-fund/events" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("amount"); got != "7000" {
			t.Errorf("amount = %q", got)
		}
		if got := r.FormValue("status"); got != "closed" {
			t.Errorf("status = %q", got)
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 1 || files[0].Filename != "receipt.pdf" {
			t.Fatalf("files = %v", files)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"submission_id": 42,
			"events": [{"event_id": 9, "amount": 7000}],
			"summary": {"paid_amount": 10000, "remaining_amount": 0}
		}`))
	})

	amount := 7000.0
	payload, err := client.CreateResearchFundEvent(context.Background(), 42, EventForm{
		Comment: "final disbursement",
		Amount:  &amount,
		Status:  "closed",
		Files: []MultipartFile{{
			FileName: "receipt.pdf",
			Reader:   strings.NewReader("%PDF-1.4"),
		}},
	})
	if err != nil {
		t.Fatalf("CreateResearchFundEvent: %v", err)
	}
	if len(payload.Events) != 1 || payload.Events[0].EventID != 9 {
		t.Fatalf("events = %+v", payload.Events)
	}
	if payload.Summary["remaining_amount"] != 0.0 {
		t.Errorf("summary = %#v", payload.Summary)
	}
}

func TestFileURL(t *testing.T) {
	client := NewClient("http://api.local/api/v1", "http://files.local", "", http.DefaultClient)

	cases := map[string]string{
		"uploads/merged/42.pdf":         "http://files.local/uploads/merged/42.pdf",
		"/uploads/merged/42.pdf":        "http://files.local/uploads/merged/42.pdf",
		"https://cdn.example.com/a.pdf": "https://cdn.example.com/a.pdf",
		"":                              "",
	}
	for stored, want := range cases {
		if got := client.FileURL(stored); got != want {
			t.Errorf("FileURL(%q) = %q, want %q", stored, got, want)
		}
	}

	if got := client.ManagedFileURL(7); got != "http://files.local/files/managed/7/download" {
		t.Errorf("ManagedFileURL = %q", got)
	}
}

func TestListPageMoreHeuristics(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"submissions": [{"submission_id": 1}], "pagination": {}}`))
	})

	page, err := client.ListSubmissions(context.Background(), ListOptions{Page: 1, Limit: 1})
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}

	// No pagination signal at all: a full page means keep going, a short
	// page means stop.
	if !page.Pagination.More(1, 1, 1) {
		t.Error("full page without signals should request another page")
	}
	if page.Pagination.More(1, 0, 1) {
		t.Error("empty page should stop")
	}
}
