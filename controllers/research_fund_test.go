package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"fund-admin-gateway/backend"
	"fund-admin-gateway/models"

	"github.com/gin-gonic/gin"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func lookupStatuses() []map[string]any {
	return []map[string]any{
		{"application_status_id": 1, "status_code": "0", "status_name": "อยู่ระหว่างการพิจารณา"},
		{"application_status_id": 2, "status_code": "1", "status_name": "อนุมัติ"},
		{"application_status_id": 7, "status_code": "6", "status_name": "ปิดทุน"},
	}
}

// ledgerRouter wires the handler package to the fake upstream and exposes the
// ledger routes.
func ledgerRouter(t *testing.T, upstream *httptest.Server) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Init(backend.NewClient(upstream.URL, "", "service-token", upstream.Client()), 100, 1000)

	router := gin.New()
	router.GET("/admin/submissions/:id/research-fund/events", GetResearchFundEvents)
	router.POST("/admin/submissions/:id/research-fund/events", CreateResearchFundEvent)
	return router
}

func eventMultipart(t *testing.T, comment, amount string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("comment", comment); err != nil {
		t.Fatal(err)
	}
	if err := form.WriteField("amount", amount); err != nil {
		t.Fatal(err)
	}
	part, err := form.CreateFormFile("files", "receipt.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("%PDF-1.4")); err != nil {
		t.Fatal(err)
	}
	if err := form.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, form.FormDataContentType()
}

// A fund with no events and no summary yet must expose its full approved
// amount as the remaining balance, so the first disbursement goes through.
func TestCreateEventOnFreshFund(t *testing.T) {
	var posted int32

	mux := http.NewServeMux()
	mux.HandleFunc("/statuses", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"statuses": lookupStatuses()})
	})
	mux.HandleFunc("/admin/submissions/42/details", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"submission": map[string]any{
			"submission_id": 42, "status_id": 2, "approved_amount": 10000,
		}})
	})
	mux.HandleFunc("/admin/submissions/42/research-fund/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			atomic.AddInt32(&posted, 1)
			writeJSON(w, http.StatusCreated, map[string]any{
				"events": []map[string]any{{
					"event_id": 1, "submission_id": 42, "event_type": "payment",
					"amount": 5000, "created_at": "2026-08-01T10:00:00Z",
				}},
				"summary": map[string]any{
					"approved_amount": 10000, "paid_amount": 5000, "remaining_amount": 5000,
				},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": []any{}, "summary": map[string]any{}})
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	router := ledgerRouter(t, upstream)
	body, contentType := eventMultipart(t, "งวดที่ 1", "5000")

	req := httptest.NewRequest(http.MethodPost, "/admin/submissions/42/research-fund/events", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	if got := atomic.LoadInt32(&posted); got != 1 {
		t.Fatalf("upstream posts = %d, want 1", got)
	}

	var decoded struct {
		Success bool              `json:"success"`
		Summary models.FundTotals `json:"summary"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Summary.RemainingAmount != 5000 {
		t.Errorf("remaining after first payment = %v, want 5000", decoded.Summary.RemainingAmount)
	}
}

func TestFreshFundFeedShowsFullBalance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/statuses", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"statuses": lookupStatuses()})
	})
	mux.HandleFunc("/admin/submissions/42/details", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"submission": map[string]any{
			"submission_id": 42, "status_id": 2, "approved_amount": 10000,
		}})
	})
	mux.HandleFunc("/admin/submissions/42/research-fund/events", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"events": []any{}, "summary": map[string]any{}})
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	router := ledgerRouter(t, upstream)

	req := httptest.NewRequest(http.MethodGet, "/admin/submissions/42/research-fund/events", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var decoded struct {
		Summary models.FundTotals `json:"summary"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Summary.RemainingAmount != 10000 {
		t.Errorf("remaining = %v, want 10000", decoded.Summary.RemainingAmount)
	}
	if decoded.Summary.IsClosed {
		t.Error("fresh fund reported closed")
	}
}

// A submission sitting in the admin-closed status counts as closed even when
// the ledger feed carries no closure event.
func TestClosedStatusMarksFeedClosed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/statuses", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"statuses": lookupStatuses()})
	})
	mux.HandleFunc("/admin/submissions/43/details", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"submission": map[string]any{
			"submission_id": 43, "status_id": 7, "approved_amount": 10000,
		}})
	})
	mux.HandleFunc("/admin/submissions/43/research-fund/events", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"events": []any{}, "summary": map[string]any{}})
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	router := ledgerRouter(t, upstream)

	req := httptest.NewRequest(http.MethodGet, "/admin/submissions/43/research-fund/events", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var decoded struct {
		Summary models.FundTotals `json:"summary"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if !decoded.Summary.IsClosed {
		t.Error("closed-status submission not reported closed")
	}
}
