// Package backend wraps the upstream fund-management REST API. The gateway
// owns no data of its own; every read and write here is a pass-through to the
// backend, and callers treat the decoded payloads as the source of truth.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the backend answers 404 for a resource.
var ErrNotFound = errors.New("backend resource not found")

// APIError carries the upstream status code and error body so handlers can
// surface the backend's rejection verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend api error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend api error: status %d", e.StatusCode)
}

// Client is a stateless HTTP client for the backend API. It is safe for
// concurrent use; WithToken derives a per-request view with a caller token.
type Client struct {
	baseURL     string
	fileBaseURL string
	token       string
	client      *http.Client
}

// NewClient constructs a Client. A nil httpClient gets a 30s timeout default.
func NewClient(baseURL, fileBaseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if fileBaseURL == "" {
		fileBaseURL = baseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		fileBaseURL: strings.TrimRight(fileBaseURL, "/"),
		token:       token,
		client:      httpClient,
	}
}

// WithToken returns a shallow copy of the client authenticated as the caller.
// Used to pass an admin's bearer token through to the backend.
func (c *Client) WithToken(token string) *Client {
	if strings.TrimSpace(token) == "" {
		return c
	}
	derived := *c
	derived.token = token
	return &derived
}

// FileURL converts a stored file path or managed file id into an absolute
// download URL against the backend's file-serving base.
func (c *Client) FileURL(stored string) string {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return ""
	}
	if strings.HasPrefix(stored, "http://") || strings.HasPrefix(stored, "https://") {
		return stored
	}
	return c.fileBaseURL + "/" + strings.TrimLeft(stored, "/")
}

// ManagedFileURL builds the download URL for a managed file id.
func (c *Client) ManagedFileURL(fileID int) string {
	return fmt.Sprintf("%s/files/managed/%d/download", c.fileBaseURL, fileID)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: extractErrorMessage(body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// MultipartFile is one file part of a multipart POST.
type MultipartFile struct {
	FieldName string
	FileName  string
	Reader    io.Reader
}

func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, files []MultipartFile, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(key, value); err != nil {
			return err
		}
	}
	for _, file := range files {
		field := file.FieldName
		if field == "" {
			field = "files"
		}
		part, err := writer.CreateFormFile(field, file.FileName)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, out)
}

// extractErrorMessage pulls the conventional {"error": "..."} message out of
// an upstream error body, falling back to the raw body.
func extractErrorMessage(body []byte) string {
	var decoded struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil {
		if decoded.Error != "" {
			return decoded.Error
		}
		if decoded.Message != "" {
			return decoded.Message
		}
	}
	return strings.TrimSpace(string(body))
}
