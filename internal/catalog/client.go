package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "codecrawler/pkg/errors"
)

// SourceLookup identifies where a code came from or who submitted it.
type SourceLookup struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CodeRecord is one code as the catalog returns it.
type CodeRecord struct {
	Code string `json:"code"`
}

// InsertCodeRequest is the payload for creating a code in the catalog.
type InsertCodeRequest struct {
	Code      string        `json:"code"`
	ExpiresAt int64         `json:"expires_at,omitempty"`
	Creator   *SourceLookup `json:"creator,omitempty"`
	Submitter *SourceLookup `json:"submitter,omitempty"`
}

// Client talks to the remote code catalog API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	conflictStatus int
}

// NewClient creates a catalog client. conflictStatus is the HTTP status the
// catalog answers with when a code already exists; it is configurable
// because the remote contract does not pin it down.
func NewClient(baseURL, apiKey string, conflictStatus int, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		conflictStatus: conflictStatus,
	}
}

// ListCodes fetches every code currently known to the catalog. A failure
// here is fatal to the run: submitting without a dedup baseline risks mass
// duplicate submissions.
func (c *Client) ListCodes(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/codes", nil)
	if err != nil {
		return nil, apperrors.NewCatalog("failed to create list request", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewCatalog("failed to list codes", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewCatalog(fmt.Sprintf("list codes returned status %d", resp.StatusCode), nil)
	}

	var records []CodeRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, apperrors.NewCatalog("failed to decode code list", err)
	}

	codes := make([]string, 0, len(records))
	for _, r := range records {
		codes = append(codes, r.Code)
	}
	return codes, nil
}

// CreateCode submits one code to the catalog. A conflict response is
// reported as a duplicate rejection, which callers treat as an expected
// outcome, not a failure.
func (c *Client) CreateCode(ctx context.Context, insert InsertCodeRequest) error {
	payload, err := json.Marshal(insert)
	if err != nil {
		return apperrors.NewSubmission(insert.Code, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/codes", bytes.NewReader(payload))
	if err != nil {
		return apperrors.NewSubmission(insert.Code, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewSubmission(insert.Code, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode == c.conflictStatus:
		return apperrors.NewDuplicate(insert.Code)
	default:
		// Keep a short body excerpt for the error detail
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return apperrors.NewSubmission(insert.Code,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
