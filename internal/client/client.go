package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"codereviewgo/internal/models"
)

// Remote is the server boundary the client drives: one opaque upload+analyze
// round trip, and the history listing the refresh path reads.
type Remote interface {
	SubmitFile(ctx context.Context, filename string, data []byte) (string, error)
	FetchReports(ctx context.Context) ([]models.Review, error)
}

// API talks to the review service over HTTP. The submit call carries no
// client-side timeout: analysis latency is unbounded and the session conveys
// the "this may take a while" signal instead.
type API struct {
	baseURL string
	http    *http.Client
}

// NewAPI creates a client for the service at baseURL.
func NewAPI(baseURL string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// SubmitFile uploads one file for review and returns the generated report
// text. Server-side failures come back as the boundary's generic messages;
// no further detail is available to the client by design.
func (a *API) SubmitFile(ctx context.Context, filename string, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("codeFile", filename)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/review", &buf)
	if err != nil {
		return "", fmt.Errorf("build review request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit review: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Success bool   `json:"success"`
		Report  string `json:"report"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode review response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !body.Success {
		if body.Error != "" {
			return "", errors.New(body.Error)
		}
		return "", fmt.Errorf("review request failed with status %d", resp.StatusCode)
	}
	return body.Report, nil
}

// FetchReports returns the stored reviews newest first.
func (a *API) FetchReports(ctx context.Context) ([]models.Review, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/reports", nil)
	if err != nil {
		return nil, fmt.Errorf("build reports request: %w", err)
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch reports: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reports request failed with status %d", resp.StatusCode)
	}
	var reviews []models.Review
	if err := json.NewDecoder(resp.Body).Decode(&reviews); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return reviews, nil
}
