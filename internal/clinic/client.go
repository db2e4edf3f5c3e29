package clinic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinicterm/internal/logging"
)

const maxResponseBytes = 4 * 1024 * 1024

// Config holds the client connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for a local backend.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000",
		Timeout: 15 * time.Second,
	}
}

// Client talks to the clinic records backend. All methods take a context;
// when the context has no deadline the configured timeout is applied.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client with default settings for the given base URL.
func NewClient(baseURL string) *Client {
	cfg := DefaultConfig()
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom settings.
func NewClientWithConfig(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ---- Patients ----

// ListPatients fetches all patients, ordered by name.
func (c *Client) ListPatients(ctx context.Context) ([]Patient, error) {
	var patients []Patient
	if err := c.getJSON(ctx, "/api/patients", &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// SearchPatients fetches patients whose name matches query. An empty query
// falls back to the unfiltered list.
func (c *Client) SearchPatients(ctx context.Context, query string) ([]Patient, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.ListPatients(ctx)
	}
	var patients []Patient
	path := "/api/patients/search?q=" + url.QueryEscape(query)
	if err := c.getJSON(ctx, path, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// GetPatient fetches a single patient by id.
func (c *Client) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	var p Patient
	if err := c.getJSON(ctx, fmt.Sprintf("/api/patients/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePatient creates a patient and returns the new id.
func (c *Client) CreatePatient(ctx context.Context, p Patient) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	resp, err := c.mutate(ctx, http.MethodPost, "/api/patients", p)
	if err != nil {
		return 0, err
	}
	return resp.PatientID, nil
}

// UpdatePatient updates an existing patient by id.
func (c *Client) UpdatePatient(ctx context.Context, p Patient) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/api/patients/%d", p.ID), p)
	return err
}

// SavePatient creates the patient when it has no id and updates it
// otherwise. Returns the id of the saved record.
func (c *Client) SavePatient(ctx context.Context, p Patient) (int64, error) {
	if p.ID == 0 {
		return c.CreatePatient(ctx, p)
	}
	if err := c.UpdatePatient(ctx, p); err != nil {
		return 0, err
	}
	return p.ID, nil
}

// DeletePatient deletes a patient. The backend cascades to its visits.
func (c *Client) DeletePatient(ctx context.Context, id int64) error {
	_, err := c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/api/patients/%d", id), nil)
	return err
}

// ---- Visits ----

// ListVisits fetches the visits of one patient, newest first.
func (c *Client) ListVisits(ctx context.Context, patientID int64) ([]Visit, error) {
	var visits []Visit
	if err := c.getJSON(ctx, fmt.Sprintf("/api/patients/%d/visits", patientID), &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// GetVisit fetches a single visit by id.
func (c *Client) GetVisit(ctx context.Context, id int64) (*Visit, error) {
	var v Visit
	if err := c.getJSON(ctx, fmt.Sprintf("/api/visits/%d", id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVisit creates a visit under the given patient and returns the new id.
func (c *Client) CreateVisit(ctx context.Context, patientID int64, v Visit) (int64, error) {
	resp, err := c.mutate(ctx, http.MethodPost, fmt.Sprintf("/api/patients/%d/visits", patientID), v)
	if err != nil {
		return 0, err
	}
	return resp.VisitID, nil
}

// UpdateVisit updates an existing visit by id.
func (c *Client) UpdateVisit(ctx context.Context, v Visit) error {
	_, err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/api/visits/%d", v.ID), v)
	return err
}

// SaveVisit creates the visit under patientID when it has no id and updates
// it otherwise. Returns the id of the saved record.
func (c *Client) SaveVisit(ctx context.Context, patientID int64, v Visit) (int64, error) {
	if v.ID == 0 {
		return c.CreateVisit(ctx, patientID, v)
	}
	if err := c.UpdateVisit(ctx, v); err != nil {
		return 0, err
	}
	return v.ID, nil
}

// DeleteVisit deletes a visit.
func (c *Client) DeleteVisit(ctx context.Context, id int64) error {
	_, err := c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/api/visits/%d", id), nil)
	return err
}

// PrintURL returns the server-rendered certificate URL for a visit. The
// response format is the server's business; callers hand the URL to the
// system browser.
func (c *Client) PrintURL(visitID int64) string {
	return fmt.Sprintf("%s/api/visits/%d/print", c.baseURL, visitID)
}

// ---- Transport ----

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	logging.APIDebug("%s %s req=%s", method, path, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("%s %s req=%s failed: %v", method, path, requestID, err)
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	resp.Body.Close()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	logging.APIDebug("%s %s req=%s status=%d in %v", method, path, requestID, resp.StatusCode, time.Since(start))
	return resp.StatusCode, data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	status, data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return apiError(status, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) mutate(ctx context.Context, method, path string, body interface{}) (*mutationResponse, error) {
	status, data, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, apiError(status, data)
	}
	var mr mutationResponse
	if err := json.Unmarshal(data, &mr); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if mr.Message == "" {
		return nil, ErrNoMessage
	}
	return &mr, nil
}

func apiError(status int, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	return &APIError{StatusCode: status, Message: er.Error}
}
