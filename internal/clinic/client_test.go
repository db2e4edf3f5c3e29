package clinic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler captures the last request and plays back a canned reply.
type recordingHandler struct {
	method string
	path   string
	query  string
	body   []byte

	status int
	reply  interface{}
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.query = r.URL.RawQuery
	h.body, _ = io.ReadAll(r.Body)

	w.Header().Set("Content-Type", "application/json")
	if h.status != 0 {
		w.WriteHeader(h.status)
	}
	_ = json.NewEncoder(w).Encode(h.reply)
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestListPatients(t *testing.T) {
	h := &recordingHandler{reply: []Patient{
		{ID: 1, Name: "Ana Cruz", Sex: "F"},
		{ID: 2, Name: "Ben Reyes", Sex: "M"},
	}}
	c := newTestClient(t, h)

	got, err := c.ListPatients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, h.method)
	assert.Equal(t, "/api/patients", h.path)

	want := []Patient{{ID: 1, Name: "Ana Cruz", Sex: "F"}, {ID: 2, Name: "Ben Reyes", Sex: "M"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("patients mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchPatientsUsesQueryParam(t *testing.T) {
	h := &recordingHandler{reply: []Patient{{ID: 1, Name: "Ana Cruz"}}}
	c := newTestClient(t, h)

	_, err := c.SearchPatients(context.Background(), "ana c")
	require.NoError(t, err)
	assert.Equal(t, "/api/patients/search", h.path)
	assert.Equal(t, "q=ana+c", h.query)
}

func TestSearchPatientsEmptyQueryReloadsFullList(t *testing.T) {
	h := &recordingHandler{reply: []Patient{}}
	c := newTestClient(t, h)

	_, err := c.SearchPatients(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, "/api/patients", h.path)
	assert.Empty(t, h.query)
}

func TestSavePatientWithoutIDCreates(t *testing.T) {
	h := &recordingHandler{reply: mutationResponse{Message: "Patient created", PatientID: 7}}
	c := newTestClient(t, h)

	id, err := c.SavePatient(context.Background(), Patient{Name: "Ana Cruz", Sex: "F"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, http.MethodPost, h.method)
	assert.Equal(t, "/api/patients", h.path)
}

func TestSavePatientWithIDUpdates(t *testing.T) {
	h := &recordingHandler{reply: mutationResponse{Message: "Patient updated"}}
	c := newTestClient(t, h)

	id, err := c.SavePatient(context.Background(), Patient{ID: 7, Name: "Ana Cruz"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, http.MethodPut, h.method)
	assert.Equal(t, "/api/patients/7", h.path)
}

func TestCreatePatientRejectsMissingNameWithoutRequest(t *testing.T) {
	h := &recordingHandler{reply: mutationResponse{Message: "Patient created"}}
	c := newTestClient(t, h)

	_, err := c.CreatePatient(context.Background(), Patient{Sex: "F"})
	assert.ErrorIs(t, err, ErrMissingName)
	assert.Empty(t, h.method, "no request should reach the backend")
}

func TestDeletePatient(t *testing.T) {
	h := &recordingHandler{reply: mutationResponse{Message: "Patient and their visits deleted"}}
	c := newTestClient(t, h)

	require.NoError(t, c.DeletePatient(context.Background(), 3))
	assert.Equal(t, http.MethodDelete, h.method)
	assert.Equal(t, "/api/patients/3", h.path)
}

func TestVisitEndpointsAreScopedByPatient(t *testing.T) {
	h := &recordingHandler{reply: []Visit{{ID: 10, VisitDate: "2026-08-01 09:30:00"}}}
	c := newTestClient(t, h)

	visits, err := c.ListVisits(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "/api/patients/5/visits", h.path)

	h.reply = mutationResponse{Message: "Visit added", VisitID: 11}
	id, err := c.SaveVisit(context.Background(), 5, Visit{Diagnosis: "URTI"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.Equal(t, http.MethodPost, h.method)
	assert.Equal(t, "/api/patients/5/visits", h.path)

	h.reply = mutationResponse{Message: "Visit updated"}
	id, err = c.SaveVisit(context.Background(), 5, Visit{ID: 11, Diagnosis: "URTI"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.Equal(t, http.MethodPut, h.method)
	assert.Equal(t, "/api/visits/11", h.path)
}

func TestGetVisitNotFound(t *testing.T) {
	h := &recordingHandler{status: http.StatusNotFound, reply: errorResponse{Error: "Visit not found"}}
	c := newTestClient(t, h)

	_, err := c.GetVisit(context.Background(), 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Visit not found", apiErr.Message)
}

func TestMutationWithoutMessageIsError(t *testing.T) {
	// HTTP 200 with no message field still counts as failure.
	h := &recordingHandler{reply: map[string]string{"status": "ok"}}
	c := newTestClient(t, h)

	err := c.DeleteVisit(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNoMessage)
}

func TestValidationErrorFromBackend(t *testing.T) {
	h := &recordingHandler{status: http.StatusBadRequest, reply: errorResponse{Error: "Name is required"}}
	c := newTestClient(t, h)

	err := c.UpdatePatient(context.Background(), Patient{ID: 1, Name: "x"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "Name is required")
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode([]Patient{})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	_, err := c.ListPatients(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, gotHeader)
}

func TestPrintURL(t *testing.T) {
	c := NewClient("http://clinic.local:5000/")
	assert.Equal(t, "http://clinic.local:5000/api/visits/12/print", c.PrintURL(12))
}

func TestNetworkErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL)
	_, err := c.ListPatients(context.Background())
	assert.Error(t, err)
}
