package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahaay/internal/documents"
	"sahaay/internal/rules"
	id "sahaay/pkg/domain"
)

// stubService records the last call and serves canned results.
type stubService struct {
	lastProgramID id.ProgramID
	lastDocType   string
	lastPayload   documents.Payload

	requirements map[string]rules.Requirement
	verdict      documents.Verdict
	matrix       documents.ValidationMatrix
	err          error
}

func (s *stubService) Requirements(_ context.Context, _ id.SessionID, programID id.ProgramID) (map[string]rules.Requirement, error) {
	s.lastProgramID = programID
	return s.requirements, s.err
}

func (s *stubService) Submit(_ context.Context, _ id.SessionID, programID id.ProgramID, docType string, payload documents.Payload) (documents.Verdict, error) {
	s.lastProgramID = programID
	s.lastDocType = docType
	s.lastPayload = payload
	return s.verdict, s.err
}

func (s *stubService) Status(_ context.Context, _ id.SessionID, programID id.ProgramID) (documents.ValidationMatrix, error) {
	s.lastProgramID = programID
	return s.matrix, s.err
}

func newRouter(svc *stubService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func TestHandleRequirements(t *testing.T) {
	svc := &stubService{requirements: map[string]rules.Requirement{
		"aadhaar": {Mandatory: true, Description: "Aadhaar card copy"},
		"photo":   {Mandatory: false, Description: "Passport size photograph"},
	}}
	router := newRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/programs/pm-kisan/documents", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.ProgramID("pm-kisan"), svc.lastProgramID)

	var body RequirementsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "pm-kisan", body.ProgramID)
	require.Len(t, body.Documents, 2)
	assert.True(t, body.Documents["aadhaar"].Mandatory)
	assert.False(t, body.Documents["photo"].Mandatory)
}

func TestHandleSubmit(t *testing.T) {
	svc := &stubService{verdict: documents.Verdict{
		DocType:    "aadhaar",
		Status:     documents.StatusPass,
		Confidence: 1,
	}}
	router := newRouter(svc)

	body := bytes.NewBufferString(`{"value": " 123456789012 "}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/programs/pm-kisan/documents/aadhaar", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.ProgramID("pm-kisan"), svc.lastProgramID)
	assert.Equal(t, "aadhaar", svc.lastDocType)
	// Normalize trims payload whitespace before the service sees it.
	assert.Equal(t, "123456789012", svc.lastPayload.Value)

	var verdict documents.Verdict
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&verdict))
	assert.Equal(t, documents.StatusPass, verdict.Status)
}

func TestHandleSubmitFailingVerdictIsStillOK(t *testing.T) {
	svc := &stubService{verdict: documents.Verdict{
		DocType: "aadhaar",
		Status:  documents.StatusFail,
		Reason:  "Invalid Aadhaar format (12 digits required)",
	}}
	router := newRouter(svc)

	body := bytes.NewBufferString(`{"value": "nope"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/programs/pm-kisan/documents/aadhaar", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var verdict documents.Verdict
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&verdict))
	assert.Equal(t, documents.StatusFail, verdict.Status)
	assert.Equal(t, "Invalid Aadhaar format (12 digits required)", verdict.Reason)
}

func TestHandleSubmitValidation(t *testing.T) {
	router := newRouter(&stubService{})

	tests := []struct {
		name string
		body string
	}{
		{"both value and file_path", `{"value": "123456789012", "file_path": "/tmp/scan.pdf"}`},
		{"malformed body", `{"value": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/programs/pm-kisan/documents/aadhaar", bytes.NewBufferString(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleSubmitInvalidProgramID(t *testing.T) {
	router := newRouter(&stubService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/programs/%20/documents/aadhaar", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStatus(t *testing.T) {
	svc := &stubService{matrix: documents.ValidationMatrix{
		Matrix: map[string]documents.MatrixEntry{
			"aadhaar": {Mandatory: true, Submitted: true, Status: documents.StatusPass, Confidence: 1},
			"photo":   {Mandatory: false, Status: documents.StatusPass},
		},
		FinalStatus: documents.StatusIncomplete,
	}}
	router := newRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/programs/pm-kisan/documents/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body, "document_validation_matrix")
	assert.JSONEq(t, `"INCOMPLETE"`, string(body["final_document_status"]))
}
