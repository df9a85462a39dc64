package documents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExtractor returns canned text per file path.
type stubExtractor struct {
	text map[string]string
	err  error
}

func (e *stubExtractor) ExtractText(_ context.Context, filePath string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.text[filePath], nil
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewValidatorPanicsWithoutExtractor(t *testing.T) {
	assert.Panics(t, func() { NewValidator(nil) })
}

func TestValidateEmptyPayload(t *testing.T) {
	v := NewValidator(&stubExtractor{})
	verdict := v.Validate(context.Background(), "aadhaar", Payload{})
	assert.Equal(t, StatusFail, verdict.Status)
	assert.Equal(t, "Empty document payload", verdict.Reason)
	assert.Zero(t, verdict.Confidence)
}

func TestValidateAadhaarValue(t *testing.T) {
	v := NewValidator(&stubExtractor{})

	tests := []struct {
		name   string
		value  string
		status Status
		reason string
	}{
		{"valid twelve digits", "123456789012", StatusPass, ""},
		{"too short", "12345678901", StatusFail, "Invalid Aadhaar format (12 digits required)"},
		{"too long", "1234567890123", StatusFail, "Invalid Aadhaar format (12 digits required)"},
		{"non numeric", "12345678901a", StatusFail, "Invalid Aadhaar format (12 digits required)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := v.Validate(context.Background(), "aadhaar", Payload{Value: tt.value})
			assert.Equal(t, tt.status, verdict.Status)
			assert.Equal(t, tt.reason, verdict.Reason)
			if tt.status == StatusPass {
				assert.Equal(t, 1.0, verdict.Confidence)
			}
		})
	}
}

func TestValidateAadhaarAliasesShareFormatRule(t *testing.T) {
	v := NewValidator(&stubExtractor{})
	for _, docType := range []string{"aadhar", "Aadhaar-Card", "aadhar_card"} {
		verdict := v.Validate(context.Background(), docType, Payload{Value: "000011112222"})
		assert.Equal(t, StatusPass, verdict.Status, "docType %s", docType)
	}
}

func TestValidatePANValue(t *testing.T) {
	v := NewValidator(&stubExtractor{})

	tests := []struct {
		name   string
		value  string
		status Status
	}{
		{"valid", "ABCDE1234F", StatusPass},
		{"lowercase rejected", "abcde1234f", StatusFail},
		{"wrong shape", "AB1234CDEF", StatusFail},
		{"empty", "", StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := v.Validate(context.Background(), "pan", Payload{Value: tt.value})
			assert.Equal(t, tt.status, verdict.Status)
			if tt.status == StatusFail {
				assert.Equal(t, "Invalid PAN format", verdict.Reason)
			}
		})
	}
}

func TestValidateGenericValue(t *testing.T) {
	v := NewValidator(&stubExtractor{})

	verdict := v.Validate(context.Background(), "ration_card", Payload{Value: "RC-778812"})
	assert.Equal(t, StatusPass, verdict.Status)
	assert.Equal(t, 1.0, verdict.Confidence)
}

func TestValidateFileNotFound(t *testing.T) {
	v := NewValidator(&stubExtractor{})
	verdict := v.Validate(context.Background(), "aadhaar", Payload{FilePath: "/nonexistent/scan.pdf"})
	assert.Equal(t, StatusFail, verdict.Status)
	assert.Equal(t, "Uploaded file not found", verdict.Reason)
}

func TestValidateFileUnsupportedExtension(t *testing.T) {
	v := NewValidator(&stubExtractor{})
	path := writeTempFile(t, "scan.docx", "irrelevant")

	verdict := v.Validate(context.Background(), "aadhaar", Payload{FilePath: path})
	assert.Equal(t, StatusFail, verdict.Status)
	assert.Equal(t, "Unsupported file type: .docx", verdict.Reason)
}

func TestValidateFileExtensionCaseInsensitive(t *testing.T) {
	path := writeTempFile(t, "scan.PDF", "irrelevant")
	v := NewValidator(&stubExtractor{text: map[string]string{
		path: "AADHAAR Unique Identification Authority",
	}})

	verdict := v.Validate(context.Background(), "aadhaar", Payload{FilePath: path})
	assert.Equal(t, StatusPass, verdict.Status)
}

func TestValidateFileExtractionError(t *testing.T) {
	path := writeTempFile(t, "scan.jpg", "irrelevant")
	v := NewValidator(&stubExtractor{err: errors.New("too little text extracted from document")})

	verdict := v.Validate(context.Background(), "aadhaar", Payload{FilePath: path})
	assert.Equal(t, StatusFail, verdict.Status)
	assert.Equal(t, "too little text extracted from document", verdict.Reason)
}

func TestValidateFileExactKeywordMatch(t *testing.T) {
	path := writeTempFile(t, "scan.pdf", "irrelevant")
	v := NewValidator(&stubExtractor{text: map[string]string{
		path: "Government of India AADHAAR\nUnique Identification Authority\nEnrollment No 1234",
	}})

	verdict := v.Validate(context.Background(), "aadhaar", Payload{FilePath: path})
	assert.Equal(t, StatusPass, verdict.Status)
	assert.Contains(t, verdict.MatchedKeywords, "aadhaar")
	assert.Contains(t, verdict.MatchedKeywords, "unique identification")
	assert.Contains(t, verdict.MatchedKeywords, "enrollment")
	assert.Greater(t, verdict.Confidence, 0.0)
	assert.LessOrEqual(t, verdict.Confidence, 1.0)
}

func TestValidateFileFuzzyKeywordMatch(t *testing.T) {
	// OCR dropped a glyph: "aadhar" still matches the "aadhaar" marker via
	// token similarity. The dictionary carries the misspelling too, and exact
	// containment finds it first.
	path := writeTempFile(t, "scan.png", "irrelevant")
	v := NewValidator(&stubExtractor{text: map[string]string{
		path: "this is your aadhar card enrollment no xyz",
	}})

	verdict := v.Validate(context.Background(), "aadhaar_card", Payload{FilePath: path})
	assert.Equal(t, StatusPass, verdict.Status)
	assert.NotEmpty(t, verdict.MatchedKeywords)
}

func TestValidateFileNoKeywordMatch(t *testing.T) {
	path := writeTempFile(t, "scan.pdf", "irrelevant")
	v := NewValidator(&stubExtractor{text: map[string]string{
		path: "completely unrelated shopping list",
	}})

	verdict := v.Validate(context.Background(), "income_certificate", Payload{FilePath: path})
	assert.Equal(t, StatusFail, verdict.Status)
	assert.Equal(t, "Document content does not match expected income_certificate markers", verdict.Reason)
	assert.Empty(t, verdict.MatchedKeywords)
	assert.Zero(t, verdict.Confidence)
}

func TestValidateFileUnrecognizedType(t *testing.T) {
	path := writeTempFile(t, "scan.pdf", "irrelevant")
	v := NewValidator(&stubExtractor{text: map[string]string{path: "some text"}})

	verdict := v.Validate(context.Background(), "horoscope", Payload{FilePath: path})
	assert.Equal(t, StatusFail, verdict.Status)
	assert.Equal(t, "Unrecognized document type: horoscope", verdict.Reason)
}

func TestValidateFileExcerptsExtractedText(t *testing.T) {
	path := writeTempFile(t, "scan.pdf", "irrelevant")
	long := "income certificate " + strings.Repeat("x", 500)
	v := NewValidator(&stubExtractor{text: map[string]string{path: long}})

	verdict := v.Validate(context.Background(), "income_certificate", Payload{FilePath: path})
	assert.Equal(t, StatusPass, verdict.Status)
	assert.Len(t, verdict.ExtractedText, extractedTextExcerptLen)
}

func TestValidateFileLowercasesBeforeMatching(t *testing.T) {
	path := writeTempFile(t, "scan.jpeg", "irrelevant")
	v := NewValidator(&stubExtractor{text: map[string]string{
		path: "INCOME CERTIFICATE issued by the TEHSILDAR",
	}})

	verdict := v.Validate(context.Background(), "income_certificate", Payload{FilePath: path})
	assert.Equal(t, StatusPass, verdict.Status)
	assert.Contains(t, verdict.MatchedKeywords, "income certificate")
	assert.Contains(t, verdict.MatchedKeywords, "tehsildar")
}
