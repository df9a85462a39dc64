package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"sahaay/internal/documents/tracer"
	"sahaay/internal/rules"
)

const extractedTextExcerptLen = 200

var (
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

	allowedExtensions = map[string]bool{
		".pdf":  true,
		".jpg":  true,
		".jpeg": true,
		".png":  true,
	}
)

// TextExtractor converts an uploaded scan into raw lowercase text.
// Implementations call the external optical extraction service with a
// bounded timeout.
type TextExtractor interface {
	ExtractText(ctx context.Context, filePath string) (string, error)
}

// Validator turns one submitted document into a verdict. It is stateless;
// recording verdicts is the caller's business.
type Validator struct {
	extractor TextExtractor
	tracer    tracer.Tracer
}

// ValidatorOption configures the Validator.
type ValidatorOption func(*Validator)

// WithTracer sets the tracer for validation spans.
func WithTracer(t tracer.Tracer) ValidatorOption {
	return func(v *Validator) {
		v.tracer = t
	}
}

// NewValidator creates a validator. The extractor is required because any
// program may demand scanned documents.
// Panics if the extractor is nil - fail fast at startup.
func NewValidator(extractor TextExtractor, opts ...ValidatorOption) *Validator {
	if extractor == nil {
		panic("documents.NewValidator: text extractor is required")
	}
	v := &Validator{extractor: extractor, tracer: tracer.NewNoop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate produces a verdict for one submitted document. External failures
// (missing file, unreadable scan, extraction errors) resolve into FAIL
// verdicts, never into errors.
func (v *Validator) Validate(ctx context.Context, docType string, payload Payload) Verdict {
	ctx, span := v.tracer.Start(ctx, tracer.SpanValidate,
		tracer.String(tracer.AttrDocType, docType),
		tracer.Bool(tracer.AttrFileBased, payload.FilePath != ""),
	)

	verdict := v.validate(ctx, docType, payload)
	span.SetAttributes(
		tracer.String(tracer.AttrStatus, string(verdict.Status)),
		tracer.Float64(tracer.AttrConfidence, verdict.Confidence),
	)
	span.End(nil)
	return verdict
}

func (v *Validator) validate(ctx context.Context, docType string, payload Payload) Verdict {
	verdict := Verdict{DocType: docType, Status: StatusFail}

	if payload.IsEmpty() {
		verdict.Reason = "Empty document payload"
		return verdict
	}

	if payload.FilePath != "" {
		return v.validateFile(ctx, docType, payload.FilePath)
	}
	return v.validateValue(docType, payload.Value)
}

// validateValue performs the deterministic format checks for typed values.
func (v *Validator) validateValue(docType, value string) Verdict {
	verdict := Verdict{DocType: docType}

	switch normalizeValueType(docType) {
	case "aadhaar":
		if !aadhaarPattern.MatchString(value) {
			verdict.Status = StatusFail
			verdict.Reason = "Invalid Aadhaar format (12 digits required)"
			return verdict
		}
	case "pan":
		if !panPattern.MatchString(value) {
			verdict.Status = StatusFail
			verdict.Reason = "Invalid PAN format"
			return verdict
		}
	default:
		if value == "" {
			verdict.Status = StatusFail
			verdict.Reason = "Document value missing"
			return verdict
		}
	}

	verdict.Status = StatusPass
	verdict.Confidence = 1.0
	return verdict
}

// normalizeValueType collapses the document-type aliases that carry format
// rules onto their canonical names.
func normalizeValueType(docType string) string {
	key := rules.NormalizeDocKey(docType)
	switch key {
	case "aadhaar", "aadhar", "aadhaar_card", "aadhar_card":
		return "aadhaar"
	case "pan", "pan_card":
		return "pan"
	}
	return key
}

// validateFile gates on existence and extension, then hands the scan to the
// extraction service and matches the text against the keyword dictionary.
func (v *Validator) validateFile(ctx context.Context, docType, filePath string) Verdict {
	verdict := Verdict{DocType: docType, Status: StatusFail}

	if _, err := os.Stat(filePath); err != nil {
		verdict.Reason = "Uploaded file not found"
		return verdict
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if !allowedExtensions[ext] {
		verdict.Reason = fmt.Sprintf("Unsupported file type: %s", ext)
		return verdict
	}

	ctx, span := v.tracer.Start(ctx, tracer.SpanExtractText)
	text, err := v.extractor.ExtractText(ctx, filePath)
	span.End(err)
	if err != nil {
		verdict.Reason = err.Error()
		return verdict
	}

	text = strings.ToLower(text)
	verdict.ExtractedText = excerpt(text)

	expected, known := lookupKeywords(docType)
	if !known {
		verdict.Reason = fmt.Sprintf("Unrecognized document type: %s", docType)
		return verdict
	}

	matched := matchKeywords(text, expected)
	verdict.MatchedKeywords = matched
	verdict.Confidence = confidence(len(matched), len(expected))

	if len(matched) == 0 {
		verdict.Reason = fmt.Sprintf("Document content does not match expected %s markers", docType)
		return verdict
	}

	verdict.Status = StatusPass
	return verdict
}

// matchKeywords returns the expected keywords found in the text, exactly or
// fuzzily. Exact substring containment is tried first; failing that, every
// whitespace-delimited token competes against the keyword at the similarity
// threshold.
func matchKeywords(text string, expected []string) []string {
	var matched []string
	tokens := strings.Fields(text)

	for _, keyword := range expected {
		if strings.Contains(text, keyword) {
			matched = append(matched, keyword)
			continue
		}
		for _, token := range tokens {
			if Similarity(token, keyword) >= keywordThreshold {
				matched = append(matched, keyword)
				break
			}
		}
	}
	return matched
}

func confidence(matched, expected int) float64 {
	if expected == 0 {
		return 0
	}
	c := float64(matched) / float64(expected)
	if c > 1 {
		c = 1
	}
	return c
}

func excerpt(text string) string {
	if len(text) <= extractedTextExcerptLen {
		return text
	}
	return text[:extractedTextExcerptLen]
}
