package ai

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/adala/case-intake/internal/models"
)

func decodeAnalysis(text string) (models.AnalysisResult, error) {
	var a models.AnalysisResult
	body := stripCodeFence(text)
	if body == "" {
		return a, &ParseError{Err: errors.New("empty payload"), Raw: text}
	}
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		return models.AnalysisResult{}, &ParseError{Err: err, Raw: text}
	}
	if err := a.Validate(); err != nil {
		return models.AnalysisResult{}, &ParseError{Err: err, Raw: text}
	}
	if a.Keywords == nil {
		a.Keywords = []string{}
	}
	if a.RequirementsCheck.MissingElements == nil {
		a.RequirementsCheck.MissingElements = []string{}
	}
	return a, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some chat models add even
// when asked for raw JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// SupportedMediaType reports whether a document of this media type can be
// sent for classification: any image/* or application/pdf.
func SupportedMediaType(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/") || mt == "application/pdf"
}

// StripDataURIPrefix drops a "data:<mime>;base64," prefix, leaving the bare
// base64 payload.
func StripDataURIPrefix(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}

// DecodeDocument decodes a base64 payload, with or without a data-URI
// prefix. The media type declared in the prefix is returned when present.
func DecodeDocument(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	var mediaType string
	if strings.HasPrefix(s, "data:") {
		header, _, _ := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
		mediaType, _, _ = strings.Cut(header, ";")
	}
	data, err := base64.StdEncoding.DecodeString(StripDataURIPrefix(s))
	if err != nil {
		return nil, "", fmt.Errorf("decode document: %w", err)
	}
	return data, mediaType, nil
}

func dataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
