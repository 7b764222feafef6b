package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/adala/case-intake/internal/models"
)

// HTTPClassifier posts filings to a classification microservice that speaks
// the inlineData/text parts contract and answers with an AnalysisResult.
type HTTPClassifier struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type wireBlob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type wirePart struct {
	InlineData *wireBlob `json:"inlineData,omitempty"`
	Text       string    `json:"text,omitempty"`
}

type requestBody struct {
	SystemInstruction string         `json:"systemInstruction"`
	Parts             []wirePart     `json:"parts"`
	ResponseSchema    map[string]any `json:"responseSchema"`
}

const maxResponseBytes = 4 << 20

func (h HTTPClassifier) Classify(ctx context.Context, in Input) (models.AnalysisResult, error) {
	if strings.TrimSpace(h.BaseURL) == "" {
		return models.AnalysisResult{}, &ConfigurationError{Msg: "CLASSIFIER_URL is not set"}
	}
	if h.Client == nil {
		h.Client = http.DefaultClient
	}

	payload := requestBody{
		SystemInstruction: SystemInstruction,
		ResponseSchema:    JSONSchema(AnalysisSchema()),
	}
	switch v := in.(type) {
	case TextInput:
		payload.Parts = []wirePart{{Text: v.Text}}
	case DocumentInput:
		payload.Parts = []wirePart{
			{InlineData: &wireBlob{MimeType: v.MIMEType, Data: base64.StdEncoding.EncodeToString(v.Data)}},
			{Text: v.instruction()},
		}
	default:
		return models.AnalysisResult{}, fmt.Errorf("unsupported classification input %T", in)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(h.BaseURL, "/")+"/classify", bytes.NewBuffer(b))
	if err != nil {
		return models.AnalysisResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.APIKey)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return models.AnalysisResult{}, &UpstreamError{Backend: "http", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.AnalysisResult{}, &UpstreamError{Backend: "http", Err: fmt.Errorf("ai service error: %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.AnalysisResult{}, &UpstreamError{Backend: "http", Err: err}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return models.AnalysisResult{}, &UpstreamError{Backend: "http", Err: ErrEmptyResponse}
	}
	return decodeAnalysis(string(body))
}
