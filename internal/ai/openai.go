package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/adala/case-intake/internal/models"
)

// OpenAICompatClassifier classifies filings through any server that speaks
// the OpenAI chat-completions API with json_schema response formats.
type OpenAICompatClassifier struct {
	BaseURL   string
	Model     string
	APIKey    string
	MaxTokens int
	// Temperature is sent as given, zero included; nil means 0.1.
	Temperature *float64
	// CacheTTL enables reuse of verdicts for identical typed filings. Zero
	// keeps every call independent.
	CacheTTL time.Duration
	Client   *http.Client

	cache responseCache
}

type responseCache struct {
	mu    sync.Mutex
	store map[string]cacheEntry
}

type cacheEntry struct {
	value models.AnalysisResult
	exp   time.Time
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
	File     *filePart `json:"file,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type filePart struct {
	Filename string `json:"filename"`
	FileData string `json:"file_data"`
}

func (a *OpenAICompatClassifier) Classify(ctx context.Context, in Input) (models.AnalysisResult, error) {
	if strings.TrimSpace(a.BaseURL) == "" {
		return models.AnalysisResult{}, &ConfigurationError{Msg: "OPENAI_BASE_URL is not set"}
	}
	if strings.TrimSpace(a.Model) == "" {
		return models.AnalysisResult{}, &ConfigurationError{Msg: "OPENAI_MODEL is not set"}
	}
	if strings.TrimSpace(a.APIKey) == "" {
		return models.AnalysisResult{}, ErrMissingAPIKey
	}

	var user chatMessage
	cacheKey := ""
	switch v := in.(type) {
	case TextInput:
		if a.CacheTTL > 0 {
			cacheKey = v.Text
			if cached, ok := a.cache.get(cacheKey); ok {
				return cached, nil
			}
		}
		user = chatMessage{Role: "user", Content: v.Text}
	case DocumentInput:
		user = chatMessage{Role: "user", Content: []contentPart{documentPart(v), {Type: "text", Text: v.instruction()}}}
	default:
		return models.AnalysisResult{}, fmt.Errorf("unsupported classification input %T", in)
	}

	temperature := float64(defaultTemperature)
	if a.Temperature != nil {
		temperature = *a.Temperature
	}
	payload := map[string]any{
		"model":       a.Model,
		"temperature": temperature,
		"messages": []chatMessage{
			{Role: "system", Content: SystemInstruction},
			user,
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "case_analysis",
				"schema": JSONSchema(AnalysisSchema()),
			},
		},
	}
	if a.MaxTokens > 0 {
		payload["max_tokens"] = a.MaxTokens
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	url := strings.TrimRight(a.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return models.AnalysisResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.APIKey)

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.AnalysisResult{}, &UpstreamError{Backend: "openai", Err: fmt.Errorf("request timed out: %w", err)}
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return models.AnalysisResult{}, &UpstreamError{Backend: "openai", Err: fmt.Errorf("request timed out: %w", err)}
		}
		return models.AnalysisResult{}, &UpstreamError{Backend: "openai", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if resp.StatusCode == http.StatusTooManyRequests {
			return models.AnalysisResult{}, &UpstreamError{Backend: "openai", Err: RateLimitError{RetryAfter: extractRetryAfter(errBody)}}
		}
		return models.AnalysisResult{}, &UpstreamError{Backend: "openai", Err: fmt.Errorf("http error: %s: %v", resp.Status, errBody)}
	}

	var res struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return models.AnalysisResult{}, &UpstreamError{Backend: "openai", Err: err}
	}
	if len(res.Choices) == 0 || strings.TrimSpace(res.Choices[0].Message.Content) == "" {
		return models.AnalysisResult{}, &UpstreamError{Backend: "openai", Err: ErrEmptyResponse}
	}

	result, err := decodeAnalysis(res.Choices[0].Message.Content)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	if cacheKey != "" {
		a.cache.set(cacheKey, result, a.CacheTTL)
	}
	return result, nil
}

func documentPart(d DocumentInput) contentPart {
	uri := dataURI(d.MIMEType, d.Data)
	if strings.HasPrefix(d.MIMEType, "image/") {
		return contentPart{Type: "image_url", ImageURL: &imageURL{URL: uri}}
	}
	return contentPart{Type: "file", File: &filePart{Filename: "filing.pdf", FileData: uri}}
}

func (c *responseCache) get(key string) (models.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.store[key]; ok {
		if time.Now().Before(e.exp) {
			return e.value, true
		}
		delete(c.store, key)
	}
	return models.AnalysisResult{}, false
}

// set stores value and drops every expired entry.
func (c *responseCache) set(key string, value models.AnalysisResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if c.store == nil {
		c.store = map[string]cacheEntry{}
	}
	for k, e := range c.store {
		if !now.Before(e.exp) {
			delete(c.store, k)
		}
	}
	c.store[key] = cacheEntry{
		value: value,
		exp:   now.Add(ttl),
	}
}

func (c *responseCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

func extractRetryAfter(errBody map[string]any) time.Duration {
	errObj, ok := errBody["error"].(map[string]any)
	if !ok {
		return 0
	}
	details, ok := errObj["details"].([]any)
	if !ok {
		return 0
	}
	for _, d := range details {
		m, ok := d.(map[string]any)
		if !ok {
			continue
		}
		if t, ok := m["@type"].(string); ok && strings.Contains(t, "RetryInfo") {
			if s, ok := m["retryDelay"].(string); ok {
				if dur, err := time.ParseDuration(s); err == nil {
					return dur
				}
			}
		}
	}
	return 0
}
