package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/adala/case-intake/internal/models"
)

const (
	DefaultGeminiModel = "gemini-3-flash-preview"
	defaultTemperature = 0.1
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClassifier classifies filings with Google's Gemini API. The client is
// created on first use so a missing key surfaces per call rather than at
// startup.
type GeminiClassifier struct {
	APIKey string
	Model  string
	// Temperature is sent as given, zero included; nil means 0.1.
	Temperature *float32
	Logger      zerolog.Logger

	mu  sync.Mutex
	gen contentGenerator
}

func (g *GeminiClassifier) generator(ctx context.Context) (contentGenerator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen != nil {
		return g.gen, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &UpstreamError{Backend: "gemini", Err: fmt.Errorf("create client: %w", err)}
	}
	g.gen = client.Models
	return g.gen, nil
}

func (g *GeminiClassifier) Classify(ctx context.Context, in Input) (models.AnalysisResult, error) {
	if strings.TrimSpace(g.APIKey) == "" {
		return models.AnalysisResult{}, ErrMissingAPIKey
	}

	parts, err := geminiParts(in)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	gen, err := g.generator(ctx)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	model := g.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	temperature := float32(defaultTemperature)
	if g.Temperature != nil {
		temperature = *g.Temperature
	}

	start := time.Now()
	resp, err := gen.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    AnalysisSchema(),
			Temperature:       genai.Ptr(temperature),
		},
	)
	if err != nil {
		g.Logger.Error().Err(err).Str("model", model).Msg("gemini request failed")
		return models.AnalysisResult{}, &UpstreamError{Backend: "gemini", Err: err}
	}

	text := ""
	if resp != nil {
		text = resp.Text()
	}
	if strings.TrimSpace(text) == "" {
		return models.AnalysisResult{}, &UpstreamError{Backend: "gemini", Err: ErrEmptyResponse}
	}

	g.Logger.Debug().
		Str("model", model).
		Dur("latency", time.Since(start)).
		Msg("gemini classification received")
	return decodeAnalysis(text)
}

func geminiParts(in Input) ([]*genai.Part, error) {
	switch v := in.(type) {
	case TextInput:
		return []*genai.Part{genai.NewPartFromText(v.Text)}, nil
	case DocumentInput:
		return []*genai.Part{
			genai.NewPartFromBytes(v.Data, v.MIMEType),
			genai.NewPartFromText(v.instruction()),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported classification input %T", in)
	}
}
