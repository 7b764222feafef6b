package ai

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/adala/case-intake/internal/config"
)

// New builds the classifier selected by cfg.Classifier. Credentials are not
// checked here; a missing key is reported by the first Classify call.
func New(cfg config.Config, logger zerolog.Logger) (Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Classifier)) {
	case "", "gemini":
		return &GeminiClassifier{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: genai.Ptr(cfg.Temperature),
			Logger:      logger.With().Str("classifier", "gemini").Logger(),
		}, nil
	case "openai":
		return &OpenAICompatClassifier{
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			APIKey:      cfg.OpenAIAPIKey,
			MaxTokens:   cfg.OpenAIMaxTokens,
			Temperature: genai.Ptr(float64(cfg.Temperature)),
			CacheTTL:    cfg.OpenAICacheTTL,
		}, nil
	case "http":
		return HTTPClassifier{BaseURL: cfg.ClassifierURL, APIKey: cfg.ClassifierKey}, nil
	case "mock":
		return MockClassifier{Delay: cfg.MockDelay}, nil
	default:
		return nil, fmt.Errorf("unknown classifier %q", cfg.Classifier)
	}
}
