package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	Classifier      string        `mapstructure:"CLASSIFIER"`
	GeminiAPIKey    string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel     string        `mapstructure:"GEMINI_MODEL"`
	Temperature     float32       `mapstructure:"TEMPERATURE"`
	ClassifierURL   string        `mapstructure:"CLASSIFIER_URL"`
	ClassifierKey   string        `mapstructure:"CLASSIFIER_API_KEY"`
	OpenAIBaseURL   string        `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel     string        `mapstructure:"OPENAI_MODEL"`
	OpenAIAPIKey    string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIMaxTokens int           `mapstructure:"OPENAI_MAX_TOKENS"`
	OpenAICacheTTL  time.Duration `mapstructure:"OPENAI_CACHE_TTL"`
	MockDelay       time.Duration `mapstructure:"MOCK_DELAY"`
	ClassifyTimeout time.Duration `mapstructure:"CLASSIFY_TIMEOUT"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB int64         `mapstructure:"MAX_UPLOAD_MB"`
	SeedDemoCases   bool          `mapstructure:"SEED_DEMO_CASES"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	// API_KEY is the name the browser build used for the Gemini credential.
	_ = v.BindEnv("GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY")

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("CLASSIFIER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-3-flash-preview")
	v.SetDefault("TEMPERATURE", 0.1)
	v.SetDefault("CLASSIFIER_URL", "")
	v.SetDefault("CLASSIFIER_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("OPENAI_MODEL", "")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MAX_TOKENS", 0)
	// verdict reuse is opt-in; every classification is independent by default
	v.SetDefault("OPENAI_CACHE_TTL", "0s")
	v.SetDefault("MOCK_DELAY", "0s")
	v.SetDefault("CLASSIFY_TIMEOUT", "0s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 20)
	v.SetDefault("SEED_DEMO_CASES", true)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
