package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"stackmaster-quiz-service/internal/llm"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		// TTL bounds how long an unviewed submission stays in the
		// transient slot.
		TTL string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		TTL string `yaml:"ttl"`
	} `yaml:"catalog"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret"`
	} `yaml:"auth"`
	LLM struct {
		Provider  string `yaml:"provider"`
		Anthropic struct {
			APIKey string `yaml:"apiKey"`
			Model  string `yaml:"model"`
		} `yaml:"anthropic"`
		OpenAI struct {
			APIKey  string `yaml:"apiKey"`
			Model   string `yaml:"model"`
			BaseURL string `yaml:"baseUrl"`
		} `yaml:"openai"`
		MaxAttempts int    `yaml:"maxAttempts"`
		Timeout     string `yaml:"timeout"`
	} `yaml:"llm"`
}

// Load reads YAML config from path. Secrets left empty in the file fall back
// to environment variables.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.LLM.Anthropic.APIKey == "" {
		cfg.LLM.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.LLM.OpenAI.APIKey == "" {
		cfg.LLM.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

// LLMConfig converts the file section into the provider configuration,
// keeping the provider package's defaults for anything unset.
func (c Config) LLMConfig() llm.Config {
	out := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		out.Provider = c.LLM.Provider
	}
	out.Anthropic.APIKey = c.LLM.Anthropic.APIKey
	if c.LLM.Anthropic.Model != "" {
		out.Anthropic.Model = c.LLM.Anthropic.Model
	}
	out.OpenAI.APIKey = c.LLM.OpenAI.APIKey
	if c.LLM.OpenAI.Model != "" {
		out.OpenAI.Model = c.LLM.OpenAI.Model
	}
	out.OpenAI.BaseURL = c.LLM.OpenAI.BaseURL
	if c.LLM.MaxAttempts > 0 {
		out.Retry.MaxAttempts = c.LLM.MaxAttempts
	}
	out.Timeout = TTLDuration(c.LLM.Timeout, out.Timeout)
	return out
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
