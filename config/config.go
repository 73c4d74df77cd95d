// Package config holds runtime settings for the LegalLite server.
// Defaults are loaded first, then overridden from the environment.
package config

import "os"

type Config struct {
	Addr   string // HTTP bind address
	DBPath string // sqlite database file

	// Hosted-Open-Source summarization backend (Hugging Face inference API).
	HFToken  string
	HFAPIURL string

	// Base URL for the OpenAI-compatible chat completion API. The key itself
	// is supplied per session by the user.
	OpenAIBaseURL string

	// Optional artifact archive (MinIO). Disabled when MinioHost is empty.
	MinioHost      string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func defaults() *Config {
	return &Config{
		Addr:           ":8080",
		DBPath:         "legallite.db",
		HFAPIURL:       "https://api-inference.huggingface.co/models/csebuetnlp/mT5_multilingual_XLSum",
		OpenAIBaseURL:  "https://api.openai.com/v1",
		MinioAccessKey: "minioadmin",
		MinioSecretKey: "minioadmin",
		MinioBucket:    "legallite-artifacts",
	}
}

// Load builds a Config from defaults overlaid with environment variables.
func Load() *Config {
	cfg := defaults()
	overlayEnv(&cfg.Addr, "LEGALLITE_ADDR")
	overlayEnv(&cfg.DBPath, "LEGALLITE_DB")
	overlayEnv(&cfg.HFToken, "HF_TOKEN")
	overlayEnv(&cfg.HFAPIURL, "HF_API_URL")
	overlayEnv(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")
	overlayEnv(&cfg.MinioHost, "MINIO_HOST")
	overlayEnv(&cfg.MinioAccessKey, "MINIO_ACCESS_KEY")
	overlayEnv(&cfg.MinioSecretKey, "MINIO_SECRET_KEY")
	overlayEnv(&cfg.MinioBucket, "MINIO_BUCKET")
	return cfg
}

func overlayEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
