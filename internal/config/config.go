package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port                int
	DatabaseURL         string
	LogLevel            string
	OpenAIAPIKey        string
	ChatModel           string
	ChatFallbackModel   string
	ReportModel         string
	ReportFallbackModel string
	DemoMode            bool
	NatsURL             string
	NatsToken           string
	FixturesDir         string
	PaymentsCSV         string
	PDFServiceURL       string
}

func Load() Config {
	return Config{
		Port:                envInt("DAICHO_PORT", 8760),
		DatabaseURL:         envStr("DATABASE_URL", ""),
		LogLevel:            envStr("LOG_LEVEL", "info"),
		OpenAIAPIKey:        envStr("OPENAI_API_KEY", ""),
		ChatModel:           envStr("DAICHO_CHAT_MODEL", "gpt-4o-mini"),
		ChatFallbackModel:   envStr("DAICHO_CHAT_FALLBACK_MODEL", "gpt-4o"),
		ReportModel:         envStr("DAICHO_REPORT_MODEL", "gpt-5-nano"),
		ReportFallbackModel: envStr("DAICHO_REPORT_FALLBACK_MODEL", "gpt-5-mini"),
		DemoMode:            envBool("DAICHO_DEMO_MODE", false),
		NatsURL:             envStr("NATS_URL", ""),
		NatsToken:           envStr("NATS_TOKEN", ""),
		FixturesDir:         envStr("FIXTURES_DIR", "./data/fixtures"),
		PaymentsCSV:         envStr("PAYMENTS_CSV", "./data/raw/payments_app.csv"),
		PDFServiceURL:       envStr("PDF_SERVICE_URL", "http://localhost:8081"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
