package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Database
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Server
	Port string
	Host string

	// Elora telemetry API
	EloraAPIURL string
	EloraAPIKey string

	// SendGrid
	SendGridAPIKey    string
	SendGridFromName  string
	SendGridFromEmail string

	// SMS provider
	SMSAPIURL    string
	SMSAPIKey    string
	SMSFromLabel string

	// OpenAI (fleet analysis)
	OpenAIAPIKey      string
	AnalysisBatchSize int
	AnalysisDelayMs   int

	// RabbitMQ (optional report fan-out)
	AMQPURL      string
	AMQPExchange string
}

func Load() *Config {
	return &Config{
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret_app"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "elora"),

		Port: getEnv("PORT", "8080"),
		Host: getEnv("HOST", "0.0.0.0"),

		EloraAPIURL: getEnv("ELORA_API_URL", "https://api.elora.com.au/api/v3"),
		EloraAPIKey: getEnv("ELORA_API_KEY", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "ELORA Reports"),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "reports@elora.com.au"),

		SMSAPIURL:    getEnv("SMS_API_URL", ""),
		SMSAPIKey:    getEnv("SMS_API_KEY", ""),
		SMSFromLabel: getEnv("SMS_FROM_LABEL", "ELORA"),

		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		AnalysisBatchSize: getEnvInt("ANALYSIS_BATCH_SIZE", 10),
		AnalysisDelayMs:   getEnvInt("ANALYSIS_DELAY_MS", 2000),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "elora.reports"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
