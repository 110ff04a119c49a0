package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	HTTPPort  int
	GRPCPort  int
	DB        DBConfig
	Kafka     KafkaConfig
	Telemetry TelemetryConfig
	Valuation ValuationConfig
	Providers ProviderConfig
	Auth      AuthConfig
	TLS       TLSConfig
	LogLevel  string
	LogFormat string
}

// DBConfig holds database connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// KafkaConfig holds Kafka broker configuration.
type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
	TrnTopic      string
	// Enabled turns on transaction ingestion from TrnTopic.
	Enabled bool
}

// TelemetryConfig holds OpenTelemetry configuration.
type TelemetryConfig struct {
	OTLPEndpoint string
	Insecure     bool
	ServiceName  string
}

// ValuationConfig controls market data fetching and rounding.
type ValuationConfig struct {
	FetchTimeout time.Duration
	// Schedule is a cron spec for the revaluation job; empty disables it.
	Schedule      string
	BaseCurrency  string
	MoneyScale    int32
	RateScale     int32
	CostScale     int32
	QuantityScale int32
}

// ProviderConfig selects market data sources: "static" or "postgres".
type ProviderConfig struct {
	FxRates string
	Prices  string
}

// AuthConfig holds JWT validation settings. Auth is disabled when neither
// a secret nor a public key is set.
type AuthConfig struct {
	JWTSecret    string
	JWTPublicKey string
	Issuer       string
}

// Enabled reports whether any JWT key material is configured.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || a.JWTPublicKey != ""
}

// TLSConfig holds gRPC server TLS settings.
type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether both cert and key are configured.
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

// Validate checks required configuration values.
func (c Config) Validate() error {
	var problems []string
	if c.DB.Password == "" {
		problems = append(problems, "DB_PASSWORD is required")
	}
	if c.Valuation.FetchTimeout <= 0 {
		problems = append(problems, "VALUATION_TIMEOUT must be positive")
	}
	for name, v := range map[string]string{"FX_RATE_PROVIDER": c.Providers.FxRates, "PRICE_PROVIDER": c.Providers.Prices} {
		if v != "static" && v != "postgres" {
			problems = append(problems, fmt.Sprintf("%s must be static or postgres, got %q", name, v))
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		problems = append(problems, "KAFKA_BROKERS is required when ingestion is enabled")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPPort: getEnvInt("HTTP_PORT", 8090),
		GRPCPort: getEnvInt("GRPC_PORT", 9090),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "beancounter"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "positions"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 20)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 2)),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "position-service"),
			TrnTopic:      getEnv("KAFKA_TRN_TOPIC", "portfolio.trn.events"),
			Enabled:       getEnvBool("KAFKA_INGEST_ENABLED", true),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:     getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName:  "position-service",
		},
		Valuation: ValuationConfig{
			FetchTimeout:  getEnvDuration("VALUATION_TIMEOUT", 30*time.Second),
			Schedule:      getEnv("VALUATION_SCHEDULE", ""),
			BaseCurrency:  getEnv("BASE_CURRENCY", "USD"),
			MoneyScale:    int32(getEnvInt("MONEY_SCALE", 2)),
			RateScale:     int32(getEnvInt("RATE_SCALE", 8)),
			CostScale:     int32(getEnvInt("COST_SCALE", 10)),
			QuantityScale: int32(getEnvInt("QUANTITY_SCALE", 3)),
		},
		Providers: ProviderConfig{
			FxRates: strings.ToLower(getEnv("FX_RATE_PROVIDER", "static")),
			Prices:  strings.ToLower(getEnv("PRICE_PROVIDER", "static")),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			JWTPublicKey: getEnv("JWT_PUBLIC_KEY", ""),
			Issuer:       getEnv("JWT_ISSUER", ""),
		},
		TLS: TLSConfig{
			CertFile: getEnv("TLS_CERT_FILE", ""),
			KeyFile:  getEnv("TLS_KEY_FILE", ""),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
