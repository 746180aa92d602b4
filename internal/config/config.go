package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// APIBaseURL is the root of the backend HTTP contract.
	APIBaseURL string
	// RequestTimeout bounds every outbound API call.
	RequestTimeout time.Duration
	// StorePath is the durable client storage file.
	StorePath string
	// PollInterval is one countdown tick of the tracking view.
	PollInterval time.Duration
	// KafkaBrokers and OrderEventsTopic configure the realtime
	// order-events subscription. Empty brokers disable it.
	KafkaBrokers     string
	OrderEventsTopic string
	// MetricsAddr is the debug listener serving /metrics. Empty disables it.
	MetricsAddr string
	// DemoMode allows a fabricated offline session when the backend is
	// unreachable during login. Development convenience only.
	DemoMode bool
	Verbose  bool
}

// Load reads configuration from the environment, with a .env file as
// an optional source for local development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:       getEnv("API_BASE_URL", "http://localhost:5000/api"),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 10*time.Second),
		StorePath:        getEnv("STORE_PATH", "storefront.json"),
		PollInterval:     getDuration("POLL_INTERVAL", time.Second),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", ""),
		OrderEventsTopic: getEnv("ORDER_EVENTS_TOPIC", "order_events"),
		MetricsAddr:      getEnv("METRICS_ADDR", ""),
		DemoMode:         getBool("DEMO_MODE", false),
		Verbose:          getBool("VERBOSE", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
