package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the water quality index backend
type Config struct {
	Server  ServerConfig
	MQTT    MQTTConfig
	Scoring ScoringConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MQTTConfig holds MQTT broker configuration
type MQTTConfig struct {
	BrokerURL    string
	ClientID     string
	Username     string
	Password     string
	KeepAlive    time.Duration
	PingTimeout  time.Duration
	ConnectRetry bool
	// TopicMeasurements is a subscription filter; the variant is the
	// segment matched by "+".
	TopicMeasurements string
	// TopicResults is a format string taking the variant.
	TopicResults string
}

// ScoringConfig holds index engine settings
type ScoringConfig struct {
	DefaultVariant string
}

// Enabled reports whether an MQTT broker is configured
func (m MQTTConfig) Enabled() bool {
	return m.BrokerURL != ""
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		MQTT: MQTTConfig{
			BrokerURL:         getMQTTBrokerURL(),
			ClientID:          getEnv("MQTT_CLIENT_ID", "aquasmart_wqi"),
			Username:          getEnv("MQTT_USERNAME", ""),
			Password:          getEnv("MQTT_PASSWORD", ""),
			KeepAlive:         getDurationEnv("MQTT_KEEP_ALIVE", 30*time.Second),
			PingTimeout:       getDurationEnv("MQTT_PING_TIMEOUT", 10*time.Second),
			ConnectRetry:      getBoolEnv("MQTT_CONNECT_RETRY", true),
			TopicMeasurements: getEnv("MQTT_TOPIC_MEASUREMENTS", "aquasmart/wqi/+/measurements"),
			TopicResults:      getEnv("MQTT_TOPIC_RESULTS", "aquasmart/wqi/%s/results"),
		},
		Scoring: ScoringConfig{
			DefaultVariant: strings.ToLower(getEnv("WQI_DEFAULT_VARIANT", "wpi")),
		},
	}
}

// getEnv returns environment variable value or default if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv returns duration environment variable value or default if not set
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getBoolEnv returns boolean environment variable value or default if not set
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getMQTTBrokerURL returns the broker URL with a tcp:// prefix if no scheme is given.
// An unset broker disables MQTT.
func getMQTTBrokerURL() string {
	broker := getEnv("MQTT_BROKER", getEnv("MQTT_BROKER_URL", ""))
	if broker == "" {
		return ""
	}

	if !strings.Contains(broker, "://") {
		return "tcp://" + broker
	}
	return broker
}
