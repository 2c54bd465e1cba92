package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	CartCacheTTL  time.Duration

	KafkaBrokers    []string
	KafkaOrderTopic string

	LogLevel  string
	LogFormat string
	LogFile   string

	// MissingGoodPolicy is either "fail" or "skip".
	MissingGoodPolicy string
}

// Load reads configuration from environment variables. Empty DATABASE_URL,
// REDIS_ADDR and KAFKA_BROKERS switch the matching component to its
// in-process fallback.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SHOP_ADDR", ":8080")
	v.SetDefault("JWT_TTL", "72h")
	v.SetDefault("CART_CACHE_TTL", "15m")
	v.SetDefault("KAFKA_ORDER_TOPIC", "orders.placed")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CART_MISSING_GOOD_POLICY", "fail")

	return Config{
		Addr:              v.GetString("SHOP_ADDR"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTTTL:            v.GetDuration("JWT_TTL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		CartCacheTTL:      v.GetDuration("CART_CACHE_TTL"),
		KafkaBrokers:      splitList(v.GetString("KAFKA_BROKERS")),
		KafkaOrderTopic:   v.GetString("KAFKA_ORDER_TOPIC"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		LogFile:           v.GetString("LOG_FILE"),
		MissingGoodPolicy: strings.ToLower(v.GetString("CART_MISSING_GOOD_POLICY")),
	}
}

// Validate rejects settings the service cannot run safely with. An empty
// JWT_SECRET would let anyone sign tokens the middleware accepts.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
