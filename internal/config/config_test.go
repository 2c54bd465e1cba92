package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SHOP_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 15*time.Minute, cfg.CartCacheTTL)
	assert.Equal(t, "orders.placed", cfg.KafkaOrderTopic)
	assert.Equal(t, "fail", cfg.MissingGoodPolicy)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SHOP_ADDR", ":9090")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CART_MISSING_GOOD_POLICY", "SKIP")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "skip", cfg.MissingGoodPolicy)
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.EqualError(t, Load().Validate(), "JWT_SECRET must be set")

	t.Setenv("JWT_SECRET", "   ")
	assert.Error(t, Load().Validate())

	t.Setenv("JWT_SECRET", "s3cret")
	assert.NoError(t, Load().Validate())

	t.Setenv("JWT_TTL", "0s")
	assert.EqualError(t, Load().Validate(), "JWT_TTL must be positive")
}
