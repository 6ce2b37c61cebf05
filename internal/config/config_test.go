package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL": "postgres://localhost/aurora",
		"REDIS_URL":    "redis://localhost:6379/0",
		"JWT_SECRET":   "test-secret",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(baseEnv())
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "USD", cfg.CurrencyCode)
	require.True(t, cfg.Pricing.DynamicEnabled)
	require.Equal(t, 10, cfg.Pricing.LowStockThreshold)
	require.Equal(t, 1500, cfg.Pricing.LowStockDiscountBps)
	require.Equal(t, 1000, cfg.Pricing.TaxRateBps)
	require.Equal(t, int64(1000), cfg.Pricing.ShippingFlatFee)
	require.Equal(t, 99, cfg.Cart.MaxLineQty)
	require.Equal(t, 5*time.Second, cfg.Checkout.TxTimeout)
	require.Equal(t, 2*time.Second, cfg.Checkout.LockTimeout)
	require.Equal(t, 1, cfg.Voucher.DefaultPerCustomerLimit)
	require.Len(t, cfg.Milestone.Tiers, 3)
	require.Equal(t, "Bronze", cfg.Milestone.Tiers[0].Name)
	require.False(t, cfg.Kafka.Enabled())
	require.Equal(t, "auroramart", cfg.Obs.MetricsNamespace)
	require.False(t, cfg.Obs.EnableTracing)
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = ":9000"
	env["PRICING_DYNAMIC_ENABLED"] = "false"
	env["PRICING_LOW_STOCK_DISCOUNT_BPS"] = "2000"
	env["KAFKA_BROKERS"] = "kafka-1:9092, kafka-2:9092"
	env["CHECKOUT_TX_TIMEOUT"] = "not-a-duration"

	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTPAddr())
	require.False(t, cfg.Pricing.DynamicEnabled)
	require.Equal(t, 2000, cfg.Pricing.LowStockDiscountBps)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	require.True(t, cfg.Kafka.Enabled())
	require.Equal(t, 5*time.Second, cfg.Checkout.TxTimeout)
}

func TestLoadRequiresSecrets(t *testing.T) {
	env := baseEnv()
	env["JWT_SECRET"] = ""
	_, err := LoadForTests(env)
	require.Error(t, err)
}

func TestLoadRejectsDiscountOutOfRange(t *testing.T) {
	env := baseEnv()
	env["PRICING_LOW_STOCK_DISCOUNT_BPS"] = "12000"
	_, err := LoadForTests(env)
	require.Error(t, err)
}

func TestParseMilestoneTiers(t *testing.T) {
	tiers, err := ParseMilestoneTiers("100000:Gold:5000, 10000:Bronze, 50000:Silver:2500")
	require.NoError(t, err)
	require.Equal(t, []MilestoneTier{
		{Threshold: 10000, Name: "Bronze"},
		{Threshold: 50000, Name: "Silver", Reward: 2500},
		{Threshold: 100000, Name: "Gold", Reward: 5000},
	}, tiers)

	_, err = ParseMilestoneTiers("100:Bronze,100:Again")
	require.Error(t, err)
	_, err = ParseMilestoneTiers("abc:Bronze")
	require.Error(t, err)
	_, err = ParseMilestoneTiers("100")
	require.Error(t, err)
}
