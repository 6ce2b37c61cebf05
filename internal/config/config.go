package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const defaultMilestoneTiers = "10000:Bronze:500,50000:Silver:2500,100000:Gold:5000"

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	CORSAllowedOrigins []string
	CurrencyCode       string

	Pricing   PricingConfig
	Cart      CartConfig
	Checkout  CheckoutConfig
	Voucher   VoucherConfig
	Milestone MilestoneConfig
	Cache     CacheConfig
	Kafka     KafkaConfig
	Worker    WorkerConfig
	Obs       ObsConfig

	IdempotencyTTL   time.Duration
	LockTTL          time.Duration
	LockRetryBackoff time.Duration
	APIRateLimit     string
	MaxBodyBytes     int64
}

// PricingConfig carries the dynamic pricing rule and the fee schedule.
type PricingConfig struct {
	DynamicEnabled      bool
	LowStockThreshold   int
	LowStockDiscountBps int
	TaxRateBps          int
	ShippingFlatFee     int64
	FreeShippingAbove   int64
}

type CartConfig struct {
	TTL         time.Duration
	MaxLineQty  int
	SessionName string
}

type CheckoutConfig struct {
	TxTimeout   time.Duration
	LockTimeout time.Duration
	RateLimit   int
	RateWindow  time.Duration
}

type VoucherConfig struct {
	DefaultPerCustomerLimit int
}

// MilestoneTier is one configured badge tier; amounts are minor units.
type MilestoneTier struct {
	Threshold int64
	Name      string
	Reward    int64
}

type MilestoneConfig struct {
	Tiers          []MilestoneTier
	RewardMinSpend int64
	RewardValidity time.Duration
}

type CacheConfig struct {
	CatalogTTL time.Duration
}

type KafkaConfig struct {
	Brokers      []string
	Topic        string
	PollInterval time.Duration
	BatchSize    int
}

// Enabled reports whether the outbox relay has somewhere to publish.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type WorkerConfig struct {
	Concurrency int
}

// ObsConfig controls logging, metrics and tracing.
type ObsConfig struct {
	LogFormat        string
	LogLevel         string
	MetricsNamespace string
	EnablePrometheus bool
	HistogramBuckets string
	EnableTracing    bool
	OTLPEndpoint     string
	SamplingRatio    float64
	PprofEnabled     bool
	PprofUser        string
	PprofPass        string
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	tiers, err := ParseMilestoneTiers(valueOrDefault(k.String("MILESTONE_TIERS"), defaultMilestoneTiers))
	if err != nil {
		return nil, fmt.Errorf("MILESTONE_TIERS: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		JWTSecret:          k.String("JWT_SECRET"),
		JWTIssuer:          strings.TrimSpace(k.String("JWT_ISSUER")),
		JWTAudience:        strings.TrimSpace(k.String("JWT_AUDIENCE")),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		CurrencyCode:       strings.ToUpper(valueOrDefault(k.String("CURRENCY_CODE"), "USD")),
		Pricing: PricingConfig{
			DynamicEnabled:      parseBoolDefault(k.String("PRICING_DYNAMIC_ENABLED"), true),
			LowStockThreshold:   parseInt(k.String("PRICING_LOW_STOCK_THRESHOLD"), 10),
			LowStockDiscountBps: parseInt(k.String("PRICING_LOW_STOCK_DISCOUNT_BPS"), 1500),
			TaxRateBps:          parseInt(k.String("PRICING_TAX_RATE_BPS"), 1000),
			ShippingFlatFee:     parseInt64(k.String("SHIPPING_FLAT_FEE"), 1000),
			FreeShippingAbove:   parseInt64(k.String("SHIPPING_FREE_THRESHOLD"), 0),
		},
		Cart: CartConfig{
			TTL:         parseDuration(k.String("CART_TTL"), "720h"),
			MaxLineQty:  parseInt(k.String("CART_MAX_LINE_QTY"), 99),
			SessionName: valueOrDefault(k.String("CART_SESSION_HEADER"), "X-Cart-Session"),
		},
		Checkout: CheckoutConfig{
			TxTimeout:   parseDuration(k.String("CHECKOUT_TX_TIMEOUT"), "5s"),
			LockTimeout: parseDuration(k.String("CHECKOUT_LOCK_TIMEOUT"), "2s"),
			RateLimit:   parseInt(k.String("CHECKOUT_RATE_LIMIT"), 10),
			RateWindow:  parseDuration(k.String("CHECKOUT_RATE_WINDOW"), "1m"),
		},
		Voucher: VoucherConfig{
			DefaultPerCustomerLimit: parseInt(k.String("VOUCHER_DEFAULT_PER_CUSTOMER_LIMIT"), 1),
		},
		Milestone: MilestoneConfig{
			Tiers:          tiers,
			RewardMinSpend: parseInt64(k.String("MILESTONE_REWARD_MIN_SPEND"), 0),
			RewardValidity: parseDuration(k.String("MILESTONE_REWARD_VALIDITY"), "8760h"),
		},
		Cache: CacheConfig{
			CatalogTTL: parseDuration(k.String("CATALOG_CACHE_TTL"), "30s"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitAndTrim(k.String("KAFKA_BROKERS")),
			Topic:        valueOrDefault(k.String("KAFKA_TOPIC"), "auroramart.events"),
			PollInterval: parseDuration(k.String("OUTBOX_POLL_INTERVAL"), "1s"),
			BatchSize:    parseInt(k.String("OUTBOX_BATCH_SIZE"), 100),
		},
		Worker: WorkerConfig{
			Concurrency: parseInt(k.String("WORKER_CONCURRENCY"), 10),
		},
		Obs: ObsConfig{
			LogFormat:        valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
			LogLevel:         valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
			MetricsNamespace: valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "auroramart"),
			EnablePrometheus: parseBoolDefault(k.String("OBS_ENABLE_PROMETHEUS"), true),
			HistogramBuckets: valueOrDefault(k.String("OBS_HISTOGRAM_BUCKETS"), "5,10,25,50,100,250,500,1000,2500"),
			EnableTracing:    parseBool(k.String("OBS_ENABLE_TRACING")),
			OTLPEndpoint:     strings.TrimSpace(k.String("OBS_OTLP_ENDPOINT")),
			SamplingRatio:    parseFloat(k.String("OBS_TRACING_SAMPLING_RATIO"), 1.0),
			PprofEnabled:     parseBool(k.String("OBS_ENABLE_PPROF")),
			PprofUser:        k.String("OBS_PPROF_USER"),
			PprofPass:        k.String("OBS_PPROF_PASS"),
		},
		IdempotencyTTL:   parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		LockTTL:          parseDuration(k.String("LOCK_TTL"), "10s"),
		LockRetryBackoff: parseDuration(k.String("LOCK_RETRY_BACKOFF"), "50ms"),
		APIRateLimit:     valueOrDefault(k.String("API_RATE_LIMIT"), "300-M"),
		MaxBodyBytes:     parseInt64(k.String("MAX_BODY_BYTES"), 1<<20),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.Pricing.LowStockDiscountBps < 0 || cfg.Pricing.LowStockDiscountBps > 10000 {
		return nil, errors.New("PRICING_LOW_STOCK_DISCOUNT_BPS must be between 0 and 10000")
	}
	if cfg.Pricing.TaxRateBps < 0 {
		return nil, errors.New("PRICING_TAX_RATE_BPS must not be negative")
	}
	if cfg.Cart.MaxLineQty <= 0 {
		return nil, errors.New("CART_MAX_LINE_QTY must be positive")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// ParseMilestoneTiers parses "threshold:name[:reward]" entries separated by commas.
// The result is sorted by threshold; duplicate thresholds are rejected.
func ParseMilestoneTiers(value string) ([]MilestoneTier, error) {
	entries := splitAndTrim(value)
	tiers := make([]MilestoneTier, 0, len(entries))
	seen := make(map[int64]struct{}, len(entries))
	for _, entry := range entries {
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid tier %q", entry)
		}
		threshold, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil || threshold <= 0 {
			return nil, fmt.Errorf("invalid tier threshold %q", parts[0])
		}
		name := strings.TrimSpace(parts[1])
		if name == "" {
			return nil, fmt.Errorf("tier %q has no name", entry)
		}
		var reward int64
		if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
			reward, err = strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
			if err != nil || reward < 0 {
				return nil, fmt.Errorf("invalid tier reward %q", parts[2])
			}
		}
		if _, dup := seen[threshold]; dup {
			return nil, fmt.Errorf("duplicate tier threshold %d", threshold)
		}
		seen[threshold] = struct{}{}
		tiers = append(tiers, MilestoneTier{Threshold: threshold, Name: name, Reward: reward})
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Threshold < tiers[j].Threshold })
	return tiers, nil
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseBoolDefault(value string, fallback bool) bool {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return parseBool(value)
}

func parseInt(value string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return v
}

func parseInt64(value string, fallback int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseFloat(value string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return v
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
