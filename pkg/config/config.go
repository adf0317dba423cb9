package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	DataGoKr DataGoKrConfig
	Cache    CacheConfig
	Redis    RedisConfig
	OpenAI   OpenAIConfig
	Region   RegionConfig
	Triage   TriageConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// DataGoKrConfig holds configuration for the data.go.kr facility sources
type DataGoKrConfig struct {
	ServiceKey string
	BaseURL    string
	Timeout    time.Duration
}

// Configured reports whether a service credential is present
func (c *DataGoKrConfig) Configured() bool {
	return strings.TrimSpace(c.ServiceKey) != ""
}

// CacheConfig selects the raw record cache backend
type CacheConfig struct {
	Backend    string // memory | redis
	TTLSeconds int
}

// TTL returns the cache entry lifetime
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey         string
	Model          string
	Timeout        time.Duration
	RateLimitRPM   int
	RateLimitBurst int
}

// RegionConfig holds the region used when a voice turn carries none
type RegionConfig struct {
	DefaultProvince string
	DefaultDistrict string
}

// TriageConfig points at an optional keyword override file
type TriageConfig struct {
	KeywordsPath string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from the environment, falling back to a .env
// file in the working directory when one exists.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom loads configuration using envFile as the optional dotenv source.
func LoadFrom(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("DATA_GO_KR_BASE_URL", "http://apis.data.go.kr/B552657")
	v.SetDefault("DATA_GO_KR_TIMEOUT", "8s")
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("CACHE_TTL_SECONDS", 600)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_TIMEOUT", "10s")
	v.SetDefault("OPENAI_RATE_LIMIT_RPM", 60)
	v.SetDefault("OPENAI_RATE_LIMIT_BURST", 5)
	v.SetDefault("DEFAULT_Q0", "서울특별시")
	v.SetDefault("DEFAULT_Q1", "종로구")
	v.SetDefault("OTEL_SERVICE_NAME", "ai-care-manager")
	v.SetDefault("OTEL_SERVICE_VERSION", "0.1.0")
	v.SetDefault("OTEL_ENABLED", false)

	// The legacy DATAGOKR_API_KEY name is still accepted.
	if err := v.BindEnv("DATA_GO_KR_SERVICE_KEY", "DATA_GO_KR_SERVICE_KEY", "DATAGOKR_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	// A missing .env file is not an error.
	_ = v.ReadInConfig()

	serviceKey := v.GetString("DATA_GO_KR_SERVICE_KEY")
	if serviceKey == "" {
		serviceKey = v.GetString("DATAGOKR_API_KEY")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetInt("SERVER_PORT"),
			Env:            v.GetString("ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		DataGoKr: DataGoKrConfig{
			ServiceKey: decodeServiceKey(serviceKey),
			BaseURL:    strings.TrimRight(v.GetString("DATA_GO_KR_BASE_URL"), "/"),
			Timeout:    v.GetDuration("DATA_GO_KR_TIMEOUT"),
		},
		Cache: CacheConfig{
			Backend:    strings.ToLower(v.GetString("CACHE_BACKEND")),
			TTLSeconds: v.GetInt("CACHE_TTL_SECONDS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         v.GetString("OPENAI_API_KEY"),
			Model:          v.GetString("OPENAI_MODEL"),
			Timeout:        v.GetDuration("OPENAI_TIMEOUT"),
			RateLimitRPM:   v.GetInt("OPENAI_RATE_LIMIT_RPM"),
			RateLimitBurst: v.GetInt("OPENAI_RATE_LIMIT_BURST"),
		},
		Region: RegionConfig{
			DefaultProvince: v.GetString("DEFAULT_Q0"),
			DefaultDistrict: v.GetString("DEFAULT_Q1"),
		},
		Triage: TriageConfig{
			KeywordsPath: v.GetString("TRIAGE_KEYWORDS_PATH"),
		},
		OTEL: OTELConfig{
			ServiceName:    v.GetString("OTEL_SERVICE_NAME"),
			ServiceVersion: v.GetString("OTEL_SERVICE_VERSION"),
			Endpoint:       v.GetString("OTEL_ENDPOINT"),
			Enabled:        v.GetBool("OTEL_ENABLED"),
		},
	}

	if cfg.Cache.Backend != "memory" && cfg.Cache.Backend != "redis" {
		return nil, fmt.Errorf("unsupported CACHE_BACKEND %q", cfg.Cache.Backend)
	}
	if cfg.Cache.TTLSeconds <= 0 {
		return nil, fmt.Errorf("CACHE_TTL_SECONDS must be positive, got %d", cfg.Cache.TTLSeconds)
	}

	return cfg, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// decodeServiceKey accepts keys pasted in percent-encoded form from the
// data.go.kr console.
func decodeServiceKey(raw string) string {
	key := strings.TrimSpace(raw)
	if !strings.Contains(key, "%") {
		return key
	}
	decoded, err := url.PathUnescape(key)
	if err != nil {
		return key
	}
	return decoded
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
