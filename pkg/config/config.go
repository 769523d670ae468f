package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Cache backend selection for the analytics result cache.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Engine      EngineConfig
	Accelerator AcceleratorConfig
	Auth        AuthConfig
	Exports     ExportsConfig
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EngineConfig tunes the analytics engine and its result cache.
type EngineConfig struct {
	CacheBackend string
	CacheTTL     time.Duration
	MaxGrade     float64
	PassingGrade float64
	GPAMax       float64
}

// AcceleratorConfig points at the optional native computation service.
type AcceleratorConfig struct {
	Enabled        bool
	BaseURL        string
	HealthTimeout  time.Duration
	RequestTimeout time.Duration
}

// AuthConfig provisions API clients allowed to request tokens.
// Clients is a comma-separated list of id:bcrypt-hash pairs.
type AuthConfig struct {
	Clients []string
}

// ExportsConfig gates report export endpoints.
type ExportsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Enabled:      v.GetBool("DB_ENABLED"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Engine = EngineConfig{
		CacheBackend: v.GetString("ENGINE_CACHE_BACKEND"),
		CacheTTL:     parseDuration(v.GetString("ENGINE_CACHE_TTL"), time.Minute),
		MaxGrade:     v.GetFloat64("SCALE_MAX_GRADE"),
		PassingGrade: v.GetFloat64("SCALE_PASSING_GRADE"),
		GPAMax:       v.GetFloat64("SCALE_GPA_MAX"),
	}

	cfg.Accelerator = AcceleratorConfig{
		Enabled:        v.GetBool("ACCEL_ENABLED"),
		BaseURL:        v.GetString("ACCEL_BASE_URL"),
		HealthTimeout:  parseDuration(v.GetString("ACCEL_HEALTH_TIMEOUT"), 2*time.Second),
		RequestTimeout: parseDuration(v.GetString("ACCEL_REQUEST_TIMEOUT"), 5*time.Second),
	}

	cfg.Auth = AuthConfig{Clients: splitAndTrim(v.GetString("AUTH_CLIENTS"))}

	cfg.Exports = ExportsConfig{Enabled: v.GetBool("ENABLE_EXPORTS")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "grade_analytics")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "grade-analytics-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENGINE_CACHE_BACKEND", CacheBackendMemory)
	v.SetDefault("ENGINE_CACHE_TTL", "60s")
	v.SetDefault("SCALE_MAX_GRADE", 10.0)
	v.SetDefault("SCALE_PASSING_GRADE", 5.5)
	v.SetDefault("SCALE_GPA_MAX", 4.0)

	v.SetDefault("ACCEL_ENABLED", false)
	v.SetDefault("ACCEL_BASE_URL", "http://localhost:9090")
	v.SetDefault("ACCEL_HEALTH_TIMEOUT", "2s")
	v.SetDefault("ACCEL_REQUEST_TIMEOUT", "5s")

	v.SetDefault("AUTH_CLIENTS", "")
	v.SetDefault("ENABLE_EXPORTS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
