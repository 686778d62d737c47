package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Metrics   MetricsConfig
	Engine    EngineConfig
	Schema    SchemaConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	Timezone     string
	MaxOpenConns int
	MaxIdleConns int
}

// JWTConfig only covers verification; tokens are issued by the login service.
type JWTConfig struct {
	Secret      string
	Issuer      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// EngineConfig holds the defaults used when app_settings has no override.
type EngineConfig struct {
	DefaultCommissionPct decimal.Decimal
	CostMode             string
	DamageWarningPct     decimal.Decimal
	TransportWarningPct  decimal.Decimal
	BackfillOnStart      bool
}

type SchemaConfig struct {
	ExpectedVersion int64
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg(".env file not found, using environment variables")
	}

	viper.SetDefault("APP_NAME", "tile-granite-engine")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "tile_granite")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 20)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_ISSUER", "tile-granite-auth")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", true)
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_PATH", "/metrics")
	viper.SetDefault("COMMISSION_DEFAULT_PCT", "0")
	viper.SetDefault("COST_MODE", "detailed")
	viper.SetDefault("DAMAGE_WARNING_PCT", "10")
	viper.SetDefault("TRANSPORT_WARNING_PCT", "20")
	viper.SetDefault("BACKFILL_SALES_USERS_ON_START", false)
	viper.SetDefault("SCHEMA_EXPECTED_VERSION", 3)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			Name:         viper.GetString("DB_NAME"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			SSLMode:      viper.GetString("DB_SSL_MODE"),
			Timezone:     viper.GetString("DB_TIMEZONE"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			Issuer:      viper.GetString("JWT_ISSUER"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
			Path:    viper.GetString("METRICS_PATH"),
		},
		Engine: EngineConfig{
			DefaultCommissionPct: decimalOrZero("COMMISSION_DEFAULT_PCT"),
			CostMode:             viper.GetString("COST_MODE"),
			DamageWarningPct:     decimalOrZero("DAMAGE_WARNING_PCT"),
			TransportWarningPct:  decimalOrZero("TRANSPORT_WARNING_PCT"),
			BackfillOnStart:      viper.GetBool("BACKFILL_SALES_USERS_ON_START"),
		},
		Schema: SchemaConfig{
			ExpectedVersion: viper.GetInt64("SCHEMA_EXPECTED_VERSION"),
		},
	}
}

func decimalOrZero(key string) decimal.Decimal {
	d, err := decimal.NewFromString(viper.GetString(key))
	if err != nil {
		log.Warn().Str("key", key).Err(err).Msg("invalid decimal config value, using 0")
		return decimal.Zero
	}
	return d
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// IsProduction reports whether the service runs with production settings.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
