package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Integrations IntegrationsConfig `mapstructure:"integrations"`
	Benchmarks   BenchmarksConfig   `mapstructure:"benchmarks"`
	Seed         SeedConfig         `mapstructure:"seed"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Host           string   `mapstructure:"host"`
	ReadTimeout    int      `mapstructure:"read_timeout"`
	WriteTimeout   int      `mapstructure:"write_timeout"`
	IdleTimeout    int      `mapstructure:"idle_timeout"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxOpenConns    int `mapstructure:"max_open_conns"`
	MaxIdleConns    int `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig holds cache TTLs in seconds
type CacheConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	ColumnsTTL      int  `mapstructure:"columns_ttl"`
	UniqueValuesTTL int  `mapstructure:"unique_values_ttl"`
	OAuthStateTTL   int  `mapstructure:"oauth_state_ttl"`
}

// AuthConfig holds bearer token settings for the REST API
type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// OAuthClientConfig holds OAuth client credentials for one platform
type OAuthClientConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
	APIBaseURL   string   `mapstructure:"api_base_url"`
}

// IntegrationsConfig holds per-platform integration settings
type IntegrationsConfig struct {
	GoogleSheets   OAuthClientConfig `mapstructure:"google_sheets"`
	LinkedIn       OAuthClientConfig `mapstructure:"linkedin"`
	HubSpot        OAuthClientConfig `mapstructure:"hubspot"`
	RequestTimeout int               `mapstructure:"request_timeout"`
	MaxRows        int               `mapstructure:"max_rows"`
}

// BenchmarksConfig holds benchmark catalog settings
type BenchmarksConfig struct {
	CatalogPath string `mapstructure:"catalog_path"`
}

// SeedConfig controls demo data seeding
type SeedConfig struct {
	DemoData bool `mapstructure:"demo_data"`
}

// LoadConfig loads configuration from environment and config files
func LoadConfig() (*Config, error) {
	viper.SetDefault("server.port", "5000")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.idle_timeout", 120)
	viper.SetDefault("server.allowed_origins", []string{"*"})
	viper.SetDefault("server.trusted_proxies", []string{})
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "performance")
	viper.SetDefault("database.dbname", "performance_core")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 300)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.columns_ttl", 900)
	viper.SetDefault("cache.unique_values_ttl", 300)
	viper.SetDefault("cache.oauth_state_ttl", 600)
	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.issuer", "performance-core")
	viper.SetDefault("integrations.google_sheets.scopes", []string{
		"https://www.googleapis.com/auth/spreadsheets.readonly",
		"https://www.googleapis.com/auth/userinfo.email",
	})
	viper.SetDefault("integrations.google_sheets.api_base_url", "https://sheets.googleapis.com")
	viper.SetDefault("integrations.linkedin.scopes", []string{"r_ads", "r_ads_reporting"})
	viper.SetDefault("integrations.linkedin.api_base_url", "https://api.linkedin.com")
	viper.SetDefault("integrations.hubspot.scopes", []string{"crm.objects.deals.read"})
	viper.SetDefault("integrations.hubspot.api_base_url", "https://api.hubapi.com")
	viper.SetDefault("integrations.request_timeout", 30)
	viper.SetDefault("integrations.max_rows", 5000)
	viper.SetDefault("benchmarks.catalog_path", "")
	viper.SetDefault("seed.demo_data", true)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
