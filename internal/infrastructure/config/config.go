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
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Telemetry   TelemetryConfig
	Providers   ProvidersConfig
	Messaging   MessagingConfig
	Credentials Credentials
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// IsProduction reports whether the service runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	LogLevel        string
	SlowQueryThresh time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AuthConfig holds settings for verifying access tokens issued by the hosted auth platform
type AuthConfig struct {
	JWTSecret       string
	Issuer          string
	Audience        string
	DefaultTenantID string
}

// HTTPConfig holds HTTP server settings
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	TrustedProxies    []string
}

// TelemetryConfig holds OpenTelemetry settings
type TelemetryConfig struct {
	Enabled           bool
	MetricsEnabled    bool
	LogsEnabled       bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsInterval   time.Duration
}

// ProvidersConfig holds outbound provider call settings
type ProvidersConfig struct {
	// Timeout is the per-request timeout for every provider API
	Timeout time.Duration
	// RequestsPerSecond is the default per-provider rate
	RequestsPerSecond float64
	// Burst is the default per-provider burst size
	Burst int
	// MaxConcurrent is the default per-provider in-flight cap
	MaxConcurrent int64
	// FixturesEnabled lets not-wired adapters return demo orders tagged FIXTURE
	FixturesEnabled bool
}

// MessagingConfig holds inbound message processing settings
type MessagingConfig struct {
	// AutoReplyEnabled answers incoming text messages with the AI adapter
	AutoReplyEnabled bool
	// DedupeTTL is how long a delivered message ID is remembered
	DedupeTTL time.Duration
	// BusinessName is used in AI generated replies
	BusinessName string
}

// Credentials holds every provider credential set
type Credentials struct {
	WhatsApp WhatsAppCredentials
	OpenAI   OpenAICredentials
	Trendyol TrendyolCredentials
	Iyzico   IyzicoCredentials
	Shopify  ShopifyCredentials
	Meta     MetaCredentials
	TikTok   TikTokCredentials
	Amazon   AmazonCredentials
	Ebay     EbayCredentials
}

// WhatsAppCredentials holds WhatsApp Business API credentials
type WhatsAppCredentials struct {
	PhoneNumberID     string
	AccessToken       string
	BusinessAccountID string
	VerifyToken       string
	AppSecret         string
}

// OpenAICredentials holds the OpenAI API key
type OpenAICredentials struct {
	APIKey string
}

// TrendyolCredentials holds Trendyol supplier API credentials
type TrendyolCredentials struct {
	SupplierID string
	APIKey     string
	APISecret  string
}

// IyzicoCredentials holds iyzico API credentials
type IyzicoCredentials struct {
	APIKey     string
	SecretKey  string
	Production bool
}

// ShopifyCredentials holds Shopify Admin API credentials
type ShopifyCredentials struct {
	ShopName    string
	AccessToken string
}

// MetaCredentials holds Meta Graph API credentials
type MetaCredentials struct {
	AccessToken string
	PageID      string
	CatalogID   string
	Platform    string // facebook or instagram
}

// TikTokCredentials holds TikTok Shop Open API credentials
type TikTokCredentials struct {
	AppKey      string
	AppSecret   string
	AccessToken string
	ShopID      string
	Region      string
}

// AmazonCredentials holds Amazon seller credentials
type AmazonCredentials struct {
	SellerID      string
	MWSAuthToken  string
	MarketplaceID string
	Region        string
}

// EbayCredentials holds eBay developer credentials
type EbayCredentials struct {
	AppID       string
	CertID      string
	DevID       string
	AuthToken   string
	Environment string
}

// Load reads configuration from config.toml (optional), SIPARISBOT_* environment
// variables and the VITE_* provider credential variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SIPARISBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range credentialBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("database.enabled"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			LogLevel:        v.GetString("database.log_level"),
			SlowQueryThresh: v.GetDuration("database.slow_query_threshold"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWTSecret:       v.GetString("auth.jwt_secret"),
			Issuer:          v.GetString("auth.issuer"),
			Audience:        v.GetString("auth.audience"),
			DefaultTenantID: v.GetString("auth.default_tenant_id"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
		},
		Providers: ProvidersConfig{
			Timeout:           v.GetDuration("providers.timeout"),
			RequestsPerSecond: v.GetFloat64("providers.requests_per_second"),
			Burst:             v.GetInt("providers.burst"),
			MaxConcurrent:     v.GetInt64("providers.max_concurrent"),
			FixturesEnabled:   v.GetBool("providers.fixtures_enabled"),
		},
		Messaging: MessagingConfig{
			AutoReplyEnabled: v.GetBool("messaging.auto_reply_enabled"),
			DedupeTTL:        v.GetDuration("messaging.dedupe_ttl"),
			BusinessName:     v.GetString("messaging.business_name"),
		},
		Credentials: Credentials{
			WhatsApp: WhatsAppCredentials{
				PhoneNumberID:     v.GetString("credentials.whatsapp.phone_number_id"),
				AccessToken:       v.GetString("credentials.whatsapp.access_token"),
				BusinessAccountID: v.GetString("credentials.whatsapp.business_account_id"),
				VerifyToken:       v.GetString("credentials.whatsapp.verify_token"),
				AppSecret:         v.GetString("credentials.whatsapp.app_secret"),
			},
			OpenAI: OpenAICredentials{
				APIKey: v.GetString("credentials.openai.api_key"),
			},
			Trendyol: TrendyolCredentials{
				SupplierID: v.GetString("credentials.trendyol.supplier_id"),
				APIKey:     v.GetString("credentials.trendyol.api_key"),
				APISecret:  v.GetString("credentials.trendyol.api_secret"),
			},
			Iyzico: IyzicoCredentials{
				APIKey:    v.GetString("credentials.iyzico.api_key"),
				SecretKey: v.GetString("credentials.iyzico.secret_key"),
				// only the exact string "true" selects production
				Production: v.GetString("credentials.iyzico.production") == "true",
			},
			Shopify: ShopifyCredentials{
				ShopName:    v.GetString("credentials.shopify.shop_name"),
				AccessToken: v.GetString("credentials.shopify.access_token"),
			},
			Meta: MetaCredentials{
				AccessToken: v.GetString("credentials.meta.access_token"),
				PageID:      v.GetString("credentials.meta.page_id"),
				CatalogID:   v.GetString("credentials.meta.catalog_id"),
				Platform:    v.GetString("credentials.meta.platform"),
			},
			TikTok: TikTokCredentials{
				AppKey:      v.GetString("credentials.tiktok.app_key"),
				AppSecret:   v.GetString("credentials.tiktok.app_secret"),
				AccessToken: v.GetString("credentials.tiktok.access_token"),
				ShopID:      v.GetString("credentials.tiktok.shop_id"),
				Region:      v.GetString("credentials.tiktok.region"),
			},
			Amazon: AmazonCredentials{
				SellerID:      v.GetString("credentials.amazon.seller_id"),
				MWSAuthToken:  v.GetString("credentials.amazon.mws_auth_token"),
				MarketplaceID: v.GetString("credentials.amazon.marketplace_id"),
				Region:        v.GetString("credentials.amazon.region"),
			},
			Ebay: EbayCredentials{
				AppID:       v.GetString("credentials.ebay.app_id"),
				CertID:      v.GetString("credentials.ebay.cert_id"),
				DevID:       v.GetString("credentials.ebay.dev_id"),
				AuthToken:   v.GetString("credentials.ebay.auth_token"),
				Environment: v.GetString("credentials.ebay.environment"),
			},
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "siparisbot-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "siparisbot"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}
	if cfg.Database.SlowQueryThresh == 0 {
		cfg.Database.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "siparisbot"
	}
	if cfg.Auth.DefaultTenantID == "" {
		cfg.Auth.DefaultTenantID = "00000000-0000-0000-0000-000000000001"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// provider calls may take the full provider timeout
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "siparisbot-backend"
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Providers.Timeout == 0 {
		cfg.Providers.Timeout = 30 * time.Second
	}
	if cfg.Providers.RequestsPerSecond == 0 {
		cfg.Providers.RequestsPerSecond = 5
	}
	if cfg.Providers.Burst == 0 {
		cfg.Providers.Burst = 5
	}
	if cfg.Providers.MaxConcurrent == 0 {
		cfg.Providers.MaxConcurrent = 4
	}
	if cfg.Messaging.DedupeTTL == 0 {
		cfg.Messaging.DedupeTTL = 24 * time.Hour
	}
	if cfg.Messaging.BusinessName == "" {
		cfg.Messaging.BusinessName = "SiparişBot"
	}
	if cfg.Credentials.WhatsApp.VerifyToken == "" {
		cfg.Credentials.WhatsApp.VerifyToken = DefaultWhatsAppVerifyToken
	}
	if cfg.Credentials.Meta.Platform == "" {
		cfg.Credentials.Meta.Platform = "facebook"
	}
	if cfg.Credentials.TikTok.Region == "" {
		cfg.Credentials.TikTok.Region = "US"
	}
	if cfg.Credentials.Amazon.Region == "" {
		cfg.Credentials.Amazon.Region = "EU"
	}
	if cfg.Credentials.Ebay.Environment == "" {
		cfg.Credentials.Ebay.Environment = "sandbox"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Providers.RequestsPerSecond < 0 {
		return fmt.Errorf("providers.requests_per_second cannot be negative")
	}
	if c.Credentials.Meta.Platform != "facebook" && c.Credentials.Meta.Platform != "instagram" {
		return fmt.Errorf("%s must be facebook or instagram, got %q", KeyMetaPlatform, c.Credentials.Meta.Platform)
	}

	if c.App.IsProduction() {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required in production")
		}
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("auth.jwt_secret must be at least 32 characters in production")
		}
		if c.Database.Enabled {
			if c.Database.Password == "" {
				return fmt.Errorf("database.password is required in production")
			}
			if c.Database.SSLMode == "disable" {
				return fmt.Errorf("database.sslmode cannot be 'disable' in production")
			}
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Providers.FixturesEnabled {
			return fmt.Errorf("providers.fixtures_enabled must be false in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
