package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "LOGITRACK"

type AppConfig struct {
	App       AppSettings       `mapstructure:"app"`
	Postgres  PostgresSettings  `mapstructure:"postgres"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Kafka     KafkaSettings     `mapstructure:"kafka"`
	JWT       JWTSettings       `mapstructure:"jwt"`
	Telemetry TelemetrySettings `mapstructure:"telemetry"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
	Security  SecuritySettings  `mapstructure:"security"`
	CORS      CORSSettings      `mapstructure:"cors"`
}

type AppSettings struct {
	Name            string        `mapstructure:"name"`
	Env             string        `mapstructure:"env"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	Schema            string        `mapstructure:"schema"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// RedisSettings configures the Redis connection and key namespaces.
type RedisSettings struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	DB               int           `mapstructure:"db"`
	Password         string        `mapstructure:"password"`
	TLSEnabled       bool          `mapstructure:"tls_enabled"`
	RevocationPrefix string        `mapstructure:"revocation_prefix"`
	RateLimitPrefix  string        `mapstructure:"rate_limit_prefix"`
	RateLimitTTL     time.Duration `mapstructure:"rate_limit_ttl"`
}

// KafkaSettings configures event publishing. An empty broker list selects the
// logging publisher.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`

	// ConsumerGroup is the group id of the credential revocation consumer.
	ConsumerGroup string `mapstructure:"consumer_group"`
}

// JWTSettings configures credential verification. Issuer and audience default
// to the application name.
type JWTSettings struct {
	KeyDirectory  string        `mapstructure:"key_directory"`
	Issuer        string        `mapstructure:"issuer"`
	Audience      string        `mapstructure:"audience"`
	CredentialTTL time.Duration `mapstructure:"credential_ttl"`
}

type TelemetrySettings struct {
	TracingEnabled bool    `mapstructure:"tracing_enabled"`
	OTLPEndpoint   string  `mapstructure:"otlp_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// RateLimitSettings configures the sliding windows applied to the API.
type RateLimitSettings struct {
	WindowDuration       time.Duration `mapstructure:"window_duration"`
	PrincipalMaxRequests int           `mapstructure:"principal_max_requests"`
	IPMaxRequests        int           `mapstructure:"ip_max_requests"`
}

type SecuritySettings struct {
	// ConcealCrossTenant reports cross-tenant denials as 404 at the HTTP edge.
	ConcealCrossTenant bool   `mapstructure:"conceal_cross_tenant"`
	DegradationPolicy  string `mapstructure:"degradation_policy"`
	SecureCookies      bool   `mapstructure:"secure_cookies"`
}

type CORSSettings struct {
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxAge         time.Duration `mapstructure:"max_age"`
}

var envKeys = []string{
	"app.name",
	"app.env",
	"app.host",
	"app.port",
	"app.shutdown_timeout",
	"postgres.host",
	"postgres.port",
	"postgres.user",
	"postgres.password",
	"postgres.database",
	"postgres.schema",
	"postgres.ssl_mode",
	"postgres.max_conns",
	"postgres.min_conns",
	"postgres.max_conn_lifetime",
	"postgres.max_conn_idle_time",
	"postgres.health_check_period",
	"redis.host",
	"redis.port",
	"redis.db",
	"redis.password",
	"redis.tls_enabled",
	"redis.revocation_prefix",
	"redis.rate_limit_prefix",
	"redis.rate_limit_ttl",
	"kafka.brokers",
	"kafka.topic_prefix",
	"kafka.consumer_group",
	"jwt.key_directory",
	"jwt.issuer",
	"jwt.audience",
	"jwt.credential_ttl",
	"telemetry.tracing_enabled",
	"telemetry.otlp_endpoint",
	"telemetry.service_name",
	"telemetry.sampling_rate",
	"rate_limit.window_duration",
	"rate_limit.principal_max_requests",
	"rate_limit.ip_max_requests",
	"security.conceal_cross_tenant",
	"security.degradation_policy",
	"security.secure_cookies",
	"cors.allowed_origins",
	"cors.max_age",
}

// Load reads configuration from defaults and LOGITRACK_ prefixed environment variables.
func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)

	setDefaults(v)

	if err := bindEnvs(v, envKeys); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = cfg.App.Name
	}
	if cfg.JWT.Audience == "" {
		cfg.JWT.Audience = cfg.App.Name
	}

	return &cfg, nil
}

// Settings returns the configuration grouped by section with secrets masked.
func (c *AppConfig) Settings() map[string]any {
	pg := c.Postgres
	if pg.Password != "" {
		pg.Password = "***"
	}
	rd := c.Redis
	if rd.Password != "" {
		rd.Password = "***"
	}

	return map[string]any{
		"app":        c.App,
		"postgres":   pg,
		"redis":      rd,
		"kafka":      c.Kafka,
		"jwt":        c.JWT,
		"telemetry":  c.Telemetry,
		"rate_limit": c.RateLimit,
		"security":   c.Security,
		"cors":       c.CORS,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "logitrack")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.shutdown_timeout", "15s")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "logitrack")
	v.SetDefault("postgres.password", "logitrack")
	v.SetDefault("postgres.database", "logitrack")
	v.SetDefault("postgres.schema", "logitrack")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.tls_enabled", false)
	v.SetDefault("redis.revocation_prefix", "logitrack:revoked")
	v.SetDefault("redis.rate_limit_prefix", "logitrack:rl")
	v.SetDefault("redis.rate_limit_ttl", "2m")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_prefix", "logitrack")
	v.SetDefault("kafka.consumer_group", true)

	v.SetDefault("jwt.key_directory", "./secrets")
	v.SetDefault("jwt.issuer", "")
	v.SetDefault("jwt.audience", "")
	v.SetDefault("jwt.credential_ttl", "12h")

	v.SetDefault("telemetry.tracing_enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4318")
	v.SetDefault("telemetry.service_name", "logitrack-api")
	v.SetDefault("telemetry.sampling_rate", 1.0)

	v.SetDefault("rate_limit.window_duration", "1m")
	v.SetDefault("rate_limit.principal_max_requests", 600)
	v.SetDefault("rate_limit.ip_max_requests", 1200)

	v.SetDefault("security.conceal_cross_tenant", true)
	v.SetDefault("security.degradation_policy", "strict")
	v.SetDefault("security.secure_cookies", true)

	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("cors.max_age", "24h")
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envPrefix+"_"+envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
