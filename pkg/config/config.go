package config

import "time"

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	NATS       NATSConfig       `mapstructure:"nats"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Voucher    VoucherConfig    `mapstructure:"voucher"`
	Session    SessionConfig    `mapstructure:"session"`
	Portal     PortalConfig     `mapstructure:"portal"`
	Controller ControllerConfig `mapstructure:"controller"`
	Payment    PaymentConfig    `mapstructure:"payment"`
	Jobs       JobsConfig       `mapstructure:"jobs"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	LogQueries      bool          `mapstructure:"log_queries"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

type JWTConfig struct {
	Secret              string        `mapstructure:"secret"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration"`
	Issuer              string        `mapstructure:"issuer"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	ExposeHeaders  []string `mapstructure:"expose_headers"`
	MaxAge         int      `mapstructure:"max_age"`
	Credentials    bool     `mapstructure:"credentials"`
}

type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// VoucherConfig carries the voucher lifecycle policy knobs.
type VoucherConfig struct {
	// ExpiryDays is how long a freshly generated voucher stays redeemable.
	ExpiryDays int `mapstructure:"expiry_days"`
	// CodeAttempts bounds the generator's collision re-draws.
	CodeAttempts int `mapstructure:"code_attempts"`
	// MaxBatchSize bounds one generation call.
	MaxBatchSize  int           `mapstructure:"max_batch_size"`
	StatsCacheTTL time.Duration `mapstructure:"stats_cache_ttl"`
}

type SessionConfig struct {
	// MaxDuration is the hard ceiling after which an active session is
	// swept to expired.
	MaxDuration time.Duration `mapstructure:"max_duration"`
	// DefaultDuration applies when neither voucher nor plan supplies one.
	DefaultDuration time.Duration `mapstructure:"default_duration"`
	// TerminatedRetention is how long terminated rows are kept before purge.
	TerminatedRetention time.Duration `mapstructure:"terminated_retention"`
}

type PortalConfig struct {
	FreeDuration   time.Duration `mapstructure:"free_duration"`
	SocialDuration time.Duration `mapstructure:"social_duration"`
}

type ControllerConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	// InsecureSkipVerify tolerates the self-signed certificates most
	// on-premise controllers ship with.
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	Breaker            BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	MaxRequests uint32        `mapstructure:"max_requests"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MinRequests uint32        `mapstructure:"min_requests"`
	FailureRate float64       `mapstructure:"failure_rate"`
}

type PaymentConfig struct {
	Currency string       `mapstructure:"currency"`
	Stripe   StripeConfig `mapstructure:"stripe"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

type JobsConfig struct {
	VoucherExpiry  JobSchedule `mapstructure:"voucher_expiry"`
	SessionCleanup JobSchedule `mapstructure:"session_cleanup"`
	SessionPurge   JobSchedule `mapstructure:"session_purge"`
}

type JobSchedule struct {
	Interval time.Duration `mapstructure:"interval"`
	Enabled  bool          `mapstructure:"enabled"`
}
