package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("WIFIGHT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without the WIFIGHT_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "WIFIGHT_HTTP_PORT")
	viper.BindEnv("database.url", "DATABASE_URL", "WIFIGHT_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "WIFIGHT_REDIS_URL")
	viper.BindEnv("nats.url", "NATS_URL", "WIFIGHT_NATS_URL")
	viper.BindEnv("jwt.secret", "JWT_SECRET", "WIFIGHT_JWT_SECRET")
	viper.BindEnv("payment.stripe.secret_key", "STRIPE_SECRET_KEY")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// no config file: env vars + defaults only
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "wifight")
	viper.SetDefault("app.environment", "development")

	viper.SetDefault("http.port", 8080)
	viper.SetDefault("http.read_timeout", 15*time.Second)
	viper.SetDefault("http.write_timeout", 15*time.Second)
	viper.SetDefault("http.idle_timeout", time.Minute)

	viper.SetDefault("database.auto_migrate", true)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("cors.enabled", true)
	viper.SetDefault("cors.allowed_origins", []string{"*"})

	viper.SetDefault("jwt.access_token_duration", time.Hour)
	viper.SetDefault("jwt.issuer", "wifight")

	viper.SetDefault("prometheus.enabled", true)
	viper.SetDefault("prometheus.path", "/metrics")

	viper.SetDefault("voucher.expiry_days", 30)
	viper.SetDefault("voucher.code_attempts", 20)
	viper.SetDefault("voucher.max_batch_size", 1000)
	viper.SetDefault("voucher.stats_cache_ttl", 30*time.Second)

	viper.SetDefault("session.max_duration", 24*time.Hour)
	viper.SetDefault("session.default_duration", time.Hour)
	viper.SetDefault("session.terminated_retention", 30*24*time.Hour)

	viper.SetDefault("portal.free_duration", 30*time.Minute)
	viper.SetDefault("portal.social_duration", time.Hour)

	viper.SetDefault("controller.timeout", 30*time.Second)
	viper.SetDefault("controller.insecure_skip_verify", true)
	viper.SetDefault("controller.breaker.max_requests", 3)
	viper.SetDefault("controller.breaker.interval", time.Minute)
	viper.SetDefault("controller.breaker.timeout", 30*time.Second)
	viper.SetDefault("controller.breaker.min_requests", 5)
	viper.SetDefault("controller.breaker.failure_rate", 0.6)

	viper.SetDefault("payment.currency", "USD")

	viper.SetDefault("jobs.voucher_expiry.enabled", true)
	viper.SetDefault("jobs.voucher_expiry.interval", 5*time.Minute)
	viper.SetDefault("jobs.session_cleanup.enabled", true)
	viper.SetDefault("jobs.session_cleanup.interval", 10*time.Minute)
	viper.SetDefault("jobs.session_purge.enabled", true)
	viper.SetDefault("jobs.session_purge.interval", 24*time.Hour)
}
