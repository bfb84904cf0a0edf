package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/leetguard/leetguard-server/internal/config"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// envBindings maps config keys to the environment variables the service
// has always been deployed with.
var envBindings = map[string]string{
	"environment":                               "ENVIRONMENT",
	"server.port":                               "PORT",
	"server.cors_origins":                       "CORS_ORIGINS",
	"grpc.enabled":                              "GRPC_ENABLED",
	"grpc.port":                                 "GRPC_PORT",
	"database.url":                              "DATABASE_URL",
	"database.log_level":                        "DATABASE_LOG_LEVEL",
	"database.migrations_dir":                   "MIGRATIONS_DIR",
	"database.auto_migrate":                     "DATABASE_AUTO_MIGRATE",
	"auth.access_secret":                        "SECRET_KEY",
	"auth.refresh_secret":                       "REFRESH_SECRET_KEY",
	"auth.access_token_expire_minutes":          "ACCESS_TOKEN_EXPIRE_MINUTES",
	"auth.refresh_token_expire_days":            "REFRESH_TOKEN_EXPIRE_DAYS",
	"auth.password_reset_token_expire_hours":    "PASSWORD_RESET_TOKEN_EXPIRE_HOURS",
	"verification.code_expire_minutes":          "VERIFICATION_CODE_EXPIRE_MINUTES",
	"mail.transport":                            "MAIL_TRANSPORT",
	"mail.resend_api_key":                       "RESEND_API_KEY",
	"mail.from":                                 "FROM_EMAIL",
	"mail.frontend_url":                         "FRONTEND_URL",
	"mail.kafka.brokers":                        "KAFKA_BROKERS",
	"mail.kafka.topic":                          "KAFKA_TOPIC",
	"mail.kafka.group_id":                       "KAFKA_GROUP_ID",
	"oauth.google.client_id":                    "GOOGLE_CLIENT_ID",
	"oauth.google.client_secret":                "GOOGLE_CLIENT_SECRET",
	"oauth.github.client_id":                    "GITHUB_CLIENT_ID",
	"oauth.github.client_secret":                "GITHUB_CLIENT_SECRET",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvDevelopment)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000", "https://leetguard.com"})

	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.port", "9090")
	v.SetDefault("grpc.enable_reflection", false)

	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.access_token_expire_minutes", 30)
	v.SetDefault("auth.refresh_token_expire_days", 7)
	v.SetDefault("auth.password_reset_token_expire_hours", 1)

	v.SetDefault("verification.code_expire_minutes", 10)

	v.SetDefault("mail.transport", "resend")
	v.SetDefault("mail.from", "noreply@leetguard.com")
	v.SetDefault("mail.frontend_url", "https://leetguard.com")
	v.SetDefault("mail.kafka.topic", "leetguard.mail")
	v.SetDefault("mail.kafka.group_id", "leetguard-mailer")

	v.SetDefault("oauth.http_timeout", 10*time.Second)
}

// LoadConfig builds the immutable application configuration from
// config/server/config.toml (optional), a .env file outside production and
// the process environment, in increasing order of precedence.
func LoadConfig() (*config.AppConfig, error) {
	v, err := readConfig()
	if err != nil {
		return nil, err
	}
	return buildConfig(v)
}

// LoadMailerConfig loads the same sources as LoadConfig but validates only
// the mail and Kafka settings.
func LoadMailerConfig() (*config.AppConfig, error) {
	v, err := readConfig()
	if err != nil {
		return nil, err
	}
	return decodeConfig(v, (*config.AppConfig).ValidateMailer)
}

func readConfig() (*viper.Viper, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = EnvDevelopment
	}

	if env != EnvProduction {
		// A missing .env is normal in containers.
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath("./config/server")
	setDefaults(v)

	for key, name := range envBindings {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", name, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return v, nil
}

func buildConfig(v *viper.Viper) (*config.AppConfig, error) {
	return decodeConfig(v, (*config.AppConfig).Validate)
}

func decodeConfig(v *viper.Viper, validate func(*config.AppConfig) error) (*config.AppConfig, error) {
	var cfg config.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Lifetimes are configured in the units the environment has always used.
	cfg.Auth.AccessTokenDuration = time.Duration(v.GetInt("auth.access_token_expire_minutes")) * time.Minute
	cfg.Auth.RefreshTokenDuration = time.Duration(v.GetInt("auth.refresh_token_expire_days")) * 24 * time.Hour
	cfg.Auth.ResetTokenDuration = time.Duration(v.GetInt("auth.password_reset_token_expire_hours")) * time.Hour
	cfg.Verification.CodeTTL = time.Duration(v.GetInt("verification.code_expire_minutes")) * time.Minute

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
