package config

import "time"

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type GRPCConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Port             string `mapstructure:"port"`
	EnableReflection bool   `mapstructure:"enable_reflection"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	// MigrationsDir overrides the migrations compiled into the binary.
	MigrationsDir   string        `mapstructure:"migrations_dir"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type AuthConfig struct {
	AccessSecret         string        `mapstructure:"access_secret"`
	RefreshSecret        string        `mapstructure:"refresh_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"-"`
	RefreshTokenDuration time.Duration `mapstructure:"-"`
	ResetTokenDuration   time.Duration `mapstructure:"-"`
}

type VerificationConfig struct {
	CodeTTL time.Duration `mapstructure:"-"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type MailConfig struct {
	// Transport is one of "resend", "kafka" or "log".
	Transport    string      `mapstructure:"transport"`
	ResendAPIKey string      `mapstructure:"resend_api_key"`
	From         string      `mapstructure:"from"`
	FrontendURL  string      `mapstructure:"frontend_url"`
	Kafka        KafkaConfig `mapstructure:"kafka"`
}

type ProviderConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	// Overrides for the provider endpoints, empty means the public ones.
	TokenURL   string `mapstructure:"token_url"`
	ProfileURL string `mapstructure:"profile_url"`
	EmailsURL  string `mapstructure:"emails_url"`
}

type OAuthConfig struct {
	Google      ProviderConfig `mapstructure:"google"`
	GitHub      ProviderConfig `mapstructure:"github"`
	HTTPTimeout time.Duration  `mapstructure:"http_timeout"`
}

type AppConfig struct {
	Environment  string             `mapstructure:"environment"`
	Server       ServerConfig       `mapstructure:"server"`
	GRPC         GRPCConfig         `mapstructure:"grpc"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Verification VerificationConfig `mapstructure:"verification"`
	Mail         MailConfig         `mapstructure:"mail"`
	OAuth        OAuthConfig        `mapstructure:"oauth"`
}
