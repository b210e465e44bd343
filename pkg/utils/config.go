package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	JWT      JWTConfig
	Paystack PaystackConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Email    EmailConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	AppName  string
	MaxConns int32
}

type SessionConfig struct {
	TTLHours int
}

// JWTConfig is used for admin tokens only. Client sessions are opaque.
type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type PaystackConfig struct {
	SecretKey      string
	WebhookSecret  string
	BaseURL        string
	CallbackURL    string
	Currency       string
	TimeoutSeconds int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers     []string
	EventsTopic string
	GroupID     string
}

type EmailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	AdminEmail string
}

type WorkerConfig struct {
	SweepMinutes int
}

func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

func (c PaystackConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "freelance-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("SESSION_TTL_HOURS", 30*24)
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	viper.SetDefault("PAYSTACK_CURRENCY", "NGN")
	viper.SetDefault("PAYSTACK_TIMEOUT_SECONDS", 10)
	viper.SetDefault("KAFKA_EVENTS_TOPIC", "booking-lifecycle")
	viper.SetDefault("KAFKA_GROUP_ID", "freelance-booking-worker")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("WORKER_SWEEP_MINUTES", 60)
	viper.SetDefault("LOG_PATH", "logs/")

	// .env is optional, the environment wins either way
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	webhookSecret := viper.GetString("PAYSTACK_WEBHOOK_SECRET")
	if webhookSecret == "" {
		webhookSecret = viper.GetString("PAYSTACK_SECRET_KEY")
	}

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),

			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			AppName:  viper.GetString("APP_NAME"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			TTLHours: viper.GetInt("SESSION_TTL_HOURS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Paystack: PaystackConfig{
			SecretKey:      viper.GetString("PAYSTACK_SECRET_KEY"),
			WebhookSecret:  webhookSecret,
			BaseURL:        viper.GetString("PAYSTACK_BASE_URL"),
			CallbackURL:    viper.GetString("PAYSTACK_CALLBACK_URL"),
			Currency:       viper.GetString("PAYSTACK_CURRENCY"),
			TimeoutSeconds: viper.GetInt("PAYSTACK_TIMEOUT_SECONDS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(viper.GetString("KAFKA_BROKERS")),
			EventsTopic: viper.GetString("KAFKA_EVENTS_TOPIC"),
			GroupID:     viper.GetString("KAFKA_GROUP_ID"),
		},
		Email: EmailConfig{
			Host:       viper.GetString("SMTP_HOST"),
			Port:       viper.GetInt("SMTP_PORT"),
			User:       viper.GetString("SMTP_USER"),
			Password:   viper.GetString("SMTP_PASS"),
			From:       viper.GetString("EMAIL_FROM"),
			AdminEmail: viper.GetString("ADMIN_EMAIL"),
		},
		Worker: WorkerConfig{
			SweepMinutes: viper.GetInt("WORKER_SWEEP_MINUTES"),
		},
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
