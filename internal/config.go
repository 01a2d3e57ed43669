package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Audit         AuditConfig         `mapstructure:"audit"`
	Mail          MailConfig          `mapstructure:"mail"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	OpenAPIPath       string        `mapstructure:"openapi_path"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	AccessTokenSecret    string        `mapstructure:"access_token_secret" validate:"required,min=32"`
	RefreshTokenSecret   string        `mapstructure:"refresh_token_secret" validate:"required,min=32"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" validate:"required,min=1m,max=1h"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" validate:"required,min=1h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" validate:"required,min=10,max=15"`
	PasswordResetSecret  string        `mapstructure:"password_reset_secret" validate:"required,min=32"`
	PasswordResetTimeout time.Duration `mapstructure:"password_reset_timeout"`
	PasswordResetURL     string        `mapstructure:"password_reset_url"`
	// Blacklist selects where revoked refresh tokens are kept: "database" or "redis".
	Blacklist string `mapstructure:"blacklist"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// MaxLoginAttempts per username and client within LoginWindow.
	MaxLoginAttempts int           `mapstructure:"max_login_attempts"`
	LoginWindow      time.Duration `mapstructure:"login_window"`
}

type KafkaConfig struct {
	Enabled            bool     `mapstructure:"enabled"`
	Brokers            []string `mapstructure:"brokers"`
	EventsTopic        string   `mapstructure:"events_topic"`
	NotificationsTopic string   `mapstructure:"notifications_topic"`
	GroupID            string   `mapstructure:"group_id"`
	Workers            int      `mapstructure:"workers"`
}

type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
}

type AuditConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	MongoURI   string `mapstructure:"mongo_uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	// File enables a daily rotated log file next to stdout output.
	File   string        `mapstructure:"file"`
	MaxAge time.Duration `mapstructure:"max_age"`
}

// LoadConfigFromEnv builds the configuration purely from environment
// variables. Used for container deployments where no config.yml is shipped.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 8080),
			BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
			OpenAPIPath:       getEnv("OPENAPI_PATH", "api/openapi.yml"),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Security: SecurityConfig{
			AccessTokenSecret:    getEnv("ACCESS_TOKEN_SECRET", ""),
			RefreshTokenSecret:   getEnv("REFRESH_TOKEN_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 7*24*time.Hour),
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 12),
			PasswordResetSecret:  getEnv("PASSWORD_RESET_SECRET", ""),
			PasswordResetTimeout: getEnvAsDuration("PASSWORD_RESET_TIMEOUT", 72*time.Hour),
			PasswordResetURL:     getEnv("PASSWORD_RESET_URL", "http://localhost:8000/reset-password"),
			Blacklist:            getEnv("TOKEN_BLACKLIST", "database"),
		},
		Redis: RedisConfig{
			Enabled:          getEnvAsBool("REDIS_ENABLED", false),
			Addr:             getEnv("REDIS_ADDR", "localhost:6379"),
			Password:         getEnv("REDIS_PASSWORD", ""),
			DB:               getEnvAsInt("REDIS_DB", 0),
			MaxLoginAttempts: getEnvAsInt("REDIS_MAX_LOGIN_ATTEMPTS", 5),
			LoginWindow:      getEnvAsDuration("REDIS_LOGIN_WINDOW", 10*time.Minute),
		},
		Kafka: KafkaConfig{
			Enabled:            getEnvAsBool("KAFKA_ENABLED", false),
			Brokers:            getEnvAsList("KAFKA_BROKERS", []string{"localhost:9092"}),
			EventsTopic:        getEnv("KAFKA_EVENTS_TOPIC", "hr.events"),
			NotificationsTopic: getEnv("KAFKA_NOTIFICATIONS_TOPIC", "hr.notifications"),
			GroupID:            getEnv("KAFKA_GROUP_ID", "hr-notification-worker"),
			Workers:            getEnvAsInt("KAFKA_WORKERS", 1),
		},
		Storage: StorageConfig{
			Enabled:   getEnvAsBool("MINIO_ENABLED", false),
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
			Bucket:    getEnv("MINIO_BUCKET", "hr-reports"),
		},
		Audit: AuditConfig{
			Enabled:    getEnvAsBool("AUDIT_ENABLED", false),
			MongoURI:   getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGO_DATABASE", "hr_management"),
			Collection: getEnv("MONGO_AUDIT_COLLECTION", "audit_log"),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", "no-reply@hr.local"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
				File:   getEnv("LOG_FILE", ""),
				MaxAge: getEnvAsDuration("LOG_MAX_AGE", 7*24*time.Hour),
			},
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Redis.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("redis config: %v", err))
	}

	if err := c.Kafka.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("kafka config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Audit.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("audit config: %v", err))
	}

	if c.Security.Blacklist == "redis" && !c.Redis.Enabled {
		errs = append(errs, "security config: redis blacklist requires redis.enabled")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.AccessTokenSecret) < 32 {
		return errors.New("access_token_secret must be at least 32 characters")
	}
	if len(c.RefreshTokenSecret) < 32 {
		return errors.New("refresh_token_secret must be at least 32 characters")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	if len(c.PasswordResetSecret) < 32 {
		return errors.New("password_reset_secret must be at least 32 characters")
	}
	if c.AccessTokenDuration <= 0 || c.RefreshTokenDuration <= 0 {
		return errors.New("token durations must be positive")
	}
	if c.RefreshTokenDuration < c.AccessTokenDuration {
		return errors.New("refresh_token_duration must be >= access_token_duration")
	}
	switch c.Blacklist {
	case "", "database", "redis":
	default:
		return fmt.Errorf("unknown blacklist backend %q", c.Blacklist)
	}
	if c.PasswordResetURL != "" {
		if _, err := url.Parse(c.PasswordResetURL); err != nil {
			return fmt.Errorf("invalid password_reset_url: %w", err)
		}
	}
	return nil
}

func (c *RedisConfig) Validate() error {
	if c.Enabled && c.Addr == "" {
		return errors.New("addr is required when redis is enabled")
	}
	return nil
}

func (c *KafkaConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Brokers) == 0 {
		return errors.New("at least one broker is required")
	}
	if c.EventsTopic == "" || c.NotificationsTopic == "" {
		return errors.New("events_topic and notifications_topic are required")
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	if c.Enabled && (c.Endpoint == "" || c.Bucket == "") {
		return errors.New("endpoint and bucket are required when storage is enabled")
	}
	return nil
}

func (c *AuditConfig) Validate() error {
	if c.Enabled && c.MongoURI == "" {
		return errors.New("mongo_uri is required when audit is enabled")
	}
	return nil
}
