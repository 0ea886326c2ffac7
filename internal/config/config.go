package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Logging  LoggingConfig  `yaml:"logging"`
	Worker   WorkerConfig   `yaml:"worker"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	Mail     MailConfig     `yaml:"mail"`
	Intake   IntakeConfig   `yaml:"intake"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	PublicURL       string        `yaml:"public_url"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
}

// DatabaseConfig holds PostgreSQL connection configuration
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
	ConnectRetries  int           `yaml:"connect_retries"`
	RetryInterval   time.Duration `yaml:"retry_interval"`
}

// RabbitMQConfig holds RabbitMQ connection and topology configuration
type RabbitMQConfig struct {
	Host            string           `yaml:"host"`
	Port            int              `yaml:"port"`
	User            string           `yaml:"user"`
	Password        string           `yaml:"password"`
	VHost           string           `yaml:"vhost"`
	Exchange        ExchangeConfig   `yaml:"exchange"`
	Queue           string           `yaml:"queue"`
	DeadLetterQueue string           `yaml:"dead_letter_queue"`
	RoutingKey      string           `yaml:"routing_key"`
	Connection      ConnectionConfig `yaml:"connection"`
	Consumer        ConsumerConfig   `yaml:"consumer"`
}

// ExchangeConfig holds RabbitMQ exchange configuration
type ExchangeConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ConnectionConfig holds RabbitMQ connection settings
type ConnectionConfig struct {
	RetryAttempts     int           `yaml:"retry_attempts"`
	RetryInterval     time.Duration `yaml:"retry_interval"`
	Heartbeat         time.Duration `yaml:"heartbeat"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`
}

// ConsumerConfig holds RabbitMQ consumer settings
type ConsumerConfig struct {
	Tag           string `yaml:"tag"`
	PrefetchCount int    `yaml:"prefetch_count"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// WorkerConfig holds notification worker configuration
type WorkerConfig struct {
	Concurrency     int           `yaml:"concurrency"`
	JobTimeout      time.Duration `yaml:"job_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	ResumeLinkTTL   time.Duration `yaml:"resume_link_ttl"`
	TimeZone        string        `yaml:"time_zone"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Root         string        `yaml:"root"`
	SigningKey   string        `yaml:"signing_key"`
	ResumeURLTTL time.Duration `yaml:"resume_url_ttl"`
}

// AuthConfig holds admin authentication configuration
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"-"`
}

// MailConfig holds SMTP relay configuration
type MailConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	From     string        `yaml:"from"`
	FromName string        `yaml:"from_name"`
	TLS      string        `yaml:"tls"`
	Timeout  time.Duration `yaml:"timeout"`
}

// IntakeConfig holds candidate intake settings
type IntakeConfig struct {
	WhatsAppCountryCode string `yaml:"whatsapp_country_code"`
}

// Load reads and parses the configuration file, then applies environment
// overrides for secrets
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnv(os.Getenv)
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	override(&c.Database.Password, "DATABASE_PASSWORD")
	override(&c.RabbitMQ.Password, "RABBITMQ_PASSWORD")
	override(&c.Auth.JWTSecret, "AUTH_JWT_SECRET")
	override(&c.Auth.AdminPassword, "ADMIN_PASSWORD")
	override(&c.Storage.SigningKey, "STORAGE_SIGNING_KEY")
	override(&c.Mail.Password, "SMTP_PASSWORD")
}

func (c *Config) applyDefaults() {
	if c.Server.MaxUploadBytes <= 0 {
		c.Server.MaxUploadBytes = 12 << 20
	}
	if c.Database.ConnectRetries <= 0 {
		c.Database.ConnectRetries = 5
	}
	if c.Database.RetryInterval <= 0 {
		c.Database.RetryInterval = 2 * time.Second
	}
	if c.Storage.ResumeURLTTL <= 0 {
		c.Storage.ResumeURLTTL = 15 * time.Minute
	}
	if c.Worker.ResumeLinkTTL <= 0 {
		c.Worker.ResumeLinkTTL = 72 * time.Hour
	}
	if c.Worker.TimeZone == "" {
		c.Worker.TimeZone = "America/Sao_Paulo"
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 12 * time.Hour
	}
	if c.RabbitMQ.Exchange.Type == "" {
		c.RabbitMQ.Exchange.Type = "direct"
	}
	if c.RabbitMQ.Consumer.Tag == "" {
		c.RabbitMQ.Consumer.Tag = "notification-worker"
	}
	if c.Intake.WhatsAppCountryCode == "" {
		c.Intake.WhatsAppCountryCode = "55"
	}
}

// ValidateAPIConfig checks the settings the API service depends on
func (c *Config) ValidateAPIConfig() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Server.PublicURL == "" {
		return fmt.Errorf("server public_url is required")
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateRabbitMQ(); err != nil {
		return err
	}

	if c.Storage.Root == "" {
		return fmt.Errorf("storage root is required")
	}

	if len(c.Storage.SigningKey) < 16 {
		return fmt.Errorf("storage signing_key must be at least 16 characters")
	}

	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("auth jwt_secret must be at least 16 characters")
	}

	if c.Auth.JWTSecret == c.Storage.SigningKey {
		return fmt.Errorf("auth jwt_secret and storage signing_key must differ")
	}

	if c.Auth.AdminEmail != "" && c.Auth.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when auth admin_email is set")
	}

	return nil
}

// ValidateWorkerConfig checks the settings the notification worker depends on
func (c *Config) ValidateWorkerConfig() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateRabbitMQ(); err != nil {
		return err
	}

	if c.Worker.Concurrency <= 0 {
		return fmt.Errorf("worker concurrency must be greater than 0")
	}

	if c.Worker.JobTimeout <= 0 {
		return fmt.Errorf("worker job_timeout must be greater than 0")
	}

	if c.Worker.ShutdownTimeout <= 0 {
		return fmt.Errorf("worker shutdown_timeout must be greater than 0")
	}

	if c.RabbitMQ.Consumer.PrefetchCount < 0 {
		return fmt.Errorf("rabbitmq consumer prefetch_count must not be negative")
	}

	if c.Mail.Host == "" {
		return fmt.Errorf("mail host is required")
	}

	if c.Mail.Port < MinPort || c.Mail.Port > MaxPort {
		return fmt.Errorf("invalid mail port: %d (must be between %d and %d)", c.Mail.Port, MinPort, MaxPort)
	}

	if c.Mail.From == "" {
		return fmt.Errorf("mail from is required")
	}

	if c.Server.PublicURL == "" {
		return fmt.Errorf("server public_url is required for resume links")
	}

	if len(c.Storage.SigningKey) < 16 {
		return fmt.Errorf("storage signing_key must be at least 16 characters")
	}

	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < MinPort || c.Database.Port > MaxPort {
		return fmt.Errorf("invalid database port: %d (must be between %d and %d)", c.Database.Port, MinPort, MaxPort)
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	return nil
}

func (c *Config) validateRabbitMQ() error {
	if c.RabbitMQ.Host == "" {
		return fmt.Errorf("rabbitmq host is required")
	}

	if c.RabbitMQ.Port < MinPort || c.RabbitMQ.Port > MaxPort {
		return fmt.Errorf("invalid rabbitmq port: %d (must be between %d and %d)", c.RabbitMQ.Port, MinPort, MaxPort)
	}

	if c.RabbitMQ.Exchange.Name == "" {
		return fmt.Errorf("rabbitmq exchange name is required")
	}

	if c.RabbitMQ.Queue == "" {
		return fmt.Errorf("rabbitmq queue is required")
	}

	return nil
}
