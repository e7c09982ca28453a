package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host" env:"SERVER_HOST"`
		Port        int      `yaml:"port" env:"SERVER_PORT"`
		Env         string   `yaml:"env" env:"SERVER_ENV"`
		CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url" env:"DATABASE_URL"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
		SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT"`
		SMTPUsername string `yaml:"smtp_user" env:"SMTP_USER"`
		SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
		FromEmail    string `yaml:"from_email" env:"EMAIL_FROM"`
		FromName     string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
		UseTLS       bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"email"`

	JWT struct {
		Secret     string        `yaml:"secret" env:"JWT_SECRET"`
		AccessTTL  time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL"`
		RefreshTTL time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL"`
		ResetTTL   time.Duration `yaml:"reset_ttl" env:"JWT_RESET_TTL"`
	} `yaml:"jwt"`

	OTP struct {
		TTL time.Duration `yaml:"ttl" env:"OTP_TTL"`
	} `yaml:"otp"`

	Storage struct {
		Type       string `yaml:"type" env:"STORAGE_TYPE"`           // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path" env:"STORAGE_BASE_PATH"` // For local storage
		BaseURL    string `yaml:"base_url" env:"STORAGE_BASE_URL"`   // Public URL base
		Bucket     string `yaml:"bucket" env:"STORAGE_BUCKET"`
		Region     string `yaml:"region" env:"STORAGE_REGION"`
		AccessKey  string `yaml:"access_key" env:"STORAGE_ACCESS_KEY"`
		SecretKey  string `yaml:"secret_key" env:"STORAGE_SECRET_KEY"`
		Endpoint   string `yaml:"endpoint" env:"STORAGE_ENDPOINT"` // For R2 or MinIO
		PublicRead bool   `yaml:"public_read" env:"STORAGE_PUBLIC_READ"`
	} `yaml:"storage"`

	Upload struct {
		MaxImageSize  int64 `yaml:"max_image_size" env:"UPLOAD_MAX_IMAGE_SIZE"` // bytes
		ThumbnailSize int   `yaml:"thumbnail_size" env:"UPLOAD_THUMBNAIL_SIZE"`
		ImageQuality  int   `yaml:"image_quality" env:"UPLOAD_IMAGE_QUALITY"` // JPEG quality (1-100)
	} `yaml:"upload"`

	Social struct {
		Timeout time.Duration `yaml:"timeout" env:"SOCIAL_TIMEOUT"`
	} `yaml:"social"`

	Workers struct {
		TokenCleanupInterval time.Duration `yaml:"token_cleanup_interval" env:"TOKEN_CLEANUP_INTERVAL"`
	} `yaml:"workers"`

	FirstAdminEmail    string `yaml:"first_admin_email" env:"FIRST_ADMIN_EMAIL"`
	FirstAdminPassword string `yaml:"first_admin_password" env:"FIRST_ADMIN_PASSWORD"`
}

var AppConfig *Config

// Load читает YAML (если файл есть), затем накладывает переменные окружения
// и выставляет значения по умолчанию.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			log.Printf("config file %s not found, using environment only", path)
		default:
			return nil, fmt.Errorf("open config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()

	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret is required (JWT_SECRET)")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.JWT.AccessTTL == 0 {
		c.JWT.AccessTTL = 60 * time.Minute
	}
	if c.JWT.RefreshTTL == 0 {
		c.JWT.RefreshTTL = 7 * 24 * time.Hour
	}
	if c.JWT.ResetTTL == 0 {
		c.JWT.ResetTTL = 10 * time.Minute
	}
	if c.OTP.TTL == 0 {
		c.OTP.TTL = 30 * time.Minute
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.Type == "local" {
		if c.Storage.BasePath == "" {
			c.Storage.BasePath = "./media"
		}
		if c.Storage.BaseURL == "" {
			c.Storage.BaseURL = "/media"
		}
	}
	if c.Upload.MaxImageSize == 0 {
		c.Upload.MaxImageSize = 3 << 20 // 3 MiB
	}
	if c.Upload.ThumbnailSize == 0 {
		c.Upload.ThumbnailSize = 300
	}
	if c.Upload.ImageQuality == 0 {
		c.Upload.ImageQuality = 85
	}
	if c.Social.Timeout == 0 {
		c.Social.Timeout = 3 * time.Second
	}
	if c.Workers.TokenCleanupInterval == 0 {
		c.Workers.TokenCleanupInterval = time.Hour
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
}

// LoadConfig загружает конфиг по CONFIG_PATH (по умолчанию config/config.yaml)
// и завершает процесс при ошибке.
func LoadConfig() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
