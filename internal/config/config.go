// Package config loads server settings from the environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mmynk/studentbook/internal/records"
)

const (
	DefaultDatabasePath = "./data/students.db"
	DefaultPhotosDir    = "./data/photos"

	// DefaultPhotoMaxBytes is 5 MiB.
	DefaultPhotoMaxBytes = 5 << 20
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Photos
		Records
		Global
	}

	HTTP struct {
		Port int
		Host string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret     string
		TokenDuration time.Duration
		BcryptCost    int
	}
	Photos struct {
		Dir      string
		MaxBytes int64
	}
	Records struct {
		StudentPolicy records.Policy
	}
	Global struct {
		LogLevel        string
		ShutdownTimeout time.Duration
	}
)

// Addr returns the listen address.
func (h HTTP) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// Load reads configuration. Environment variables win over the file at path;
// an empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("log_level", "info")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_duration", "24h")
	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("photos_dir", DefaultPhotosDir)
	v.SetDefault("photo_max_bytes", DefaultPhotoMaxBytes)
	v.SetDefault("student_policy", string(records.DefaultPolicy))
	v.SetDefault("shutdown_timeout", "5s")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	policy, err := records.ParsePolicy(v.GetString("student_policy"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTP: HTTP{
			Port: v.GetInt("port"),
			Host: v.GetString("host"),
		},
		Database: Database{
			Path: v.GetString("database_path"),
		},
		Auth: Auth{
			JWTSecret:     v.GetString("jwt_secret"),
			TokenDuration: v.GetDuration("token_duration"),
			BcryptCost:    v.GetInt("bcrypt_cost"),
		},
		Photos: Photos{
			Dir:      v.GetString("photos_dir"),
			MaxBytes: v.GetInt64("photo_max_bytes"),
		},
		Records: Records{
			StudentPolicy: policy,
		},
		Global: Global{
			LogLevel:        v.GetString("log_level"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		},
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.HTTP.Port))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if c.Auth.TokenDuration <= 0 {
		errs = append(errs, errors.New("token_duration must be positive"))
	}
	if c.Photos.MaxBytes <= 0 {
		errs = append(errs, errors.New("photo_max_bytes must be positive"))
	}
	return errors.Join(errs...)
}
