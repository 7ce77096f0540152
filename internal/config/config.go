package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

const (
	StoreFirestore = "firestore"
	StoreMySQL     = "mysql"
	StoreMemory    = "memory"
)

type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	GitSHA          string        `env:"GIT_SHA"`
	BuildTime       string        `env:"BUILD_TIME"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Firebase service account JSON, base64-encoded.
	ServiceAccountBase64 string `env:"FIREBASE_SERVICE_ACCOUNT_BASE64"`
	ProjectID            string `env:"FIREBASE_PROJECT_ID"`
	StorageBucket        string `env:"FIREBASE_STORAGE_BUCKET"`
	StorageURLMode       string `env:"STORAGE_URL_MODE" envDefault:"acl"`
	AuthDisabled         bool   `env:"AUTH_DISABLED" envDefault:"false"`

	StoreDriver    string `env:"STORE_DRIVER" envDefault:"firestore"`
	MenuCollection string `env:"MENU_COLLECTION" envDefault:"menuItems"`

	DBUser                 string `env:"DB_USER"`
	DBPassword             string `env:"DB_PASSWORD"`
	DBHost                 string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	UploadMaxBytes    int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
	CORSAllowedSuffix string `env:"CORS_ALLOWED_SUFFIX" envDefault:"vercel.app"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreFirestore, StoreMemory:
	case StoreMySQL:
		if c.DBUser == "" || c.DBName == "" || (c.DBHost == "" && c.InstanceConnectionName == "") {
			return errors.New("STORE_DRIVER=mysql requires DB_USER, DB_HOST (or INSTANCE_CONNECTION_NAME) and DB_NAME")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StorageURLMode != "acl" && c.StorageURLMode != "token" {
		return fmt.Errorf("unknown STORAGE_URL_MODE %q", c.StorageURLMode)
	}
	if c.UploadMaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// UsesFirebase reports whether a Firebase app has to be initialized: either
// the menu lives in Firestore, images go to a bucket, or admin tokens are
// verified.
func (c *Config) UsesFirebase() bool {
	return c.StoreDriver == StoreFirestore || c.StorageBucket != "" || !c.AuthDisabled
}

// ServiceAccountJSON decodes FIREBASE_SERVICE_ACCOUNT_BASE64. It returns nil
// when the variable is unset so that application default credentials apply.
func (c *Config) ServiceAccountJSON() ([]byte, error) {
	if c.ServiceAccountBase64 == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(c.ServiceAccountBase64)
	if err != nil {
		return nil, fmt.Errorf("decode FIREBASE_SERVICE_ACCOUNT_BASE64: %w", err)
	}
	return raw, nil
}
