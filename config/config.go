package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Log        LogConfig        `mapstructure:"log"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
	Firebase   FirebaseConfig   `mapstructure:"firebase"`
	AMQP       AMQPConfig       `mapstructure:"amqp"`
	Reconcile  ReconcileConfig  `mapstructure:"reconcile"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Admin      AdminConfig      `mapstructure:"admin"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Env          string        `mapstructure:"env"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql | postgres | sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type JWTConfig struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer        string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | text
}

type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Folder    string `mapstructure:"folder"`
}

func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type FirebaseConfig struct {
	ServiceAccountPath string `mapstructure:"service_account_path"`
}

// AMQPConfig points the ledger event publisher at RabbitMQ. Empty URL disables publishing.
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// ReconcileConfig drives the cached balance reconciler. Zero interval disables the loop.
type ReconcileConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type RateLimitConfig struct {
	Requests      int           `mapstructure:"requests"`
	Window        time.Duration `mapstructure:"window"`
	LoginRequests int           `mapstructure:"login_requests"`
	LoginWindow   time.Duration `mapstructure:"login_window"`
}

// AdminConfig seeds the first admin account on an empty database.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

const envPrefix = "COINSTORE"

var defaults = map[string]interface{}{
	"server.port":                   "8099",
	"server.env":                    "development",
	"server.read_timeout":           10 * time.Second,
	"server.write_timeout":          30 * time.Second,
	"database.driver":               "mysql",
	"database.dsn":                  "coinstore:coinstore@tcp(localhost:3306)/coinstore?charset=utf8mb4&parseTime=True&loc=Local",
	"database.max_idle_conns":       10,
	"database.max_open_conns":       100,
	"database.conn_max_lifetime":    time.Hour,
	"jwt.access_secret":             "change-me-in-production",
	"jwt.refresh_secret":            "change-me-refresh",
	"jwt.access_expiry":             15 * time.Minute,
	"jwt.refresh_expiry":            168 * time.Hour,
	"jwt.issuer":                    "coinstore",
	"log.level":                     "info",
	"log.format":                    "json",
	"cloudinary.cloud_name":         "",
	"cloudinary.api_key":            "",
	"cloudinary.api_secret":         "",
	"cloudinary.folder":             "coinstore/receipts",
	"firebase.service_account_path": "",
	"amqp.url":                      "",
	"amqp.exchange":                 "coinstore.ledger",
	"reconcile.interval":            10 * time.Minute,
	"reconcile.timeout":             time.Minute,
	"rate_limit.requests":           100,
	"rate_limit.window":             time.Minute,
	"rate_limit.login_requests":     10,
	"rate_limit.login_window":       time.Minute,
	"admin.username":                "admin",
	"admin.email":                   "admin@coinstore.local",
	"admin.password":                "",
}

// Load reads .env (if present), then the optional YAML file at path, then
// COINSTORE_* environment overrides, e.g. COINSTORE_DATABASE_DSN.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Server.Env == "production" && c.JWT.AccessSecret == defaults["jwt.access_secret"] {
		return nil, errors.New("jwt.access_secret must be set in production")
	}
	return &c, nil
}
