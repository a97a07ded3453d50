package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devSessionSecret = "devnotes-secret-key-change-in-production"

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr           string
		Production     bool
		AllowedOrigins string
	}
	Database struct {
		Path         string
		MaxOpenConns int
	}
	Session struct {
		Secret string
		Store  string
	}
	Auth struct {
		BcryptCost int
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// existing environment wins over .env
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetEnvPrefix("DEVNOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:3000")
	v.SetDefault("server.production", false)
	v.SetDefault("server.allowedorigins", "")
	v.SetDefault("database.path", "data/devnotes.db")
	v.SetDefault("database.maxopenconns", 1)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.store", "memory")
	v.SetDefault("auth.bcryptcost", 12)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "devnotes-exports")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// PORT is the conventional override used by most hosting platforms
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		host, _, err := net.SplitHostPort(cfg.Server.Addr)
		if err != nil {
			host = ""
		}
		cfg.Server.Addr = net.JoinHostPort(host, port)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = devSessionSecret
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail later at runtime.
func (c Config) Validate() error {
	if c.Server.Production && strings.TrimSpace(c.Session.Secret) == "" {
		return errors.New("session secret is required in production")
	}
	switch c.Session.Store {
	case "memory", "cookie":
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	return nil
}

// ExportsEnabled reports whether note exports have somewhere to go.
func (c Config) ExportsEnabled() bool {
	return strings.TrimSpace(c.Storage.Bucket) != ""
}

// Origins splits the comma separated CORS allow list.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
