// Package config resolves service settings from flags, environment, an
// optional .env file and an optional config file, in that precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

const (
	keyPort            = "port"
	keyDebug           = "debug"
	keyCatalogSource   = "catalog_source"
	keyCatalogPath     = "catalog_path"
	keyDatabaseURL     = "database_url"
	keyMetricsEnabled  = "metrics_enabled"
	keyMetricsToken    = "metrics_token"
	keyRateLimitPerMin = "rate_limit_per_min"
	keyLoadTimeout     = "load_timeout"
	keyShutdownTimeout = "shutdown_timeout"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Port  string
	Debug bool

	CatalogSource string
	CatalogPath   string
	DatabaseURL   string

	MetricsEnabled bool
	MetricsToken   string

	RateLimitPerMin int

	LoadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func (c Config) Addr() string { return ":" + c.Port }

// RegisterFlags declares the command-line flags Load understands.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "optional config file (yaml, json or toml)")
	fs.String("port", "8082", "HTTP listen port")
	fs.Bool("debug", false, "development mode: verbose logs and error details")
	fs.String("catalog-source", SourceEmbedded, "seed source: embedded, file, postgres or sqlite")
	fs.String("catalog-path", "", "seed file path when --catalog-source=file")
	fs.String("database-url", "", "DSN when --catalog-source is postgres or sqlite")
	fs.Bool("metrics-enabled", true, "expose /metrics")
	fs.Int("rate-limit-per-min", 0, "per-IP request limit per minute, 0 disables")
	fs.Duration("load-timeout", 5*time.Second, "deadline for loading the catalog at startup")
	fs.Duration("shutdown-timeout", 10*time.Second, "graceful shutdown deadline")
}

// Load resolves the configuration. fs may be nil, in which case only the
// environment, .env and defaults apply.
func Load(fs *pflag.FlagSet) (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return Config{}, err
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Port:            v.GetString(keyPort),
		Debug:           v.GetBool(keyDebug),
		CatalogSource:   strings.ToLower(v.GetString(keyCatalogSource)),
		CatalogPath:     v.GetString(keyCatalogPath),
		DatabaseURL:     v.GetString(keyDatabaseURL),
		MetricsEnabled:  v.GetBool(keyMetricsEnabled),
		MetricsToken:    v.GetString(keyMetricsToken),
		RateLimitPerMin: v.GetInt(keyRateLimitPerMin),
		LoadTimeout:     v.GetDuration(keyLoadTimeout),
		ShutdownTimeout: v.GetDuration(keyShutdownTimeout),
	}
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyPort, "8082")
	v.SetDefault(keyDebug, false)
	v.SetDefault(keyCatalogSource, SourceEmbedded)
	v.SetDefault(keyMetricsEnabled, true)
	v.SetDefault(keyRateLimitPerMin, 0)
	v.SetDefault(keyLoadTimeout, 5*time.Second)
	v.SetDefault(keyShutdownTimeout, 10*time.Second)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		bindErr = v.BindPFlag(key, f)
	})
	if bindErr != nil {
		return fmt.Errorf("bind flags: %w", bindErr)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port is required", ErrInvalidConfig)
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("%w: rate_limit_per_min must be >= 0", ErrInvalidConfig)
	}
	if c.LoadTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}

	switch c.CatalogSource {
	case SourceEmbedded:
	case SourceFile:
		if c.CatalogPath == "" {
			return fmt.Errorf("%w: catalog_path is required for the file source", ErrInvalidConfig)
		}
	case SourcePostgres, SourceSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the %s source", ErrInvalidConfig, c.CatalogSource)
		}
	default:
		return fmt.Errorf("%w: unknown catalog_source %q", ErrInvalidConfig, c.CatalogSource)
	}
	return nil
}
