// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "TASKBOARD"

const (
	RepositoryPostgres = "postgres"
	RepositoryGorm     = "gorm"
	RepositoryInMemory = "inmemory"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Repository RepositoryConfig `mapstructure:"repository" yaml:"repository"`
	Metrics    MetricsConfig    `mapstructure:"metrics" yaml:"metrics"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port" yaml:"port"`
	Host           string        `mapstructure:"host" yaml:"host"`
	APIPrefix      string        `mapstructure:"api_prefix" yaml:"api_prefix"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	RateLimitRPM   int           `mapstructure:"rate_limit_rpm" yaml:"rate_limit_rpm"`
	CORSOrigins    []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url" yaml:"url"`
	MaxConnections int           `mapstructure:"max_connections" yaml:"max_connections"`
	MinConnections int           `mapstructure:"min_connections" yaml:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	Migrate        bool          `mapstructure:"migrate" yaml:"migrate"`
	SlowQuery      time.Duration `mapstructure:"slow_query" yaml:"slow_query"`
}

type LoggingConfig struct {
	Development bool   `mapstructure:"development" yaml:"development"`
	File        string `mapstructure:"file" yaml:"file"`
	MaxSizeMB   int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxAgeDays  int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type" yaml:"type"` // "postgres", "gorm" или "inmemory"
}

type MetricsConfig struct {
	Enabled       bool          `mapstructure:"enabled" yaml:"enabled"`
	Path          string        `mapstructure:"path" yaml:"path"`
	StatsInterval time.Duration `mapstructure:"stats_interval" yaml:"stats_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.host", "")
	v.SetDefault("server.api_prefix", "/api")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.rate_limit_rpm", 100)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.migrate", true)
	v.SetDefault("database.slow_query", 100*time.Millisecond)

	v.SetDefault("logging.development", false)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_age_days", 7)
	v.SetDefault("logging.max_backups", 3)

	v.SetDefault("repository.type", RepositoryPostgres)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.stats_interval", time.Minute)
}

// Load читает .env, затем yaml-файл по path и переменные окружения TASKBOARD_*.
// Отсутствующий файл не ошибка: остаются значения по умолчанию и окружение.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var pe *fs.PathError
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &pe) && !errors.As(err, &nf) {
				return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryPostgres, RepositoryGorm:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url обязателен для репозитория %q", c.Repository.Type)
		}
	case RepositoryInMemory:
	default:
		return fmt.Errorf("неизвестный тип репозитория %q", c.Repository.Type)
	}

	if c.Server.Port == "" {
		return errors.New("server.port не может быть пустым")
	}

	if c.Server.APIPrefix != "" && !strings.HasPrefix(c.Server.APIPrefix, "/") {
		c.Server.APIPrefix = "/" + c.Server.APIPrefix
	}
	c.Server.APIPrefix = strings.TrimSuffix(c.Server.APIPrefix, "/")

	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// Redacted возвращает yaml с итоговой конфигурацией без пароля БД
func (c *Config) Redacted() string {
	cp := *c
	if u, err := url.Parse(cp.Database.URL); err == nil && u.User != nil {
		cp.Database.URL = u.Redacted()
	}

	out, err := yaml.Marshal(cp)
	if err != nil {
		return fmt.Sprintf("<yaml: %v>", err)
	}
	return string(out)
}
