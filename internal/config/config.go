package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Access   AccessConfig   `mapstructure:"access"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
	Workers         int `mapstructure:"workers"`          // queue workers per stream
}

// AccessConfig holds access generation configuration
type AccessConfig struct {
	Mode          string         `mapstructure:"mode"`        // backend | frontend
	MenuSource    string         `mapstructure:"menu_source"` // http | postgres
	RoutesFile    string         `mapstructure:"routes_file"` // static route tree for frontend mode
	CoreRoutes    string         `mapstructure:"core_routes_file"`
	Views         []string       `mapstructure:"views"`
	ViewsDir      string         `mapstructure:"views_dir"`
	Layouts       []LayoutConfig `mapstructure:"layouts"`
	FallbackPage  string         `mapstructure:"fallback_page"`
	ForbiddenPage string         `mapstructure:"forbidden_page"`
}

// LayoutConfig binds a component tag used by menu sources to a layout.
// Kept as a list because viper lower-cases map keys.
type LayoutConfig struct {
	Tag  string `mapstructure:"tag"`
	Name string `mapstructure:"name"`
}

// LayoutMap returns the configured layouts as tag → name
func (c AccessConfig) LayoutMap() map[string]string {
	layouts := make(map[string]string, len(c.Layouts))
	for _, l := range c.Layouts {
		layouts[l.Tag] = l.Name
	}
	return layouts
}

// BackendConfig holds the admin API configuration used to fetch menus
type BackendConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	MenuPath             string `mapstructure:"menu_path"`
	Token                string `mapstructure:"token"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DSN returns the pgx connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"` // seconds
	SessionTTL    int    `mapstructure:"session_ttl"`   // seconds, 0 keeps state forever
}

// Addr returns host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text | json
}

// Load loads configuration from a YAML file with environment variable
// overrides. An empty path searches for config.yaml in the current
// directory; a missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Access.Mode {
	case "backend", "frontend":
	default:
		return fmt.Errorf("invalid access.mode %q: expected backend or frontend", c.Access.Mode)
	}

	switch c.Access.MenuSource {
	case "http", "postgres":
	default:
		return fmt.Errorf("invalid access.menu_source %q: expected http or postgres", c.Access.MenuSource)
	}

	if c.Access.Mode == "frontend" && c.Access.RoutesFile == "" {
		return fmt.Errorf("access.routes_file is required in frontend mode")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 9876)
	v.SetDefault("server.shutdown_timeout", 5)
	v.SetDefault("server.workers", 2)

	v.SetDefault("access.mode", "backend")
	v.SetDefault("access.menu_source", "http")
	v.SetDefault("access.routes_file", "")
	v.SetDefault("access.core_routes_file", "")
	v.SetDefault("access.views", []string{})
	v.SetDefault("access.views_dir", "")
	v.SetDefault("access.layouts", []map[string]any{{"tag": "LAYOUT", "name": "BasicLayout"}})
	v.SetDefault("access.fallback_page", "/_core/fallback/not-found.vue")
	v.SetDefault("access.forbidden_page", "/_core/fallback/forbidden.vue")

	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.menu_path", "/api/menu/all")
	v.SetDefault("backend.token", "")
	v.SetDefault("backend.timeout", 50)
	v.SetDefault("backend.max_retries", 3)
	v.SetDefault("backend.max_requests_per_second", 10)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "admin")
	v.SetDefault("database.user", "admin_user")
	v.SetDefault("database.password", "admin_pass")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.consumer_group", "access_consumer")
	v.SetDefault("redis.min_idle_time", 120)
	v.SetDefault("redis.session_ttl", 86400)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
