package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Spotify  SpotifyConfig  `toml:"spotify"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// SpotifyConfig contains Spotify API credentials and endpoints.
type SpotifyConfig struct {
	ClientID         string `toml:"client_id" validate:"required"`
	ClientSecret     string `toml:"client_secret" validate:"required"`
	RedirectURI      string `toml:"redirect_uri" validate:"required,url"`
	FrontendRedirect string `toml:"frontend_redirect" validate:"required"`
	AuthURL          string `toml:"auth_url" validate:"required,url"`
	TokenURL         string `toml:"token_url" validate:"required,url"`
	APIURL           string `toml:"api_url" validate:"required,url"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port" validate:"min=0,max=65535"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig contains database connection settings.
//
// An empty Path disables the playlist history log.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// Enabled reports whether a database has been configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Path != ""
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ReadConfig loads the config file at path when it exists, falling back to defaults,
// then applies .env files and environment overrides. The result is not validated.
func ReadConfig(path string, envFiles ...string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		loaded, err := LoadConfig(path)
		switch {
		case err == nil:
			config = loaded
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	if err := LoadEnvFiles(envFiles...); err != nil {
		return nil, err
	}
	config.ApplyEnv(os.Getenv)
	return config, nil
}

// ResolveConfig is [ReadConfig] followed by [Config.Validate].
func ResolveConfig(path string, envFiles ...string) (*Config, error) {
	config, err := ReadConfig(path, envFiles...)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadEnvFiles loads each .env file that exists; missing files are skipped.
//
// Variables already present in the environment are not overwritten.
func LoadEnvFiles(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values with non-empty environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	set(&c.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	set(&c.Spotify.RedirectURI, "SPOTIFY_REDIRECT_URI")
	set(&c.Spotify.FrontendRedirect, "FRONTEND_REDIRECT")
	set(&c.Server.Host, "HOST")
	set(&c.Database.Path, "DATABASE_PATH")
	set(&c.Log.Level, "LOG_LEVEL")

	if v := getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

// Validate checks that credentials and endpoints are present.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
