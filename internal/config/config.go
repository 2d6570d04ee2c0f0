// Package config loads the server configuration from the environment.
//
// Every key can be set through a SCHOOLFEES_ prefixed variable with dots replaced by
// underscores (graphql.endpoint is SCHOOLFEES_GRAPHQL_ENDPOINT). A .env file, when
// present, is loaded first; variables already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmynk/schoolfees/internal/validation"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SCHOOLFEES"

// Config is the server configuration.
type Config struct {
	// GraphQLEndpoint is the URL of the school management GraphQL backend.
	GraphQLEndpoint string `json:"graphqlEndpoint" validate:"required,url"`

	// GraphQLTimeout bounds every backend request.
	GraphQLTimeout time.Duration `json:"graphqlTimeout" validate:"gt=0"`

	Port     int    `json:"port" validate:"min=1,max=65535"`
	DBPath   string `json:"dbPath" validate:"required"`
	LogLevel string `json:"logLevel" validate:"oneof=debug info warn error"`
	Debug    bool   `json:"debug"`
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func defaults(v *viper.Viper) {
	v.SetDefault("graphql.endpoint", "")
	v.SetDefault("graphql.timeout", 30*time.Second)
	v.SetDefault("server.port", 8080)
	v.SetDefault("db.path", "./data/schoolfees.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("debug", false)
}

// Load reads the configuration. dotEnvPath names an optional .env file; a missing
// file is not an error.
func Load(dotEnvPath string) (*Config, error) {
	if dotEnvPath != "" {
		if err := godotenv.Load(dotEnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", dotEnvPath, err)
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		GraphQLEndpoint: strings.TrimSpace(v.GetString("graphql.endpoint")),
		GraphQLTimeout:  v.GetDuration("graphql.timeout"),
		Port:            v.GetInt("server.port"),
		DBPath:          v.GetString("db.path"),
		LogLevel:        strings.ToLower(v.GetString("log.level")),
		Debug:           v.GetBool("debug"),
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
