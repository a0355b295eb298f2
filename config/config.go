// Package config loads service configuration from YAML files, .env files,
// and environment variables, in that order of precedence (env wins).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Options controls where Load looks for configuration files.
type Options struct {
	// ConfigFile is an explicit YAML config path. When empty, standard
	// locations are searched.
	ConfigFile string
	// EnvFile is an explicit .env path. When empty, standard locations
	// are searched.
	EnvFile string
}

// Option is a functional option for Load.
type Option func(*Options)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(o *Options) { o.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(o *Options) { o.EnvFile = path }
}

// Load loads configuration for a service into cfg. It reads an optional
// config.yml, loads an optional .env file, binds environment variables
// (dots become underscores: server.port -> SERVER_PORT), and unmarshals
// the merged result.
func Load(serviceName string, cfg interface{}, opts ...Option) error {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := o.ConfigFile
	if configFile == "" {
		configFile = findFirst(configSearchPaths(serviceName))
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	envFile := o.EnvFile
	if envFile == "" {
		envFile = findFirst(envSearchPaths(serviceName))
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	bindKeys(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal for service %s: %w", serviceName, err)
	}
	return nil
}

// configSearchPaths lists the standard config.yml locations for a service.
func configSearchPaths(serviceName string) []string {
	return []string{
		fmt.Sprintf("./config/%s.yml", serviceName),
		"./config/config.yml",
		"./config.yml",
	}
}

// envSearchPaths lists the standard .env locations for a service.
func envSearchPaths(serviceName string) []string {
	return []string{
		fmt.Sprintf(".env.%s", serviceName),
		".env",
	}
}

func findFirst(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
