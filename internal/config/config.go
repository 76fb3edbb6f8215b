// Package config loads planfsa settings from an optional YAML file and
// PLANFSA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "planfsa.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PLANFSA_"

// Config holds all configuration for the planfsa CLI and server.
type Config struct {
	Plans    PlansConfig    `mapstructure:"plans" yaml:"plans"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Domain   DomainConfig   `mapstructure:"domain" yaml:"domain"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
	Selector SelectorConfig `mapstructure:"selector" yaml:"selector"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Serve    ServeConfig    `mapstructure:"serve" yaml:"serve"`
}

type PlansConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Filter string `mapstructure:"filter" yaml:"filter"`
}

type OutputConfig struct {
	// Name is the output file name without extension.
	Name   string `mapstructure:"name" yaml:"name"`
	Format string `mapstructure:"format" yaml:"format"`
}

type DomainConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type MetricsConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

type SelectorConfig struct {
	ObjectFocus bool `mapstructure:"object_focus" yaml:"object_focus"`
}

type StoreConfig struct {
	// Dir enables the file result store when set.
	Dir   string      `mapstructure:"dir" yaml:"dir"`
	Redis RedisConfig `mapstructure:"redis" yaml:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type RenderConfig struct {
	DotCommand string `mapstructure:"dot_command" yaml:"dot_command"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Plans:  PlansConfig{Filter: "..*"},
		Log:    LogConfig{Level: "info", Format: "text"},
		Store:  StoreConfig{Redis: RedisConfig{Prefix: "planfsa:result:"}},
		Render: RenderConfig{DotCommand: "dot"},
		Serve:  ServeConfig{Addr: ":8080"},
	}
}

// envKeys maps environment variables (without prefix) to config paths.
var envKeys = map[string]string{
	"PLANS_DIR":             "plans.dir",
	"PLANS_FILTER":          "plans.filter",
	"OUTPUT_NAME":           "output.name",
	"OUTPUT_FORMAT":         "output.format",
	"DOMAIN_FILE":           "domain.file",
	"LOG_LEVEL":             "log.level",
	"LOG_FORMAT":            "log.format",
	"METRICS_FILE":          "metrics.file",
	"SELECTOR_OBJECT_FOCUS": "selector.object_focus",
	"STORE_DIR":             "store.dir",
	"STORE_REDIS_ADDR":      "store.redis.addr",
	"STORE_REDIS_PASSWORD":  "store.redis.password",
	"STORE_REDIS_DB":        "store.redis.db",
	"STORE_REDIS_PREFIX":    "store.redis.prefix",
	"STORE_REDIS_TTL":       "store.redis.ttl",
	"RENDER_DOT_COMMAND":    "render.dot_command",
	"SERVE_ADDR":            "serve.addr",
}

// Load builds the configuration: defaults, then the YAML file, then environment
// overrides. An empty path reads DefaultFile if it exists.
func Load(path string) (*Config, error) {
	raw := map[string]any{}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	for name, key := range envKeys {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			set(raw, key, v)
		}
	}

	cfg := Default()
	if err := Decode(raw, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode merges a generic map (from YAML, JSON or flags) into cfg.
// Strings are accepted for numbers, booleans and durations.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// set writes value at a dotted path, creating nested maps as needed.
func set(raw map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	m := raw
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}
