// Package config resolves the process-wide settings: which backend holds the
// tasks, where it lives, and the UI timing windows.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Backend names one of the two interchangeable task backends.
type Backend string

const (
	// BackendRemote talks to a REST service exposing /todos.
	BackendRemote Backend = "remote"
	// BackendLocal keeps the collection in an on-disk key-value slot.
	BackendLocal Backend = "local"
)

const (
	envPrefix      = "TODO"
	configName     = ".todo" // .yaml is implicit
	configPathEnv  = "TODO_CONFIG_PATH"
	DefaultURL     = "http://localhost:3000/todos"
	DefaultPath    = "~/.todo.db"
	DefaultTimeout = 5 * time.Second
	DefaultLatency = 150 * time.Millisecond
	DefaultDelay   = 400 * time.Millisecond
)

// Config is the resolved configuration. It is built once at startup and not
// changed afterwards.
type Config struct {
	Backend Backend
	Remote  RemoteConfig
	Local   LocalConfig
	UI      UIConfig
	Log     LogConfig
	Metrics MetricsConfig

	// File is the config file that was read, empty when none was found.
	File string
}

type RemoteConfig struct {
	URL     string
	Timeout time.Duration
}

type LocalConfig struct {
	Path    string
	Latency time.Duration
}

type UIConfig struct {
	AppearDelay    time.Duration
	DisappearDelay time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

type MetricsConfig struct {
	Addr string
}

// New returns a viper instance carrying the defaults and env bindings.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

// SetDefaults installs defaults, the config file search path and env
// bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", string(BackendRemote))
	v.SetDefault("static", false)
	v.SetDefault("remote.url", DefaultURL)
	v.SetDefault("remote.timeout", DefaultTimeout)
	v.SetDefault("local.path", DefaultPath)
	v.SetDefault("local.latency", DefaultLatency)
	v.SetDefault("ui.appear_delay", DefaultDelay)
	v.SetDefault("ui.disappear_delay", DefaultDelay)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("metrics.addr", "")

	v.SetConfigName(configName)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(configPathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME")
}

// LoadConfig resolves the configuration from the global viper instance, which
// is where the cobra flags are bound.
func LoadConfig() (*Config, error) {
	v := viper.GetViper()
	SetDefaults(v)
	return Load(v)
}

// Load reads the config file (if any) into v and resolves a Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	backend := Backend(strings.ToLower(strings.TrimSpace(v.GetString("backend"))))
	if v.GetBool("static") {
		backend = BackendLocal
	}
	switch backend {
	case BackendRemote, BackendLocal:
	default:
		return nil, fmt.Errorf("config: unknown backend %q (expected %q or %q)", backend, BackendRemote, BackendLocal)
	}

	path, err := homedir.Expand(v.GetString("local.path"))
	if err != nil {
		return nil, fmt.Errorf("config: expand local.path: %w", err)
	}

	cfg := &Config{
		Backend: backend,
		Remote: RemoteConfig{
			URL:     strings.TrimRight(strings.TrimSpace(v.GetString("remote.url")), "/"),
			Timeout: v.GetDuration("remote.timeout"),
		},
		Local: LocalConfig{
			Path:    path,
			Latency: v.GetDuration("local.latency"),
		},
		UI: UIConfig{
			AppearDelay:    v.GetDuration("ui.appear_delay"),
			DisappearDelay: v.GetDuration("ui.disappear_delay"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		Metrics: MetricsConfig{
			Addr: v.GetString("metrics.addr"),
		},
		File: v.ConfigFileUsed(),
	}
	if cfg.Remote.URL == "" {
		return nil, fmt.Errorf("config: remote.url must not be empty")
	}
	if cfg.Remote.Timeout <= 0 {
		cfg.Remote.Timeout = DefaultTimeout
	}
	return cfg, nil
}
