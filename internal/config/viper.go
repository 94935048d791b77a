// Package config loads the client configuration from an INI file (mw.ini by
// default) with environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"ari/moneyworks-cli/internal/mwerror"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "mw.ini"

// EnvPrefix prefixes environment overrides: MW_MW_SERVER_HOST overrides
// [mw_server] HOST.
const EnvPrefix = "MW"

// Server holds the [mw_server] section.
type Server struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	DataFile       string `mapstructure:"data_file"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	Scheme         string `mapstructure:"scheme"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Mail holds the [mail] section used for emailing printed documents.
type Mail struct {
	MX       string `mapstructure:"mx"`
	SendFrom string `mapstructure:"send_from"`
}

// Log holds the [log] section.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the complete client configuration.
type Config struct {
	Path   string `mapstructure:"-"`
	Server Server `mapstructure:"mw_server"`
	Mail   Mail   `mapstructure:"mail"`
	Log    Log    `mapstructure:"log"`
}

// Load reads the INI file at path. A missing or unreadable file is a
// *mwerror.ConfigError, as is a file without [mw_server] HOST or DATA_FILE.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	// Values are taken verbatim: '#' and ';' may appear in passwords and
	// data file names, and surrounding quotes are part of the value.
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}, path)
	if err != nil {
		return nil, &mwerror.ConfigError{Path: path, Err: err}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.MergeConfigMap(sections(file)); err != nil {
		return nil, &mwerror.ConfigError{Path: path, Err: err}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &mwerror.ConfigError{Path: path, Err: fmt.Errorf("failed to unmarshal config: %w", err)}
	}
	cfg.Path = path

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// sections flattens the INI file into the nested map viper expects. Section
// and key names are lower-cased, so HOST and host are the same option.
func sections(file *ini.File) map[string]any {
	out := make(map[string]any)
	for _, sec := range file.Sections() {
		keys := sec.Keys()
		if len(keys) == 0 {
			continue
		}
		m := make(map[string]any, len(keys))
		for _, k := range keys {
			m[strings.ToLower(k.Name())] = k.Value()
		}
		out[strings.ToLower(sec.Name())] = m
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mw_server.host", "")
	v.SetDefault("mw_server.port", 6710)
	v.SetDefault("mw_server.data_file", "")
	v.SetDefault("mw_server.username", "")
	v.SetDefault("mw_server.password", "")
	v.SetDefault("mw_server.scheme", "http")
	v.SetDefault("mw_server.timeout_seconds", 60)

	v.SetDefault("mail.mx", "localhost")
	v.SetDefault("mail.send_from", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func validateConfig(cfg *Config) error {
	required := []struct {
		option string
		value  string
	}{
		{"mw_server.HOST", cfg.Server.Host},
		{"mw_server.DATA_FILE", cfg.Server.DataFile},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &mwerror.ConfigError{Path: cfg.Path, Option: r.option}
		}
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return &mwerror.ConfigError{Path: cfg.Path, Option: "mw_server.PORT",
			Err: fmt.Errorf("must be between 1 and 65535, got %d", cfg.Server.Port)}
	}
	if cfg.Server.Scheme != "http" && cfg.Server.Scheme != "https" {
		return &mwerror.ConfigError{Path: cfg.Path, Option: "mw_server.SCHEME",
			Err: fmt.Errorf("must be http or https, got %q", cfg.Server.Scheme)}
	}
	if cfg.Server.TimeoutSeconds < 0 {
		return &mwerror.ConfigError{Path: cfg.Path, Option: "mw_server.TIMEOUT_SECONDS",
			Err: errors.New("must not be negative")}
	}

	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return &mwerror.ConfigError{Path: cfg.Path, Option: "log.LEVEL", Err: err}
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return &mwerror.ConfigError{Path: cfg.Path, Option: "log.FORMAT",
			Err: fmt.Errorf("must be 'text' or 'json', got %q", cfg.Log.Format)}
	}
	return nil
}
