// Package config loads hermione settings from a YAML file and HERMIONE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/stsh89/hermione/internal/domain"
)

const (
	EnvPrefix      = "HERMIONE"
	configFileName = "config"
	configFileType = "yaml"
	dataDirName    = ".hermione"
	logFileName    = "hermione.log"
)

type Config struct {
	DataDir string       `mapstructure:"data_dir"`
	LogFile string       `mapstructure:"log_file"`
	Notion  NotionConfig `mapstructure:"notion"`
	HTTP    HTTPConfig   `mapstructure:"http"`
}

type NotionConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	PageSize          int     `mapstructure:"page_size"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// SetDefaults registers every key so that environment overrides work even
// when no config file exists.
func SetDefaults(v *viper.Viper, home string) {
	v.SetDefault("data_dir", filepath.Join(home, dataDirName))
	v.SetDefault("log_file", "")
	v.SetDefault("notion.base_url", "https://api.notion.com/v1")
	v.SetDefault("notion.requests_per_second", 3.0)
	v.SetDefault("notion.page_size", domain.DefaultBackupPageSize)
	v.SetDefault("http.timeout", 30*time.Second)
}

// Load reads configFile, or $HOME/.hermione/config.yaml when configFile is
// empty. A missing default file is not an error; a missing explicit one is.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	SetDefaults(v, home)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(filepath.Join(home, dataDirName))
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, logFileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var problems []string

	if c.DataDir == "" {
		problems = append(problems, "data_dir must not be empty")
	}
	if c.Notion.BaseURL == "" {
		problems = append(problems, "notion.base_url must not be empty")
	}
	if c.Notion.RequestsPerSecond <= 0 {
		problems = append(problems, "notion.requests_per_second must be positive")
	}
	if c.Notion.PageSize < 1 || c.Notion.PageSize > domain.MaxBackupPageSize {
		problems = append(problems, fmt.Sprintf("notion.page_size must be between 1 and %d", domain.MaxBackupPageSize))
	}
	if c.HTTP.Timeout <= 0 {
		problems = append(problems, "http.timeout must be positive")
	}

	if len(problems) > 0 {
		return domain.InvalidArgumentError("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// ConfigFile is where Load looks when no explicit file is given.
func ConfigFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dataDirName, configFileName+"."+configFileType), nil
}
