package config

import (
	"github.com/spf13/viper"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/paths"
)

// Settings are the tunables read from the environment and settings.yaml.
type Settings struct {
	GitHubAPIURL string `mapstructure:"github_api_url"`
	GitHubRawURL string `mapstructure:"github_raw_url"`
	GitHubToken  string `mapstructure:"github_token"`
	RegistryURL  string `mapstructure:"registry_url"`
	GitBinary    string `mapstructure:"git_binary"`
	NPMBinary    string `mapstructure:"npm_binary"`
	LogFormat    string `mapstructure:"log_format"`
}

// Default endpoints.
const (
	DefaultGitHubAPIURL = "https://api.github.com"
	DefaultGitHubRawURL = "https://raw.githubusercontent.com"
	DefaultRegistryURL  = "https://registry.npmjs.org"
)

// Init configures the global viper instance. Call once at startup, before
// LoadSettings.
func Init() {
	viper.SetConfigName("settings")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("RULINK")
	viper.AutomaticEnv()
	// GITHUB_TOKEN is honoured as well as RULINK_GITHUB_TOKEN.
	_ = viper.BindEnv("github_token", "RULINK_GITHUB_TOKEN", "GITHUB_TOKEN")

	viper.SetDefault("github_api_url", DefaultGitHubAPIURL)
	viper.SetDefault("github_raw_url", DefaultGitHubRawURL)
	viper.SetDefault("registry_url", DefaultRegistryURL)
	viper.SetDefault("git_binary", "git")
	viper.SetDefault("npm_binary", "npm")
	viper.SetDefault("log_format", "text")
}

// LoadSettings reads settings. An explicit path must exist; with an empty
// path a missing settings.yaml just means defaults.
func LoadSettings(path string) (*Settings, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, errors.Wrap(err, "reading settings")
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "unmarshaling settings")
	}
	return &s, nil
}
