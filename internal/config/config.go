// Package config loads rootproof settings from the environment and an
// optional config file. Flags always win; config only supplies defaults.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds invocation defaults that may come from ROOTPROOF_* environment
// variables or a .rootproof.yaml file in the audited repository or the user's
// home directory.
type Config struct {
	// AllowedSigners is the default allowed-signers file used for signature
	// verification when --allowed-signers is not given. Empty means use the
	// repository's own gpg.ssh.allowedSignersFile configuration.
	AllowedSigners string `mapstructure:"allowed_signers"`

	// GitHubAPIURL overrides the GitHub API base URL for the advisory
	// compliance query. Useful for GitHub Enterprise installs.
	GitHubAPIURL string `mapstructure:"github_api_url"`

	// GitHubToken authenticates the advisory compliance query. Anonymous
	// queries work but are rate-limited.
	GitHubToken string `mapstructure:"github_token"`

	// NoColor disables styled output regardless of TTY detection.
	NoColor bool `mapstructure:"no_color"`
}

// Load reads configuration for an audit of repoPath. A missing config file is
// not an error; only a malformed one is.
func Load(repoPath string) (Config, error) {
	v := viper.New()
	v.SetConfigName(".rootproof")
	v.SetConfigType("yaml")
	if repoPath != "" {
		v.AddConfigPath(repoPath)
	}
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("ROOTPROOF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through Unmarshal;
	// each key needs an explicit binding.
	for _, key := range []string{"allowed_signers", "github_api_url", "github_token", "no_color"} {
		_ = v.BindEnv(key)
	}

	v.SetDefault("github_api_url", "https://api.github.com")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
