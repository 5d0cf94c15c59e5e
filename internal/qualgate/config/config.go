// Package config loads qualgate configuration from file, environment, and
// defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file searched for in the working directory.
const DefaultFileName = "qualgate.yml"

// Config is the root configuration.
type Config struct {
	Project string        `mapstructure:"project" yaml:"project"`
	Source  SourceConfig  `mapstructure:"source" yaml:"source"`
	Tools   ToolsConfig   `mapstructure:"tools" yaml:"tools"`
	Reports ReportsConfig `mapstructure:"reports" yaml:"reports"`
	Score   ScoreConfig   `mapstructure:"score" yaml:"score"`
	Pages   PagesConfig   `mapstructure:"pages" yaml:"pages"`
	API     APIConfig     `mapstructure:"api" yaml:"api"`
}

// SourceConfig describes the analyzed source tree.
type SourceConfig struct {
	Dir        string   `mapstructure:"dir" yaml:"dir"`
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
}

// ToolConfig is one external tool invocation. An empty command means the
// tool is not run; its report is read from the configured report path
// instead, so CI can run the tools itself and hand qualgate the files.
type ToolConfig struct {
	Command []string `mapstructure:"command" yaml:"command"`
	Dir     string   `mapstructure:"dir" yaml:"dir,omitempty"`
}

// ToolsConfig holds the three pipeline tools.
type ToolsConfig struct {
	Checkstyle ToolConfig `mapstructure:"checkstyle" yaml:"checkstyle"`
	SpotBugs   ToolConfig `mapstructure:"spotbugs" yaml:"spotbugs"`
	Build      ToolConfig `mapstructure:"build" yaml:"build"`
}

// ReportsConfig names the report files produced and consumed by a run.
type ReportsConfig struct {
	Dir        string `mapstructure:"dir" yaml:"dir"`
	Checkstyle string `mapstructure:"checkstyle" yaml:"checkstyle"`
	SpotBugs   string `mapstructure:"spotbugs" yaml:"spotbugs"`
	Build      string `mapstructure:"build" yaml:"build"`
	HTML       string `mapstructure:"html" yaml:"html"`
}

// ScoreConfig tunes the aggregator.
type ScoreConfig struct {
	// Clamp forces the weighted score into [0, 10].
	Clamp bool `mapstructure:"clamp" yaml:"clamp"`
}

// PagesConfig identifies the static-pages repository reports publish to.
type PagesConfig struct {
	Owner    string `mapstructure:"owner" yaml:"owner"`
	Repo     string `mapstructure:"repo" yaml:"repo"`
	Branch   string `mapstructure:"branch" yaml:"branch"`
	Identity string `mapstructure:"identity" yaml:"identity"`
	// TokenEnv names the environment variable holding the GitHub token.
	TokenEnv string `mapstructure:"token_env" yaml:"token_env"`
}

// APIConfig identifies the external scoring service.
type APIConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Token    string `mapstructure:"token" yaml:"token"`
	// TokenEnv overrides Token from the environment when set.
	TokenEnv string `mapstructure:"token_env" yaml:"token_env"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Dir:        ".",
			Extensions: []string{".java"},
		},
		Reports: ReportsConfig{
			Dir:        "reports",
			Checkstyle: "checkstyle.txt",
			SpotBugs:   "spotbugs.txt",
			Build:      "build.log",
			HTML:       "report.html",
		},
		Pages: PagesConfig{
			Branch:   "main",
			TokenEnv: "GITHUB_TOKEN",
		},
		API: APIConfig{
			TokenEnv: "QUALGATE_API_TOKEN",
		},
	}
}

// Load reads configuration from path (or the default search locations when
// path is empty), layered over defaults, with QUALGATE_* environment
// variables taking precedence over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("QUALGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, ".yml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config: %w", err)
			}
			// no config file: defaults only
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnvTokens()
	return &cfg, nil
}

// applyEnvTokens resolves token_env indirections.
func (c *Config) applyEnvTokens() {
	if c.API.Token == "" && c.API.TokenEnv != "" {
		c.API.Token = os.Getenv(c.API.TokenEnv)
	}
}

// PagesToken returns the GitHub token for publishing, or empty when unset.
func (c *Config) PagesToken() string {
	if c.Pages.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.Pages.TokenEnv)
}

// WriteDefault writes the default configuration as YAML to path. It refuses
// to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	out, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("project", c.Project)
	v.SetDefault("source.dir", c.Source.Dir)
	v.SetDefault("source.extensions", c.Source.Extensions)
	v.SetDefault("reports.dir", c.Reports.Dir)
	v.SetDefault("reports.checkstyle", c.Reports.Checkstyle)
	v.SetDefault("reports.spotbugs", c.Reports.SpotBugs)
	v.SetDefault("reports.build", c.Reports.Build)
	v.SetDefault("reports.html", c.Reports.HTML)
	v.SetDefault("score.clamp", c.Score.Clamp)
	v.SetDefault("pages.branch", c.Pages.Branch)
	v.SetDefault("pages.token_env", c.Pages.TokenEnv)
	v.SetDefault("api.token_env", c.API.TokenEnv)
}
