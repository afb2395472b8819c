package main

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultPort          = "8080"
	defaultTemplatesDir  = "templates"
	defaultStaticDir     = "static"
	defaultImagesDir     = "images"
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
	defaultTheme         = "dark"
	defaultPageTTL       = 30 * time.Minute
	defaultReapInterval  = time.Minute
	defaultLoopQueueSize = 1024
)

// appConfig is the runtime configuration of the site.
type appConfig struct {
	Addr           string        `mapstructure:"addr"`
	Port           string        `mapstructure:"port"`
	BasePath       string        `mapstructure:"base-path"`
	GithubActions  bool          `mapstructure:"github-actions"`
	CustomDomain   bool          `mapstructure:"custom-domain"`
	Repository     string        `mapstructure:"github-repository"`
	TemplatesDir   string        `mapstructure:"templates-dir"`
	StaticDir      string        `mapstructure:"static-dir"`
	ImagesDir      string        `mapstructure:"images-dir"`
	ProfilePath    string        `mapstructure:"profile-path"`
	LogLevel       string        `mapstructure:"log-level"`
	LogFormat      string        `mapstructure:"log-format"`
	DefaultTheme   string        `mapstructure:"default-theme"`
	PageTTL        time.Duration `mapstructure:"page-ttl"`
	ReapInterval   time.Duration `mapstructure:"reap-interval"`
	LoopQueueSize  int           `mapstructure:"loop-queue-size"`
	MetricsEnabled bool          `mapstructure:"metrics-enabled"`
	GinMode        string        `mapstructure:"gin-mode"`
	ConfigPath     string        `mapstructure:"-"` // not from config file
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Variables the hosting environment sets under their own names.
	_ = v.BindEnv("port", "PORTFOLIO_PORT", "PORT")
	_ = v.BindEnv("github-actions", "GITHUB_ACTIONS")
	_ = v.BindEnv("custom-domain", "PORTFOLIO_CUSTOM_DOMAIN", "NEXT_PUBLIC_CUSTOM_DOMAIN")
	_ = v.BindEnv("base-path", "PORTFOLIO_BASE_PATH", "NEXT_PUBLIC_BASE_PATH")
	_ = v.BindEnv("github-repository", "GITHUB_REPOSITORY")

	v.SetDefault("port", defaultPort)
	v.SetDefault("templates-dir", defaultTemplatesDir)
	v.SetDefault("static-dir", defaultStaticDir)
	v.SetDefault("images-dir", defaultImagesDir)
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("log-format", defaultLogFormat)
	v.SetDefault("default-theme", defaultTheme)
	v.SetDefault("page-ttl", defaultPageTTL)
	v.SetDefault("reap-interval", defaultReapInterval)
	v.SetDefault("loop-queue-size", defaultLoopQueueSize)
	v.SetDefault("metrics-enabled", true)
	v.SetDefault("gin-mode", "release")
	return v
}

func loadConfig(v *viper.Viper, configPath string) (appConfig, error) {
	var cfg appConfig

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if cfg.Addr == "" {
		cfg.Addr = net.JoinHostPort("", cfg.Port)
	}
	switch cfg.DefaultTheme {
	case themeLight, themeDark:
	default:
		return cfg, fmt.Errorf("invalid default-theme %q", cfg.DefaultTheme)
	}
	if cfg.PageTTL <= 0 {
		return cfg, fmt.Errorf("invalid page-ttl: %s", cfg.PageTTL)
	}
	if cfg.ReapInterval <= 0 {
		return cfg, fmt.Errorf("invalid reap-interval: %s", cfg.ReapInterval)
	}
	cfg.BasePath = ResolveBasePath(cfg.GithubActions, cfg.CustomDomain, cfg.BasePath, cfg.Repository)
	return cfg, nil
}

// ResolveBasePath returns the path prefix the site is served under. Only a
// repository-style GitHub Pages deployment (owner.github.io/repo) gets one;
// custom domains and local runs are served from the root.
func ResolveBasePath(githubActions, customDomain bool, explicit, repository string) string {
	if !githubActions || customDomain {
		return ""
	}
	p := explicit
	if p == "" {
		if _, repo, ok := strings.Cut(repository, "/"); ok && repo != "" {
			p = repo
		}
	}
	return normalizeBasePath(p)
}

func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
