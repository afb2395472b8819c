package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBasePath(t *testing.T) {
	tests := []struct {
		name          string
		githubActions bool
		customDomain  bool
		explicit      string
		repository    string
		want          string
	}{
		{name: "local", want: ""},
		{name: "local ignores explicit", explicit: "/x", want: ""},
		{name: "pages from repository", githubActions: true, repository: "spahuja/portfolio", want: "/portfolio"},
		{name: "pages explicit wins", githubActions: true, explicit: "site/", repository: "spahuja/portfolio", want: "/site"},
		{name: "custom domain", githubActions: true, customDomain: true, repository: "spahuja/portfolio", want: ""},
		{name: "no repository", githubActions: true, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveBasePath(tt.githubActions, tt.customDomain, tt.explicit, tt.repository))
		})
	}
}

func clearHostingEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "GITHUB_ACTIONS", "GITHUB_REPOSITORY", "NEXT_PUBLIC_CUSTOM_DOMAIN", "NEXT_PUBLIC_BASE_PATH"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearHostingEnv(t)

	cfg, err := loadConfig(newViper(), "")
	require.NoError(t, err)

	assert.Equal(t, ":"+defaultPort, cfg.Addr)
	assert.Equal(t, "", cfg.BasePath)
	assert.Equal(t, themeDark, cfg.DefaultTheme)
	assert.Equal(t, defaultPageTTL, cfg.PageTTL)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadConfigHostingEnv(t *testing.T) {
	clearHostingEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_REPOSITORY", "spahuja/portfolio")

	cfg, err := loadConfig(newViper(), "")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "/portfolio", cfg.BasePath)

	t.Setenv("NEXT_PUBLIC_CUSTOM_DOMAIN", "true")
	cfg, err = loadConfig(newViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.BasePath)
}

func TestLoadConfigFile(t *testing.T) {
	clearHostingEnv(t)
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log-level: debug\npage-ttl: 5m\ndefault-theme: light\n"), 0o600))

	cfg, err := loadConfig(newViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.PageTTL)
	assert.Equal(t, themeLight, cfg.DefaultTheme)
	assert.Equal(t, path, cfg.ConfigPath)
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearHostingEnv(t)
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := loadConfig(newViper(), path)
	assert.ErrorContains(t, err, "reading config")
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	clearHostingEnv(t)

	t.Setenv("PORTFOLIO_DEFAULT_THEME", "sepia")
	_, err := loadConfig(newViper(), "")
	assert.ErrorContains(t, err, "default-theme")

	t.Setenv("PORTFOLIO_DEFAULT_THEME", "")
	t.Setenv("PORTFOLIO_PAGE_TTL", "-1s")
	_, err = loadConfig(newViper(), "")
	assert.ErrorContains(t, err, "page-ttl")
}
