package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFlags(t *testing.T, config, env string) {
	t.Helper()
	oldCfg, oldEnv, oldApp := cfgFile, envFile, appConfig
	cfgFile, envFile = config, env
	t.Cleanup(func() {
		cfgFile, envFile, appConfig = oldCfg, oldEnv, oldApp
	})
}

func TestInitializeConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "docnav.yaml")
	require.NoError(t, os.WriteFile(file, []byte("docsRoot: site-docs\nbaseURL: /v1/\ncacheSize: 16\n"), 0o644))
	withFlags(t, file, "")

	require.NoError(t, initializeConfig(rootCmd))
	assert.Equal(t, "site-docs", appConfig.DocsRoot)
	assert.Equal(t, "/v1/", appConfig.BaseURL)
	assert.Equal(t, "public", appConfig.OutputDir)
	assert.Equal(t, "site.yaml", appConfig.SiteFile)
	assert.Equal(t, 16, appConfig.CacheSize)
	assert.False(t, appConfig.Production)
}

func TestInitializeConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "docnav.yaml")
	require.NoError(t, os.WriteFile(file, []byte("outputDir: from-file\n"), 0o644))
	withFlags(t, file, "")
	t.Setenv("DOCNAV_OUTPUTDIR", "from-env")

	require.NoError(t, initializeConfig(rootCmd))
	assert.Equal(t, "from-env", appConfig.OutputDir)
}

func TestInitializeConfigLoadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "docnav.yaml")
	require.NoError(t, os.WriteFile(file, []byte("docsRoot: docs\n"), 0o644))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("DOCNAV_PRODUCTION=true\n"), 0o644))
	withFlags(t, file, envPath)
	t.Cleanup(func() { os.Unsetenv("DOCNAV_PRODUCTION") })

	require.NoError(t, initializeConfig(rootCmd))
	assert.True(t, appConfig.Production)
}

func TestInitializeConfigMissingEnvFileIsIgnored(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "docnav.yaml")
	require.NoError(t, os.WriteFile(file, []byte("docsRoot: docs\n"), 0o644))
	withFlags(t, file, filepath.Join(dir, "missing.env"))

	assert.NoError(t, initializeConfig(rootCmd))
}

func TestInitializeConfigMissingExplicitFile(t *testing.T) {
	withFlags(t, filepath.Join(t.TempDir(), "nope.yaml"), "")

	assert.Error(t, initializeConfig(rootCmd))
}

func TestInitializeConfigSearchFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "docnav.yaml")
	require.NoError(t, os.WriteFile(file, []byte("search:\n  indexName: bocadillo\n"), 0o644))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("ALGOLIA_API_KEY=secret\n"), 0o644))
	withFlags(t, file, envPath)
	t.Cleanup(func() { os.Unsetenv("ALGOLIA_API_KEY") })

	require.NoError(t, initializeConfig(rootCmd))
	assert.Equal(t, "secret", appConfig.Search.APIKey)
	assert.Equal(t, "bocadillo", appConfig.Search.IndexName)
	assert.Empty(t, appConfig.Search.AppID)
}

func TestInitializeConfigSearchPrefixedEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "docnav.yaml")
	require.NoError(t, os.WriteFile(file, []byte("docsRoot: docs\n"), 0o644))
	withFlags(t, file, "")
	t.Setenv("DOCNAV_SEARCH_APIKEY", "from-env")
	t.Setenv("DOCNAV_SEARCH_APPID", "app")

	require.NoError(t, initializeConfig(rootCmd))
	assert.Equal(t, "from-env", appConfig.Search.APIKey)
	assert.Equal(t, "app", appConfig.Search.AppID)
}
