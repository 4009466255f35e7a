package config

import "path/filepath"

type Config struct {
	DocsRoot   string `mapstructure:"docsRoot"`
	SiteFile   string `mapstructure:"siteFile"`
	OutputDir  string `mapstructure:"outputDir"`
	BaseURL    string `mapstructure:"baseURL"`
	Production bool   `mapstructure:"production"`
	CacheSize  int    `mapstructure:"cacheSize"`
	Search     Search `mapstructure:"search"`
}

// Search holds search-index settings taken from the environment or the
// config file. Set fields override the site definition.
type Search struct {
	AppID     string `mapstructure:"appId"`
	APIKey    string `mapstructure:"apiKey"`
	IndexName string `mapstructure:"indexName"`
}

// SitePath resolves SiteFile against DocsRoot unless it is absolute.
func (c Config) SitePath() string {
	if filepath.IsAbs(c.SiteFile) {
		return c.SiteFile
	}
	return filepath.Join(c.DocsRoot, c.SiteFile)
}
