package model

import "github.com/Bitlatte/docnav/internal/pathlist"

// Site is the declarative site definition loaded from site.yaml.
type Site struct {
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Base        string         `yaml:"base" json:"base"`
	Repo        string         `yaml:"repo" json:"repo,omitempty"`
	Nav         []NavItem      `yaml:"nav" json:"nav"`
	Sidebar     []Sidebar      `yaml:"sidebar" json:"-"`
	Head        []HeadTag      `yaml:"head" json:"head"`
	Search      SearchSettings `yaml:"search" json:"-"`
}

// NavItem is a navbar entry. Repo, when set, is a path relative to the
// site repository URL and takes precedence over Link.
type NavItem struct {
	Text  string    `yaml:"text" json:"text"`
	Link  string    `yaml:"link,omitempty" json:"link,omitempty"`
	Repo  string    `yaml:"repo,omitempty" json:"-"`
	Items []NavItem `yaml:"items,omitempty" json:"items,omitempty"`
}

// Sidebar holds the groups shown for pages under Prefix.
type Sidebar struct {
	Prefix string         `yaml:"prefix"`
	Groups []SidebarGroup `yaml:"groups"`
}

// SidebarGroup is one titled block of links. Entries left out of the
// definition are discovered from Dir.
type SidebarGroup struct {
	Title       string           `yaml:"title"`
	Dir         string           `yaml:"dir"`
	Entries     pathlist.Entries `yaml:"entries"`
	Collapsable bool             `yaml:"collapsable"`
	AutoTitle   bool             `yaml:"autoTitle"`
}

// SearchSettings are the search index credentials. They are only
// published for production builds.
type SearchSettings struct {
	AppID     string `yaml:"appId" json:"appId"`
	APIKey    string `yaml:"apiKey" json:"apiKey"`
	IndexName string `yaml:"indexName" json:"indexName"`
}

// Configured reports whether enough settings are present to publish.
func (s SearchSettings) Configured() bool {
	return s.APIKey != "" && s.IndexName != ""
}

// HeadTag is a single element placed in a page's <head>.
type HeadTag struct {
	Tag     string            `yaml:"tag" json:"tag"`
	Attrs   map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Content string            `yaml:"content,omitempty" json:"content,omitempty"`
}
