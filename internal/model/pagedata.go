package model

import (
	"html/template"

	"github.com/Bitlatte/docnav/internal/pathlist"
)

// SidebarGroupData is a resolved sidebar group as handed to the generator.
type SidebarGroupData struct {
	Title       string          `json:"title" yaml:"title"`
	Collapsable bool            `json:"collapsable" yaml:"collapsable"`
	Children    []pathlist.Link `json:"children" yaml:"children"`
}

// PageData is the per-page output: display title and head tags.
type PageData struct {
	Title    string        `json:"title" yaml:"title"`
	Head     []HeadTag     `json:"head" yaml:"head"`
	HeadHTML template.HTML `json:"headHtml" yaml:"headHtml"`
}

// SiteData is the navigation configuration written for the generator.
type SiteData struct {
	Title       string                        `json:"title" yaml:"title"`
	Description string                        `json:"description" yaml:"description"`
	Base        string                        `json:"base" yaml:"base"`
	Nav         []NavItem                     `json:"nav" yaml:"nav"`
	Sidebar     map[string][]SidebarGroupData `json:"sidebar" yaml:"sidebar"`
	Pages       map[string]*PageData          `json:"pages" yaml:"pages"`
	Search      *SearchSettings               `json:"search,omitempty" yaml:"search,omitempty"`
}
