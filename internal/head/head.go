// Package head computes the <head> elements of a page from site defaults
// and the page's own metadata, and renders them as HTML.
package head

import (
	"html/template"
	"regexp"
	"sort"
	"strings"

	"github.com/Bitlatte/docnav/internal/markdown"
	"github.com/Bitlatte/docnav/internal/model"
)

// identity attributes, in lookup order
var keyAttrs = []string{"name", "property", "http-equiv", "charset"}

// Key identifies which tags replace each other. Tags with an empty key
// never replace anything.
func Key(t model.HeadTag) string {
	tag := strings.ToLower(t.Tag)
	if tag == "title" {
		return "title"
	}
	for _, attr := range keyAttrs {
		if v, ok := t.Attrs[attr]; ok {
			if attr == "charset" {
				return tag + ":charset"
			}
			return tag + ":" + attr + "=" + strings.ToLower(v)
		}
	}
	return ""
}

// Defaults are the site-wide inputs to a page's head.
type Defaults struct {
	Title       string
	Description string
	Tags        []model.HeadTag
}

// Tags returns the head elements for a page. The result starts with the
// site description and the default tags, followed by the social card
// tags, the page's own tags and its description. A tag replaces an
// earlier one sharing its Key in place.
func Tags(site Defaults, page markdown.Meta) []model.HeadTag {
	out := make([]model.HeadTag, 0, len(site.Tags)+len(page.Head)+4)
	index := make(map[string]int)

	put := func(t model.HeadTag) {
		k := Key(t)
		if k != "" {
			if i, ok := index[k]; ok {
				out[i] = t
				return
			}
			index[k] = len(out)
		}
		out = append(out, t)
	}

	if site.Description != "" {
		put(named("description", site.Description))
	}
	for _, t := range site.Tags {
		put(t)
	}
	for _, t := range Social(site, page) {
		put(t)
	}
	for _, t := range page.Head {
		put(t)
	}
	if page.Description != "" {
		put(named("description", page.Description))
	}
	return out
}

// Social returns the twitter card tags of a page: its title suffixed
// with the site title, its description or the site's, and its image.
func Social(site Defaults, page markdown.Meta) []model.HeadTag {
	var tags []model.HeadTag

	title := page.Title
	if site.Title != "" {
		if title == "" {
			title = site.Title
		} else {
			title += " | " + site.Title
		}
	}
	if title != "" {
		tags = append(tags, named("twitter:title", title))
	}

	desc := page.Description
	if desc == "" {
		desc = site.Description
	}
	if desc != "" {
		tags = append(tags, named("twitter:description", desc))
	}

	if page.Image != "" {
		tags = append(tags, named("twitter:image", page.Image))
	}
	return tags
}

func named(name, content string) model.HeadTag {
	return model.HeadTag{
		Tag:   "meta",
		Attrs: map[string]string{"name": name, "content": content},
	}
}

var validName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9:_-]*$`)

// Render writes tags as HTML, one element per line. Attribute order is
// sorted for stable output. Tags and attributes whose names are not
// plain identifiers are dropped.
func Render(tags []model.HeadTag) template.HTML {
	var sb strings.Builder
	for _, t := range tags {
		name := strings.ToLower(t.Tag)
		if !validName.MatchString(name) {
			continue
		}
		sb.WriteString("<")
		sb.WriteString(template.HTMLEscapeString(name))

		attrs := make([]string, 0, len(t.Attrs))
		for k := range t.Attrs {
			if validName.MatchString(k) {
				attrs = append(attrs, k)
			}
		}
		sort.Strings(attrs)
		for _, k := range attrs {
			sb.WriteString(" ")
			sb.WriteString(template.HTMLEscapeString(k))
			sb.WriteString(`="`)
			sb.WriteString(template.HTMLEscapeString(t.Attrs[k]))
			sb.WriteString(`"`)
		}
		sb.WriteString(">")

		if !isVoid(name) {
			sb.WriteString(template.HTMLEscapeString(t.Content))
			sb.WriteString("</")
			sb.WriteString(template.HTMLEscapeString(name))
			sb.WriteString(">")
		}
		sb.WriteString("\n")
	}
	return template.HTML(sb.String())
}

func isVoid(tag string) bool {
	switch tag {
	case "meta", "link", "base":
		return true
	}
	return false
}
