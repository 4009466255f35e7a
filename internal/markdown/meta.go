// Package markdown reads the navigation-relevant metadata of a Markdown
// document: its display title, description and extra head tags.
package markdown

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Bitlatte/docnav/internal/model"
)

// Meta is what the navigation build needs from a document.
type Meta struct {
	Title       string
	Description string
	// Image is the frontmatter social preview image.
	Image string
	Head  []model.HeadTag
}

type frontmatterData struct {
	Title       string          `yaml:"title" json:"title" toml:"title"`
	Description string          `yaml:"description" json:"description" toml:"description"`
	Image       string          `yaml:"image" json:"image" toml:"image"`
	Head        []model.HeadTag `yaml:"head" json:"head" toml:"head"`
}

var mdParser = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse extracts Meta from the document src stored under name. The title
// comes from frontmatter, then the first level-1 heading, then the file
// name.
func Parse(name string, src []byte) (Meta, error) {
	var fm frontmatterData
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to parse frontmatter of %s: %w", name, err)
	}

	meta := Meta{
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(fm.Description),
		Image:       strings.TrimSpace(fm.Image),
		Head:        fm.Head,
	}
	if meta.Title == "" {
		meta.Title = firstHeading(body)
	}
	if meta.Title == "" {
		meta.Title = TitleFromName(name)
	}
	return meta, nil
}

func firstHeading(src []byte) string {
	doc := mdParser.Parser().Parse(text.NewReader(src))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			return ast.WalkContinue, nil
		}
		title = strings.TrimSpace(inlineText(h, src))
		return ast.WalkStop, nil
	})
	return title
}

func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(inlineText(c, src))
		}
	}
	return sb.String()
}

// TitleFromName turns "getting-started.md" into "Getting Started".
func TitleFromName(name string) string {
	base := path.Base(name)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
	return cases.Title(language.English).String(base)
}
