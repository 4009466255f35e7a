// Package site loads a site definition and builds the navigation
// configuration handed to the static-site generator.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/Bitlatte/docnav/internal/head"
	"github.com/Bitlatte/docnav/internal/markdown"
	"github.com/Bitlatte/docnav/internal/model"
	"github.com/Bitlatte/docnav/internal/pathlist"
)

const (
	jsonOutput = "nav.json"
	yamlOutput = "nav.yaml"
)

// Load reads a site definition from a YAML file.
func Load(filename string) (*model.Site, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading site file %s: %w", filename, err)
	}
	var s model.Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("error unmarshalling site file %s: %w", filename, err)
	}
	return &s, nil
}

// Options control a build.
type Options struct {
	// Docs is the documentation root.
	Docs fs.FS
	// BaseURL overrides the base declared by the site when set.
	BaseURL string
	// Production publishes search settings.
	Production bool
	// Search fields that are set override those of the site file, so
	// credentials can stay in the environment.
	Search model.SearchSettings
	// Reader is reused across builds; one is created when nil.
	Reader *markdown.Reader
	Logger *zap.Logger
}

// Build resolves the site definition against the docs root.
func Build(ctx context.Context, opts Options, s *model.Site) (*model.SiteData, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reader := opts.Reader
	if reader == nil {
		var err error
		if reader, err = markdown.NewReader(opts.Docs, 0, logger); err != nil {
			return nil, err
		}
	}

	out := &model.SiteData{
		Title:       s.Title,
		Description: s.Description,
		Base:        s.Base,
		Sidebar:     make(map[string][]model.SidebarGroupData),
		Pages:       make(map[string]*model.PageData),
	}
	if opts.BaseURL != "" {
		out.Base = opts.BaseURL
	}

	nav, err := resolveNav(s.Repo, s.Nav)
	if err != nil {
		return nil, err
	}
	out.Nav = nav

	builder := pathlist.NewBuilder(opts.Docs, logger)
	for _, sb := range s.Sidebar {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		groups := make([]model.SidebarGroupData, 0, len(sb.Groups))
		for _, g := range sb.Groups {
			dir, err := pathlist.CleanDir(g.Dir)
			if err != nil {
				return nil, fmt.Errorf("sidebar %q group %q: %w", sb.Prefix, g.Title, err)
			}
			links, err := builder.Build(dir, g.Entries)
			if err != nil {
				return nil, fmt.Errorf("sidebar %q group %q: %w", sb.Prefix, g.Title, err)
			}
			if g.AutoTitle {
				if links, err = titleLinks(reader, dir, links); err != nil {
					return nil, fmt.Errorf("sidebar %q group %q: %w", sb.Prefix, g.Title, err)
				}
			}
			groups = append(groups, model.SidebarGroupData{
				Title:       g.Title,
				Collapsable: g.Collapsable,
				Children:    links,
			})
		}
		out.Sidebar[sb.Prefix] = append(out.Sidebar[sb.Prefix], groups...)
	}

	if err := collectPages(ctx, opts.Docs, reader, s, out); err != nil {
		return nil, err
	}

	if opts.Production {
		if search := mergeSearch(s.Search, opts.Search); search.Configured() {
			out.Search = &search
		} else {
			logger.Warn("production build without search settings")
		}
	}

	logger.Info("site built",
		zap.Int("sidebars", len(out.Sidebar)),
		zap.Int("pages", len(out.Pages)),
		zap.Bool("production", opts.Production))
	return out, nil
}

func resolveNav(repo string, items []model.NavItem) ([]model.NavItem, error) {
	if items == nil {
		return nil, nil
	}
	out := make([]model.NavItem, 0, len(items))
	for _, item := range items {
		if item.Repo != "" {
			if repo == "" {
				return nil, fmt.Errorf("nav item %q links into the repository but the site has no repo", item.Text)
			}
			item.Link = pathlist.JoinRoot(strings.TrimSuffix(repo, "/"), strings.TrimPrefix(item.Repo, "/"))
			item.Repo = ""
		}
		children, err := resolveNav(repo, item.Items)
		if err != nil {
			return nil, err
		}
		item.Items = children
		out = append(out, item)
	}
	return out, nil
}

func mergeSearch(base, override model.SearchSettings) model.SearchSettings {
	if override.AppID != "" {
		base.AppID = override.AppID
	}
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.IndexName != "" {
		base.IndexName = override.IndexName
	}
	return base
}

// titleLinks gives untitled links the title of the document they point at.
func titleLinks(reader *markdown.Reader, dir string, links []pathlist.Link) ([]pathlist.Link, error) {
	titled := make([]pathlist.Link, len(links))
	prefix := "/" + dir + "/"
	for i, l := range links {
		titled[i] = l
		if l.Titled {
			continue
		}
		suffix := strings.TrimPrefix(l.URL, prefix)
		name := path.Join(dir, suffix)
		if suffix == "" || strings.HasSuffix(suffix, "/") {
			name = path.Join(name, "README.md")
		}
		meta, err := reader.Read(name)
		if errors.Is(err, fs.ErrNotExist) && !strings.HasSuffix(name, ".md") {
			meta, err = reader.Read(name + ".md")
		}
		if err != nil {
			return nil, err
		}
		titled[i].Title = meta.Title
		titled[i].Titled = true
	}
	return titled, nil
}

func collectPages(ctx context.Context, docs fs.FS, reader *markdown.Reader, s *model.Site, out *model.SiteData) error {
	return fs.WalkDir(docs, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", p, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		meta, err := reader.Read(p)
		if err != nil {
			return err
		}
		tags := head.Tags(head.Defaults{Title: s.Title, Description: s.Description, Tags: s.Head}, meta)
		out.Pages[PageURL(p)] = &model.PageData{
			Title:    meta.Title,
			Head:     tags,
			HeadHTML: head.Render(tags),
		}
		return nil
	})
}

// PageURL maps a docs-relative Markdown path to its URL: README.md is
// the directory index, other files lose their extension.
func PageURL(p string) string {
	dir, file := path.Split(p)
	if file == "README.md" {
		return "/" + dir
	}
	return "/" + dir + strings.TrimSuffix(file, ".md") + ".html"
}

// Write stores the built configuration as JSON and YAML in dir.
func Write(data *model.SiteData, dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", dir, err)
	}

	js, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", jsonOutput, err)
	}
	if err := os.WriteFile(filepath.Join(dir, jsonOutput), append(js, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonOutput, err)
	}

	ys, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", yamlOutput, err)
	}
	if err := os.WriteFile(filepath.Join(dir, yamlOutput), ys, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", yamlOutput, err)
	}
	return nil
}
