// Package pathlist turns a docs directory, or an explicit list of entries,
// into root-relative navigation links.
package pathlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	markdownExt = ".md"
	readmeName  = "README.md"
)

// Link is an emitted navigation item: a URL, optionally with a title.
type Link struct {
	URL    string
	Title  string
	Titled bool
}

func (l Link) MarshalJSON() ([]byte, error) {
	if l.Titled {
		return json.Marshal([]string{l.URL, l.Title})
	}
	return json.Marshal(l.URL)
}

func (l Link) MarshalYAML() (interface{}, error) {
	if l.Titled {
		return []string{l.URL, l.Title}, nil
	}
	return l.URL, nil
}

// Builder builds link lists relative to a docs root.
type Builder struct {
	docs   fs.FS
	logger *zap.Logger
}

// NewBuilder returns a Builder reading directories from docs. A nil
// logger disables logging.
func NewBuilder(docs fs.FS, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{docs: docs, logger: logger}
}

// Build returns the links for dir. When entries is nil the list is
// discovered from the Markdown files in dir (README.md excluded, sorted
// by name); otherwise entries are used as given and the filesystem is
// not touched. dir is cleaned, so "./guide" and "guide/" mean "guide".
func (b *Builder) Build(dir string, entries Entries) ([]Link, error) {
	dir, err := CleanDir(dir)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		discovered, err := b.Discover(dir)
		if err != nil {
			return nil, err
		}
		entries = discovered
	}

	prefix := "/" + dir + "/"
	links := make([]Link, 0, len(entries))
	for _, e := range entries {
		links = append(links, Link{URL: prefix + e.Name, Title: e.Title, Titled: e.Titled})
	}
	return links, nil
}

// CleanDir normalises a docs-relative directory. Empty directories and
// directories escaping the docs root are invalid.
func CleanDir(dir string) (string, error) {
	rel := path.Clean(dir)
	clean := strings.Trim(path.Clean("/"+dir), "/")
	if dir == "" || clean == "" || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", &InvalidEntryError{Value: dir}
	}
	return clean, nil
}

// Discover lists the Markdown documents directly inside dir.
func (b *Builder) Discover(dir string) (Entries, error) {
	dir, err := CleanDir(dir)
	if err != nil {
		return nil, err
	}
	dirEntries, err := fs.ReadDir(b.docs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Dir: dir, Err: err}
		}
		return nil, fmt.Errorf("failed to list docs directory %q: %w", dir, err)
	}

	names := make([]string, 0, len(dirEntries))
	for _, d := range dirEntries {
		name := d.Name()
		if d.IsDir() || !strings.HasSuffix(name, markdownExt) || name == readmeName {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	b.logger.Debug("discovered docs", zap.String("dir", dir), zap.Int("count", len(names)))

	entries := make(Entries, len(names))
	for i, name := range names {
		entries[i] = Bare(name)
	}
	return entries, nil
}

// JoinRoot appends path to base with a slash, or returns base when path
// is empty.
func JoinRoot(base, path string) string {
	if path == "" {
		return base
	}
	return base + "/" + path
}
