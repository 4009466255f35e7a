package pathlist

import (
	"encoding/json"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

type countingFS struct {
	fs.FS
	opens int
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens++
	return c.FS.Open(name)
}

func docsFS() fstest.MapFS {
	return fstest.MapFS{
		"d/a.md":             {Data: []byte("# A")},
		"d/README.md":        {Data: []byte("# Readme")},
		"d/b.md":             {Data: []byte("# B")},
		"only/README.md":     {Data: []byte("# Readme")},
		"mixed/c.md":         {Data: []byte("# C")},
		"mixed/notes.txt":    {Data: []byte("plain")},
		"mixed/image.md.png": {Data: []byte{0x89}},
		"mixed/sub/deep.md":  {Data: []byte("# Deep")},
		"mixed/a.MD":         {Data: []byte("# upper")},
	}
}

func TestBuildDiscoversMarkdown(t *testing.T) {
	b := NewBuilder(docsFS(), nil)

	links, err := b.Build("d", nil)
	require.NoError(t, err)
	assert.Equal(t, []Link{{URL: "/d/a.md"}, {URL: "/d/b.md"}}, links)
}

func TestBuildDiscoverySkipsNonMarkdownAndDirs(t *testing.T) {
	b := NewBuilder(docsFS(), nil)

	links, err := b.Build("mixed", nil)
	require.NoError(t, err)
	assert.Equal(t, []Link{{URL: "/mixed/c.md"}}, links)
}

func TestBuildReadmeOnlyIsEmpty(t *testing.T) {
	b := NewBuilder(docsFS(), nil)

	links, err := b.Build("only", nil)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestBuildMissingDirectory(t *testing.T) {
	b := NewBuilder(docsFS(), nil)

	_, err := b.Build("does-not-exist", nil)
	require.Error(t, err)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "does-not-exist", nf.Dir)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestBuildExplicitEntries(t *testing.T) {
	cfs := &countingFS{FS: docsFS()}
	b := NewBuilder(cfs, nil)

	links, err := b.Build("d", Entries{Bare("x"), Pair("y", "Y Title")})
	require.NoError(t, err)
	assert.Equal(t, []Link{
		{URL: "/d/x"},
		{URL: "/d/y", Title: "Y Title", Titled: true},
	}, links)
	assert.Zero(t, cfs.opens)
}

func TestBuildExplicitEmptyDoesNotDiscover(t *testing.T) {
	cfs := &countingFS{FS: docsFS()}
	b := NewBuilder(cfs, nil)

	links, err := b.Build("does-not-exist", Entries{})
	require.NoError(t, err)
	assert.Empty(t, links)
	assert.Zero(t, cfs.opens)
}

func TestBuildIsIdempotent(t *testing.T) {
	b := NewBuilder(docsFS(), nil)
	entries := Entries{Bare("x"), Pair("y", "Y")}

	first, err := b.Build("d", entries)
	require.NoError(t, err)
	second, err := b.Build("d", entries)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildRejectsEmptyDir(t *testing.T) {
	b := NewBuilder(docsFS(), nil)

	_, err := b.Build("", Entries{Bare("x")})
	var invalid *InvalidEntryError
	assert.True(t, errors.As(err, &invalid))
}

func TestLinkJSON(t *testing.T) {
	links := []Link{{URL: "/d/x"}, {URL: "/d/y", Title: "Y Title", Titled: true}}

	out, err := json.Marshal(links)
	require.NoError(t, err)
	assert.JSONEq(t, `["/d/x", ["/d/y", "Y Title"]]`, string(out))
}

func TestEntriesFromYAML(t *testing.T) {
	var doc struct {
		Entries Entries `yaml:"entries"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("entries:\n  - x\n  - [y, Y Title]\n"), &doc))
	assert.Equal(t, Entries{Bare("x"), Pair("y", "Y Title")}, doc.Entries)
}

func TestEntriesFromYAMLAbsentVersusEmpty(t *testing.T) {
	var absent, empty struct {
		Entries Entries `yaml:"entries"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("title: x\n"), &absent))
	require.NoError(t, yaml.Unmarshal([]byte("entries: []\n"), &empty))

	assert.Nil(t, absent.Entries)
	assert.NotNil(t, empty.Entries)
	assert.Empty(t, empty.Entries)
}

func TestMalformedEntries(t *testing.T) {
	cases := map[string]string{
		"one element":   "entries:\n  - [only]\n",
		"three element": "entries:\n  - [a, b, c]\n",
		"mapping":       "entries:\n  - {name: a}\n",
		"number title":  "entries:\n  - [a, 3]\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			var doc struct {
				Entries Entries `yaml:"entries"`
			}
			err := yaml.Unmarshal([]byte(src), &doc)
			var invalid *InvalidEntryError
			assert.True(t, errors.As(err, &invalid), "got %v", err)
		})
	}
}

func TestEntriesFromJSON(t *testing.T) {
	var entries Entries
	require.NoError(t, json.Unmarshal([]byte(`["x", ["y", "Y"]]`), &entries))
	assert.Equal(t, Entries{Bare("x"), Pair("y", "Y")}, entries)

	err := json.Unmarshal([]byte(`[42]`), &entries)
	var invalid *InvalidEntryError
	assert.True(t, errors.As(err, &invalid))
}

func TestParseEntriesKeepsNil(t *testing.T) {
	entries, err := ParseEntries(nil)
	require.NoError(t, err)
	assert.Nil(t, entries)

	entries, err = ParseEntries([]interface{}{"a", []interface{}{"b", "B"}})
	require.NoError(t, err)
	assert.Equal(t, Entries{Bare("a"), Pair("b", "B")}, entries)

	_, err = ParseEntries([]interface{}{true})
	assert.Error(t, err)
}

func TestJoinRoot(t *testing.T) {
	assert.Equal(t, "https://example.com", JoinRoot("https://example.com", ""))
	assert.Equal(t, "https://example.com/p", JoinRoot("https://example.com", "p"))
}

func TestBuildCleansDir(t *testing.T) {
	b := NewBuilder(docsFS(), nil)

	for _, dir := range []string{"d/", "./d", "/d", "d//"} {
		links, err := b.Build(dir, nil)
		require.NoError(t, err, dir)
		assert.Equal(t, []Link{{URL: "/d/a.md"}, {URL: "/d/b.md"}}, links, dir)
	}

	links, err := b.Build("guide/", Entries{Bare("x")})
	require.NoError(t, err)
	assert.Equal(t, []Link{{URL: "/guide/x"}}, links)
}

func TestBuildRejectsEscapingDir(t *testing.T) {
	b := NewBuilder(docsFS(), nil)

	for _, dir := range []string{".", "/", "..", "../d"} {
		_, err := b.Build(dir, Entries{Bare("x")})
		var invalid *InvalidEntryError
		assert.True(t, errors.As(err, &invalid), dir)
	}
}

func TestDiscoverOnFileIsNotNotFound(t *testing.T) {
	b := NewBuilder(docsFS(), nil)

	_, err := b.Build("d/a.md", nil)
	require.Error(t, err)
	var nf *NotFoundError
	assert.False(t, errors.As(err, &nf))
	assert.Contains(t, err.Error(), "failed to list docs directory")
}
