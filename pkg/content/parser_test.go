package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurv/sitegen/pkg/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestParser_Load(t *testing.T) {
	fixed := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	parser := NewParser(func() time.Time { return fixed })

	dir := t.TempDir()
	writeFile(t, dir, "2024-01-05-first.md", `---
title: First Post
tags:
  - go
  - testing
---
Hello **world**.
`)
	writeFile(t, dir, "second.md", `---
title: Second Post
date: 2024-02-10
description: explicit description
---
Second body.
`)
	writeFile(t, dir, "notes.txt", "not markdown, ignored")

	posts, err := parser.Load(dir, "blog")
	require.NoError(t, err)
	require.Len(t, posts, 2)

	first := posts[0]
	assert.Equal(t, "First Post", first.Title)
	assert.Equal(t, "first", first.Slug)
	assert.Equal(t, "blog", first.Collection)
	assert.Equal(t, []string{"go", "testing"}, first.Tags)
	assert.Equal(t, "Hello **world**.", first.Markdown)
	assert.True(t, first.Date.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, domain.IST)))

	second := posts[1]
	assert.Equal(t, "second", second.Slug)
	assert.Equal(t, "explicit description", second.Description)
	assert.True(t, second.Date.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, domain.IST)))
}

func TestParser_LoadSkipsBadFiles(t *testing.T) {
	parser := NewParser(nil)

	dir := t.TempDir()
	writeFile(t, dir, "good.md", "---\ntitle: Good\n---\nbody\n")
	writeFile(t, dir, "no-frontmatter.md", "just a body, no metadata block\n")
	writeFile(t, dir, "broken-yaml.md", "---\ntitle: [unclosed\n---\nbody\n")
	writeFile(t, dir, "untitled.md", "---\ntags: [x]\n---\nbody\n")

	posts, err := parser.Load(dir, "til")
	require.NoError(t, err, "bad files must not abort the batch")
	require.Len(t, posts, 1)
	assert.Equal(t, "Good", posts[0].Title)
}

func TestParser_LoadMissingDir(t *testing.T) {
	parser := NewParser(nil)
	_, err := parser.Load(filepath.Join(t.TempDir(), "nope"), "blog")
	require.Error(t, err, "missing content directory is a precondition failure")
}

func TestParser_CollectionOverride(t *testing.T) {
	parser := NewParser(nil)

	dir := t.TempDir()
	writeFile(t, dir, "moved.md", "---\ntitle: Moved\ncollection: weblog\n---\nbody\n")

	posts, err := parser.Load(dir, "blog")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "weblog", posts[0].Collection)
}
