package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sitegen.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
site:
  base_url: https://example.me
  title: notes
  author: somebody
  description: notes and posts

collections:
  - name: blog
    source: content/blog
    output: blog
  - name: til
    source: content/til
    output: til
    url_prefix: today-i-learned
    title: Today I Learned

feed:
  file: feed.xml
  max_items: 20

server:
  listen: ":9090"
  timeout: 15s

site_dir: dist
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.me", cfg.Site.BaseURL)
	assert.Equal(t, "feed.xml", cfg.Feed.File)
	assert.Equal(t, 20, cfg.Feed.MaxItems)
	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, 15*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "dist", cfg.SiteDir)

	require.Len(t, cfg.Collections, 2)
	assert.Equal(t, "blog", cfg.Collections[0].URLPrefix, "url prefix defaults to output dir")
	assert.Equal(t, "blog", cfg.Collections[0].Title, "title defaults to name")
	assert.Equal(t, "today-i-learned", cfg.Collections[1].URLPrefix)
	assert.Equal(t, "Today I Learned", cfg.Collections[1].Title)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
site:
  base_url: https://example.me
collections:
  - name: blog
    source: content/blog
    output: blog
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "rss.xml", cfg.Feed.File)
	assert.Equal(t, 30, cfg.Feed.MaxItems)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "public", cfg.SiteDir)
	assert.Equal(t, "file:upvotes.db?cache=shared&mode=rwc", cfg.Database.DSN)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "https://challenges.cloudflare.com/turnstile/v0/siteverify", cfg.Captcha.VerifyURL)
	assert.Equal(t, 10*time.Second, cfg.Captcha.Timeout)
	assert.False(t, cfg.Notion.Enabled)
}

func TestLoad_BaseURLTrailingSlash(t *testing.T) {
	path := writeConfig(t, `
site:
  base_url: https://example.me/
collections:
  - name: blog
    source: content/blog
    output: blog
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.me", cfg.Site.BaseURL, "trailing slash trimmed so joined links can't double up")
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_NOTION_TOKEN", "secret-token-value")

	path := writeConfig(t, `
site:
  base_url: https://example.me
collections:
  - name: blog
    source: content/blog
    output: blog
notion:
  enabled: true
  token: ${TEST_NOTION_TOKEN}
  database_id: db123
  collection: blog
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token-value", cfg.Notion.Token)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config string
		errMsg string
	}{
		{
			name: "missing base url",
			config: `
collections:
  - name: blog
    source: content/blog
    output: blog
`,
			errMsg: "site.base_url is required",
		},
		{
			name: "no collections",
			config: `
site:
  base_url: https://example.me
`,
			errMsg: "at least one collection",
		},
		{
			name: "duplicate collection names",
			config: `
site:
  base_url: https://example.me
collections:
  - name: blog
    source: a
    output: a
  - name: blog
    source: b
    output: b
`,
			errMsg: `duplicate collection name "blog"`,
		},
		{
			name: "collection without source",
			config: `
site:
  base_url: https://example.me
collections:
  - name: blog
    output: blog
`,
			errMsg: "source directory is required",
		},
		{
			name: "max items below one",
			config: `
site:
  base_url: https://example.me
collections:
  - name: blog
    source: content/blog
    output: blog
feed:
  max_items: -1
`,
			errMsg: "feed.max_items must be at least 1",
		},
		{
			name: "notion enabled without token",
			config: `
site:
  base_url: https://example.me
collections:
  - name: blog
    source: content/blog
    output: blog
notion:
  enabled: true
  database_id: db123
  collection: blog
`,
			errMsg: "notion.token is required",
		},
		{
			name: "server timeout too small",
			config: `
site:
  base_url: https://example.me
collections:
  - name: blog
    source: content/blog
    output: blog
server:
  timeout: 10ms
`,
			errMsg: "server timeout must be at least 1 second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.config)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/sitegen.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "site: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestConfig_Collection(t *testing.T) {
	path := writeConfig(t, `
site:
  base_url: https://example.me
collections:
  - name: blog
    source: content/blog
    output: blog
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	col := cfg.Collection("blog")
	require.NotNil(t, col)
	assert.Equal(t, "content/blog", col.Source)

	assert.Nil(t, cfg.Collection("missing"))
}
