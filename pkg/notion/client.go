package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"

	"github.com/gaurv/sitegen/pkg/config"
	"github.com/gaurv/sitegen/pkg/content"
	"github.com/gaurv/sitegen/pkg/domain"
)

const apiVersion = "2022-06-28"

// Client pulls published post records from a Notion database. It is a thin
// consumer of the content-database API: pages with title/slug/date/tags
// properties and block children that convert to Markdown.
type Client struct {
	client     *http.Client
	baseURL    string
	token      string
	databaseID string
	collection string
	now        content.Clock
}

// NewClient creates a Notion client from configuration. The clock stamps
// pages without a date, nil falls back to time.Now.
func NewClient(cfg config.NotionConfig, now content.Clock) *Client {
	if now == nil {
		now = time.Now
	}
	return &Client{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    "https://api.notion.com",
		token:      cfg.Token,
		databaseID: cfg.DatabaseID,
		collection: cfg.Collection,
		now:        now,
	}
}

// Posts fetches all published pages and converts them to posts. A page that
// fails to convert is logged and skipped, the rest of the batch continues.
func (c *Client) Posts(ctx context.Context) ([]*domain.Post, error) {
	pages, err := c.queryDatabase(ctx)
	if err != nil {
		return nil, fmt.Errorf("query notion database: %w", err)
	}

	posts := make([]*domain.Post, 0, len(pages))
	for _, page := range pages {
		post, err := c.pageToPost(ctx, page)
		if err != nil {
			log.Printf("[WARN] skip notion page %s: %v", page.ID, err)
			continue
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// queryDatabase lists pages with the Published checkbox set
func (c *Client) queryDatabase(ctx context.Context) ([]page, error) {
	filter := map[string]any{
		"filter": map[string]any{
			"property": "Published",
			"checkbox": map[string]any{"equals": true},
		},
	}
	body, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}

	var resp queryResponse
	url := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, c.databaseID)
	if err := c.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// pageToPost converts one Notion page and its blocks into a post
func (c *Client) pageToPost(ctx context.Context, pg page) (*domain.Post, error) {
	title := pg.Properties["Name"].plainTitle()
	if title == "" {
		return nil, fmt.Errorf("%w: title", content.ErrMissingField)
	}

	slug := pg.Properties["Slug"].plainText()
	if slug == "" {
		slug = slugify(title)
	}

	var date time.Time
	if dv := pg.Properties["Posted on"].Date; dv != nil && dv.Start != "" {
		parsed, err := content.ParseDate(dv.Start)
		if err != nil {
			return nil, fmt.Errorf("bad date %q: %w", dv.Start, err)
		}
		date = parsed
	} else {
		date = c.now().In(domain.IST)
	}

	tags := make([]string, 0, len(pg.Properties["Tags"].MultiSelect))
	for _, option := range pg.Properties["Tags"].MultiSelect {
		tags = append(tags, option.Name)
	}

	markdown, err := c.pageMarkdown(ctx, pg.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch blocks: %w", err)
	}

	return &domain.Post{
		Title:      title,
		Slug:       slug,
		Collection: c.collection,
		Date:       date,
		Tags:       tags,
		Markdown:   markdown,
	}, nil
}

// pageMarkdown fetches a page's block children and converts them to Markdown
func (c *Client) pageMarkdown(ctx context.Context, pageID string) (string, error) {
	var resp blocksResponse
	url := fmt.Sprintf("%s/v1/blocks/%s/children?page_size=100", c.baseURL, pageID)
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return "", err
	}
	return blocksToMarkdown(resp.Results), nil
}

// do performs one API request with backoff retries on transport errors
func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Notion-Version", apiVersion)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("notion request: %w", err)
		}
		defer resp.Body.Close() //nolint:errcheck // nothing to do with close error

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL-safe slug from a title
func slugify(text string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(text), "-"), "-")
}
