package site

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"path"
	"time"

	"github.com/gaurv/sitegen/pkg/config"
	"github.com/gaurv/sitegen/pkg/content"
	"github.com/gaurv/sitegen/pkg/domain"
	"github.com/gaurv/sitegen/pkg/feed"
	"github.com/gaurv/sitegen/pkg/render"
)

// Source provides posts from outside the file-based collections, e.g. the
// Notion content database
type Source interface {
	Posts(ctx context.Context) ([]*domain.Post, error)
}

// Builder runs the full generation pipeline: load, resolve, index, link,
// render, write, then the feed pass. One synchronous pass, every run rebuilds
// all outputs from all inputs.
type Builder struct {
	cfg      *config.Config
	now      content.Clock
	parser   *content.Parser
	markdown *render.Markdown
	pages    *render.Pages
	writer   *Writer
	sources  []Source
}

// NewBuilder creates a builder for the given configuration. The clock is
// injected so runs are reproducible under test.
func NewBuilder(cfg *config.Config, now content.Clock, sources ...Source) (*Builder, error) {
	if now == nil {
		now = time.Now
	}

	pages, err := render.NewPages()
	if err != nil {
		return nil, fmt.Errorf("init page templates: %w", err)
	}

	return &Builder{
		cfg:      cfg,
		now:      now,
		parser:   content.NewParser(now),
		markdown: render.NewMarkdown(),
		pages:    pages,
		writer:   NewWriter(cfg.SiteDir),
		sources:  sources,
	}, nil
}

// Build regenerates the whole site tree and the aggregated feed
func (b *Builder) Build(ctx context.Context) error {
	started := time.Now()

	byCollection := map[string][]*domain.Post{}

	for _, col := range b.cfg.Collections {
		posts, err := b.parser.Load(col.Source, col.Name)
		if err != nil {
			return fmt.Errorf("load collection %s: %w", col.Name, err)
		}
		byCollection[col.Name] = append(byCollection[col.Name], posts...)
	}

	for _, src := range b.sources {
		posts, err := src.Posts(ctx)
		if err != nil {
			log.Printf("[WARN] external source failed, skipping: %v", err)
			continue
		}
		for _, post := range posts {
			if b.cfg.Collection(post.Collection) == nil {
				log.Printf("[WARN] skip %q: unknown collection %q", post.Slug, post.Collection)
				continue
			}
			byCollection[post.Collection] = append(byCollection[post.Collection], post)
		}
	}

	var all []*domain.Post
	total := 0
	for _, col := range b.cfg.Collections {
		posts := b.preparePosts(byCollection[col.Name])
		if err := b.buildCollection(col, posts); err != nil {
			return fmt.Errorf("build collection %s: %w", col.Name, err)
		}
		all = append(all, posts...)
		total += len(posts)
	}

	if err := b.buildFeed(all); err != nil {
		return fmt.Errorf("build feed: %w", err)
	}

	log.Printf("[INFO] site built, %d posts in %d collections, took %v",
		total, len(b.cfg.Collections), time.Since(started).Round(time.Millisecond))
	return nil
}

// preparePosts renders bodies, fills default descriptions and drops duplicate
// slugs. A post that fails to render is skipped, the run continues.
func (b *Builder) preparePosts(posts []*domain.Post) []*domain.Post {
	seen := map[string]bool{}
	prepared := make([]*domain.Post, 0, len(posts))

	for _, post := range posts {
		if seen[post.Slug] {
			log.Printf("[WARN] skip %s: duplicate slug %q", post.File, post.Slug)
			continue
		}

		if post.Body == "" && post.Markdown != "" {
			body, err := b.markdown.Render(post.Markdown)
			if err != nil {
				log.Printf("[WARN] skip %s: %v", post.File, err)
				continue
			}
			post.Body = body
		}

		if post.Description == "" {
			post.Description = render.Summarize(post.Body, 180)
		}

		seen[post.Slug] = true
		prepared = append(prepared, post)
	}

	return prepared
}

// buildCollection writes all pages of one collection: a page per post, the
// per-tag listings and the collection index
func (b *Builder) buildCollection(col config.Collection, posts []*domain.Post) error {
	SortByDate(posts)
	LinkNeighbors(posts)
	index := BuildTagIndex(posts)

	siteInfo := b.siteInfo()

	for _, post := range posts {
		page, err := b.pages.Post(render.PostPage{
			Site:    siteInfo,
			Post:    post,
			Body:    template.HTML(post.Body), //nolint:gosec // body is rendered from our own markdown
			PrevURL: postURL(col.URLPrefix, post.PrevSlug),
			NextURL: postURL(col.URLPrefix, post.NextSlug),
		})
		if err != nil {
			return err
		}
		if err := b.writer.Write(path.Join(col.Output, post.Slug, "index.html"), page); err != nil {
			return err
		}
	}

	for _, tag := range TagNames(index) {
		page, err := b.pages.Tag(render.TagPage{
			Site:      siteInfo,
			Tag:       tag,
			Posts:     index[tag],
			URLPrefix: col.URLPrefix,
		})
		if err != nil {
			return err
		}
		if err := b.writer.Write(path.Join(col.Output, "tags", tag+".html"), page); err != nil {
			return err
		}
	}

	return b.buildIndex(col, posts, index)
}

// buildIndex writes the collection index page: latest post inline, the rest
// as a dated list, tag chips with counts
func (b *Builder) buildIndex(col config.Collection, posts []*domain.Post, index domain.TagIndex) error {
	data := render.IndexPage{
		Site:      b.siteInfo(),
		Title:     col.Title,
		URLPrefix: col.URLPrefix,
	}

	for _, tag := range TagNames(index) {
		data.Tags = append(data.Tags, render.TagCount{Name: tag, Count: len(index[tag])})
	}

	if len(posts) > 0 {
		// posts are sorted ascending, the latest is last
		data.Latest = posts[len(posts)-1]
		data.LatestBody = template.HTML(data.Latest.Body) //nolint:gosec // body is rendered from our own markdown
		for i := len(posts) - 2; i >= 0; i-- {
			data.Rest = append(data.Rest, posts[i])
		}
	}

	page, err := b.pages.Index(data)
	if err != nil {
		return err
	}
	return b.writer.Write(path.Join(col.Output, "index.html"), page)
}

// buildFeed runs the aggregation pass: candidates from all collections merged
// against the previously written feed file, then written back
func (b *Builder) buildFeed(all []*domain.Post) error {
	candidates := make([]domain.FeedItem, 0, len(all))
	for _, post := range all {
		col := b.cfg.Collection(post.Collection)
		if col == nil {
			continue
		}
		candidates = append(candidates, domain.FeedItem{
			Title:       post.Title,
			Link:        b.cfg.Site.BaseURL + postURL(col.URLPrefix, post.Slug),
			Description: post.Description,
			PubDate:     post.Date,
			Category:    post.Collection,
		})
	}

	aggregator := feed.NewAggregator(b.writer.Path(b.cfg.Feed.File), b.now)
	merged := aggregator.Merge(candidates)

	generator := feed.NewGenerator(b.cfg.Site.BaseURL, b.cfg.Site.Title, b.cfg.Site.Description, b.cfg.Feed.File)
	doc, err := generator.Generate(merged, b.cfg.Feed.MaxItems)
	if err != nil {
		return err
	}

	return b.writer.Write(b.cfg.Feed.File, doc)
}

func (b *Builder) siteInfo() render.Site {
	return render.Site{
		BaseURL:     b.cfg.Site.BaseURL,
		Title:       b.cfg.Site.Title,
		Author:      b.cfg.Site.Author,
		Description: b.cfg.Site.Description,
	}
}

// postURL builds the absolute path of a post page, empty slug yields empty
func postURL(prefix, slug string) string {
	if slug == "" {
		return ""
	}
	return "/" + path.Join(prefix, slug) + "/"
}
