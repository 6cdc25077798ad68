package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gaurv/sitegen/pkg/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Site carries site-wide identity passed into every page
type Site struct {
	BaseURL     string
	Title       string
	Author      string
	Description string
}

// PostPage is the context for a single post page
type PostPage struct {
	Site    Site
	Post    *domain.Post
	Body    template.HTML
	PrevURL string
	NextURL string
}

// TagCount pairs a tag with its post count for index chips
type TagCount struct {
	Name  string
	Count int
}

// IndexPage is the context for a collection index: the latest post rendered
// inline, the rest as a dated list
type IndexPage struct {
	Site       Site
	Title      string
	Tags       []TagCount
	Latest     *domain.Post
	LatestBody template.HTML
	Rest       []*domain.Post
	URLPrefix  string
}

// TagPage is the context for a single tag listing
type TagPage struct {
	Site      Site
	Tag       string
	Posts     []*domain.Post
	URLPrefix string
}

// Pages renders complete HTML documents from templates. All user-supplied
// text goes through html/template escaping, post bodies are the only
// pre-rendered HTML passed through as-is.
type Pages struct {
	tmpl *template.Template
}

// NewPages parses the embedded template set
func NewPages() (*Pages, error) {
	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"formatDate": func(ts time.Time) string { return ts.Format("January 02, 2006") },
		"shortDate":  func(ts time.Time) string { return ts.Format("2006-01-02") },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Pages{tmpl: tmpl}, nil
}

// Post renders a single post page
func (p *Pages) Post(data PostPage) (string, error) {
	return p.render("post.html", data)
}

// Index renders a collection index page
func (p *Pages) Index(data IndexPage) (string, error) {
	return p.render("index.html", data)
}

// Tag renders a tag listing page
func (p *Pages) Tag(data TagPage) (string, error) {
	return p.render("tag.html", data)
}

func (p *Pages) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
