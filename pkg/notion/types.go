package notion

import (
	"fmt"
	"strings"
)

// queryResponse is the database query result
type queryResponse struct {
	Results []page `json:"results"`
}

// page is a Notion database page with its properties
type page struct {
	ID         string              `json:"id"`
	Properties map[string]property `json:"properties"`
}

// property covers the property shapes we read: title, rich_text, date and
// multi_select. Unused shapes stay nil.
type property struct {
	Title       []richText `json:"title"`
	RichText    []richText `json:"rich_text"`
	Date        *dateValue `json:"date"`
	MultiSelect []option   `json:"multi_select"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type dateValue struct {
	Start string `json:"start"`
}

type option struct {
	Name string `json:"name"`
}

// plainTitle joins the title fragments of a property
func (p property) plainTitle() string {
	return joinRichText(p.Title)
}

// plainText joins the rich_text fragments of a property
func (p property) plainText() string {
	return joinRichText(p.RichText)
}

func joinRichText(parts []richText) string {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(part.PlainText)
	}
	return strings.TrimSpace(sb.String())
}

// blocksResponse is the block children listing result
type blocksResponse struct {
	Results []block `json:"results"`
}

// block is one content block, only the type actually present is populated
type block struct {
	Type             string     `json:"type"`
	Paragraph        *blockText `json:"paragraph"`
	Heading1         *blockText `json:"heading_1"`
	Heading2         *blockText `json:"heading_2"`
	Heading3         *blockText `json:"heading_3"`
	BulletedListItem *blockText `json:"bulleted_list_item"`
	NumberedListItem *blockText `json:"numbered_list_item"`
	Quote            *blockText `json:"quote"`
	Code             *codeBlock `json:"code"`
}

type blockText struct {
	RichText []richText `json:"rich_text"`
}

type codeBlock struct {
	RichText []richText `json:"rich_text"`
	Language string     `json:"language"`
}

// blocksToMarkdown converts the supported block types to Markdown.
// Unsupported block types are dropped.
func blocksToMarkdown(blocks []block) string {
	var sb strings.Builder

	for _, blk := range blocks {
		switch blk.Type {
		case "paragraph":
			if blk.Paragraph != nil {
				sb.WriteString(joinRichText(blk.Paragraph.RichText) + "\n\n")
			}
		case "heading_1":
			if blk.Heading1 != nil {
				sb.WriteString("# " + joinRichText(blk.Heading1.RichText) + "\n\n")
			}
		case "heading_2":
			if blk.Heading2 != nil {
				sb.WriteString("## " + joinRichText(blk.Heading2.RichText) + "\n\n")
			}
		case "heading_3":
			if blk.Heading3 != nil {
				sb.WriteString("### " + joinRichText(blk.Heading3.RichText) + "\n\n")
			}
		case "bulleted_list_item":
			if blk.BulletedListItem != nil {
				sb.WriteString("- " + joinRichText(blk.BulletedListItem.RichText) + "\n")
			}
		case "numbered_list_item":
			if blk.NumberedListItem != nil {
				sb.WriteString("1. " + joinRichText(blk.NumberedListItem.RichText) + "\n")
			}
		case "quote":
			if blk.Quote != nil {
				sb.WriteString("> " + joinRichText(blk.Quote.RichText) + "\n\n")
			}
		case "code":
			if blk.Code != nil {
				sb.WriteString(fmt.Sprintf("```%s\n%s\n```\n\n", blk.Code.Language, joinRichText(blk.Code.RichText)))
			}
		}
	}

	return strings.TrimSpace(sb.String())
}
