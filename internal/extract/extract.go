package extract

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	readability "codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// ErrNoArticle is returned when a page carries no extractable main content:
// index pages, paywalled stubs, link farms. It is a result, not a crash, and
// callers must keep it distinct from fetch failures.
var ErrNoArticle = errors.New("no extractable article content")

const excerptLimit = 200

// Article is the canonical extracted form of one web page.
type Article struct {
	Title       string
	Content     string
	TextContent string
	Excerpt     string
	Byline      string
	Length      int
}

var contentPolicy = bluemonday.UGCPolicy()

// Extract runs readability over the raw page, anchored at sourceURL so
// relative links and images resolve. Returns ErrNoArticle when no primary
// content container can be identified.
func Extract(body []byte, sourceURL string) (*Article, error) {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}

	parser := readability.NewParser()
	parser.KeepClasses = true
	article, err := parser.Parse(bytes.NewReader(body), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoArticle, err)
	}

	var textBuf bytes.Buffer
	if err := article.RenderText(&textBuf); err != nil {
		return nil, fmt.Errorf("render text: %w", err)
	}
	text := normalizeWhitespace(textBuf.String())
	if text == "" {
		return nil, ErrNoArticle
	}

	var htmlBuf bytes.Buffer
	if err := article.RenderHTML(&htmlBuf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	rendered := fixLazyImages(htmlBuf.Bytes())
	rendered = removeMetadataElements(rendered)
	content := string(contentPolicy.SanitizeBytes(rendered))

	meta := pageMetadata(body)
	title := meta.title
	if title == "" {
		title = firstLine(text)
	}

	excerpt := meta.description
	if excerpt == "" {
		excerpt = truncate(text, excerptLimit)
	}

	return &Article{
		Title:       title,
		Content:     content,
		TextContent: text,
		Excerpt:     excerpt,
		Byline:      meta.byline,
		Length:      utf8.RuneCountInString(text),
	}, nil
}

type metadata struct {
	title       string
	description string
	byline      string
}

// pageMetadata pulls title/description/byline from the full document, not
// the readability output, since boilerplate removal tends to strip headers.
func pageMetadata(body []byte) metadata {
	var meta metadata
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return meta
	}

	if og, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok && strings.TrimSpace(og) != "" {
		meta.title = strings.TrimSpace(og)
	} else if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		meta.title = h1
	} else {
		meta.title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if desc, ok := doc.Find("meta[property='og:description']").First().Attr("content"); ok {
		meta.description = strings.TrimSpace(desc)
	}
	if meta.description == "" {
		if desc, ok := doc.Find("meta[name='description']").First().Attr("content"); ok {
			meta.description = strings.TrimSpace(desc)
		}
	}

	if author, ok := doc.Find("meta[name='author']").First().Attr("content"); ok && strings.TrimSpace(author) != "" {
		meta.byline = strings.TrimSpace(author)
	} else if byline := strings.TrimSpace(doc.Find("[rel='author'], [class*='byline']").First().Text()); byline != "" {
		meta.byline = byline
	}

	return meta
}

func normalizeWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

func firstLine(text string) string {
	return truncate(text, 80)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

// walkTree traverses all descendant element nodes and calls fn for each.
func walkTree(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkTree(c, fn)
	}
}

// removeMetadataElements drops date elements the way Safari Reader does:
// class containing "date" or itemprop containing "datePublished".
func removeMetadataElements(htmlContent []byte) []byte {
	doc, err := html.Parse(bytes.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var nodesToRemove []*html.Node
	walkTree(doc, func(n *html.Node) {
		if shouldRemoveMetadataElement(n) {
			nodesToRemove = append(nodesToRemove, n)
		}
	})

	for _, n := range nodesToRemove {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return htmlContent
	}
	return buf.Bytes()
}

func shouldRemoveMetadataElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}

	for _, attr := range n.Attr {
		switch attr.Key {
		case "class":
			if containsDateClass(attr.Val) {
				return true
			}
		case "itemprop":
			if strings.Contains(attr.Val, "datePublished") {
				return true
			}
		}
	}
	return false
}

func containsDateClass(classStr string) bool {
	for _, class := range strings.Fields(classStr) {
		if strings.Contains(strings.ToLower(class), "date") {
			return true
		}
	}
	return false
}

// fixLazyImages handles images with a placeholder src and a data-original
// attribute, which readability's own lazy-image pass does not cover.
func fixLazyImages(htmlContent []byte) []byte {
	doc, err := html.Parse(bytes.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	walkTree(doc, func(n *html.Node) {
		if n.Data != "img" {
			return
		}

		var srcIdx = -1
		var dataOriginal string

		for i, attr := range n.Attr {
			switch attr.Key {
			case "src":
				srcIdx = i
			case "data-original":
				dataOriginal = attr.Val
			}
		}

		if dataOriginal != "" && !strings.HasPrefix(dataOriginal, "data:") {
			if srcIdx >= 0 {
				n.Attr[srcIdx].Val = dataOriginal
			} else {
				n.Attr = append(n.Attr, html.Attribute{Key: "src", Val: dataOriginal})
			}
		}
	})

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return htmlContent
	}
	return buf.Bytes()
}
