package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// maxPageSize limits fetched page bodies.
const maxPageSize = 20 * 1024 * 1024 // 20MB

// URLHandler fetches web pages and reduces them to readable text:
// readability isolates the article body, then the result is rendered
// as markdown so structure survives into the extraction prompt.
type URLHandler struct {
	client    *http.Client
	converter *md.Converter
}

// NewURLHandler creates a URL handler with a 30-second fetch timeout.
func NewURLHandler() *URLHandler {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &URLHandler{
		client:    &http.Client{Timeout: 30 * time.Second},
		converter: converter,
	}
}

// ExtractText fetches the page and returns its readable content as
// markdown. When readability cannot isolate an article, the whole
// page body is converted instead.
func (h *URLHandler) ExtractText(ctx context.Context, src string) (string, error) {
	body, err := h.fetch(ctx, src)
	if err != nil {
		return "", err
	}

	pageURL, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("invalid URL %s: %w", src, err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && article.Content != "" {
		markdown, err := h.converter.ConvertString(article.Content)
		if err == nil && strings.TrimSpace(markdown) != "" {
			return markdown, nil
		}
	}

	markdown, err := h.converter.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("convert page %s: %w", src, err)
	}
	return markdown, nil
}

// Metadata fetches the page and reports title and standard meta tags
// alongside the source and type. Fetch failures degrade to the basic
// fields.
func (h *URLHandler) Metadata(ctx context.Context, src string) (map[string]string, error) {
	metadata := map[string]string{
		"source": src,
		"type":   "url",
	}

	body, err := h.fetch(ctx, src)
	if err != nil {
		return metadata, nil
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return metadata, nil
	}

	if title := findTitle(doc); title != "" {
		metadata["title"] = title
	}
	collectMetaTags(doc, metadata)

	return metadata, nil
}

func (h *URLHandler) fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", src, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", src, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("read response body from %s: %w", src, err)
	}
	return body, nil
}

// findTitle returns the text of the first <title> element.
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}

// collectMetaTags copies description, keywords, and author meta tags
// into the metadata map.
func collectMetaTags(n *html.Node, metadata map[string]string) {
	if n.Type == html.ElementNode && n.Data == "meta" {
		var name, content string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "name":
				name = attr.Val
			case "content":
				content = attr.Val
			}
		}
		switch name {
		case "description", "keywords", "author":
			if content != "" {
				metadata[name] = content
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectMetaTags(c, metadata)
	}
}
