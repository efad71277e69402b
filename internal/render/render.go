package render

import (
	"bytes"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"

	"bookferry/internal/highlightpos"
)

// Document renders stored bookmark HTML into the representations used
// for highlight anchoring.
func Document(html string) (highlightpos.Renderings, error) {
	plain, err := htmlToText(html)
	if err != nil {
		return highlightpos.Renderings{}, fmt.Errorf("render plain text: %w", err)
	}
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return highlightpos.Renderings{}, fmt.Errorf("render markdown: %w", err)
	}
	return highlightpos.Renderings{
		PlainText:    plain,
		MarkdownText: markdown,
		RawMarkup:    html,
	}, nil
}

// PlainText extracts the readable text from stored bookmark HTML.
func PlainText(html string) (string, error) {
	return htmlToText(html)
}

// Quote prepares an exported markdown quote for position resolution.
func Quote(rawMarkdown string) (highlightpos.Quote, error) {
	plain, err := QuotePlainText(rawMarkdown)
	if err != nil {
		return highlightpos.Quote{}, err
	}
	return highlightpos.Quote{RawText: rawMarkdown, PlainText: plain}, nil
}

// QuotePlainText strips markdown formatting from a quote by rendering it
// to HTML and extracting the text.
func QuotePlainText(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render quote markdown: %w", err)
	}
	text, err := htmlToText(buf.String())
	if err != nil {
		return "", fmt.Errorf("strip quote markup: %w", err)
	}
	return text, nil
}

func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(doc.Text()), nil
}
