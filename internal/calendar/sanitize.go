package calendar

import (
	stdhtml "html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// allowedTags is the rich-text allow-list for sanitized descriptions. It is
// the usual inline/formatting set, explicitly without div: the calendar UI
// renders block wrappers badly.
var allowedTags = map[string]bool{
	"a": true, "b": true, "blockquote": true, "br": true, "caption": true,
	"code": true, "em": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hr": true, "i": true, "li": true, "ol": true, "p": true, "pre": true,
	"s": true, "span": true, "strike": true, "strong": true, "sub": true,
	"sup": true, "table": true, "tbody": true, "td": true, "th": true,
	"thead": true, "tr": true, "u": true, "ul": true,
}

// discardTags are dropped together with their content, never unwrapped.
var discardTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
	"textarea": true, "title": true,
}

// SanitizeDescription cleans raw detail-page markup for the calendar payload:
// newlines are stripped, disallowed elements are unwrapped (their content
// kept), elements with no visible text are dropped, whitespace-only text
// nodes are collapsed, and only the href attribute survives on links.
func SanitizeDescription(markup string) string {
	markup = strings.ReplaceAll(markup, "\n", "")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	for _, root := range doc.Find("body").Nodes {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			renderSanitized(&sb, c)
		}
	}
	return strings.TrimSpace(sb.String())
}

func renderSanitized(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			sb.WriteString(stdhtml.EscapeString(text))
		}
	case html.ElementNode:
		if discardTags[n.Data] {
			return
		}
		if !allowedTags[n.Data] {
			// Unwrap: drop the tag, keep its content.
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				renderSanitized(sb, c)
			}
			return
		}
		if !hasVisibleText(n) {
			return
		}
		sb.WriteString("<")
		sb.WriteString(n.Data)
		if n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					sb.WriteString(` href="`)
					sb.WriteString(stdhtml.EscapeString(attr.Val))
					sb.WriteString(`"`)
					break
				}
			}
		}
		sb.WriteString(">")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderSanitized(sb, c)
		}
		sb.WriteString("</")
		sb.WriteString(n.Data)
		sb.WriteString(">")
	}
}

func hasVisibleText(n *html.Node) bool {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data) != ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasVisibleText(c) {
			return true
		}
	}
	return false
}
