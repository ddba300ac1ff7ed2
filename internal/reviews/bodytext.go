package reviews

import (
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
)

// BodyText turns a review body into plain text paragraphs separated by
// newlines. Bodies without markup are only whitespace-normalized.
func BodyText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.ContainsAny(raw, "<&") {
		return strings.Join(trimBlankLines(normalizeLines(raw)), "\n")
	}

	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return strings.Join(trimBlankLines(normalizeLines(html.UnescapeString(raw))), "\n")
	}
	body := findBodyNode(doc)
	if body == nil {
		return ""
	}
	return strings.Join(trimBlankLines(renderBlocks(elementChildren(body))), "\n")
}

func renderBlocks(nodes []*nethtml.Node) []string {
	lines := make([]string, 0, len(nodes))
	inlineParts := make([]string, 0, 4)
	flushInline := func() {
		text := normalizeInlineText(strings.Join(inlineParts, " "))
		inlineParts = inlineParts[:0]
		if text != "" {
			lines = append(lines, strings.Split(text, "\n")...)
		}
	}

	for _, node := range nodes {
		switch node.Type {
		case nethtml.TextNode:
			inlineParts = append(inlineParts, node.Data)
		case nethtml.ElementNode:
			if isBlockElement(node.Data) {
				flushInline()
				lines = append(lines, renderBlock(node)...)
				continue
			}
			inlineParts = append(inlineParts, renderInline(node))
		}
	}
	flushInline()
	return lines
}

func renderBlock(node *nethtml.Node) []string {
	switch tag := strings.ToLower(node.Data); tag {
	case "script", "style", "noscript", "img":
		return nil
	case "li":
		text := normalizeInlineText(renderInlineChildren(node))
		if text == "" {
			return nil
		}
		return []string{"• " + text}
	case "ul", "ol":
		return renderBlocks(elementChildren(node))
	default:
		if hasBlockChild(node) {
			return renderBlocks(elementChildren(node))
		}
		text := normalizeInlineText(renderInlineChildren(node))
		if text == "" {
			return nil
		}
		return strings.Split(text, "\n")
	}
}

func renderInlineChildren(node *nethtml.Node) string {
	parts := make([]string, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		parts = append(parts, renderInline(child))
	}
	return strings.Join(parts, " ")
}

func renderInline(node *nethtml.Node) string {
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
		switch strings.ToLower(node.Data) {
		case "script", "style", "noscript", "img":
			return ""
		case "br":
			return "\n"
		default:
			return renderInlineChildren(node)
		}
	default:
		return ""
	}
}

func isBlockElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "p", "div", "section", "article", "blockquote", "ul", "ol", "li",
		"h1", "h2", "h3", "h4", "h5", "h6", "pre", "figure", "figcaption",
		"script", "style", "noscript", "img":
		return true
	default:
		return false
	}
}

func hasBlockChild(node *nethtml.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && isBlockElement(child.Data) {
			return true
		}
	}
	return false
}

var punctuationSpacing = strings.NewReplacer(
	" .", ".",
	" ,", ",",
	" ;", ";",
	" :", ":",
	" !", "!",
	" ?", "?",
	" )", ")",
	"( ", "(",
)

func normalizeInlineText(s string) string {
	lines := normalizeLines(html.UnescapeString(s))
	out := lines[:0]
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	return punctuationSpacing.Replace(strings.Join(out, "\n"))
}

func normalizeLines(s string) []string {
	parts := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, part := range parts {
		parts[i] = strings.Join(strings.Fields(part), " ")
	}
	return parts
}

// trimBlankLines drops leading and trailing blank lines and collapses runs of them.
func trimBlankLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	prevBlank := true
	for _, line := range lines {
		blank := strings.TrimSpace(line) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out
}

func findBodyNode(node *nethtml.Node) *nethtml.Node {
	if node == nil {
		return nil
	}
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBodyNode(child); found != nil {
			return found
		}
	}
	return nil
}

func elementChildren(node *nethtml.Node) []*nethtml.Node {
	children := make([]*nethtml.Node, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		children = append(children, child)
	}
	return children
}
