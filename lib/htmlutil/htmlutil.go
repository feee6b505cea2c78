package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// Normalize removes non-printable characters and collapses whitespace.
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}

// LooksLikeHTML reports whether a response body is an html document rather
// than the json the caller expected.
func LooksLikeHTML(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return false
	}
	lower := bytes.ToLower(trimmed[:min(len(trimmed), 512)])
	return bytes.Contains(lower, []byte("<html")) ||
		bytes.Contains(lower, []byte("<!doctype html")) ||
		bytes.Contains(lower, []byte("<body")) ||
		bytes.Contains(lower, []byte("<head"))
}

// Summarize produces a single line description of an html page, this is
// the page title followed by the first heading when they differ, falling
// back to the body text. the result is cut to `limit` runes.
func Summarize(body []byte, limit int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	title := Normalize(doc.Find("title").First().Text())
	heading := Normalize(doc.Find("h1, h2").First().Text())

	var summary string
	switch {
	case title != "" && heading != "" && title != heading:
		summary = title + ": " + heading
	case title != "":
		summary = title
	case heading != "":
		summary = heading
	default:
		nodes := doc.Find("body").Nodes
		if len(nodes) > 0 {
			summary = Normalize(GetText(nodes[0]))
		}
	}

	return Truncate(summary, limit), nil
}

func Truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
