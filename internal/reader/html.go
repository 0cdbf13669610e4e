package reader

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractParagraphs parses an HTML document and returns the text content of
// every <p> element in document order, joined by single spaces. A document
// without paragraphs yields an empty string.
func ExtractParagraphs(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse html")
	}

	var paragraphs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			paragraphs = append(paragraphs, textContent(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(paragraphs, " "), nil
}

// textContent concatenates all descendant text nodes of n.
func textContent(n *html.Node) string {
	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out.String()
}

// HTMLFormat implements Format for saved web pages.
type HTMLFormat struct{}

func init() {
	Register(&HTMLFormat{})
}

func (f *HTMLFormat) Name() string         { return "HTML" }
func (f *HTMLFormat) Extensions() []string { return []string{".html", ".htm", ".xhtml"} }

func (f *HTMLFormat) Extract(filename string) (string, error) {
	file, err := openFile(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return ExtractParagraphs(file)
}
