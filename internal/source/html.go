package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/nikbrunner/bm-launcher/internal/model"
)

// HTMLLoader reads a Netscape bookmark HTML export.
type HTMLLoader struct {
	path string
}

// NewHTMLLoader creates an HTMLLoader for the given file.
func NewHTMLLoader(path string) *HTMLLoader {
	return &HTMLLoader{path: path}
}

// Path returns the HTML file path.
func (l *HTMLLoader) Path() string {
	return l.path
}

// Load reads and parses the HTML file.
func (l *HTMLLoader) Load() (*model.Tree, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	tree, err := ParseHTML(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return tree, nil
}

// ParseHTML parses Netscape bookmark HTML into a tree with a single root.
// An <H3> names a folder whose contents are the following <DL>; an <A> with
// an HREF is a bookmark.
func ParseHTML(r io.Reader) (*model.Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	root := model.Group("Bookmarks")
	stack := []*model.Node{root} // current folder is the top
	var pending *model.Node      // folder waiting for its <DL>

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				if name := getTextContent(n); name != "" {
					folder := model.Group(name)
					top := stack[len(stack)-1]
					top.Children = append(top.Children, folder)
					pending = folder
				}
				return

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					return
				}
				title := getTextContent(n)
				if title == "" {
					title = href
				}
				top := stack[len(stack)-1]
				top.Children = append(top.Children, model.Leaf(title, href))
				return

			case "dl":
				pushed := false
				if pending != nil {
					stack = append(stack, pending)
					pending = nil
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)

	return &model.Tree{Roots: []model.Root{{Key: "html", Node: root}}}, nil
}

// getTextContent returns the trimmed text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
