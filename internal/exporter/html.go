package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/bm-launcher/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

const (
	header = "<!DOCTYPE NETSCAPE-Bookmark-file-1>\n" +
		"<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n" +
		"<TITLE>Bookmarks</TITLE>\n" +
		"<H1>Bookmarks</H1>\n" +
		"<DL><p>\n"
	footer = "</DL><p>\n"
)

// ExportRecords writes records as a flat Netscape bookmark list, in order.
func ExportRecords(records []model.Record) string {
	var b strings.Builder
	b.WriteString(header)
	for _, r := range records {
		writeLeaf(&b, r, 1)
	}
	b.WriteString(footer)
	return b.String()
}

// ExportHTML writes the tree in Netscape bookmark format. Every root becomes
// a top-level folder; groups nest as folders and leaves as links.
func ExportHTML(tree *model.Tree) string {
	var b strings.Builder
	b.WriteString(header)
	for _, root := range tree.Roots {
		if !root.Node.IsGroup() {
			writeLeaf(&b, root.Node.Record(), 1)
			continue
		}
		name := root.Node.Name
		if name == "" {
			name = root.Key
		}
		writeGroup(&b, name, root.Node.Children, 1)
	}
	b.WriteString(footer)
	return b.String()
}

// WriteFile writes an export to path, creating the directory if needed.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// writeGroup writes a folder header and recurses into its children.
func writeGroup(b *strings.Builder, name string, children []*model.Node, indent int) {
	prefix := strings.Repeat("    ", indent)

	fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(name))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)
	for _, child := range children {
		if child.IsGroup() {
			writeGroup(b, child.Name, child.Children, indent+1)
		} else {
			writeLeaf(b, child.Record(), indent+1)
		}
	}
	fmt.Fprintf(b, "%s</DL><p>\n", prefix)
}

func writeLeaf(b *strings.Builder, r model.Record, indent int) {
	prefix := strings.Repeat("    ", indent)
	fmt.Fprintf(b,
		"%s<DT><A HREF=\"%s\">%s</A>\n",
		prefix,
		html.EscapeString(r.Target),
		html.EscapeString(r.Label),
	)
}
