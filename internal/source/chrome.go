package source

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/nikbrunner/bm-launcher/internal/model"
)

// ChromeLoader reads the JSON "Bookmarks" file of Chrome-family browsers.
type ChromeLoader struct {
	path string
}

// NewChromeLoader creates a ChromeLoader for the given file.
func NewChromeLoader(path string) *ChromeLoader {
	return &ChromeLoader{path: path}
}

// Path returns the bookmarks file path.
func (l *ChromeLoader) Path() string {
	return l.path
}

// Load reads and parses the bookmarks file.
func (l *ChromeLoader) Load() (*model.Tree, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}

	tree, err := ParseChrome(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return tree, nil
}

// ParseChrome decodes a Chrome bookmarks document. Every value of its
// "roots" object becomes a root, in document order.
func ParseChrome(data []byte) (*model.Tree, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedStore)
	}

	roots := gjson.GetBytes(data, "roots")
	if !roots.IsObject() {
		return nil, ErrNoRoots
	}

	tree := &model.Tree{Roots: []model.Root{}}
	var err error
	roots.ForEach(func(key, value gjson.Result) bool {
		var node model.Node
		if err = json.Unmarshal([]byte(value.Raw), &node); err != nil {
			err = fmt.Errorf("root %q: %w", key.Str, err)
			return false
		}
		tree.Roots = append(tree.Roots, model.Root{Key: key.Str, Node: &node})
		return true
	})
	if err != nil {
		return nil, err
	}

	return tree, nil
}
