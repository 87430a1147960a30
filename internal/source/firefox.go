package source

import (
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/bm-launcher/internal/model"
)

// moz_bookmarks.type values.
const (
	mozBookmark  = 1
	mozFolder    = 2
	mozSeparator = 3
)

// tagsRootGUID is the Firefox root holding tag folders. Its entries repeat
// bookmarks that already live elsewhere in the tree.
const tagsRootGUID = "tags________"

// FirefoxLoader reads bookmarks from a Firefox places.sqlite database.
type FirefoxLoader struct {
	path string
}

// NewFirefoxLoader creates a FirefoxLoader for the given database.
func NewFirefoxLoader(path string) *FirefoxLoader {
	return &FirefoxLoader{path: path}
}

// Path returns the database file path.
func (l *FirefoxLoader) Path() string {
	return l.path
}

// placesDSN opens the database read-only and immutable so a running Firefox
// holding its lock does not block loading.
func placesDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "mode=ro&immutable=1",
	}
	return u.String(), nil
}

type placesRow struct {
	id     int64
	parent int64
	kind   int
	title  string
	url    string
	guid   string
}

// Load reads the bookmark tree. Folders become groups, bookmarks leaves,
// separators are dropped. Children keep their Firefox position order.
func (l *FirefoxLoader) Load() (*model.Tree, error) {
	dsn, err := placesDSN(l.path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT b.id, b.parent, b.type, COALESCE(b.title, ''), COALESCE(p.url, ''), COALESCE(b.guid, '')
		FROM moz_bookmarks b
		LEFT JOIN moz_places p ON p.id = b.fk
		ORDER BY b.parent, b.position, b.id
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: query bookmarks: %w", l.path, err)
	}
	defer rows.Close()

	var entries []placesRow
	for rows.Next() {
		var r placesRow
		if err := rows.Scan(&r.id, &r.parent, &r.kind, &r.title, &r.url, &r.guid); err != nil {
			return nil, fmt.Errorf("%s: scan bookmark: %w", l.path, err)
		}
		entries = append(entries, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}

	tree, err := buildPlacesTree(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return tree, nil
}

// buildPlacesTree links rows, ordered by parent then position, into a tree
// rooted at the children of the places root.
func buildPlacesTree(entries []placesRow) (*model.Tree, error) {
	nodes := make(map[int64]*model.Node, len(entries))
	var rootID int64 = -1

	for _, e := range entries {
		switch e.kind {
		case mozFolder:
			nodes[e.id] = model.Group(e.title)
		case mozBookmark:
			nodes[e.id] = model.Leaf(e.title, e.url)
		}
		if e.parent == 0 && e.kind == mozFolder {
			rootID = e.id
		}
	}
	if rootID < 0 {
		return nil, ErrNoRoots
	}

	tree := &model.Tree{Roots: []model.Root{}}
	for _, e := range entries {
		node, ok := nodes[e.id]
		if !ok || e.id == rootID {
			continue
		}

		if e.parent == rootID {
			if e.guid == tagsRootGUID {
				continue
			}
			tree.Roots = append(tree.Roots, model.Root{Key: e.guid, Node: node})
			continue
		}

		parent, ok := nodes[e.parent]
		if !ok || !parent.IsGroup() {
			// orphaned rows, or rows under the skipped tags root
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	return tree, nil
}
