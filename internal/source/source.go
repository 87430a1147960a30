// Package source loads browser bookmark stores into a model.Tree.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nikbrunner/bm-launcher/internal/model"
)

var (
	ErrUnknownKind    = errors.New("unknown bookmark source")
	ErrNoRoots        = errors.New("bookmark store has no roots")
	ErrMalformedStore = errors.New("malformed bookmark store")
	ErrNoDefaultPath  = errors.New("no default path for bookmark source")
)

// Loader reads a bookmark store.
type Loader interface {
	Load() (*model.Tree, error)
}

// Kind names a bookmark store format and browser.
type Kind string

const (
	Chrome   Kind = "chrome"
	Chromium Kind = "chromium"
	Brave    Kind = "brave"
	Firefox  Kind = "firefox"
	HTML     Kind = "html"
)

// Kinds returns every supported source kind.
func Kinds() []Kind {
	return []Kind{Chrome, Chromium, Brave, Firefox, HTML}
}

// ParseKind validates a source kind name.
func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Kinds(), kind) {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return kind, nil
}

// chromeProfiles maps Chrome-family kinds to their profile directory,
// relative to ~/.config.
var chromeProfiles = map[Kind]string{
	Chrome:   filepath.Join("google-chrome", "Default"),
	Chromium: filepath.Join("chromium", "Default"),
	Brave:    filepath.Join("BraveSoftware", "Brave-Browser", "Default"),
}

// DefaultPath returns where kind keeps its bookmarks for the current user.
func DefaultPath(kind Kind) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return defaultPathIn(homeDir, kind)
}

func defaultPathIn(homeDir string, kind Kind) (string, error) {
	if profile, ok := chromeProfiles[kind]; ok {
		return filepath.Join(homeDir, ".config", profile, "Bookmarks"), nil
	}

	switch kind {
	case Firefox:
		return firefoxPlaces(filepath.Join(homeDir, ".mozilla", "firefox"))
	case HTML:
		return "", fmt.Errorf("%w: %s", ErrNoDefaultPath, kind)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// firefoxPlaces finds places.sqlite in the Firefox profiles directory,
// preferring the default-release profile.
func firefoxPlaces(profilesDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(profilesDir, "*", "places.sqlite"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no places.sqlite under %s: %w", profilesDir, os.ErrNotExist)
	}

	slices.Sort(matches)
	for _, m := range matches {
		if strings.HasSuffix(filepath.Dir(m), ".default-release") {
			return m, nil
		}
	}
	return matches[0], nil
}

// Open returns the Loader for kind reading path, or the kind's default
// location when path is empty.
func Open(kind Kind, path string) (Loader, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(kind); err != nil {
			return nil, err
		}
	}

	switch kind {
	case Chrome, Chromium, Brave:
		return NewChromeLoader(path), nil
	case Firefox:
		return NewFirefoxLoader(path), nil
	case HTML:
		return NewHTMLLoader(path), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Records loads the store behind l and flattens it.
func Records(l Loader) ([]model.Record, error) {
	tree, err := l.Load()
	if err != nil {
		return nil, err
	}
	return tree.Records(), nil
}
