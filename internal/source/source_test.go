package source_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/bm-launcher/internal/source"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    source.Kind
		wantErr bool
	}{
		{"chrome", source.Chrome, false},
		{"Chromium", source.Chromium, false},
		{" brave ", source.Brave, false},
		{"firefox", source.Firefox, false},
		{"html", source.HTML, false},
		{"safari", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := source.ParseKind(tt.input)
			if tt.wantErr {
				assert.Check(t, errors.Is(err, source.ErrUnknownKind), "got %v", err)
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, got, tt.want)
		})
	}
}

func TestDefaultPath_ChromeFamily(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := map[source.Kind]string{
		source.Chrome:   filepath.Join(home, ".config", "google-chrome", "Default", "Bookmarks"),
		source.Chromium: filepath.Join(home, ".config", "chromium", "Default", "Bookmarks"),
		source.Brave:    filepath.Join(home, ".config", "BraveSoftware", "Brave-Browser", "Default", "Bookmarks"),
	}

	for kind, want := range tests {
		t.Run(string(kind), func(t *testing.T) {
			got, err := source.DefaultPath(kind)
			assert.NilError(t, err)
			assert.Equal(t, got, want)
		})
	}
}

func TestDefaultPath_FirefoxPrefersDefaultRelease(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	profiles := filepath.Join(home, ".mozilla", "firefox")
	for _, p := range []string{"aaaa.default", "zzzz.default-release"} {
		dir := filepath.Join(profiles, p)
		assert.NilError(t, os.MkdirAll(dir, 0o755))
		assert.NilError(t, os.WriteFile(filepath.Join(dir, "places.sqlite"), nil, 0o644))
	}

	got, err := source.DefaultPath(source.Firefox)

	assert.NilError(t, err)
	assert.Equal(t, got, filepath.Join(profiles, "zzzz.default-release", "places.sqlite"))
}

func TestDefaultPath_FirefoxFallsBackToFirstProfile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	profiles := filepath.Join(home, ".mozilla", "firefox")
	for _, p := range []string{"bbbb.work", "aaaa.default"} {
		dir := filepath.Join(profiles, p)
		assert.NilError(t, os.MkdirAll(dir, 0o755))
		assert.NilError(t, os.WriteFile(filepath.Join(dir, "places.sqlite"), nil, 0o644))
	}

	got, err := source.DefaultPath(source.Firefox)

	assert.NilError(t, err)
	assert.Equal(t, got, filepath.Join(profiles, "aaaa.default", "places.sqlite"))
}

func TestDefaultPath_FirefoxWithoutProfile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := source.DefaultPath(source.Firefox)

	assert.Check(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}

func TestDefaultPath_HTMLHasNone(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := source.DefaultPath(source.HTML)

	assert.Check(t, errors.Is(err, source.ErrNoDefaultPath), "got %v", err)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		kind source.Kind
		want any
	}{
		{source.Chrome, &source.ChromeLoader{}},
		{source.Brave, &source.ChromeLoader{}},
		{source.Firefox, &source.FirefoxLoader{}},
		{source.HTML, &source.HTMLLoader{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			l, err := source.Open(tt.kind, "/tmp/bookmarks")
			assert.NilError(t, err)
			assert.Check(t, is.Equal(typeName(l), typeName(tt.want)))
		})
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := source.Open(source.Kind("netscape"), "/tmp/bookmarks")

	assert.Check(t, errors.Is(err, source.ErrUnknownKind), "got %v", err)
}

func TestOpen_UsesDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	l, err := source.Open(source.Chrome, "")
	assert.NilError(t, err)

	chrome, ok := l.(*source.ChromeLoader)
	assert.Assert(t, ok)
	assert.Equal(t, chrome.Path(), filepath.Join(home, ".config", "google-chrome", "Default", "Bookmarks"))
}

func TestRecords(t *testing.T) {
	records, err := source.Records(source.NewChromeLoader(filepath.Join("testdata", "Bookmarks")))

	assert.NilError(t, err)
	assert.Equal(t, len(records), 5)
	assert.Equal(t, records[0].Label, "GitHub")
}

func typeName(v any) string {
	switch v.(type) {
	case *source.ChromeLoader:
		return "chrome"
	case *source.FirefoxLoader:
		return "firefox"
	case *source.HTMLLoader:
		return "html"
	}
	return "unknown"
}
