package launcher_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/golden"

	"github.com/nikbrunner/bm-launcher/internal/launcher"
	"github.com/nikbrunner/bm-launcher/internal/model"
	"github.com/nikbrunner/bm-launcher/internal/opener"
	"github.com/nikbrunner/bm-launcher/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSession(o opener.Opener) *session.Session {
	records := []model.Record{
		{Label: "A", Target: "https://example.com/?q=a&lang=en"},
		{Label: "B", Target: "https://b.example"},
	}
	return session.New(records, session.Options{
		Keyword: "cb",
		Opener:  o,
		Logger:  discardLogger(),
	})
}

func requests(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestServe_SearchTranscript(t *testing.T) {
	var out bytes.Buffer
	in := requests(
		`{"Search":"cb b"}`,
		`not json`,
		`{"Bogus":1}`,
		``,
		`{"Search":"xyz something"}`,
		`"Interrupt"`,
		`"Exit"`,
		`{"Search":"cb a"}`,
	)

	err := launcher.Serve(context.Background(), in, &out, testSession(nil), discardLogger())

	assert.NilError(t, err)
	golden.Assert(t, out.String(), "search_transcript.golden")
}

func TestServe_ActivationTranscript(t *testing.T) {
	var opened []string
	o := opener.Func(func(target string) error {
		opened = append(opened, target)
		return nil
	})

	var out bytes.Buffer
	in := requests(
		`{"Search":"cb b"}`,
		`{"Activate":7}`,
		`{"Complete":0}`,
		`{"Activate":0}`,
		`{"Search":"cb a"}`,
	)

	err := launcher.Serve(context.Background(), in, &out, testSession(o), discardLogger())

	assert.NilError(t, err)
	assert.DeepEqual(t, opened, []string{"https://b.example"})
	golden.Assert(t, out.String(), "activation_transcript.golden")
}

func TestServe_OpenerErrorEndsServe(t *testing.T) {
	openErr := errors.New("exec format error")
	o := opener.Func(func(string) error { return openErr })

	var out bytes.Buffer
	err := launcher.Serve(context.Background(), requests(`{"Activate":0}`, `{"Search":"cb a"}`), &out, testSession(o), discardLogger())

	assert.Assert(t, errors.Is(err, openErr))
	assert.Equal(t, out.String(), "\"Close\"\n")
}

func TestServe_EOFWithoutExit(t *testing.T) {
	var out bytes.Buffer

	err := launcher.Serve(context.Background(), strings.NewReader(`{"Search":"cb a"}`), &out, testSession(nil), discardLogger())

	assert.NilError(t, err)
	assert.Check(t, strings.HasSuffix(out.String(), "\"Finished\"\n"))
}

func TestServe_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer

	err := launcher.Serve(ctx, requests(`{"Search":"cb a"}`), &out, testSession(nil), discardLogger())

	assert.Check(t, errors.Is(err, context.Canceled))
	assert.Check(t, is.Equal(out.Len(), 0))
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestServe_WriteFailure(t *testing.T) {
	err := launcher.Serve(context.Background(), requests(`{"Search":"cb a"}`), brokenWriter{}, testSession(nil), discardLogger())

	assert.Check(t, errors.Is(err, io.ErrClosedPipe), "got %v", err)
}

func TestResponder_OneResponsePerLine(t *testing.T) {
	var out bytes.Buffer
	r := launcher.NewResponder(&out)

	assert.NilError(t, r.Append(session.Entry{ID: 3, Name: "Go <Docs>", Description: "https://go.dev/?a=1&b=2"}))
	assert.NilError(t, r.Fill("cb Go"))
	assert.NilError(t, r.Close())

	want := `{"Append":{"id":3,"name":"Go <Docs>","description":"https://go.dev/?a=1&b=2","keywords":null,"icon":null,"exec":null,"window":null}}
{"Fill":"cb Go"}
"Close"
`
	assert.Equal(t, out.String(), want)
}
