package launcher

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/nikbrunner/bm-launcher/internal/session"
)

const maxRequestSize = 1 << 20

// Handler answers launcher requests. *session.Session implements it.
type Handler interface {
	Search(out session.Emitter, raw string) error
	Activate(out session.Emitter, id uint32) (done bool, err error)
	Complete(id uint32) (string, bool)
}

// Serve reads requests from r and answers them on w until the input ends,
// the launcher sends Exit, or an activation ends the session. Requests are
// handled strictly one at a time; a request is fully answered before the
// next line is read. Malformed lines are logged and skipped.
//
// ctx is checked between requests; a request in progress always completes.
func Serve(ctx context.Context, r io.Reader, w io.Writer, h Handler, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	out := NewResponder(w)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		req, err := ParseRequest(line)
		if err != nil {
			log.Warn("skipping request", "line", string(line), "error", err)
			continue
		}
		log.Debug("request", "kind", req.Kind, "query", req.Query, "id", req.ID)

		switch req.Kind {
		case RequestSearch:
			if err := h.Search(out, req.Query); err != nil {
				return err
			}

		case RequestActivate:
			done, err := h.Activate(out, req.ID)
			if err != nil {
				return err
			}
			if done {
				return nil
			}

		case RequestComplete:
			if fill, ok := h.Complete(req.ID); ok {
				if err := out.Fill(fill); err != nil {
					return err
				}
			}

		case RequestExit:
			return nil

		default:
			// ActivateContext, Context, Quit, Interrupt: no context menu and
			// nothing to interrupt, since requests never overlap.
			log.Debug("ignoring request", "kind", req.Kind)
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
