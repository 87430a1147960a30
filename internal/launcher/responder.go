package launcher

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nikbrunner/bm-launcher/internal/session"
)

// Responder writes launcher responses, one JSON value per line, flushing
// after each so the launcher can render results as they arrive.
type Responder struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewResponder creates a Responder writing to w.
func NewResponder(w io.Writer) *Responder {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &Responder{w: bw, enc: enc}
}

// Append sends one search result.
func (r *Responder) Append(e session.Entry) error {
	return r.send(appendResponse{Append: SearchResult{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
	}})
}

// Finished ends the current result list.
func (r *Responder) Finished() error {
	return r.send(finishedResponse)
}

// Close asks the launcher to dismiss itself.
func (r *Responder) Close() error {
	return r.send(closeResponse)
}

// Fill replaces the launcher's input text.
func (r *Responder) Fill(text string) error {
	return r.send(fillResponse{Fill: text})
}

func (r *Responder) send(msg any) error {
	if err := r.enc.Encode(msg); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	if err := r.w.Flush(); err != nil {
		return fmt.Errorf("flush response: %w", err)
	}
	return nil
}
