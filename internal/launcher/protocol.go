// Package launcher speaks the pop-launcher plugin protocol: one JSON request
// per line on stdin, one JSON response per line on stdout.
package launcher

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// ErrMalformedRequest is returned for lines that are not a known request.
var ErrMalformedRequest = errors.New("malformed request")

// RequestKind identifies a launcher request.
type RequestKind int

const (
	RequestSearch RequestKind = iota
	RequestActivate
	RequestActivateContext
	RequestComplete
	RequestContext
	RequestQuit
	RequestExit
	RequestInterrupt
)

var requestNames = map[string]RequestKind{
	"Search":          RequestSearch,
	"Activate":        RequestActivate,
	"ActivateContext": RequestActivateContext,
	"Complete":        RequestComplete,
	"Context":         RequestContext,
	"Quit":            RequestQuit,
	"Exit":            RequestExit,
	"Interrupt":       RequestInterrupt,
}

func (k RequestKind) String() string {
	for name, kind := range requestNames {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("RequestKind(%d)", int(k))
}

// Request is a decoded launcher request.
type Request struct {
	Kind    RequestKind
	Query   string // Search
	ID      uint32 // Activate, ActivateContext, Complete, Context, Quit
	Context uint32 // ActivateContext
}

// ParseRequest decodes one request line. Unit requests are bare strings
// ("Exit"); the others are single-key objects ({"Search":"cb go"}).
func ParseRequest(line []byte) (Request, error) {
	if !gjson.ValidBytes(line) {
		return Request{}, fmt.Errorf("%w: invalid JSON", ErrMalformedRequest)
	}
	v := gjson.ParseBytes(line)

	switch {
	case v.Type == gjson.String:
		switch v.Str {
		case "Exit":
			return Request{Kind: RequestExit}, nil
		case "Interrupt":
			return Request{Kind: RequestInterrupt}, nil
		}
		return Request{}, fmt.Errorf("%w: unknown request %q", ErrMalformedRequest, v.Str)

	case v.IsObject():
		return parseObjectRequest(v)
	}

	return Request{}, fmt.Errorf("%w: unexpected %s", ErrMalformedRequest, v.Type)
}

func parseObjectRequest(v gjson.Result) (Request, error) {
	var (
		req   Request
		err   error
		count int
	)

	v.ForEach(func(key, value gjson.Result) bool {
		count++
		kind, ok := requestNames[key.Str]
		if !ok {
			err = fmt.Errorf("%w: unknown request %q", ErrMalformedRequest, key.Str)
			return false
		}
		req.Kind = kind

		switch kind {
		case RequestSearch:
			if value.Type != gjson.String {
				err = fmt.Errorf("%w: Search expects a string", ErrMalformedRequest)
				return false
			}
			req.Query = value.Str
		case RequestActivate, RequestComplete, RequestContext, RequestQuit:
			req.ID, err = parseID(value)
		case RequestActivateContext:
			req.ID, err = parseID(value.Get("id"))
			if err == nil {
				req.Context, err = parseID(value.Get("context"))
			}
		default:
			err = fmt.Errorf("%w: %s takes no payload", ErrMalformedRequest, key.Str)
		}
		return false
	})

	if err != nil {
		return Request{}, err
	}
	if count == 0 {
		return Request{}, fmt.Errorf("%w: empty object", ErrMalformedRequest)
	}
	return req, nil
}

// parseID reads a u32 id. Floats, negatives and out-of-range values fail.
func parseID(v gjson.Result) (uint32, error) {
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%w: id must be a number", ErrMalformedRequest)
	}
	id, err := strconv.ParseUint(v.Raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: id %s: %w", ErrMalformedRequest, v.Raw, err)
	}
	return uint32(id), nil
}

// IconSource names an icon by theme name or MIME type.
type IconSource struct {
	Name string `json:"Name,omitempty"`
	Mime string `json:"Mime,omitempty"`
}

// SearchResult is the payload of an Append response. Keywords, Icon, Exec
// and Window are part of the protocol; this plugin leaves them null.
type SearchResult struct {
	ID          uint32      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Keywords    []string    `json:"keywords"`
	Icon        *IconSource `json:"icon"`
	Exec        *string     `json:"exec"`
	Window      *[2]uint32  `json:"window"`
}

type appendResponse struct {
	Append SearchResult `json:"Append"`
}

type fillResponse struct {
	Fill string `json:"Fill"`
}

const (
	finishedResponse = "Finished"
	closeResponse    = "Close"
)
