// Package session runs one interactive bookmark search: it re-ranks the whole
// collection on every query, emits a bounded numbered result list, and
// resolves an activated id back to a record to open.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nikbrunner/bm-launcher/internal/model"
	"github.com/nikbrunner/bm-launcher/internal/opener"
	"github.com/nikbrunner/bm-launcher/internal/search"
)

// DefaultMaxResults caps the number of entries emitted per query.
const DefaultMaxResults = 20

// ErrTerminated is returned by every call made after an activation.
var ErrTerminated = errors.New("session terminated")

// State is the session's position in its lifecycle.
type State int

const (
	Idle       State = iota // waiting for the next request
	Responding              // emitting results for a query
	Terminated              // a result was activated; nothing more may be emitted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Responding:
		return "responding"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Entry is one numbered result of the current query.
type Entry struct {
	ID          uint32
	Name        string
	Description string
}

// Emitter receives a session's responses. Implementations deliver them to
// the host; a returned error aborts the current call.
type Emitter interface {
	Append(e Entry) error
	Finished() error
	Close() error
}

// Options configures a Session.
type Options struct {
	// Keyword is the trigger word a query must start with, followed by a
	// space. Empty means every input is a query.
	Keyword string

	// MaxResults caps entries per query. Zero means DefaultMaxResults.
	MaxResults int

	Ranker *search.Ranker // nil = search.NewRanker(search.DefaultCacheSize)
	Opener opener.Opener  // nil = opener.Exec{}
	Logger *slog.Logger   // nil = slog.Default()
}

// Session owns a flattened bookmark collection for one launcher run.
// It is driven by a single flow and is not safe for concurrent use.
type Session struct {
	id         string
	records    []model.Record
	view       []model.Record
	keyword    string
	maxResults int
	ranker     *search.Ranker
	opener     opener.Opener
	log        *slog.Logger
	state      State
}

// New creates an Idle session over records. Until the first query,
// activation ids index records in their natural order.
func New(records []model.Record, opts Options) *Session {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.Ranker == nil {
		opts.Ranker = search.NewRanker(search.DefaultCacheSize)
	}
	if opts.Opener == nil {
		opts.Opener = opener.Exec{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if records == nil {
		records = []model.Record{}
	}

	id := uuid.NewString()
	return &Session{
		id:         id,
		records:    records,
		view:       records,
		keyword:    opts.Keyword,
		maxResults: opts.MaxResults,
		ranker:     opts.Ranker,
		opener:     opts.Opener,
		log:        opts.Logger.With("session", id),
		state:      Idle,
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Len returns the size of the flattened collection.
func (s *Session) Len() int {
	return len(s.records)
}

// Keyword returns the trigger keyword.
func (s *Session) Keyword() string {
	return s.keyword
}

// View returns the records that activation ids currently index.
func (s *Session) View() []model.Record {
	return s.view
}

// ParseQuery splits raw launcher input into the search text. It reports
// false when raw is not "keyword text". With an empty keyword the whole
// input is the text.
func ParseQuery(keyword, raw string) (string, bool) {
	if keyword == "" {
		return raw, true
	}
	word, text, found := strings.Cut(raw, " ")
	if !found || word != keyword {
		return "", false
	}
	return text, true
}

// Search answers one query. Input that does not start with the keyword gets
// an empty response. Otherwise the whole collection is ranked against the
// text and the best entries are emitted with ids 0..N-1, followed by
// Finished. The emitted entries become the activation view.
func (s *Session) Search(out Emitter, raw string) error {
	if s.state == Terminated {
		return ErrTerminated
	}

	s.state = Responding
	defer func() { s.state = Idle }()

	text, ok := ParseQuery(s.keyword, raw)
	if !ok {
		s.log.Debug("query not addressed to this plugin", "input", raw)
		return s.finish(out)
	}

	ranked := s.ranker.Rank(s.records, text)
	if len(ranked) > s.maxResults {
		ranked = ranked[:s.maxResults]
	}
	s.view = ranked

	for i, r := range ranked {
		entry := Entry{
			ID:          uint32(i),
			Name:        r.Label,
			Description: r.Target,
		}
		if err := out.Append(entry); err != nil {
			return fmt.Errorf("append result %d: %w", i, err)
		}
	}

	s.log.Debug("search", "query", text, "results", len(ranked))
	return s.finish(out)
}

func (s *Session) finish(out Emitter) error {
	if err := out.Finished(); err != nil {
		return fmt.Errorf("finish results: %w", err)
	}
	return nil
}

// Activate opens the record behind id in the current view. An unknown id is
// logged and ignored: nothing is emitted and the session stays usable.
// Otherwise Close is emitted, the opener runs and the session terminates;
// done is true and err carries the opener's error, if any.
func (s *Session) Activate(out Emitter, id uint32) (done bool, err error) {
	if s.state == Terminated {
		return false, ErrTerminated
	}

	record, ok := s.lookup(id)
	if !ok {
		s.log.Error("entry not found", "id", id, "results", len(s.view))
		return false, nil
	}

	if err := out.Close(); err != nil {
		return false, fmt.Errorf("close launcher: %w", err)
	}

	s.state = Terminated
	s.log.Debug("open", "label", record.Label, "target", record.Target)
	return true, s.opener.Open(record.Target)
}

// Complete returns the launcher input that selects the entry behind id, for
// tab completion.
func (s *Session) Complete(id uint32) (string, bool) {
	record, ok := s.lookup(id)
	if !ok || s.state == Terminated {
		return "", false
	}
	if s.keyword == "" {
		return record.Label, true
	}
	return s.keyword + " " + record.Label, true
}

func (s *Session) lookup(id uint32) (model.Record, bool) {
	if uint64(id) >= uint64(len(s.view)) {
		return model.Record{}, false
	}
	return s.view[id], true
}
