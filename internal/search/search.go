package search

import (
	"cmp"
	"math"
	"slices"

	"github.com/nikbrunner/bm-launcher/internal/model"
	"github.com/sahilm/fuzzy"
)

// NoMatch is the score of a record whose label does not match the query.
// fuzzy scores may be negative, so the sentinel sits below all of them.
const NoMatch = math.MinInt

// DefaultCacheSize is the number of query orderings a Ranker remembers.
const DefaultCacheSize = 64

// recordLabels implements fuzzy.Source over record labels.
type recordLabels []model.Record

func (rl recordLabels) String(i int) string {
	return rl[i].Label
}

func (rl recordLabels) Len() int {
	return len(rl)
}

// Scores returns the fuzzy score of query against every record label, in
// record order. Records that do not match get NoMatch. An empty query matches
// nothing.
func Scores(records []model.Record, query string) []int {
	scores := make([]int, len(records))
	for i := range scores {
		scores[i] = NoMatch
	}
	if query == "" {
		return scores
	}

	for _, m := range fuzzy.FindFrom(query, recordLabels(records)) {
		scores[m.Index] = m.Score
	}
	return scores
}

// Ranker orders a record collection by fuzzy relevance to a query.
// It remembers recent orderings for the collection it last ranked, so
// retyping a query does not rescore every label.
//
// A Ranker is not safe for concurrent use.
type Ranker struct {
	cache  *Cache
	source []model.Record
}

// NewRanker creates a Ranker caching up to cacheSize orderings.
// A cacheSize of 0 disables caching.
func NewRanker(cacheSize int) *Ranker {
	var cache *Cache
	if cacheSize > 0 {
		cache = NewCache(cacheSize)
	}
	return &Ranker{cache: cache}
}

// Rank returns records reordered by descending score of query against each
// label. Ties, including all non-matching records, keep their input order.
// No record is dropped.
func (r *Ranker) Rank(records []model.Record, query string) []model.Record {
	order := r.order(records, query)

	ranked := make([]model.Record, len(order))
	for i, idx := range order {
		ranked[i] = records[idx]
	}
	return ranked
}

// order returns the ranked permutation of record indexes.
func (r *Ranker) order(records []model.Record, query string) []int {
	if r.cache == nil {
		return rankOrder(records, query)
	}

	if !sameCollection(r.source, records) {
		r.cache.Clear()
		r.source = records
	}

	if cached, ok := r.cache.Get(query); ok {
		return cached
	}

	order := rankOrder(records, query)
	r.cache.Set(query, order)
	return order
}

// rankOrder scores records and stable-sorts their indexes by score.
func rankOrder(records []model.Record, query string) []int {
	scores := Scores(records, query)

	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})
	return order
}

// sameCollection reports whether a and b are the same backing slice.
func sameCollection(a, b []model.Record) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
