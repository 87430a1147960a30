package search

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/nikbrunner/bm-launcher/internal/model"
)

func labels(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Label
	}
	return out
}

func TestRank_FuzzyMatchFirst(t *testing.T) {
	records := []model.Record{
		{Label: "React Router", Target: "https://reactrouter.com"},
		{Label: "TanStack Router", Target: "https://tanstack.com/router"},
	}

	ranked := NewRanker(0).Rank(records, "tanrou")

	if ranked[0].Label != "TanStack Router" {
		t.Errorf("expected TanStack Router as first result, got %s", ranked[0].Label)
	}
	if len(ranked) != 2 {
		t.Errorf("ranking must not drop records, got %d", len(ranked))
	}
}

func TestRank_SortedByScore(t *testing.T) {
	records := []model.Record{
		{Label: "React Router Documentation", Target: "https://reactrouter.com"},
		{Label: "Router", Target: "https://router.example.com"},
	}

	ranked := NewRanker(0).Rank(records, "router")

	// "Router" is a whole-label match and must beat the longer label
	if ranked[0].Label != "Router" {
		t.Errorf("expected 'Router' first, got %s", ranked[0].Label)
	}
}

func TestRank_CaseInsensitive(t *testing.T) {
	records := []model.Record{
		{Label: "Hacker News"},
		{Label: "GitHub"},
	}

	ranked := NewRanker(0).Rank(records, "github")

	if ranked[0].Label != "GitHub" {
		t.Errorf("expected GitHub first for case-insensitive match, got %s", ranked[0].Label)
	}
}

func TestRank_EmptyQueryKeepsOrder(t *testing.T) {
	records := []model.Record{
		{Label: "b"}, {Label: "a"}, {Label: "c"},
	}

	ranked := NewRanker(0).Rank(records, "")

	if !slices.Equal(labels(ranked), []string{"b", "a", "c"}) {
		t.Errorf("empty query changed order: %v", labels(ranked))
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	records := []model.Record{
		{Label: "Zzz", Target: "z"},
		{Label: "GitHub", Target: "u1"},
		{Label: "Yyy", Target: "y"},
		{Label: "GitHub", Target: "u2"},
		{Label: "GitHub", Target: "u3"},
	}

	ranked := NewRanker(0).Rank(records, "git")

	var targets []string
	for _, r := range ranked {
		targets = append(targets, r.Target)
	}
	want := []string{"u1", "u2", "u3", "z", "y"}
	if !slices.Equal(targets, want) {
		t.Errorf("got %v, want %v", targets, want)
	}
}

func TestRank_RepeatedRankingIsStable(t *testing.T) {
	records := []model.Record{
		{Label: "GitLab"}, {Label: "Gitea"}, {Label: "GitHub"}, {Label: "Other"},
	}
	r := NewRanker(0)

	once := r.Rank(records, "git")
	twice := r.Rank(once, "git")

	if !slices.Equal(labels(once), labels(twice)) {
		t.Errorf("re-ranking a ranked list changed it: %v vs %v", labels(once), labels(twice))
	}
}

func randomRecords(rng *rand.Rand, n int) []model.Record {
	const alphabet = "abcdefghij XYZ"
	records := make([]model.Record, n)
	for i := range records {
		var b strings.Builder
		for j := 0; j < 1+rng.Intn(12); j++ {
			b.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		records[i] = model.Record{Label: b.String(), Target: fmt.Sprintf("https://%d.example", i)}
	}
	return records
}

// isSubsequence reports whether query's characters appear in label in order,
// ignoring case.
func isSubsequence(query, label string) bool {
	q := []rune(strings.ToLower(query))
	if len(q) == 0 {
		return false
	}
	i := 0
	for _, r := range strings.ToLower(label) {
		if i < len(q) && r == q[i] {
			i++
		}
	}
	return i == len(q)
}

func TestRank_PermutationAndNoMatchFloor(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	queries := []string{"a", "ab", "abc", "xyz", "jj", "a b", "q"}

	for trial := 0; trial < 20; trial++ {
		records := randomRecords(rng, 200)
		r := NewRanker(DefaultCacheSize)

		for _, q := range queries {
			ranked := r.Rank(records, q)

			// Permutation: same multiset of targets.
			in := make([]string, len(records))
			out := make([]string, len(ranked))
			for i := range records {
				in[i] = records[i].Target
				out[i] = ranked[i].Target
			}
			slices.Sort(in)
			slices.Sort(out)
			if !slices.Equal(in, out) {
				t.Fatalf("query %q: ranking is not a permutation", q)
			}

			// No-match floor: once a non-matching label appears, no matching
			// label may follow.
			seenMiss := false
			for _, rec := range ranked {
				match := isSubsequence(q, rec.Label)
				if !match {
					seenMiss = true
					continue
				}
				if seenMiss {
					t.Fatalf("query %q: matching %q ranked below a non-matching record", q, rec.Label)
				}
			}
		}
	}
}

func TestScores_NoMatchSentinel(t *testing.T) {
	records := []model.Record{{Label: "GitHub"}, {Label: "Hacker News"}}

	scores := Scores(records, "git")

	if scores[0] == NoMatch {
		t.Error("expected GitHub to match 'git'")
	}
	if scores[1] != NoMatch {
		t.Errorf("expected NoMatch for Hacker News, got %d", scores[1])
	}
	if scores[0] <= NoMatch {
		t.Errorf("real score %d must be above NoMatch", scores[0])
	}
}

func TestRanker_CacheHitMatchesRecompute(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	records := randomRecords(rng, 300)

	cached := NewRanker(4)
	uncached := NewRanker(0)

	for _, q := range []string{"a", "ab", "a", "abc", "ab", "a"} {
		got := cached.Rank(records, q)
		want := uncached.Rank(records, q)
		if !slices.Equal(got, want) {
			t.Fatalf("query %q: cached ranking differs from recompute", q)
		}
	}
	if cached.cache.Len() != 3 {
		t.Errorf("expected 3 cached queries, got %d", cached.cache.Len())
	}
}

func TestRanker_CacheResetOnNewCollection(t *testing.T) {
	r := NewRanker(4)
	first := []model.Record{{Label: "GitHub"}, {Label: "Other"}}
	second := []model.Record{{Label: "Other"}, {Label: "GitHub"}}

	_ = r.Rank(first, "git")
	ranked := r.Rank(second, "git")

	if ranked[0].Label != "GitHub" {
		t.Errorf("stale cache entry used for a new collection: %v", labels(ranked))
	}
	if r.cache.Len() != 1 {
		t.Errorf("expected cache to be reset, got %d entries", r.cache.Len())
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []int{0})
	c.Set("b", []int{1})
	c.Get("a")
	c.Set("c", []int{2})

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be cached")
	}
}

func BenchmarkRank_1000(b *testing.B) {
	records := randomRecords(rand.New(rand.NewSource(1)), 1000)
	r := NewRanker(0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Rank(records, "abc")
	}
}
