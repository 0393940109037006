package match

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/poiesic/ausbin/core"
)

const (
	// ExactScore is assigned to every exact match.
	ExactScore = 100.0
	// ContainsScore is assigned to every substring match. It sits strictly
	// between the fuzzy maximum and the exact score so the combined ordering
	// stays consistent with category precedence.
	ContainsScore = 95.0

	// DefaultThreshold is the minimum fuzzy ratio kept when none is configured.
	DefaultThreshold = 50
	// DefaultLimit is the result cap applied when none is configured.
	DefaultLimit = 50
	// DefaultSampleCap bounds how many remaining records the fuzzy pass scores.
	DefaultSampleCap = 10000
)

// Similarity computes a 0-100 closeness ratio between a normalized term and
// a normalized name. Implementations must be deterministic.
type Similarity func(term, name string) float64

// LevenshteinRatio is the default Similarity, backed by go-edlib's
// normalized Levenshtein similarity scaled to 0-100.
func LevenshteinRatio(term, name string) float64 {
	ratio, err := edlib.StringsSimilarity(term, name, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(ratio) * 100
}

// SamplePolicy bounds the fuzzy pass. At most Cap records, taken in input
// order from the set remaining after the exact and contains passes, are
// scored; records beyond the cap are silently excluded. This is a documented
// approximation for large datasets, not an error.
type SamplePolicy struct {
	Cap int
}

// Apply truncates remaining to the policy's cap, returning the sampled
// slice and the number of records excluded.
func (p SamplePolicy) Apply(remaining []*core.BusinessName) ([]*core.BusinessName, int) {
	if p.Cap <= 0 || len(remaining) <= p.Cap {
		return remaining, 0
	}
	return remaining[:p.Cap], len(remaining) - p.Cap
}

// Matcher ranks business name records against a free-text search term.
// A Matcher is immutable after construction and safe for concurrent use.
type Matcher struct {
	threshold  int
	limit      int
	sample     SamplePolicy
	similarity Similarity
	logger     *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithThreshold sets the minimum fuzzy ratio, in [0, 100].
// Exact and contains matches are never filtered by the threshold.
// Default is DefaultThreshold.
func WithThreshold(threshold int) Option {
	return func(m *Matcher) error {
		if threshold < 0 || threshold > 100 {
			return ErrInvalidThreshold
		}
		m.threshold = threshold
		return nil
	}
}

// WithLimit sets the maximum number of results returned.
// A limit of 0 yields an empty result. Default is DefaultLimit.
func WithLimit(limit int) Option {
	return func(m *Matcher) error {
		if limit < 0 {
			return ErrInvalidLimit
		}
		m.limit = limit
		return nil
	}
}

// WithSampleCap bounds the fuzzy pass to the first cap remaining records.
// Default is DefaultSampleCap.
func WithSampleCap(cap int) Option {
	return func(m *Matcher) error {
		if cap <= 0 {
			return ErrInvalidSampleCap
		}
		m.sample = SamplePolicy{Cap: cap}
		return nil
	}
}

// WithSimilarity sets a custom similarity function.
// Default is LevenshteinRatio.
func WithSimilarity(fn Similarity) Option {
	return func(m *Matcher) error {
		if fn == nil {
			fn = LevenshteinRatio
		}
		m.similarity = fn
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMatcher creates a matcher with the given options.
func NewMatcher(opts ...Option) (*Matcher, error) {
	m := &Matcher{
		threshold:  DefaultThreshold,
		limit:      DefaultLimit,
		sample:     SamplePolicy{Cap: DefaultSampleCap},
		similarity: LevenshteinRatio,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Threshold returns the configured minimum fuzzy ratio.
func (m *Matcher) Threshold() int { return m.threshold }

// Limit returns the configured result cap.
func (m *Matcher) Limit() int { return m.limit }

// Match ranks records against term. The result is deduplicated by pass
// precedence (exact over contains over fuzzy), ordered by score descending
// then name ascending, and capped at the configured limit.
func (m *Matcher) Match(records []*core.BusinessName, term string) []*core.MatchResult {
	return m.MatchWithMonitor(records, term, nil)
}

// MatchWithMonitor ranks records against term with monitoring.
// The monitor receives callbacks after each pass and at completion.
func (m *Matcher) MatchWithMonitor(records []*core.BusinessName, term string, monitor MatchMonitor) []*core.MatchResult {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	normTerm := Normalize(term)
	monitor.Start(term, normTerm)

	records = dropNil(records)

	// 1. Exact pass
	exact, remaining := m.exactPass(records, normTerm)
	monitor.AfterExactPass(exact)

	// 2. Contains pass over not-yet-matched records
	contains, remaining := m.containsPass(remaining, normTerm)
	monitor.AfterContainsPass(contains)

	// 3. Fuzzy pass over the sampled remainder
	sampled, excluded := m.sample.Apply(remaining)
	if excluded > 0 {
		m.logger.Debug("fuzzy pass sample cap reached",
			"cap", m.sample.Cap, "excluded", excluded)
		monitor.SampleTruncated(excluded)
	}
	fuzzy := m.fuzzyPass(sampled, normTerm)
	monitor.AfterFuzzyPass(fuzzy)

	// Combine, order, truncate
	results := m.combine(exact, contains, fuzzy)
	monitor.Finish(results)

	return results
}

// dropNil removes nil record pointers before the passes run, so results
// never carry a nil Record. The input slice is left untouched.
func dropNil(records []*core.BusinessName) []*core.BusinessName {
	for i, record := range records {
		if record != nil {
			continue
		}
		out := make([]*core.BusinessName, 0, len(records)-1)
		out = append(out, records[:i]...)
		for _, r := range records[i+1:] {
			if r != nil {
				out = append(out, r)
			}
		}
		return out
	}
	return records
}

// exactPass splits records into exact matches and the rest.
func (m *Matcher) exactPass(records []*core.BusinessName, normTerm string) ([]*core.MatchResult, []*core.BusinessName) {
	var matched []*core.MatchResult
	remaining := make([]*core.BusinessName, 0, len(records))

	for _, record := range records {
		if normalizedName(record) == normTerm {
			matched = append(matched, &core.MatchResult{
				Record:   record,
				Score:    ExactScore,
				Category: core.CategoryExact,
			})
			continue
		}
		remaining = append(remaining, record)
	}

	return matched, remaining
}

// containsPass splits the remaining records into substring matches and the
// rest. Every name contains the empty string, so an empty normalized term
// sweeps all remaining records into this pass. That is the documented
// substring semantics, not a special case.
func (m *Matcher) containsPass(records []*core.BusinessName, normTerm string) ([]*core.MatchResult, []*core.BusinessName) {
	var matched []*core.MatchResult
	remaining := make([]*core.BusinessName, 0, len(records))

	for _, record := range records {
		if strings.Contains(normalizedName(record), normTerm) {
			matched = append(matched, &core.MatchResult{
				Record:   record,
				Score:    ContainsScore,
				Category: core.CategoryContains,
			})
			continue
		}
		remaining = append(remaining, record)
	}

	return matched, remaining
}

// fuzzyPass scores each sampled record against the term and keeps those at
// or above the threshold.
func (m *Matcher) fuzzyPass(records []*core.BusinessName, normTerm string) []*core.MatchResult {
	var matched []*core.MatchResult
	for _, record := range records {
		if result := m.scoreFuzzy(record, normTerm); result != nil {
			matched = append(matched, result)
		}
	}
	return matched
}

// scoreFuzzy scores a single record, returning nil when it falls below the
// threshold.
func (m *Matcher) scoreFuzzy(record *core.BusinessName, normTerm string) *core.MatchResult {
	score := m.similarity(normTerm, normalizedName(record))
	if score < float64(m.threshold) {
		return nil
	}
	return &core.MatchResult{
		Record:   record,
		Score:    score,
		Category: core.CategoryFuzzy,
	}
}

// combine concatenates pass results, applies the total order
// (score descending, name ascending), and truncates to the limit.
func (m *Matcher) combine(passes ...[]*core.MatchResult) []*core.MatchResult {
	results := make([]*core.MatchResult, 0)
	for _, pass := range passes {
		results = append(results, pass...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Record.Name < results[j].Record.Name
	})

	if len(results) > m.limit {
		results = results[:m.limit]
	}
	return results
}
