package match

import (
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/ausbin/core"
)

// ParallelMatcher runs the fuzzy pass of a Matcher across a worker pool.
// The exact and contains passes are cheap linear scans and stay serial;
// only the similarity scoring of the sampled remainder is sharded. Output
// is identical to the wrapped Matcher for the same input.
type ParallelMatcher struct {
	matcher   *Matcher
	pool      *ants.Pool
	chunkSize int
}

// ParallelOption configures a ParallelMatcher.
type ParallelOption func(*ParallelMatcher) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) ParallelOption {
	return func(p *ParallelMatcher) error {
		if size < 1 {
			size = 1
		}

		// Release the old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunkSize sets how many records each submitted task scores.
// Default is 500.
func WithChunkSize(size int) ParallelOption {
	return func(p *ParallelMatcher) error {
		if size < 1 {
			size = 1
		}
		p.chunkSize = size
		return nil
	}
}

// NewParallelMatcher wraps a matcher with a scoring worker pool.
func NewParallelMatcher(matcher *Matcher, opts ...ParallelOption) (*ParallelMatcher, error) {
	if matcher == nil {
		return nil, ErrMatcherRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &ParallelMatcher{
		matcher:   matcher,
		pool:      pool,
		chunkSize: 500,
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Match ranks records against term, scoring fuzzy candidates concurrently.
func (p *ParallelMatcher) Match(records []*core.BusinessName, term string) []*core.MatchResult {
	normTerm := Normalize(term)

	exact, remaining := p.matcher.exactPass(dropNil(records), normTerm)
	contains, remaining := p.matcher.containsPass(remaining, normTerm)
	sampled, _ := p.matcher.sample.Apply(remaining)

	fuzzy := p.scoreChunks(sampled, normTerm)

	return p.matcher.combine(exact, contains, fuzzy)
}

// scoreChunks shards the sampled records and scores each shard on the pool.
// Per-shard results keep input order so the merge stays deterministic.
func (p *ParallelMatcher) scoreChunks(sampled []*core.BusinessName, normTerm string) []*core.MatchResult {
	if len(sampled) == 0 {
		return nil
	}

	chunks := (len(sampled) + p.chunkSize - 1) / p.chunkSize
	perChunk := make([][]*core.MatchResult, chunks)

	var wg sync.WaitGroup
	for i := 0; i < chunks; i++ {
		start := i * p.chunkSize
		end := start + p.chunkSize
		if end > len(sampled) {
			end = len(sampled)
		}

		i, chunk := i, sampled[start:end]
		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			perChunk[i] = p.matcher.fuzzyPass(chunk, normTerm)
		}); err != nil {
			// Pool rejected the task (released or overloaded): score inline.
			perChunk[i] = p.matcher.fuzzyPass(chunk, normTerm)
			wg.Done()
		}
	}
	wg.Wait()

	var results []*core.MatchResult
	for _, chunk := range perChunk {
		results = append(results, chunk...)
	}
	return results
}

// Release releases the worker pool.
// The matcher should not be used after calling Release.
func (p *ParallelMatcher) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
