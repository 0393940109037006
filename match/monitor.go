package match

import "github.com/poiesic/ausbin/core"

// MatchMonitor provides hooks to observe the matching process.
// Implement this interface to track intermediate pass results.
type MatchMonitor interface {
	Start(term, normalizedTerm string)
	AfterExactPass(results []*core.MatchResult)
	AfterContainsPass(results []*core.MatchResult)
	SampleTruncated(excluded int)
	AfterFuzzyPass(results []*core.MatchResult)
	Finish(results []*core.MatchResult)
}

// noopMonitor is a no-op implementation of MatchMonitor
type noopMonitor struct{}

var _ MatchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                       {}
func (n *noopMonitor) AfterExactPass(_ []*core.MatchResult)    {}
func (n *noopMonitor) AfterContainsPass(_ []*core.MatchResult) {}
func (n *noopMonitor) SampleTruncated(_ int)                   {}
func (n *noopMonitor) AfterFuzzyPass(_ []*core.MatchResult)    {}
func (n *noopMonitor) Finish(_ []*core.MatchResult)            {}
