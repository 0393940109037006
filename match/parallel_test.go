package match

import (
	"fmt"
	"testing"

	"github.com/poiesic/ausbin/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParallelMatcher(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)

	t.Run("valid configuration", func(t *testing.T) {
		p, err := NewParallelMatcher(m)
		require.NoError(t, err)
		defer p.Release()
		assert.NotNil(t, p)
	})

	t.Run("with pool size", func(t *testing.T) {
		p, err := NewParallelMatcher(m, WithPoolSize(4), WithChunkSize(10))
		require.NoError(t, err)
		defer p.Release()
		assert.NotNil(t, p)
	})

	t.Run("pool size below 1 is clamped", func(t *testing.T) {
		p, err := NewParallelMatcher(m, WithPoolSize(0))
		require.NoError(t, err)
		defer p.Release()
		assert.NotNil(t, p)
	})

	t.Run("nil matcher", func(t *testing.T) {
		_, err := NewParallelMatcher(nil)
		assert.ErrorIs(t, err, ErrMatcherRequired)
	})
}

func TestParallelMatch_MatchesSerialOutput(t *testing.T) {
	m, err := NewMatcher(WithThreshold(30), WithLimit(200))
	require.NoError(t, err)

	p, err := NewParallelMatcher(m, WithPoolSize(4), WithChunkSize(7))
	require.NoError(t, err)
	defer p.Release()

	var input []*core.BusinessName
	input = append(input, records("JONES", "JONES PLUMBING", "JONSE", "BONES")...)
	for i := 0; i < 100; i++ {
		input = append(input, &core.BusinessName{
			Id:   core.ID(i + 1),
			Name: fmt.Sprintf("FILLER BUSINESS %03d", i),
		})
	}

	serial := m.Match(input, "JONES")
	parallel := p.Match(input, "JONES")

	require.Equal(t, len(serial), len(parallel))
	for i := range serial {
		assert.Equal(t, serial[i].Record.Id, parallel[i].Record.Id)
		assert.Equal(t, serial[i].Score, parallel[i].Score)
		assert.Equal(t, serial[i].Category, parallel[i].Category)
	}
}

func TestParallelMatch_EmptyInput(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)

	p, err := NewParallelMatcher(m)
	require.NoError(t, err)
	defer p.Release()

	assert.Empty(t, p.Match(nil, "anything"))
}

func TestParallelMatch_NilRecordsDropped(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)

	p, err := NewParallelMatcher(m)
	require.NoError(t, err)
	defer p.Release()

	assert.Empty(t, p.Match([]*core.BusinessName{nil, nil}, ""))

	input := []*core.BusinessName{nil, {Name: "ACME"}, nil}
	results := p.Match(input, "")
	require.Len(t, results, 1)
	assert.Equal(t, "ACME", results[0].Record.Name)
}

func TestParallelMatch_SampleCapStillApplies(t *testing.T) {
	m, err := NewMatcher(
		WithSampleCap(3),
		WithLimit(100),
		WithSimilarity(func(term, name string) float64 { return 90 }),
	)
	require.NoError(t, err)

	p, err := NewParallelMatcher(m, WithChunkSize(1))
	require.NoError(t, err)
	defer p.Release()

	results := p.Match(records("A1", "A2", "A3", "A4", "A5"), "ZZZ")
	assert.Len(t, results, 3)
}
