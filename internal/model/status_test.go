package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Lifecycle
		want     bool
	}{
		{LifecyclePlanned, LifecycleScheduled, true},
		{LifecyclePlanned, LifecycleCancelled, true},
		{LifecyclePlanned, LifecycleInProgress, false},
		{LifecyclePlanned, LifecycleCompleted, false},
		{LifecycleScheduled, LifecycleInProgress, true},
		{LifecycleScheduled, LifecyclePlanned, true},
		{LifecycleScheduled, LifecycleCompleted, false},
		{LifecycleInProgress, LifecycleCompleted, true},
		{LifecycleInProgress, LifecycleCancelled, false},
		{LifecycleCompleted, LifecyclePlanned, false},
		{LifecycleCancelled, LifecycleScheduled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestLifecycle_TransitionTo(t *testing.T) {
	got, err := LifecyclePlanned.TransitionTo(LifecycleScheduled)
	require.NoError(t, err)
	assert.Equal(t, LifecycleScheduled, got)

	got, err = LifecycleCompleted.TransitionTo(LifecycleInProgress)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, LifecycleCompleted, got)
	assert.Contains(t, err.Error(), "COMPLETED -> IN_PROGRESS")
}

func TestLifecycle_Next(t *testing.T) {
	sequence := []Lifecycle{LifecyclePlanned, LifecycleScheduled, LifecycleInProgress, LifecycleCompleted}
	for i := 0; i < len(sequence)-1; i++ {
		next, ok := sequence[i].Next()
		require.True(t, ok)
		assert.Equal(t, sequence[i+1], next)
		assert.True(t, sequence[i].CanTransitionTo(next))
	}

	_, ok := LifecycleCompleted.Next()
	assert.False(t, ok)
	_, ok = LifecycleCancelled.Next()
	assert.False(t, ok)
}

func TestLifecycle_Flags(t *testing.T) {
	assert.True(t, LifecycleCompleted.IsTerminal())
	assert.True(t, LifecycleCancelled.IsTerminal())
	assert.False(t, LifecycleInProgress.IsTerminal())
	assert.True(t, LifecycleScheduled.IsEditable())
	assert.False(t, LifecycleInProgress.IsEditable())
}

func TestParseLifecycle(t *testing.T) {
	s, err := ParseLifecycle("IN_PROGRESS")
	require.NoError(t, err)
	assert.Equal(t, LifecycleInProgress, s)

	_, err = ParseLifecycle("in progress")
	assert.Error(t, err)
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{3, 4}, PageQuery{Page: 2, Limit: 2}, 5)
	assert.Equal(t, []int{3, 4}, page.Data)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	page = NewPage[int](nil, PageQuery{}, 0)
	assert.NotNil(t, page.Data)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageLimit, page.Limit)
}

func TestPageQuery_Offset(t *testing.T) {
	assert.Equal(t, 0, PageQuery{}.Offset())
	assert.Equal(t, 40, PageQuery{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, 100, PageQuery{Page: 2, Limit: 500}.Offset())

	huge := PageQuery{Page: 461168601842738792, Limit: 20}
	assert.Equal(t, (MaxPage-1)*20, huge.Offset())
	assert.GreaterOrEqual(t, huge.Offset(), 0)
}
