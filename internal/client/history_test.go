package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codereviewgo/internal/models"
)

func TestRefreshReplacesListWholesale(t *testing.T) {
	remote := &fakeRemote{reports: []models.Review{
		{ID: 2, Filename: "b.py"},
		{ID: 1, Filename: "a.py"},
	}}
	history := NewHistory(remote)

	history.Refresh(context.Background())
	require.Len(t, history.Reviews(), 2)

	remote.mu.Lock()
	remote.reports = []models.Review{{ID: 3, Filename: "c.py"}}
	remote.mu.Unlock()

	history.Refresh(context.Background())
	got := history.Reviews()
	require.Len(t, got, 1, "refresh replaces, never merges")
	assert.Equal(t, "c.py", got[0].Filename)
}

func TestRefreshFailureRetainsPriorList(t *testing.T) {
	remote := &fakeRemote{reports: []models.Review{{ID: 1, Filename: "a.py"}}}
	history := NewHistory(remote)
	history.Refresh(context.Background())
	require.Len(t, history.Reviews(), 1)

	remote.mu.Lock()
	remote.fetchErr = errors.New("server down")
	remote.mu.Unlock()

	history.Refresh(context.Background())
	got := history.Reviews()
	require.Len(t, got, 1, "failed refresh keeps the previous list")
	assert.Equal(t, "a.py", got[0].Filename)
}

func TestReviewsReturnsCopy(t *testing.T) {
	remote := &fakeRemote{reports: []models.Review{{ID: 1, Filename: "a.py"}}}
	history := NewHistory(remote)
	history.Refresh(context.Background())

	got := history.Reviews()
	got[0].Filename = "mutated.py"
	assert.Equal(t, "a.py", history.Reviews()[0].Filename)
}
