package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codereviewgo/internal/models"
)

// fakeRemote stands in for the HTTP API. block, when set, holds SubmitFile
// until released so tests can observe the in-flight window.
type fakeRemote struct {
	mu          sync.Mutex
	report      string
	submitErr   error
	fetchErr    error
	reports     []models.Review
	submitCalls int
	fetchCalls  int
	block       chan struct{}
}

func (f *fakeRemote) SubmitFile(ctx context.Context, filename string, data []byte) (string, error) {
	f.mu.Lock()
	f.submitCalls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.report, nil
}

func (f *fakeRemote) FetchReports(ctx context.Context) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.reports, nil
}

func TestSubmitSuccess(t *testing.T) {
	remote := &fakeRemote{
		report:  "Looks fine.",
		reports: []models.Review{{ID: 1, Filename: "foo.py"}},
	}
	history := NewHistory(remote)
	session := NewSession(remote, history)

	require.NoError(t, session.SelectFile("foo.py", []byte("print(1)")))
	require.NoError(t, session.Submit(context.Background()))

	snap := session.Snapshot()
	assert.Equal(t, StatusDone, snap.Status)
	assert.Equal(t, "Looks fine.", snap.ReportText)
	assert.Empty(t, snap.StatusMessage, "progress message must clear on terminal state")
	assert.Empty(t, snap.ErrorText)

	assert.Equal(t, 1, remote.fetchCalls, "completion must trigger a history refresh")
	require.Len(t, history.Reviews(), 1)
	assert.Equal(t, "foo.py", history.Reviews()[0].Filename)
}

func TestSubmitFailure(t *testing.T) {
	remote := &fakeRemote{submitErr: errors.New("Failed to process request. Check database status or API key.")}
	history := NewHistory(remote)
	session := NewSession(remote, history)

	require.NoError(t, session.SelectFile("foo.py", []byte("print(1)")))
	err := session.Submit(context.Background())
	require.Error(t, err)

	snap := session.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "Failed to analyze code.", snap.ErrorText, "client surfaces one generic message")
	assert.Empty(t, snap.StatusMessage)
	assert.Empty(t, snap.ReportText)
	assert.Zero(t, remote.fetchCalls, "no history refresh on failure")
}

func TestSubmitWithoutFile(t *testing.T) {
	remote := &fakeRemote{}
	session := NewSession(remote, nil)

	err := session.Submit(context.Background())
	require.ErrorIs(t, err, ErrNoFileSelected)
	assert.Zero(t, remote.submitCalls, "rejection happens before any network interaction")
	assert.Equal(t, StatusIdle, session.Status())
}

func TestSubmitSingleFlight(t *testing.T) {
	remote := &fakeRemote{report: "ok", block: make(chan struct{})}
	session := NewSession(remote, nil)
	require.NoError(t, session.SelectFile("foo.py", []byte("print(1)")))

	done := make(chan error, 1)
	go func() { done <- session.Submit(context.Background()) }()

	// Wait for the first submission to reach the remote call.
	require.Eventually(t, func() bool {
		remote.mu.Lock()
		defer remote.mu.Unlock()
		return remote.submitCalls == 1
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, session.Submit(context.Background()), ErrSubmitInFlight)
	assert.ErrorIs(t, session.SelectFile("bar.py", []byte("x")), ErrSubmitInFlight)
	assert.True(t, session.Status().InFlight())

	close(remote.block)
	require.NoError(t, <-done)
	assert.Equal(t, StatusDone, session.Status())
	assert.Equal(t, 1, remote.submitCalls)
}

func TestSelectFileResetsTerminalState(t *testing.T) {
	remote := &fakeRemote{report: "ok"}
	session := NewSession(remote, nil)

	require.NoError(t, session.SelectFile("foo.py", []byte("print(1)")))
	require.NoError(t, session.Submit(context.Background()))
	require.Equal(t, StatusDone, session.Status())

	require.NoError(t, session.SelectFile("bar.py", []byte("print(2)")))
	snap := session.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, "bar.py", snap.FileName)
	assert.Empty(t, snap.ReportText)
	assert.Empty(t, snap.ErrorText)
}

func TestResubmitAfterFailure(t *testing.T) {
	remote := &fakeRemote{submitErr: errors.New("boom")}
	session := NewSession(remote, nil)
	require.NoError(t, session.SelectFile("foo.py", []byte("print(1)")))
	require.Error(t, session.Submit(context.Background()))
	require.Equal(t, StatusFailed, session.Status())

	remote.submitErr = nil
	remote.report = "second time lucky"
	require.NoError(t, session.Submit(context.Background()))
	snap := session.Snapshot()
	assert.Equal(t, StatusDone, snap.Status)
	assert.Equal(t, "second time lucky", snap.ReportText)
}

func TestRefreshFailureKeepsSessionDone(t *testing.T) {
	remote := &fakeRemote{report: "ok", fetchErr: errors.New("listing down")}
	history := NewHistory(remote)
	session := NewSession(remote, history)

	require.NoError(t, session.SelectFile("foo.py", []byte("print(1)")))
	require.NoError(t, session.Submit(context.Background()))

	assert.Equal(t, StatusDone, session.Status(), "refresh failure never escalates to the session")
	assert.Empty(t, history.Reviews())
}
