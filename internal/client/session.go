package client

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Status is the sole externally observable progress signal of a session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusUploading  Status = "uploading"
	StatusAnalyzing  Status = "analyzing"
	StatusFinalizing Status = "finalizing"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// InFlight reports whether a submission is currently running. Idle, Done and
// Failed all accept a new selection or submission.
func (s Status) InFlight() bool {
	switch s {
	case StatusUploading, StatusAnalyzing, StatusFinalizing:
		return true
	}
	return false
}

const (
	msgUploading  = "Uploading file and preparing prompt..."
	msgAnalyzing  = "Sending code for analysis (this may take a moment)..."
	msgFinalizing = "Analysis complete, building the final report..."

	// The one generic user-facing failure text, regardless of cause.
	errTextSubmit = "Failed to analyze code."
)

var (
	ErrNoFileSelected = errors.New("no file selected")
	ErrSubmitInFlight = errors.New("a review is already in progress")
)

// Session tracks one upload-through-completion cycle. Transitions are
// one-directional per cycle: Idle → Uploading → Analyzing → Finalizing →
// Done, with any failure between Uploading and Finalizing collapsing to
// Failed. At most one submission runs at a time.
type Session struct {
	remote  Remote
	history *History

	mu            sync.Mutex
	fileName      string
	fileData      []byte
	status        Status
	statusMessage string
	reportText    string
	errorText     string
}

// Snapshot is one consistent read of the observable session state.
type Snapshot struct {
	FileName      string
	Status        Status
	StatusMessage string
	ReportText    string
	ErrorText     string
}

// NewSession creates an idle session. history may be nil when no listing
// should be refreshed on completion.
func NewSession(remote Remote, history *History) *Session {
	return &Session{remote: remote, history: history, status: StatusIdle}
}

// SelectFile stages a file for submission, clearing any previous report or
// error. Rejected while a submission is running.
func (s *Session) SelectFile(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.InFlight() {
		return ErrSubmitInFlight
	}
	s.fileName = name
	s.fileData = data
	s.reportText = ""
	s.errorText = ""
	s.status = StatusIdle
	s.statusMessage = ""
	return nil
}

// Submit drives the staged file through the full review round trip and blocks
// until the session reaches Done or Failed. There is no cancellation once the
// remote call is issued and no retry on failure; resubmission is an explicit
// user action.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.status.InFlight() {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	if s.fileName == "" {
		s.mu.Unlock()
		return ErrNoFileSelected
	}
	name := s.fileName
	data := s.fileData
	s.reportText = ""
	s.errorText = ""
	s.status = StatusUploading
	s.statusMessage = msgUploading
	s.mu.Unlock()

	s.setProgress(StatusAnalyzing, msgAnalyzing)
	report, err := s.remote.SubmitFile(ctx, name, data)
	if err != nil {
		log.Printf("submit %s failed: %v", name, err)
		s.fail()
		return err
	}
	s.setProgress(StatusFinalizing, msgFinalizing)
	s.finish(report)

	// Best-effort secondary task: a failed refresh is logged inside History
	// and never alters the session's Done state.
	if s.history != nil {
		s.history.Refresh(ctx)
	}
	return nil
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		FileName:      s.fileName,
		Status:        s.status,
		StatusMessage: s.statusMessage,
		ReportText:    s.reportText,
		ErrorText:     s.errorText,
	}
}

// Status returns the current status only.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) setProgress(status Status, message string) {
	s.mu.Lock()
	s.status = status
	s.statusMessage = message
	s.mu.Unlock()
}

func (s *Session) finish(report string) {
	s.mu.Lock()
	s.status = StatusDone
	s.reportText = report
	s.statusMessage = ""
	s.mu.Unlock()
}

func (s *Session) fail() {
	s.mu.Lock()
	s.status = StatusFailed
	s.errorText = errTextSubmit
	s.statusMessage = ""
	s.mu.Unlock()
}
