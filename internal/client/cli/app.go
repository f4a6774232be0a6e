package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"codereviewgo/internal/client"
)

// App bundles the session state machine and the history cache behind the
// interactive loop.
type App struct {
	session *client.Session
	history *client.History
}

// NewApp wires the HTTP API client into a fresh session and history.
func NewApp(serverURL string) *App {
	api := client.NewAPI(serverURL)
	history := client.NewHistory(api)
	session := client.NewSession(api, history)
	return &App{session: session, history: history}
}

// Run populates the history once and hands control to the REPL.
func (a *App) Run(ctx context.Context) {
	a.history.Refresh(ctx)
	runREPL(ctx, a, bufio.NewScanner(os.Stdin))
}

func (a *App) selectFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return a.session.SelectFile(filepath.Base(path), data)
}

// submit runs one review cycle, echoing the session's progress messages while
// the remote call is in flight.
func (a *App) submit(ctx context.Context) {
	done := make(chan struct{})
	go a.watchProgress(done)
	err := a.session.Submit(ctx)
	close(done)

	snap := a.session.Snapshot()
	switch {
	case err == client.ErrNoFileSelected:
		printlnFn("Select a file first: select <path>")
	case err == client.ErrSubmitInFlight:
		printlnFn("A review is already in progress.")
	case snap.Status == client.StatusFailed:
		printlnFn(snap.ErrorText)
	case snap.Status == client.StatusDone:
		printlnFn("=== Latest Review ===")
		printlnFn(snap.ReportText)
	}
}

// watchProgress prints each status message change until the submission
// settles.
func (a *App) watchProgress(done <-chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	var last string
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			msg := a.session.Snapshot().StatusMessage
			if msg != "" && msg != last {
				printlnFn(msg)
				last = msg
			}
		}
	}
}

func (a *App) printHistory() {
	reviews := a.history.Reviews()
	if len(reviews) == 0 {
		printlnFn("No reports yet.")
		return
	}
	for i, r := range reviews {
		printlnFn(fmt.Sprintf("%2d. %s  (%s)", i+1, r.Filename, r.CreatedAt.Local().Format(time.RFC822)))
	}
}

func (a *App) showReport(index int) {
	reviews := a.history.Reviews()
	if index < 1 || index > len(reviews) {
		printlnFn(fmt.Sprintf("No report %d; history holds %d entries.", index, len(reviews)))
		return
	}
	r := reviews[index-1]
	printlnFn(fmt.Sprintf("=== %s (%s) ===", r.Filename, r.CreatedAt.Local().Format(time.RFC822)))
	printlnFn(r.AIReview)
}

func (a *App) printStatus() {
	snap := a.session.Snapshot()
	line := fmt.Sprintf("status: %s", snap.Status)
	if snap.FileName != "" {
		line += fmt.Sprintf("  file: %s", snap.FileName)
	}
	if snap.StatusMessage != "" {
		line += fmt.Sprintf("  (%s)", snap.StatusMessage)
	}
	printlnFn(line)
}

func (a *App) refreshHistory(ctx context.Context) {
	a.history.Refresh(ctx)
	log.Printf("history refreshed: %d entries", len(a.history.Reviews()))
}
