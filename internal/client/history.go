package client

import (
	"context"
	"log"
	"sync"

	"codereviewgo/internal/models"
)

// History owns the client-side list of past reviews. Refresh is its only
// mutator: the fetched list replaces the held one wholesale, with no merging
// or diffing. The object is passed to whatever view needs it; there is no
// package-level shared list.
type History struct {
	remote Remote

	mu      sync.RWMutex
	reviews []models.Review
}

// NewHistory creates an empty history backed by remote.
func NewHistory(remote Remote) *History {
	return &History{remote: remote}
}

// Refresh re-queries the server. Best-effort: on failure the prior list is
// retained unchanged and the error is only logged.
func (h *History) Refresh(ctx context.Context) {
	reviews, err := h.remote.FetchReports(ctx)
	if err != nil {
		log.Printf("refresh history: %v", err)
		return
	}
	h.mu.Lock()
	h.reviews = reviews
	h.mu.Unlock()
}

// Reviews returns the current list, newest first.
func (h *History) Reviews() []models.Review {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]models.Review, len(h.reviews))
	copy(out, h.reviews)
	return out
}
