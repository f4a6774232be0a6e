package review

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultUploadTTL           = time.Hour
	DefaultUploadSweepInterval = 30 * time.Minute
)

// StartUploadSweeper removes upload-dir files older than ttl in the
// background until ctx is cancelled. Handlers delete their own temp artifact
// on every exit path; the sweeper only catches files leaked by a crashed
// process.
func StartUploadSweeper(ctx context.Context, dir string, ttl, interval time.Duration) {
	if ttl <= 0 {
		ttl = DefaultUploadTTL
	}
	if interval <= 0 {
		interval = DefaultUploadSweepInterval
	}
	go sweepLoop(ctx, dir, ttl, interval)
}

func sweepLoop(ctx context.Context, dir string, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sweepOnce(dir, ttl); err != nil {
				log.Printf("sweep uploads: %v", err)
			}
		}
	}
}

func sweepOnce(dir string, ttl time.Duration) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	cutoff := time.Now().Add(-ttl)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove stale upload %s: %v", path, err)
		}
	}
	return nil
}
