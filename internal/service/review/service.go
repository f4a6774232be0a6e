package review

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"codereviewgo/internal/models"
)

// Analyzer produces the review text for one submitted file.
type Analyzer interface {
	Review(ctx context.Context, filename, content string) (string, error)
}

// Service runs the review pipeline and owns the durable review collection.
type Service struct {
	db       *sql.DB
	analyzer Analyzer
}

// NewService constructs a Service instance.
func NewService(db *sql.DB, analyzer Analyzer) *Service {
	return &Service{db: db, analyzer: analyzer}
}

// Submit runs the pipeline for one uploaded file: read the stored upload,
// obtain the model review, persist the pair. Each step gets a single attempt
// and any failure is terminal for the request. The caller owns the temp file
// at storedPath and removes it on every exit path.
func (s *Service) Submit(ctx context.Context, filename, storedPath string) (*models.Review, error) {
	raw, err := os.ReadFile(storedPath)
	if err != nil {
		return nil, WrapErr(KindRead, fmt.Errorf("read upload: %w", err))
	}
	content := string(raw)

	reviewText, err := s.analyzer.Review(ctx, filename, content)
	if err != nil {
		return nil, WrapErr(KindAnalysis, err)
	}

	stored, err := s.Append(ctx, models.Review{
		Filename:    filename,
		CodeContent: content,
		AIReview:    reviewText,
	})
	if err != nil {
		// The model call already succeeded, so the generated text is lost to
		// the caller here; there is no recovery path, only this log line.
		log.Printf("review for %s generated but not persisted: %v", filename, err)
		return nil, WrapErr(KindPersist, err)
	}
	return stored, nil
}

// Append writes a new review and returns the stored form with its assigned id
// and UTC creation time. Reviews are never updated afterwards.
func (s *Service) Append(ctx context.Context, r models.Review) (*models.Review, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (filename, code_content, ai_review, created_at) VALUES (?, ?, ?, ?)`,
		r.Filename, r.CodeContent, r.AIReview, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("review id: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	return &r, nil
}

// ListAll returns every stored review newest first. The id tiebreak keeps the
// ordering stable when concurrent writers land on the same timestamp.
func (s *Service) ListAll(ctx context.Context) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, code_content, ai_review, created_at FROM reviews ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, WrapErr(KindStore, fmt.Errorf("list reviews: %w", err))
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.Filename, &r.CodeContent, &r.AIReview, &r.CreatedAt); err != nil {
			return nil, WrapErr(KindStore, fmt.Errorf("scan review: %w", err))
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapErr(KindStore, err)
	}
	return reviews, nil
}
