package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"codereviewgo/internal/models"
	"codereviewgo/internal/redis"
	"codereviewgo/internal/service/review"
)

// ReviewService is the pipeline surface the handlers drive.
type ReviewService interface {
	Submit(ctx context.Context, filename, storedPath string) (*models.Review, error)
	ListAll(ctx context.Context) ([]models.Review, error)
}

// Handler wires HTTP routes to the review pipeline and the report cache.
type Handler struct {
	reviews   ReviewService
	cache     *redis.Client
	uploadDir string
	cacheTTL  time.Duration
}

// NewHandler constructs a Handler instance. cache may be nil; the wrapper
// treats that as a disabled cache.
func NewHandler(reviews ReviewService, cache *redis.Client, uploadDir string, cacheTTL time.Duration) *Handler {
	return &Handler{
		reviews:   reviews,
		cache:     cache,
		uploadDir: uploadDir,
		cacheTTL:  cacheTTL,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/review", h.submitReview)
	router.GET("/reports", h.listReports)
}

const (
	reportsCacheKey = "reports:list"

	// The two client-visible shapes. Internal error kinds go to the log only.
	msgMissingFile    = "No file uploaded."
	msgPipelineFailed = "Failed to process request. Check database status or API key."
)

func (h *Handler) submitReview(c *gin.Context) {
	file, err := c.FormFile("codeFile")
	if err != nil {
		log.Printf("review rejected (%s): %v", review.KindMissingFile, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingFile})
		return
	}

	filename := filepath.Base(file.Filename)
	tmpPath := filepath.Join(h.uploadDir, uuid.NewString())
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			log.Printf("remove upload %s: %v", tmpPath, err)
		}
	}()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.failPipeline(c, review.WrapErr(review.KindRead, err))
		return
	}
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		h.failPipeline(c, review.WrapErr(review.KindRead, err))
		return
	}

	stored, err := h.reviews.Submit(c.Request.Context(), filename, tmpPath)
	if err != nil {
		h.failPipeline(c, err)
		return
	}

	h.invalidateReports(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  stored.AIReview,
	})
}

// failPipeline logs the tagged cause and answers with the single generic
// failure shape.
func (h *Handler) failPipeline(c *gin.Context, err error) {
	log.Printf("review pipeline failed (%s): %v", review.KindOf(err), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgPipelineFailed})
}

func (h *Handler) listReports(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.cache.Get(ctx, reportsCacheKey); err == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
		return
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		log.Printf("reports cache read: %v", err)
	}

	reviews, err := h.reviews.ListAll(ctx)
	if err != nil {
		// Store outages answer with a real error status so the client cannot
		// mistake an outage for an empty history.
		log.Printf("list reports failed (%s): %v", review.KindOf(err), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgPipelineFailed})
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	payload, err := json.Marshal(reviews)
	if err != nil {
		log.Printf("marshal reports: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgPipelineFailed})
		return
	}
	if err := h.cache.Set(ctx, reportsCacheKey, payload, h.cacheTTL); err != nil {
		log.Printf("reports cache write: %v", err)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// invalidateReports drops the cached listing after a successful submission.
// Best-effort: a failed invalidation only delays freshness by one cache TTL.
func (h *Handler) invalidateReports(ctx context.Context) {
	if err := h.cache.Del(ctx, reportsCacheKey); err != nil {
		log.Printf("reports cache invalidate: %v", err)
	}
}
