// Package handlers exposes the feed service over HTTP. All request
// validation lives here: the feed core is only ever called with well-formed
// cursors, known categories and in-range limits.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ripplehq/ripple/internal/api"
	"github.com/ripplehq/ripple/internal/feed"
	"github.com/ripplehq/ripple/internal/logging"
	"github.com/ripplehq/ripple/internal/models"
	"github.com/ripplehq/ripple/internal/monitoring"
)

// Metrics holds the feed-specific Prometheus metrics.
type Metrics struct {
	FeedRequests *prometheus.CounterVec
	FeedDuration *prometheus.HistogramVec
}

// NewMetrics registers the feed metrics on the service collector.
func NewMetrics(mc *monitoring.MetricsCollector) *Metrics {
	return &Metrics{
		FeedRequests: mc.NewCounter("feed_requests_total",
			"Feed requests by category scope and cache outcome",
			[]string{"category", "cache"}),
		FeedDuration: mc.NewHistogram("feed_build_duration_seconds",
			"Time to build one feed page",
			[]string{"category"}, nil),
	}
}

// Handlers wires the feed service into gin routes.
type Handlers struct {
	svc     *feed.Service
	logger  logging.Logger
	metrics *Metrics
}

// New creates the handler set. metrics may be nil (tests).
func New(svc *feed.Service, logger logging.Logger, metrics *Metrics) *Handlers {
	return &Handlers{svc: svc, logger: logger, metrics: metrics}
}

// RegisterRoutes attaches all feed routes to the router.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	router.GET("/feed", h.GetFeed)
	router.GET("/categories", h.GetCategories)
	router.POST("/posts", h.CreatePost)
	router.GET("/posts/:id", h.GetPost)
	router.POST("/posts/:id/like", h.LikePost)
}

// GetFeed serves one page of the ranked feed.
func (h *Handlers) GetFeed(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !models.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
			Error:  "invalid query parameters",
			Fields: map[string]string{"category": "unknown category"},
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(feed.DefaultLimit)))
	if err != nil || limit < 1 || limit > feed.MaxLimit {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
			Error:  "invalid query parameters",
			Fields: map[string]string{"limit": "must be an integer between 1 and 100"},
		})
		return
	}

	cursor, err := feed.DecodeCursor(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
			Error:  "invalid query parameters",
			Fields: map[string]string{"cursor": "malformed pagination cursor"},
		})
		return
	}

	start := time.Now()
	resp, err := h.svc.GetFeed(c.Request.Context(), feed.Query{
		Category: category,
		Cursor:   cursor,
		Limit:    limit,
	})
	if err != nil {
		h.logger.WithError(err).WithField("category", category).Error("Feed request failed")
		h.serviceUnavailable(c)
		return
	}

	if h.metrics != nil {
		scope := category
		if scope == "" {
			scope = "all"
		}
		cacheLabel := "miss"
		if resp.Meta.CacheHit {
			cacheLabel = "hit"
		}
		h.metrics.FeedRequests.WithLabelValues(scope, cacheLabel).Inc()
		h.metrics.FeedDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	}

	c.JSON(http.StatusOK, resp)
}

// GetCategories lists the fixed category set with display names.
func (h *Handlers) GetCategories(c *gin.Context) {
	type category struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	out := make([]category, 0, len(models.Categories))
	for _, slug := range models.Categories {
		out = append(out, category{Slug: slug, Name: models.CategoryDisplayName(slug)})
	}
	c.JSON(http.StatusOK, api.SuccessResponse{Success: true, Data: out})
}

// CreatePostRequest is the POST /posts body.
type CreatePostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	AuthorID string   `json:"authorId"`
	Tags     []string `json:"tags"`
}

// CreatePost stores a new post and invalidates the affected feed caches.
func (h *Handlers) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	fields := map[string]string{}
	if req.Title == "" {
		fields["title"] = "required"
	}
	if req.Content == "" {
		fields["content"] = "required"
	}
	if !models.ValidCategory(req.Category) {
		fields["category"] = "unknown category"
	}
	authorID, err := bson.ObjectIDFromHex(req.AuthorID)
	if err != nil {
		fields["authorId"] = "must be a 24-char hex id"
	}
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
			Error:  "invalid request body",
			Fields: fields,
		})
		return
	}

	created, err := h.svc.CreatePost(c.Request.Context(), models.Post{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		AuthorID: authorID,
		Tags:     req.Tags,
	})
	if err != nil {
		h.logger.WithError(err).Error("Create post failed")
		h.serviceUnavailable(c)
		return
	}

	c.JSON(http.StatusCreated, api.SuccessResponse{Success: true, Data: created})
}

// LikePostRequest is the POST /posts/:id/like body. Delta defaults to 1; a
// dislike sends -1.
type LikePostRequest struct {
	Delta int `json:"delta"`
}

// LikePost adjusts a post's like count and invalidates the affected caches.
func (h *Handlers) LikePost(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
			Error:  "invalid path parameters",
			Fields: map[string]string{"id": "must be a 24-char hex id"},
		})
		return
	}

	req := LikePostRequest{Delta: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
			return
		}
	}
	if req.Delta != 1 && req.Delta != -1 {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
			Error:  "invalid request body",
			Fields: map[string]string{"delta": "must be 1 or -1"},
		})
		return
	}

	post, err := h.svc.LikePost(c.Request.Context(), id, req.Delta)
	if err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "post not found", Code: "NOT_FOUND"})
			return
		}
		h.logger.WithError(err).WithField("post_id", id.Hex()).Error("Like post failed")
		h.serviceUnavailable(c)
		return
	}

	c.JSON(http.StatusOK, api.SuccessResponse{Success: true, Data: post})
}

// GetPost looks up a single post.
func (h *Handlers) GetPost(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
			Error:  "invalid path parameters",
			Fields: map[string]string{"id": "must be a 24-char hex id"},
		})
		return
	}

	post, err := h.svc.GetPost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "post not found", Code: "NOT_FOUND"})
			return
		}
		h.logger.WithError(err).WithField("post_id", id.Hex()).Error("Get post failed")
		h.serviceUnavailable(c)
		return
	}

	c.JSON(http.StatusOK, api.SuccessResponse{Success: true, Data: post})
}

// serviceUnavailable is the generic dependency-failure response. Internal
// error detail stays in the logs.
func (h *Handlers) serviceUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{
		Error: "service unavailable",
		Code:  "DEPENDENCY_UNAVAILABLE",
	})
}
