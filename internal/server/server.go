// Package server assembles the gin router for the recommendation API.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"finefoods-recommender/internal/cache"
	"finefoods-recommender/internal/recommend"
	"finefoods-recommender/pkg/errors"
	"finefoods-recommender/pkg/logger"
)

var (
	recommendationRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"status"},
	)
	recommendationLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_request_duration_seconds",
			Help:    "Duration of recommendation computations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(recommendationRequests)
	prometheus.MustRegister(recommendationLatency)
}

// Server serves recommendation requests over HTTP
type Server struct {
	engine *recommend.Engine
	cache  *cache.RecommendationCache // nil when disabled
	logger *zap.Logger
	group  singleflight.Group
}

// New creates a server around an engine and an optional cache
func New(engine *recommend.Engine, c *cache.RecommendationCache) *Server {
	return &Server{
		engine: engine,
		cache:  c,
		logger: logger.Get(),
	}
}

// Router builds the gin router with logging, recovery, health, metrics and
// the recommendation endpoint
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(s.logger))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/finefoods/recommendation/:userId", s.handleRecommendation)

	return router
}

func (s *Server) handleRecommendation(c *gin.Context) {
	userID := c.Param("userId")
	ctx := c.Request.Context()

	if rec, ok := s.cache.Get(ctx, userID); ok {
		recommendationRequests.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
		c.JSON(http.StatusOK, rec)
		return
	}

	start := time.Now()
	// concurrent requests for the same user share one computation
	result, err, _ := s.group.Do(userID, func() (interface{}, error) {
		return s.engine.Recommend(ctx, userID)
	})
	recommendationLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.IsNotFound(err) {
			recommendationRequests.WithLabelValues(strconv.Itoa(http.StatusNotFound)).Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found: " + userID})
			return
		}
		s.logger.Error("Failed to compute recommendation", zap.String("user_id", userID), zap.Error(err))
		recommendationRequests.WithLabelValues(strconv.Itoa(http.StatusInternalServerError)).Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute recommendation"})
		return
	}

	rec := result.(*recommend.Recommendation)
	s.cache.Set(ctx, rec)

	recommendationRequests.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	c.JSON(http.StatusOK, rec)
}

// requestLogger is a custom logger middleware for Gin
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
