package ui

import (
	"context"
	"net/http"

	"churnboard/domain/customer"
	"churnboard/internal/analysis"
	"churnboard/internal/config"
	"churnboard/internal/dataset"
	"churnboard/internal/logging"

	"github.com/gin-gonic/gin"
)

var logger = logging.New("API")

// Server serves the dashboard's JSON API.
type Server struct {
	router *gin.Engine
	cache  *dataset.Cache
	data   config.DataConfig
}

// NewServer creates the API server. Every request reads the table for
// data.Source through cache.
func NewServer(cache *dataset.Cache, data config.DataConfig) *Server {
	s := &Server{
		router: gin.New(),
		cache:  cache,
		data:   data,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID())
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/overview", s.handleOverview)
		api.GET("/groups", s.handleGroups)
		api.GET("/segments", s.handleSegments)
		api.GET("/customers", s.handleCustomers)
		api.GET("/clv/histogram", s.handleHistogram)
		api.GET("/clv/summary", s.handleSummary)
		api.GET("/models", s.handleModels)
		api.GET("/models/comparison", s.handleModelComparison)
		api.GET("/dataset", s.handleDataset)
		api.POST("/dataset/reload", s.handleReload)
		api.GET("/export.xlsx", s.handleExport)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on addr.
func (s *Server) Start(addr string) error {
	logger.Infof("Starting churn dashboard API on http://%s (source %s)", addr, s.data.Source)
	return s.router.Run(addr)
}

// Warm loads the configured source into the cache.
func (s *Server) Warm(ctx context.Context) error {
	_, err := s.cache.Load(ctx, s.data.Source)
	return err
}

func (s *Server) table(ctx context.Context) (*customer.Table, error) {
	return s.cache.Load(ctx, s.data.Source)
}

// queries loads the table and wraps it. On failure the error response has
// already been written.
func (s *Server) queries(c *gin.Context) (*analysis.Queries, bool) {
	table, err := s.table(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return analysis.New(table,
		analysis.WithDisplayLimit(s.data.DisplayLimit),
		analysis.WithHistogramBins(s.data.HistogramBins),
	), true
}
