// Package api serves the portal operations as a JSON HTTP API.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pevans/newsportal/config"
	"github.com/pevans/newsportal/detect"
	"github.com/pevans/newsportal/logger"
	"github.com/pevans/newsportal/portal"
	"github.com/pevans/newsportal/service"
)

// APIServer represents the HTTP API server for portal management and
// scraping.
type APIServer struct {
	service  *service.Service
	log      logger.Logger
	maxPages int
}

// NewAPIServer creates a new API server. Scrape requests may ask for at
// most maxPages pages.
func NewAPIServer(svc *service.Service, log logger.Logger, maxPages int) *APIServer {
	if maxPages <= 0 {
		maxPages = config.DefaultMaxPages
	}
	return &APIServer{
		service:  svc,
		log:      log,
		maxPages: maxPages,
	}
}

// SetupRouter configures the Gin router with all API routes.
func (s *APIServer) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	api.GET("/portals", s.HandleListPortals)
	api.GET("/portals/:key", s.HandleGetPortal)
	api.POST("/portals/detect", s.HandleDetectPortal)
	api.POST("/portals", s.HandleSavePortal)
	api.DELETE("/portals/:key", s.HandleDeletePortal)
	api.POST("/scrape", s.HandleScrape)

	return router
}

// requestLogger logs one line per request.
func (s *APIServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.log.Debug("request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
		)
	}
}

// ListPortalsResponse represents the response for GET /api/v1/portals.
type ListPortalsResponse struct {
	Portals portal.Portals `json:"portals"`
	Total   int            `json:"total"`
}

// DetectRequest represents the request for POST /api/v1/portals/detect.
type DetectRequest struct {
	BaseURL string `json:"base_url" binding:"required"`
}

// DetectResponse carries the suggested tags, null when nothing was
// detected.
type DetectResponse struct {
	BaseURL      string       `json:"base_url"`
	DetectedTags *detect.Tags `json:"detected_tags"`
}

// SavePortalRequest represents the request for POST /api/v1/portals.
type SavePortalRequest struct {
	BaseURL         string `json:"base_url" binding:"required"`
	ArticleSelector string `json:"article_selector" binding:"required"`
	TitleSelector   string `json:"title_selector" binding:"required"`
	LinkSelector    string `json:"link_selector" binding:"required"`
}

// SavePortalResponse represents the response for POST /api/v1/portals.
type SavePortalResponse struct {
	Key    string         `json:"key"`
	Portal portal.Profile `json:"portal"`
}

// ScrapeRequest represents the request for POST /api/v1/scrape.
type ScrapeRequest struct {
	Portal     string `json:"portal" binding:"required"`
	TotalPages *int   `json:"total_pages,omitempty"` // Default: 1
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// handleError maps domain errors to HTTP responses.
func (s *APIServer) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPortalNotFound):
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	case errors.Is(err, portal.ErrInvalidBaseURL), errors.Is(err, portal.ErrInvalidSelector):
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
	default:
		s.log.Error("request failed",
			logger.String("path", c.Request.URL.Path),
			logger.Err(err),
		)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

// HandleListPortals handles GET /api/v1/portals.
func (s *APIServer) HandleListPortals(c *gin.Context) {
	portals, err := s.service.ListPortals(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListPortalsResponse{
		Portals: portals,
		Total:   len(portals),
	})
}

// HandleGetPortal handles GET /api/v1/portals/{key}.
func (s *APIServer) HandleGetPortal(c *gin.Context) {
	profile, err := s.service.GetPortal(c.Request.Context(), c.Param("key"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// HandleDetectPortal handles POST /api/v1/portals/detect. A base_url
// without scheme or host is a 400 validation_error; a page that cannot be
// fetched, or has no links, answers 200 with null detected_tags.
func (s *APIServer) HandleDetectPortal(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	tags, err := s.service.AddPortal(c.Request.Context(), req.BaseURL)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DetectResponse{
		BaseURL:      req.BaseURL,
		DetectedTags: tags,
	})
}

// HandleSavePortal handles POST /api/v1/portals.
func (s *APIServer) HandleSavePortal(c *gin.Context) {
	var req SavePortalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	key, profile, err := s.service.SavePortal(
		c.Request.Context(),
		req.BaseURL,
		req.ArticleSelector,
		req.TitleSelector,
		req.LinkSelector,
	)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SavePortalResponse{Key: key, Portal: profile})
}

// HandleDeletePortal handles DELETE /api/v1/portals/{key}. Unknown keys are
// not an error.
func (s *APIServer) HandleDeletePortal(c *gin.Context) {
	if _, err := s.service.DeletePortal(c.Request.Context(), c.Param("key")); err != nil {
		s.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleScrape handles POST /api/v1/scrape.
func (s *APIServer) HandleScrape(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	totalPages := 1
	if req.TotalPages != nil {
		totalPages = *req.TotalPages
	}
	if totalPages < 1 || totalPages > s.maxPages {
		c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "total_pages must be between 1 and the configured maximum"))
		return
	}

	result, err := s.service.RunScrape(c.Request.Context(), req.Portal, totalPages)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
