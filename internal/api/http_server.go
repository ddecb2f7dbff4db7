package api

import (
	"context"
	"net/http"
	"time"

	"tagz/internal/config"
	"tagz/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultRequestTimeout = 5 * time.Second

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg     config.Config
	catalog *service.CatalogService
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, catalog *service.CatalogService) *HTTPHandler {
	return &HTTPHandler{
		cfg:     cfg,
		catalog: catalog,
	}
}

// RegisterRoutes mounts the health check and the /api/v1 routes on r.
func (h *HTTPHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")

	files := v1.Group("/files")
	files.GET("", h.ListFiles)
	files.POST("", h.CreateFile)
	files.GET("/:file", h.GetFile)
	files.DELETE("/:file", h.DeleteFile)
	files.POST("/:file/tags/:tag", h.AttachTag)
	files.DELETE("/:file/tags/:tag", h.DetachTag)

	tags := v1.Group("/tags")
	tags.GET("", h.ListTags)
	tags.POST("", h.CreateTag)
	tags.DELETE("/:tag", h.DeleteTag)
}

func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestContext derives the per-request deadline from the configured timeout.
func (h *HTTPHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := h.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// ready aborts with 503 when the handler was built without a catalog.
func (h *HTTPHandler) ready(c *gin.Context) bool {
	if h == nil || h.catalog == nil {
		ServiceUnavailable(c, "catalog not available")
		return false
	}
	return true
}
