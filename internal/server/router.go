package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spigell/doesmyresumematch/internal/report"
)

// Exporter produces the downloadable document for a result id.
type Exporter interface {
	Export(ctx context.Context, resultID string) (*report.Document, error)
}

type RouterDeps struct {
	Exporter    Exporter
	Logger      *zap.Logger
	Registry    *prometheus.Registry
	BasePath    string
	CORSOrigins []string
}

// NormalizeBasePath returns "" or a path with a leading and no trailing slash.
func NormalizeBasePath(base string) string {
	base = strings.Trim(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	return "/" + base
}

func corsConfig(origins []string) cors.Config {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			allowed = append(allowed, trimmed)
		}
	}

	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowed) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowed
	}
	return cfg
}

// NewRouter builds the edge engine.
func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	metrics, err := NewMetrics(deps.Registry)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		RequestID(),
		Logging(deps.Logger),
		Recovery(deps.Logger),
		metrics.Handler(),
		cors.New(corsConfig(deps.CORSOrigins)),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	h := &snapshotHandler{exporter: deps.Exporter, logger: deps.Logger}
	r.Group(NormalizeBasePath(deps.BasePath)).GET("/api/snapshot/:id", h.get)

	return r, nil
}

type snapshotHandler struct {
	exporter Exporter
	logger   *zap.Logger
}

func (h *snapshotHandler) get(c *gin.Context) {
	id := c.Param("id")
	if strings.TrimSpace(id) == "" {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	doc, err := h.exporter.Export(c.Request.Context(), id)
	if err != nil {
		h.logger.Warn("document export failed",
			zap.String(requestIDKey, RequestIDFromContext(c)),
			zap.String("result_id", id),
			zap.Error(err),
		)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+doc.Filename)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
