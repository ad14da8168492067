package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/romangod6/catalog-sitemap/internal/artifact"
	"github.com/romangod6/catalog-sitemap/internal/sitemap"
	"github.com/romangod6/catalog-sitemap/internal/utils"
)

// CacheHeader reports whether the sitemap came from the stored artifact.
const CacheHeader = "X-Sitemap-Cache"

// Sitemaps is the part of sitemap.Controller the handlers need.
type Sitemaps interface {
	Resolve(ctx context.Context) (*sitemap.Result, error)
	Status(ctx context.Context) (*sitemap.Status, error)
	MaxAge() time.Duration
}

type Handler struct {
	sitemaps Sitemaps
	logger   utils.Logger
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Exists      bool   `json:"exists"`
	Name        string `json:"name,omitempty"`
	GeneratedAt string `json:"generated_at,omitempty"`
	AgeSeconds  int64  `json:"age_seconds"`
	MaxAge      string `json:"max_age"`
	Fresh       bool   `json:"fresh"`
}

func NewHandler(sitemaps Sitemaps, logger utils.Logger) *Handler {
	if logger == nil {
		logger = utils.Discard()
	}
	return &Handler{sitemaps: sitemaps, logger: logger}
}

func (h *Handler) GetSitemap(c *gin.Context) {
	res, err := h.sitemaps.Resolve(c.Request.Context())
	if err != nil {
		h.logger.LogError("Failed to resolve sitemap: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate sitemap"})
		return
	}

	c.Header(CacheHeader, string(res.Outcome))
	if res.Artifact != nil {
		c.Header("Last-Modified", res.Artifact.GeneratedAt.Format(http.TimeFormat))
	}
	c.Data(http.StatusOK, "application/xml", res.Body)
}

func (h *Handler) GetSitemapStatus(c *gin.Context) {
	st, err := h.sitemaps.Status(c.Request.Context())
	if err != nil {
		h.logger.LogError("Failed to read sitemap status: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read sitemap status"})
		return
	}

	resp := StatusResponse{MaxAge: h.sitemaps.MaxAge().String()}
	if st.Artifact != nil {
		resp.Exists = true
		resp.Name = st.Artifact.Name
		resp.GeneratedAt = st.Artifact.GeneratedAt.Format(artifact.TimeLayout)
		resp.AgeSeconds = int64(st.Age.Seconds())
		resp.Fresh = st.Fresh
	}
	c.JSON(http.StatusOK, resp)
}
