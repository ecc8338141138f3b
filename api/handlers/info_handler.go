package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OleksandrShtyka/parser/internal/domain"
)

// InfoHandler handles media metadata requests
type InfoHandler struct {
	engine domain.Engine
	logger *zap.Logger
}

// NewInfoHandler creates a new metadata handler
func NewInfoHandler(engine domain.Engine, logger *zap.Logger) *InfoHandler {
	return &InfoHandler{engine: engine, logger: logger}
}

// InfoRequest represents a metadata probe request
type InfoRequest struct {
	URL string `json:"url"`
}

// Info handles POST /api/info. Formats outside the allowed container set
// are filtered out; a probe that leaves nothing selectable is a client
// error, not an empty success.
func (h *InfoHandler) Info(c *gin.Context) {
	var req InfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url"})
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url"})
		return
	}

	info, err := h.engine.Probe(c.Request.Context(), url)
	if err != nil {
		h.logger.Warn("Probe failed", zap.String("url", url), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch info: " + err.Error()})
		return
	}

	info.Formats = domain.FilterFormats(info.Formats)
	if len(info.Formats) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No downloadable formats available. Update yt-dlp, provide cookies, or try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, info)
}
