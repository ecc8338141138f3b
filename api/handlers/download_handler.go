package handlers

import (
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OleksandrShtyka/parser/internal/app"
	"github.com/OleksandrShtyka/parser/internal/domain"
)

// streamChunkSize is the read granularity when relaying the output file
const streamChunkSize = 1 << 20

// DownloadHandler handles synchronous streaming downloads
type DownloadHandler struct {
	orchestrator *app.Orchestrator
	logger       *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(orchestrator *app.Orchestrator, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{orchestrator: orchestrator, logger: logger}
}

// Download handles GET /api/download. The file is fetched into a scratch
// directory, streamed back in fixed-size chunks, and removed together
// with its scratch directory exactly once, on every exit path including
// client disconnect.
func (h *DownloadHandler) Download(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url"})
		return
	}

	req := domain.NewDownloadRequest(rawURL, "")
	req.FormatID = strings.TrimSpace(c.Query("format_id"))
	req.Handoff = true

	// Client disconnect cancels the request context, which interrupts
	// the engine through the orchestrator.
	handle := h.orchestrator.Start(c.Request.Context(), req)
	result := handle.Wait()

	if !result.Success {
		c.JSON(statusForError(result.Err), gin.H{"error": "Download failed: " + result.ErrorMessage()})
		return
	}

	var cleanupOnce sync.Once
	cleanup := func() {
		cleanupOnce.Do(func() {
			os.Remove(result.OutputPath)
			os.RemoveAll(result.ScratchDir)
		})
	}
	defer cleanup()

	file, err := os.Open(result.OutputPath)
	if err != nil {
		h.logger.Error("Failed to open downloaded file",
			zap.String("path", result.OutputPath), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Downloaded file not found"})
		return
	}
	defer file.Close()

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", contentDisposition(result.OutputPath))
	if info, err := file.Stat(); err == nil {
		c.Header("Content-Length", strconv.FormatInt(info.Size(), 10))
	}
	c.Status(http.StatusOK)

	buf := make([]byte, streamChunkSize)
	for {
		n, readErr := file.Read(buf)
		if n > 0 {
			if _, writeErr := c.Writer.Write(buf[:n]); writeErr != nil {
				h.logger.Debug("Client aborted download stream",
					zap.String("url", rawURL), zap.Error(writeErr))
				return
			}
		}
		if readErr != nil {
			return
		}
	}
}

// contentDisposition builds an attachment header for the given file. Names
// that fit in plain ASCII go out quoted as-is; anything else carries an
// ASCII fallback plus the RFC 5987 encoded form.
func contentDisposition(path string) string {
	filename := path
	if idx := strings.LastIndexAny(path, `/\`); idx >= 0 {
		filename = path[idx+1:]
	}

	if isASCIIFilename(filename) {
		return `attachment; filename="` + filename + `"`
	}

	fallback := asciiFallback(filename)
	encoded := url.PathEscape(filename)
	return `attachment; filename="` + fallback + `"; filename*=UTF-8''` + encoded
}

func isASCIIFilename(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] >= 0x80 || name[i] < 0x20 || name[i] == '"' || name[i] == '\\' {
			return false
		}
	}
	return true
}

func asciiFallback(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch >= 0x20 && ch < 0x80 && ch != '"' && ch != '\\' {
			b.WriteByte(ch)
		}
	}
	if b.Len() == 0 {
		return "download"
	}
	return b.String()
}
