package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kanon0111/sdlg-edu/internal/dedup"
	"github.com/kanon0111/sdlg-edu/internal/quality"
)

type QualityHandler struct {
	maxBytes int64
}

// NewQualityHandler bounds posted datasets to maxBytes. Zero or less disables
// the bound.
func NewQualityHandler(maxBytes int64) *QualityHandler {
	return &QualityHandler{maxBytes: maxBytes}
}

// Report evaluates a JSONL dataset posted as the request body.
func (h *QualityHandler) Report(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "md" && format != "markdown" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format. Use json or md"})
		return
	}

	// Read the whole body first: a truncated last line would otherwise
	// surface as a JSON error instead of the size limit.
	body := c.Request.Body
	if h.maxBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, h.maxBytes)
	}
	data, err := io.ReadAll(body)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "dataset exceeds limit", "limit_bytes": tooLarge.Limit})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body: " + err.Error()})
		return
	}

	items, err := quality.ReadJSONL(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset: " + err.Error()})
		return
	}

	report, err := quality.Evaluate(c.Request.Context(), items, dedup.DefaultN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch format {
	case "json":
		c.JSON(http.StatusOK, report)
	default:
		c.Data(http.StatusOK, "text/markdown", report.Markdown())
	}
}
