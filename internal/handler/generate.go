package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kanon0111/sdlg-edu/internal/cache"
	"github.com/kanon0111/sdlg-edu/internal/generator"
	"github.com/kanon0111/sdlg-edu/internal/logger"
	"github.com/kanon0111/sdlg-edu/internal/metrics"
	"github.com/kanon0111/sdlg-edu/internal/output"
	"github.com/kanon0111/sdlg-edu/internal/recipe"
)

const defaultSeed = 42

// DatasetCache stores finished datasets by run id. Get returns cache.ErrMiss
// for absent keys.
type DatasetCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type GenerateLimits struct {
	MaxItemsPerTopic int
	MaxRecipeLines   int
	CacheTTL         time.Duration
}

type GenerateHandler struct {
	driver      *generator.Driver
	fingerprint string
	cache       DatasetCache
	limits      GenerateLimits
	log         *logger.Logger
}

// NewGenerateHandler serves runs of driver. fingerprint describes the driver
// configuration (settings and pools) and is folded into every run id. cache
// may be nil.
func NewGenerateHandler(driver *generator.Driver, fingerprint string, c DatasetCache, limits GenerateLimits, log *logger.Logger) *GenerateHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &GenerateHandler{driver: driver, fingerprint: fingerprint, cache: c, limits: limits, log: log}
}

type RecipeLine struct {
	Topic   string `json:"topic"`
	Pattern string `json:"pattern"`
}

type GenerateRequest struct {
	Seed      *int64       `json:"seed"`
	NPerTopic int          `json:"n_per_topic"`
	Recipe    []RecipeLine `json:"recipe"`
}

// Generate runs the recipe and streams the dataset back as JSON lines.
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if err := h.validate(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seed := int64(defaultSeed)
	if req.Seed != nil {
		seed = *req.Seed
	}
	specs := make([]recipe.Spec, 0, len(req.Recipe))
	for _, line := range req.Recipe {
		specs = append(specs, recipe.NewSpec(line.Topic, line.Pattern))
	}
	runID := recipe.Fingerprint(seed, req.NPerTopic, specs, h.fingerprint).String()
	ctx := c.Request.Context()

	if h.cache != nil {
		data, err := h.cache.Get(ctx, cache.DatasetKey(runID))
		switch {
		case err == nil:
			metrics.RecordRun(true, 0)
			h.respond(c, runID, data, "HIT")
			return
		case !errors.Is(err, cache.ErrMiss):
			h.log.Warn("dataset cache read failed", "run_id", runID, "error", err)
		}
	}

	start := time.Now()
	var buf bytes.Buffer
	w := output.NewWriter(&buf)
	stats, err := h.driver.Run(generator.NewState(seed), specs, req.NPerTopic, w)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		h.log.Error("generation failed", "run_id", runID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation failed"})
		return
	}
	metrics.RecordRun(false, time.Since(start))
	h.log.Info("generation served",
		"run_id", runID,
		"accepted", stats.Accepted,
		"requested", stats.Requested,
		"short_topics", stats.ShortTopics,
	)

	data := buf.Bytes()
	if h.cache != nil {
		if err := h.cache.Set(ctx, cache.DatasetKey(runID), data, h.limits.CacheTTL); err != nil {
			h.log.Warn("dataset cache write failed", "run_id", runID, "error", err)
		}
	}
	h.respond(c, runID, data, "MISS")
}

func (h *GenerateHandler) validate(req GenerateRequest) error {
	if len(req.Recipe) == 0 {
		return errors.New("recipe must contain at least one line")
	}
	if h.limits.MaxRecipeLines > 0 && len(req.Recipe) > h.limits.MaxRecipeLines {
		return fmt.Errorf("recipe has %d lines, limit is %d", len(req.Recipe), h.limits.MaxRecipeLines)
	}
	if req.NPerTopic < 1 {
		return errors.New("n_per_topic must be at least 1")
	}
	if h.limits.MaxItemsPerTopic > 0 && req.NPerTopic > h.limits.MaxItemsPerTopic {
		return fmt.Errorf("n_per_topic %d exceeds limit %d", req.NPerTopic, h.limits.MaxItemsPerTopic)
	}
	return nil
}

func (h *GenerateHandler) respond(c *gin.Context, runID string, data []byte, cacheStatus string) {
	c.Header("X-Run-ID", runID)
	c.Header("X-Accepted-Items", strconv.Itoa(bytes.Count(data, []byte{'\n'})))
	c.Header("X-Cache", cacheStatus)
	c.Data(http.StatusOK, "application/x-ndjson", data)
}
