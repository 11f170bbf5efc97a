package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/kanon0111/sdlg-edu/internal/cache"
	"github.com/kanon0111/sdlg-edu/internal/config"
	"github.com/kanon0111/sdlg-edu/internal/generator"
	"github.com/kanon0111/sdlg-edu/internal/limiter"
	"github.com/kanon0111/sdlg-edu/internal/output"
	"github.com/kanon0111/sdlg-edu/internal/pools"
	"github.com/kanon0111/sdlg-edu/internal/recipe"
)

type memCache struct {
	data map[string][]byte
	sets int
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.sets++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

type memCounter struct {
	counts map[string]int64
}

func (m *memCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memCounter) TTL(context.Context, string) (time.Duration, error) {
	return 30 * time.Second, nil
}

type HandlerSuite struct {
	suite.Suite
	driver *generator.Driver
	cache  *memCache
	router *gin.Engine
}

func TestHandlerSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	p, err := pools.Default()
	s.Require().NoError(err)
	s.driver, err = generator.NewDriver(config.DefaultSettings(), p)
	s.Require().NoError(err)
	s.cache = &memCache{data: map[string][]byte{}}
	s.router = s.newRouter(nil)
}

func (s *HandlerSuite) newRouter(l *limiter.Limiter) *gin.Engine {
	return s.newRouterWithQualityLimit(l, 1<<20)
}

func (s *HandlerSuite) newRouterWithQualityLimit(l *limiter.Limiter, qualityBytes int64) *gin.Engine {
	return NewRouter(Handlers{
		Generate: NewGenerateHandler(s.driver, "test", s.cache, GenerateLimits{
			MaxItemsPerTopic: 50,
			MaxRecipeLines:   3,
			CacheTTL:         time.Hour,
		}, nil),
		Quality: NewQualityHandler(qualityBytes),
		Limits:  NewLimitHandler(l, nil),
	})
}

func (s *HandlerSuite) do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const perfectRequest = `{"seed":42,"n_per_topic":5,"recipe":[{"topic":"present perfect","pattern":"contrast_present_perfect_vs_past"}]}`

func (s *HandlerSuite) TestGenerateAndCache() {
	first := s.do(s.router, http.MethodPost, "/api/generate", perfectRequest)
	s.Require().Equal(http.StatusOK, first.Code, first.Body.String())
	s.Equal("MISS", first.Header().Get("X-Cache"))
	s.Equal("5", first.Header().Get("X-Accepted-Items"))
	s.Equal("application/x-ndjson", first.Header().Get("Content-Type"))
	s.Equal(1, s.cache.sets)

	// The body matches a direct run with the same inputs.
	var want bytes.Buffer
	w := output.NewWriter(&want)
	_, err := s.driver.Run(generator.NewState(42),
		[]recipe.Spec{recipe.NewSpec("present perfect", "contrast_present_perfect_vs_past")}, 5, w)
	s.Require().NoError(err)
	s.Require().NoError(w.Flush())
	s.Equal(want.String(), first.Body.String())

	second := s.do(s.router, http.MethodPost, "/api/generate", perfectRequest)
	s.Require().Equal(http.StatusOK, second.Code)
	s.Equal("HIT", second.Header().Get("X-Cache"))
	s.Equal(first.Header().Get("X-Run-ID"), second.Header().Get("X-Run-ID"))
	s.Equal(first.Body.String(), second.Body.String())
	s.Equal(1, s.cache.sets)
}

func (s *HandlerSuite) TestGenerateDefaultSeed() {
	withSeed := s.do(s.router, http.MethodPost, "/api/generate", perfectRequest)
	noSeed := s.do(s.router, http.MethodPost, "/api/generate",
		`{"n_per_topic":5,"recipe":[{"topic":"present perfect","pattern":"contrast_present_perfect_vs_past"}]}`)
	s.Require().Equal(http.StatusOK, noSeed.Code)
	s.Equal(withSeed.Header().Get("X-Run-ID"), noSeed.Header().Get("X-Run-ID"))
}

func (s *HandlerSuite) TestGenerateRejectsBadRequests() {
	cases := map[string]string{
		"malformed":      `{"recipe":`,
		"empty recipe":   `{"n_per_topic":5,"recipe":[]}`,
		"zero per topic": `{"n_per_topic":0,"recipe":[{"topic":"a"}]}`,
		"over limit":     `{"n_per_topic":51,"recipe":[{"topic":"a"}]}`,
		"too many lines": `{"n_per_topic":1,"recipe":[{},{},{},{}]}`,
	}
	for name, body := range cases {
		w := s.do(s.router, http.MethodPost, "/api/generate", body)
		s.Equal(http.StatusBadRequest, w.Code, name)

		var resp map[string]string
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp), name)
		s.NotEmpty(resp["error"], name)
	}
	s.Zero(s.cache.sets)
}

func (s *HandlerSuite) TestQualityReport() {
	dataset := s.do(s.router, http.MethodPost, "/api/generate", perfectRequest).Body.String()

	w := s.do(s.router, http.MethodPost, "/api/quality", dataset)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var report struct {
		Metrics struct {
			Count         int     `json:"count"`
			LanguageMatch float64 `json:"language_match"`
		} `json:"metrics"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &report))
	s.Equal(5, report.Metrics.Count)
	s.Equal(1.0, report.Metrics.LanguageMatch)

	md := s.do(s.router, http.MethodPost, "/api/quality?format=md", dataset)
	s.Require().Equal(http.StatusOK, md.Code)
	s.Contains(md.Body.String(), "# Quality Summary")

	s.Equal(http.StatusBadRequest, s.do(s.router, http.MethodPost, "/api/quality?format=xml", dataset).Code)
	s.Equal(http.StatusBadRequest, s.do(s.router, http.MethodPost, "/api/quality", "{oops").Code)
}

func (s *HandlerSuite) TestQualityBodyLimit() {
	dataset := s.do(s.router, http.MethodPost, "/api/generate", perfectRequest).Body.String()
	s.Require().Greater(len(dataset), 256)

	r := s.newRouterWithQualityLimit(nil, 256)
	w := s.do(r, http.MethodPost, "/api/quality", dataset)
	s.Require().Equal(http.StatusRequestEntityTooLarge, w.Code, w.Body.String())

	var resp struct {
		Error      string `json:"error"`
		LimitBytes int64  `json:"limit_bytes"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.NotEmpty(resp.Error)
	s.Equal(int64(256), resp.LimitBytes)

	line, _, _ := strings.Cut(dataset, "\n")
	s.Require().Less(len(line), 1024)
	s.Equal(http.StatusOK, s.do(s.newRouterWithQualityLimit(nil, 1024), http.MethodPost, "/api/quality", line).Code)
}

func (s *HandlerSuite) TestPatterns() {
	w := s.do(s.router, http.MethodGet, "/api/patterns", "")
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Patterns []struct {
			ID          string `json:"id"`
			Description string `json:"description"`
		} `json:"patterns"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Patterns, 3)
	s.Equal("contrast_present_perfect_vs_past", resp.Patterns[0].ID)
	s.Equal("generic_sentence", resp.Patterns[2].ID)
}

func (s *HandlerSuite) TestRateLimit() {
	l := limiter.NewLimiter(&memCounter{counts: map[string]int64{}}, map[string]limiter.ActionConfig{
		ActionGenerate: {Limit: 1, Window: time.Minute},
	})
	r := s.newRouter(l)

	first := s.do(r, http.MethodPost, "/api/generate", perfectRequest)
	s.Equal(http.StatusOK, first.Code)
	s.Equal("1", first.Header().Get("X-RateLimit-Limit"))
	s.Equal("0", first.Header().Get("X-RateLimit-Remaining"))

	second := s.do(r, http.MethodPost, "/api/generate", perfectRequest)
	s.Equal(http.StatusTooManyRequests, second.Code)

	limits := s.do(r, http.MethodGet, "/api/limits", "")
	s.Equal(http.StatusOK, limits.Code)
	s.Contains(limits.Body.String(), `"window_seconds":60`)
}

func (s *HandlerSuite) TestLimitsDisabled() {
	w := s.do(s.router, http.MethodGet, "/api/limits", "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"enabled":false}`, w.Body.String())
}

func (s *HandlerSuite) TestHealth() {
	w := s.do(s.router, http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())
}
