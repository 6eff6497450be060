package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bot-companion-web/config"
	"bot-companion-web/models"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	templates := filepath.Join(dir, "templates")
	static := filepath.Join(dir, "static")
	require.NoError(t, os.MkdirAll(templates, 0o755))
	require.NoError(t, os.MkdirAll(static, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(templates, "index.html"), []byte("<h1>socks</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "app.css"), []byte("body{}"), 0o644))

	cfg := &config.Config{
		Port:            "0",
		Environment:     "test",
		LogLevel:        "error",
		CodeDBFile:      filepath.Join(dir, "data", "codes.json"),
		CodePrefix:      "SOCK",
		CodeLength:      8,
		CodeGroupSize:   4,
		TemplatesDir:    templates,
		StaticDir:       static,
		CommandsFile:    filepath.Join(dir, "commands.yaml"),
		AllowedOrigins:  "*",
		BotServiceToken: "bot-token",
	}

	store, err := OpenCodeStore(cfg)
	require.NoError(t, err)
	srv, err := New(cfg, store, prometheus.NewRegistry())
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, srv *Server, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := srv.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestGenerateThenClaimStatusThenStats(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, httptest.NewRequest("GET", "/api/generate_sock", nil))
	require.Equal(t, fiber.StatusOK, status)
	var generated models.GenerateResult
	require.NoError(t, json.Unmarshal(body, &generated))
	assert.True(t, strings.HasPrefix(generated.Code, "SOCK-"))
	assert.Equal(t, 1, generated.TotalGenerated)
	assert.Nil(t, generated.Persisted)

	status, body = do(t, srv, httptest.NewRequest("GET", "/api/claim_status/"+generated.Code, nil))
	require.Equal(t, fiber.StatusOK, status)
	var claim map[string]any
	require.NoError(t, json.Unmarshal(body, &claim))
	assert.Equal(t, false, claim["claimed"])
	assert.Equal(t, true, claim["available"])
	assert.Equal(t, float64(generated.Score), claim["score"])

	status, body = do(t, srv, httptest.NewRequest("GET", "/api/christmas_stats", nil))
	require.Equal(t, fiber.StatusOK, status)
	var stats models.IndexStats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, models.IndexStats{TotalGenerated: 1, Available: 1, Claimed: 0, TopScore: 0}, stats)

	_, err := os.Stat(srv.Config.CodeDBFile)
	assert.NoError(t, err)
}

func TestClaimStatusUnknownCode(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, httptest.NewRequest("GET", "/api/claim_status/NOPE", nil))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Code not found"}`, string(body))
}

func TestBotStatsRoutes(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, httptest.NewRequest("GET", "/api/stats", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"guild_count":0,"member_count":0}`, string(body))

	push := func(token string) int {
		req := httptest.NewRequest("POST", "/api/bot/stats", strings.NewReader(`{"guild_count":3,"member_count":120}`))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		status, _ := do(t, srv, req)
		return status
	}

	assert.Equal(t, fiber.StatusUnauthorized, push(""))
	assert.Equal(t, fiber.StatusUnauthorized, push("wrong"))
	assert.Equal(t, fiber.StatusOK, push("bot-token"))

	_, body = do(t, srv, httptest.NewRequest("GET", "/api/stats", nil))
	assert.JSONEq(t, `{"guild_count":3,"member_count":120}`, string(body))
}

func TestCommandsWithoutCatalog(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, httptest.NewRequest("GET", "/api/commands", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"categories":[]}`, string(body))
}

func TestPagesAndStatic(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "socks")

	status, body = do(t, srv, httptest.NewRequest("GET", "/features", nil))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Page not found", string(body))

	status, body = do(t, srv, httptest.NewRequest("GET", "/static/app.css", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "body{}", string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, fiber.StatusOK, status)
}

func TestNewRejectsBadCodeSettings(t *testing.T) {
	cfg := &config.Config{CodePrefix: "SOCK", CodeLength: 0, CodeGroupSize: 4}
	_, err := New(cfg, nil, prometheus.NewRegistry())
	assert.Error(t, err)
}
