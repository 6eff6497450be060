package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"bot-companion-web/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "codes.json")
	t.Setenv("CODE_DB_FILE", path)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("CODE_PREFIX", "SOCK")
	t.Setenv("CODE_LENGTH", "8")
	t.Setenv("CODE_GROUP_SIZE", "4")
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", filepath.Join(dir, "missing.env")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestGenerateStatsLookup(t *testing.T) {
	dir := setupEnv(t)

	out, err := run(t, dir, "generate", "-n", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	code := strings.SplitN(lines[0], "\t", 2)[0]
	assert.True(t, strings.HasPrefix(code, "SOCK-"))

	out, err = run(t, dir, "stats")
	require.NoError(t, err)
	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, "ok", stats["store"])
	assert.Equal(t, float64(3), stats["total_generated"])
	assert.Equal(t, float64(3), stats["available"])
	assert.Equal(t, float64(0), stats["claimed"])

	out, err = run(t, dir, "lookup", code)
	require.NoError(t, err)
	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, true, status["available"])
}

func TestStatsOnMissingStore(t *testing.T) {
	dir := setupEnv(t)

	out, err := run(t, dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"store": "missing"`)
}

func TestLookupUnknownCode(t *testing.T) {
	dir := setupEnv(t)

	_, err := run(t, dir, "lookup", "SOCK-NOPE-NOPE")
	assert.ErrorIs(t, err, services.ErrCodeNotFound)
}

func TestGenerateRejectsNonPositiveCount(t *testing.T) {
	dir := setupEnv(t)

	_, err := run(t, dir, "generate", "--count", "0")
	assert.Error(t, err)
}
