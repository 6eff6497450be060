package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
categories:
  - name: christmas events
    commands:
      - name: /redeem
        description: Redeem a sock code
        usage: /redeem SOCK-XXXX-XXXX
      - name: /socks
        description: Show your sock points
  - name: fun & games
`

func TestParseCommandCatalog(t *testing.T) {
	svc, err := ParseCommandCatalog([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, svc.Categories, 2)

	first := svc.Categories[0]
	assert.Equal(t, "christmas-events", first.Slug)
	assert.Equal(t, "Christmas Events", first.Title)
	require.Len(t, first.Commands, 2)
	assert.Equal(t, "/redeem", first.Commands[0].Name)

	second := svc.Categories[1]
	assert.Equal(t, "fun-and-games", second.Slug)
	assert.NotNil(t, second.Commands)
	assert.Empty(t, second.Commands)
}

func TestLoadCommandCatalogMissingFile(t *testing.T) {
	svc, err := LoadCommandCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, svc.Categories)
}

func TestLoadCommandCatalogBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: [unterminated"), 0o644))

	_, err := LoadCommandCatalog(path)
	assert.Error(t, err)
}
