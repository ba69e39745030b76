package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UIGF-org/UIGF-API/internal/game"
)

func writeArtifact(t *testing.T, root, gameName, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, gameName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRefreshHashesArtifacts(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "genshin", "en.json", `{"Sword":"1001"}`)
	writeArtifact(t, root, "genshin", "chs.json", `{"剑":"1001"}`)

	c := New(root)
	sums, err := c.Refresh("genshin")
	require.NoError(t, err)
	require.Len(t, sums, 2)

	want := md5.Sum([]byte(`{"Sword":"1001"}`))
	assert.Equal(t, hex.EncodeToString(want[:]), sums["en"])

	// Cached map is served on Get.
	got, ok := c.Get("genshin")
	require.True(t, ok)
	assert.Equal(t, sums, got)

	// And persisted next to the artifacts.
	data, err := os.ReadFile(filepath.Join(root, "genshin", "md5.json"))
	require.NoError(t, err)
	var persisted map[string]string
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, sums, persisted)
}

func TestRefreshExcludesChecksumFile(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "genshin", "en.json", `{}`)
	writeArtifact(t, root, "genshin", "md5.json", `{"stale":"x"}`)

	c := New(root)
	sums, err := c.Refresh("genshin")
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, keys(sums))
}

func TestRefreshFailsFastWithoutArtifacts(t *testing.T) {
	c := New(t.TempDir())

	_, err := c.Refresh("genshin")
	assert.ErrorIs(t, err, ErrNoArtifacts)

	_, err = c.Refresh("tetris")
	assert.ErrorIs(t, err, game.ErrNotSupported)

	_, ok := c.Get("genshin")
	assert.False(t, ok, "failed refresh must not populate the cache")
}

func TestRefreshReplacesWholesale(t *testing.T) {
	root := t.TempDir()
	path := writeArtifact(t, root, "genshin", "en.json", `{"a":"1"}`)

	c := New(root)
	first, err := c.Refresh("genshin")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"b":"2"}`), 0o644))
	second, err := c.Refresh("genshin")
	require.NoError(t, err)

	assert.NotEqual(t, first["en"], second["en"])
	got, _ := c.Get("genshin")
	assert.Equal(t, second, got)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
