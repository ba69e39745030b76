// Package checksum computes and caches content hashes of materialized
// dictionary artifacts. The in-process map is the only shared mutable state
// the core owns; each game writes only its own key.
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/UIGF-org/UIGF-API/internal/game"
)

// ErrNoArtifacts means there is nothing to hash yet: the caller must
// materialize first. Refresh never triggers materialization itself.
var ErrNoArtifacts = errors.New("no dictionary artifacts to hash")

const checksumFile = "md5.json"

type Cache struct {
	root string

	mu     sync.RWMutex
	byGame map[string]map[string]string // game -> filename stem -> hex digest
}

func New(root string) *Cache {
	return &Cache{root: root, byGame: make(map[string]map[string]string)}
}

// Refresh hashes every dictionary artifact for the game (excluding the
// checksum file itself), replaces the game's cached map wholesale and
// persists it alongside the artifacts. Entries are never invalidated
// individually.
func (c *Cache) Refresh(gameName string) (map[string]string, error) {
	if !game.Supported(gameName) {
		return nil, game.ErrNotSupported
	}

	dir := filepath.Join(c.root, gameName)
	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoArtifacts
		}
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	sums := make(map[string]string)
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".json") || name == checksumFile {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read artifact %s: %w", name, err)
		}
		digest := md5.Sum(data)
		sums[strings.TrimSuffix(name, ".json")] = hex.EncodeToString(digest[:])
	}
	if len(sums) == 0 {
		return nil, ErrNoArtifacts
	}

	if err := c.persist(dir, sums); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.byGame[gameName] = sums
	c.mu.Unlock()
	return copyMap(sums), nil
}

// Get returns the cached checksum map for the game, if populated.
func (c *Cache) Get(gameName string) (map[string]string, bool) {
	c.mu.RLock()
	sums, ok := c.byGame[gameName]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return copyMap(sums), true
}

func (c *Cache) persist(dir string, sums map[string]string) error {
	f, err := os.Create(filepath.Join(dir, checksumFile))
	if err != nil {
		return fmt.Errorf("persist checksums: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sums); err != nil {
		f.Close()
		return fmt.Errorf("persist checksums: %w", err)
	}
	return f.Close()
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
