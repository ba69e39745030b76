// Package cache mirrors freshly inserted localization rows into Redis so
// downstream consumers can check items without touching the database. The
// mirror is best effort: it is rebuilt on every refresh and is never a
// durability boundary.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/UIGF-org/UIGF-API/internal/language"
	"github.com/UIGF-org/UIGF-API/internal/store"
)

const namespace = "uigf"

// Key is the cache key for one game+item bundle.
func Key(gameID int, itemID string) string {
	return fmt.Sprintf("%s:game-%d:%s", namespace, gameID, itemID)
}

// Bundle is the serialized per-language text payload stored under Key.
func Bundle(e store.Entry) map[string]string {
	b := make(map[string]string, len(language.Core))
	for _, l := range language.Core {
		b[l.Column()] = e.Texts[l]
	}
	return b
}

type Mirror struct {
	rdb *redis.Client
}

func NewMirror(rdb *redis.Client) *Mirror {
	return &Mirror{rdb: rdb}
}

// MirrorBatch writes one key per entry through a non-transactional pipeline.
// Keys already written stay written even if a later command fails; the
// returned error is for logging only and must not abort a refresh.
func (m *Mirror) MirrorBatch(ctx context.Context, entries []store.Entry) error {
	pipe := m.rdb.Pipeline()
	for _, e := range entries {
		payload, err := json.Marshal(Bundle(e))
		if err != nil {
			return fmt.Errorf("marshal bundle for %s: %w", e.ItemID, err)
		}
		pipe.Set(ctx, Key(e.GameID, e.ItemID), payload, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mirror pipeline: %w", err)
	}
	return nil
}
