// Package fetcher pulls id->name localization data from third-party
// game-data repositories. Each source normalizes its upstream shape into a
// Mapping; everything downstream is shape-agnostic.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Mapping is item id -> short language code -> display text. Codes outside
// the core set may appear (upstream ships more languages); the store ignores
// them.
type Mapping = map[string]map[string]string

// Source fetches the full localization mapping for one game.
type Source interface {
	Fetch(ctx context.Context) (Mapping, error)
}

// Sources builds the per-game source registry.
func Sources(client *http.Client, githubToken string) map[string]Source {
	return map[string]Source{
		"genshin":  NewGenshin(client, githubToken),
		"starrail": NewStarrail(client),
		"zzz":      NewZZZ(client),
	}
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
