// Package dictionary materializes per-language text->id JSON artifacts from
// the localization store. Artifacts are lazy-built on first request and
// eagerly rebuilt after a refresh; they may go stale in between, which is
// accepted.
package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/UIGF-org/UIGF-API/internal/game"
	"github.com/UIGF-org/UIGF-API/internal/language"
)

// ErrUnavailable means an artifact could not be built or served.
var ErrUnavailable = errors.New("dictionary unavailable")

// Store is the single query the materializer needs.
type Store interface {
	LanguageTexts(ctx context.Context, gameID int, lang language.Language) (map[string]string, error)
}

type Materializer struct {
	store Store
	root  string
}

func NewMaterializer(s Store, root string) *Materializer {
	return &Materializer{store: s, root: root}
}

// Path returns the on-disk location of one artifact; stem is a short
// language code or a synthetic token ("all", "md5").
func (m *Materializer) Path(gameName, stem string) string {
	return filepath.Join(m.root, gameName, stem+".json")
}

// Build queries all texts for one game+language, inverts non-empty texts to
// {text: item_id} and writes the artifact. An empty dictionary is a valid
// artifact; an unsupported game is not.
func (m *Materializer) Build(ctx context.Context, gameName string, lang language.Language) error {
	gameID, err := game.ID(gameName)
	if err != nil {
		return err
	}
	texts, err := m.store.LanguageTexts(ctx, gameID, lang)
	if err != nil {
		return fmt.Errorf("query %s texts: %w", lang, err)
	}

	dict := make(map[string]string, len(texts))
	for itemID, text := range texts {
		if text != "" {
			dict[text] = itemID
		}
	}
	return writeJSON(m.Path(gameName, string(lang)), dict, "    ")
}

// BuildAll rebuilds every per-language artifact, then reloads the just-built
// files into the aggregate all.json (language -> dictionary).
func (m *Materializer) BuildAll(ctx context.Context, gameName string) error {
	for _, lang := range language.Core {
		if err := m.Build(ctx, gameName, lang); err != nil {
			return err
		}
	}

	all := make(map[string]map[string]string, len(language.Core))
	for _, lang := range language.Core {
		data, err := os.ReadFile(m.Path(gameName, string(lang)))
		if err != nil {
			return fmt.Errorf("reload %s artifact: %w", lang, err)
		}
		var dict map[string]string
		if err := json.Unmarshal(data, &dict); err != nil {
			return fmt.Errorf("reload %s artifact: %w", lang, err)
		}
		all[string(lang)] = dict
	}
	return writeJSON(m.Path(gameName, language.TokenAll), all, "    ")
}

// GetOrBuild serves an existing artifact path, lazily building it if absent.
func (m *Materializer) GetOrBuild(ctx context.Context, gameName string, lang language.Language) (string, error) {
	path := m.Path(gameName, string(lang))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := m.Build(ctx, gameName, lang); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return path, nil
}

// writeJSON writes v indented, UTF-8, with non-ASCII characters unescaped.
// Go's encoder sorts map keys, so identical input yields identical bytes.
func writeJSON(path string, v any, indent string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
