// Package translator resolves text<->id lookups against the localization
// store. Singular lookups fail loudly with ErrItemNotFound; list lookups
// degrade per element (sentinel id or empty string) and never fail on a
// missing entry. That asymmetry is deliberate and load-bearing for callers.
package translator

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/UIGF-org/UIGF-API/internal/game"
	"github.com/UIGF-org/UIGF-API/internal/language"
	"github.com/UIGF-org/UIGF-API/internal/store"
)

var (
	// ErrItemNotFound is returned by singular lookups and by Identify with
	// zero matches. List lookups never return it.
	ErrItemNotFound = errors.New("item not found")
	// ErrMalformedList is returned when a bracketed input is not valid JSON.
	ErrMalformedList = errors.New("malformed list literal")
)

// AbsentID is the per-element sentinel for forward list lookups. Item ids are
// strings end to end, so the sentinel is the string "0".
const AbsentID = "0"

// Store is the query surface the resolver needs from the localization store.
type Store interface {
	TextToID(ctx context.Context, gameID int, lang language.Language, text string) (string, error)
	IDToText(ctx context.Context, gameID int, lang language.Language, itemID string) (string, error)
	TextsToIDs(ctx context.Context, gameID int, lang language.Language, texts []string) (map[string]string, error)
	IDsToTexts(ctx context.Context, gameID int, lang language.Language, itemIDs []string) (map[string]string, error)
	IdentifyText(ctx context.Context, gameID int, text string) ([]store.Entry, error)
}

// Result is either one resolved value or the list form in input order.
type Result struct {
	List   bool
	Value  string
	Values []string
}

// Match is one Identify hit: an item and every language whose column equals
// the searched text, in external long-code form.
type Match struct {
	ItemID       string   `json:"item_id"`
	MatchedLangs []string `json:"matched_langs"`
}

type Resolver struct {
	store Store
}

func NewResolver(s Store) *Resolver {
	return &Resolver{store: s}
}

// ResolveForward maps item text to item id. Input may be a single name or a
// JSON list literal; the list form substitutes AbsentID per missing element,
// preserving input order and duplicates.
func (r *Resolver) ResolveForward(ctx context.Context, gameName, langCode, itemName string) (Result, error) {
	lang, gameID, err := r.scope(gameName, langCode)
	if err != nil {
		return Result{}, err
	}

	if names, ok, err := ParseListLiteral(itemName); ok || err != nil {
		if err != nil {
			return Result{}, err
		}
		textToID, err := r.store.TextsToIDs(ctx, gameID, lang, names)
		if err != nil {
			return Result{}, err
		}
		ids := make([]string, len(names))
		for i, name := range names {
			if id, found := textToID[name]; found {
				ids[i] = id
			} else {
				ids[i] = AbsentID
			}
		}
		return Result{List: true, Values: ids}, nil
	}

	// Empty text means "no localization" and is never indexed, so it can
	// never be a valid key either.
	if itemName == "" {
		return Result{}, ErrItemNotFound
	}
	id, err := r.store.TextToID(ctx, gameID, lang, itemName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, ErrItemNotFound
		}
		return Result{}, err
	}
	return Result{Value: id}, nil
}

// ResolveReverse maps item id to item text. The list form substitutes the
// empty string per missing id, preserving input order.
func (r *Resolver) ResolveReverse(ctx context.Context, gameName, langCode, itemID string) (Result, error) {
	lang, gameID, err := r.scope(gameName, langCode)
	if err != nil {
		return Result{}, err
	}

	if ids, ok, err := ParseListLiteral(itemID); ok || err != nil {
		if err != nil {
			return Result{}, err
		}
		idToText, err := r.store.IDsToTexts(ctx, gameID, lang, ids)
		if err != nil {
			return Result{}, err
		}
		texts := make([]string, len(ids))
		for i, id := range ids {
			texts[i] = idToText[id]
		}
		return Result{List: true, Values: texts}, nil
	}

	text, err := r.store.IDToText(ctx, gameID, lang, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, ErrItemNotFound
		}
		return Result{}, err
	}
	return Result{Value: text}, nil
}

// Identify searches every core language column for an exact match of text.
// An item appears once even when several of its columns match; each matching
// column contributes its long code.
func (r *Resolver) Identify(ctx context.Context, gameName, text string) ([]Match, error) {
	gameID, err := game.ID(gameName)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrItemNotFound
	}

	entries, err := r.store.IdentifyText(ctx, gameID, text)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrItemNotFound
	}

	matches := make([]Match, 0, len(entries))
	for _, e := range entries {
		var langs []string
		for _, l := range language.Core {
			if e.Texts[l] == text {
				langs = append(langs, l.Long())
			}
		}
		matches = append(matches, Match{ItemID: e.ItemID, MatchedLangs: langs})
	}
	return matches, nil
}

func (r *Resolver) scope(gameName, langCode string) (language.Language, int, error) {
	lang, err := language.Normalize(langCode)
	if err != nil {
		return "", 0, err
	}
	gameID, err := game.ID(gameName)
	if err != nil {
		return "", 0, err
	}
	return lang, gameID, nil
}

// ParseListLiteral parses a bracketed input as a strict JSON array of strings
// or numbers. ok reports whether the input was list-shaped at all; a
// list-shaped input that fails to parse is ErrMalformedList, never treated as
// a single value.
func ParseListLiteral(s string) (items []string, ok bool, err error) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, false, nil
	}
	var raw []any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, true, ErrMalformedList
	}
	items = make([]string, len(raw))
	for i, v := range raw {
		switch v := v.(type) {
		case string:
			items[i] = v
		case float64:
			items[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return nil, true, ErrMalformedList
		}
	}
	return items, true, nil
}
