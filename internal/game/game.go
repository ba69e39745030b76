// Package game is the registry of supported game titles and their ids.
package game

import (
	"errors"
	"sort"
)

// ErrNotSupported is returned for game names outside the registry.
var ErrNotSupported = errors.New("game not supported")

var nameToID = map[string]int{
	"genshin":  1,
	"starrail": 2,
	"zzz":      3,
}

// ID resolves a game name to its stable numeric id.
func ID(name string) (int, error) {
	id, ok := nameToID[name]
	if !ok {
		return 0, ErrNotSupported
	}
	return id, nil
}

// Supported reports whether name is a known game.
func Supported(name string) bool {
	_, ok := nameToID[name]
	return ok
}

// Names returns all supported game names in stable order.
func Names() []string {
	names := make([]string, 0, len(nameToID))
	for n := range nameToID {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
