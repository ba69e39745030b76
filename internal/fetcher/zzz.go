package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const defaultZZZBase = "https://git.mero.moe/dimbreath/ZenlessData/raw/branch/master/"

// zzzTextMaps maps TextMap file suffixes to short storage codes. The base
// (suffix-less) map is Simplified Chinese.
var zzzTextMaps = []struct {
	suffix string
	code   string
}{
	{"", "chs"},
	{"_CHT", "cht"},
	{"_DE", "de"},
	{"_EN", "en"},
	{"_ES", "es"},
	{"_FR", "fr"},
	{"_ID", "id"},
	{"_JA", "jp"},
	{"_KO", "kr"},
	{"_PT", "pt"},
	{"_RU", "ru"},
	{"_TH", "th"},
	{"_VI", "vi"},
}

// ZZZ fetches agent and item template tables plus per-language TextMaps.
// Upstream obfuscates column names per release, so the name-hash and id
// columns are discovered by probing a known row (the starter agent Anbi,
// id 1011) instead of being hardcoded.
type ZZZ struct {
	client  *http.Client
	baseURL string
}

func NewZZZ(client *http.Client) *ZZZ {
	return &ZZZ{client: client, baseURL: defaultZZZBase}
}

func (z *ZZZ) Fetch(ctx context.Context) (Mapping, error) {
	avatars, err := z.fetchTable(ctx, "FileCfg/AvatarBaseTemplateTb.json")
	if err != nil {
		return nil, err
	}
	nameHashKey, idKey, err := probeColumns(avatars)
	if err != nil {
		return nil, err
	}

	items, err := z.fetchTable(ctx, "FileCfg/ItemTemplateTb.json")
	if err != nil {
		return nil, err
	}
	// Keep only w-engines and bangboos; the item table carries everything.
	weapons := items[:0:0]
	for _, row := range items {
		hash, _ := row[nameHashKey].(string)
		if strings.HasPrefix(hash, "Bangboo_Name_") || strings.HasPrefix(hash, "Item_Weapon_") {
			weapons = append(weapons, row)
		}
	}

	textMaps := make(map[string]map[string]string, len(zzzTextMaps))
	for _, tm := range zzzTextMaps {
		var m map[string]string
		url := fmt.Sprintf("%sTextMap/TextMap%sTemplateTb.json", z.baseURL, tm.suffix)
		if err := getJSON(ctx, z.client, url, &m); err != nil {
			return nil, err
		}
		textMaps[tm.code] = m
	}

	mapping := make(Mapping, len(avatars)+len(weapons))
	for _, row := range append(avatars, weapons...) {
		hash, _ := row[nameHashKey].(string)
		itemID, err := formatID(row[idKey])
		if err != nil {
			return nil, fmt.Errorf("row with hash %q: %w", hash, err)
		}
		texts := make(map[string]string, len(zzzTextMaps))
		for code, tm := range textMaps {
			texts[code] = tm[hash]
		}
		mapping[itemID] = texts
	}
	return mapping, nil
}

// fetchTable unwraps the single-key envelope {"<obfuscated>": [rows...]}.
func (z *ZZZ) fetchTable(ctx context.Context, path string) ([]map[string]any, error) {
	var envelope map[string][]map[string]any
	if err := getJSON(ctx, z.client, z.baseURL+path, &envelope); err != nil {
		return nil, err
	}
	if len(envelope) != 1 {
		return nil, fmt.Errorf("%s: expected single-key envelope, got %d keys", path, len(envelope))
	}
	for _, rows := range envelope {
		return rows, nil
	}
	return nil, nil
}

// probeColumns finds the obfuscated name-hash and id column keys by value.
func probeColumns(avatars []map[string]any) (nameHashKey, idKey string, err error) {
	for _, row := range avatars {
		for k, v := range row {
			if v == "Avatar_Female_Size02_Anbi" {
				nameHashKey = k
			}
			if n, ok := v.(float64); ok && n == 1011 {
				idKey = k
			}
		}
		if nameHashKey != "" && idKey != "" {
			return nameHashKey, idKey, nil
		}
	}
	return "", "", errors.New("could not locate name-hash and id columns in avatar table")
}

func formatID(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatInt(int64(v), 10), nil
	default:
		return "", fmt.Errorf("unsupported id type %T", v)
	}
}
