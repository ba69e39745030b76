package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const defaultStarrailBase = "https://gitlab.com/Dimbreath/turnbasedgamedata/-/raw/main/"

// starrailLangs maps TextMap file codes to the short storage codes; the 13
// upstream maps line up one-to-one with the core languages.
var starrailLangs = []string{"CHS", "CHT", "DE", "EN", "ES", "FR", "ID", "JP", "KR", "PT", "RU", "TH", "VI"}

// Starrail fetches avatar and equipment configs plus one TextMap per
// language; names are joined to items through the upstream text hash.
type Starrail struct {
	client  *http.Client
	baseURL string
}

func NewStarrail(client *http.Client) *Starrail {
	return &Starrail{client: client, baseURL: defaultStarrailBase}
}

type srAvatar struct {
	AvatarID   int64 `json:"AvatarID"`
	AvatarName struct {
		Hash json.Number `json:"Hash"`
	} `json:"AvatarName"`
}

type srEquipment struct {
	EquipmentID   int64 `json:"EquipmentID"`
	EquipmentName struct {
		Hash json.Number `json:"Hash"`
	} `json:"EquipmentName"`
}

func (s *Starrail) Fetch(ctx context.Context) (Mapping, error) {
	var avatars []srAvatar
	if err := getJSON(ctx, s.client, s.baseURL+"ExcelOutput/AvatarConfig.json", &avatars); err != nil {
		return nil, err
	}
	var equipment []srEquipment
	if err := getJSON(ctx, s.client, s.baseURL+"ExcelOutput/EquipmentConfig.json", &equipment); err != nil {
		return nil, err
	}

	textMaps := make(map[string]map[string]string, len(starrailLangs)) // short code -> hash -> text
	for _, lang := range starrailLangs {
		var tm map[string]string
		if err := getJSON(ctx, s.client, fmt.Sprintf("%sTextMap/TextMap%s.json", s.baseURL, lang), &tm); err != nil {
			return nil, err
		}
		textMaps[strings.ToLower(lang)] = tm
	}

	type item struct{ id, hash string }
	items := make([]item, 0, len(avatars)+len(equipment))
	for _, a := range avatars {
		items = append(items, item{id: strconv.FormatInt(a.AvatarID, 10), hash: a.AvatarName.Hash.String()})
	}
	for _, e := range equipment {
		items = append(items, item{id: strconv.FormatInt(e.EquipmentID, 10), hash: e.EquipmentName.Hash.String()})
	}

	mapping := make(Mapping, len(items))
	for _, it := range items {
		texts := make(map[string]string, len(starrailLangs))
		for code, tm := range textMaps {
			texts[code] = tm[it.hash]
		}
		mapping[it.id] = texts
	}
	return mapping, nil
}
