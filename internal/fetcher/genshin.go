package fetcher

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultSnapZipURL = "https://github.com/DGP-Studio/Snap.Metadata/archive/refs/heads/main.zip"
	snapZipPrefix     = "Snap.Metadata-main"
)

// snapLangs are the language directories shipped by Snap.Metadata; it and tr
// have no storage column and are dropped at insert time.
var snapLangs = []string{"CHS", "CHT", "DE", "EN", "ES", "FR", "ID", "IT", "JP", "KR", "PT", "RU", "TH", "TR", "VI"}

// deprecatedGenshinIDs are retired upstream ids that must not be indexed.
var deprecatedGenshinIDs = map[string]struct{}{
	"11506": {}, "11507": {}, "12505": {}, "12506": {}, "13506": {},
	"15504": {}, "15505": {}, "15506": {}, "12304": {}, "14306": {},
	"15306": {}, "13304": {}, "11419": {}, "11420": {}, "11421": {},
	"11429": {},
}

// Genshin fetches the whole Snap.Metadata repository as one zip archive and
// reads weapon and avatar names per language from it in memory. One HTTP
// request instead of one per metadata file.
type Genshin struct {
	client *http.Client
	token  string
	zipURL string
}

func NewGenshin(client *http.Client, token string) *Genshin {
	return &Genshin{client: client, token: token, zipURL: defaultSnapZipURL}
}

type snapItem struct {
	Name string `json:"Name"`
	ID   int64  `json:"Id"`
}

func (g *Genshin) Fetch(ctx context.Context) (Mapping, error) {
	if g.token == "" {
		return nil, errors.New("github token is not configured")
	}

	zr, err := g.downloadArchive(ctx)
	if err != nil {
		return nil, err
	}

	// Avatar ids come from the CHS Meta.json index; the per-language trees
	// mirror the same file layout.
	var meta map[string]json.RawMessage
	if err := readZipJSON(zr, snapZipPrefix+"/Genshin/CHS/Meta.json", &meta); err != nil {
		return nil, fmt.Errorf("read Meta.json: %w", err)
	}
	var avatarIDs []string
	for key := range meta {
		if rest, ok := strings.CutPrefix(key, "Avatar/"); ok {
			avatarIDs = append(avatarIDs, strings.SplitN(rest, "/", 2)[0])
		}
	}

	idToName := make(map[string]map[string]string, len(snapLangs)) // lang -> id -> name
	for _, lang := range snapLangs {
		names := make(map[string]string)

		var weapons []snapItem
		if err := readZipJSON(zr, fmt.Sprintf("%s/Genshin/%s/Weapon.json", snapZipPrefix, lang), &weapons); err == nil {
			for _, w := range weapons {
				if w.Name != "" && w.ID != 0 {
					names[strconv.FormatInt(w.ID, 10)] = w.Name
				}
			}
		}
		for _, avatarID := range avatarIDs {
			var a snapItem
			if err := readZipJSON(zr, fmt.Sprintf("%s/Genshin/%s/Avatar/%s.json", snapZipPrefix, lang, avatarID), &a); err != nil {
				continue
			}
			if a.Name != "" && a.ID != 0 {
				names[strconv.FormatInt(a.ID, 10)] = a.Name
			}
		}
		idToName[lang] = names
	}

	mapping := make(Mapping, len(idToName["CHS"]))
	for itemID := range idToName["CHS"] {
		if _, deprecated := deprecatedGenshinIDs[itemID]; deprecated {
			continue
		}
		texts := make(map[string]string, len(snapLangs))
		for _, lang := range snapLangs {
			texts[strings.ToLower(lang)] = idToName[lang][itemID]
		}
		mapping[itemID] = texts
	}
	return mapping, nil
}

func (g *Genshin) downloadArchive(ctx context.Context) (*zip.Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.zipURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download metadata archive: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download metadata archive: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download metadata archive: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open metadata archive: %w", err)
	}
	return zr, nil
}

func readZipJSON(zr *zip.Reader, path string, v any) error {
	f, err := zr.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}
