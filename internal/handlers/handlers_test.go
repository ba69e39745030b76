package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UIGF-org/UIGF-API/internal/game"
	"github.com/UIGF-org/UIGF-API/internal/language"
	"github.com/UIGF-org/UIGF-API/internal/refresh"
	"github.com/UIGF-org/UIGF-API/internal/router"
	"github.com/UIGF-org/UIGF-API/internal/translator"
)

const testToken = "test-refresh-token"

type fakeResolver struct {
	forward func(gameName, langCode, itemName string) (translator.Result, error)
	reverse func(gameName, langCode, itemID string) (translator.Result, error)
	matches []translator.Match
	err     error
}

func (f *fakeResolver) ResolveForward(_ context.Context, gameName, langCode, itemName string) (translator.Result, error) {
	return f.forward(gameName, langCode, itemName)
}

func (f *fakeResolver) ResolveReverse(_ context.Context, gameName, langCode, itemID string) (translator.Result, error) {
	return f.reverse(gameName, langCode, itemID)
}

func (f *fakeResolver) Identify(_ context.Context, gameName, _ string) ([]translator.Match, error) {
	if !game.Supported(gameName) {
		return nil, game.ErrNotSupported
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

type fakeDicts struct {
	root string
	err  error
}

func (f *fakeDicts) Path(gameName, stem string) string {
	return filepath.Join(f.root, gameName, stem+".json")
}

func (f *fakeDicts) GetOrBuild(_ context.Context, gameName string, lang language.Language) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := f.Path(gameName, string(lang))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(`{"Sword": "1001"}`), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeRefresher struct {
	triggered  []string
	scheduled  []string
	triggerErr error
}

func (f *fakeRefresher) Trigger(gameName string) error {
	if !game.Supported(gameName) {
		return game.ErrNotSupported
	}
	f.triggered = append(f.triggered, gameName)
	return f.triggerErr
}

func (f *fakeRefresher) ScheduleChecksum(gameName string) error {
	f.scheduled = append(f.scheduled, gameName)
	return nil
}

type fakeSums struct {
	byGame map[string]map[string]string
}

func (f *fakeSums) Get(gameName string) (map[string]string, bool) {
	m, ok := f.byGame[gameName]
	return m, ok
}

func newTestRouter(t *testing.T, res *fakeResolver, dicts *fakeDicts, sums *fakeSums, ref *fakeRefresher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if res == nil {
		res = &fakeResolver{}
	}
	if dicts == nil {
		dicts = &fakeDicts{root: t.TempDir()}
	}
	if sums == nil {
		sums = &fakeSums{byGame: map[string]map[string]string{}}
	}
	if ref == nil {
		ref = &fakeRefresher{}
	}
	return router.New(router.Dependencies{
		Resolver:     res,
		Dictionaries: dicts,
		Checksums:    sums,
		Refresher:    ref,
		RefreshToken: testToken,
	})
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t, nil, nil, nil, nil)
	w := doJSON(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestTranslateNormalSingle(t *testing.T) {
	res := &fakeResolver{
		forward: func(gameName, langCode, itemName string) (translator.Result, error) {
			require.Equal(t, "genshin", gameName)
			require.Equal(t, "en", langCode)
			require.Equal(t, "Sword", itemName)
			return translator.Result{Value: "1001"}, nil
		},
	}
	r := newTestRouter(t, res, nil, nil, nil)

	w := doJSON(r, http.MethodPost, "/translate", `{"type":"normal","lang":"en","game":"genshin","item_name":"Sword"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"item_id":"1001","item_name":"Sword"}`, w.Body.String())
}

func TestTranslateNormalList(t *testing.T) {
	res := &fakeResolver{
		forward: func(_, _, _ string) (translator.Result, error) {
			return translator.Result{List: true, Values: []string{"1001", "0"}}, nil
		},
	}
	r := newTestRouter(t, res, nil, nil, nil)

	w := doJSON(r, http.MethodPost, "/translate", `{"type":"normal","lang":"en","game":"genshin","item_name":"[\"Sword\",\"Unknown\"]"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"item_id":["1001","0"]}`, w.Body.String())
}

func TestTranslateReverseSingle(t *testing.T) {
	res := &fakeResolver{
		reverse: func(_, _, itemID string) (translator.Result, error) {
			require.Equal(t, "1001", itemID)
			return translator.Result{Value: "Sword"}, nil
		},
	}
	r := newTestRouter(t, res, nil, nil, nil)

	w := doJSON(r, http.MethodPost, "/translate", `{"type":"reverse","lang":"en","game":"genshin","item_id":"1001"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"item_name":"Sword","item_id":"1001"}`, w.Body.String())
}

func TestTranslateStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"missing required fields", `{"type":"normal"}`, nil, http.StatusBadRequest},
		{"missing item_name", `{"type":"normal","lang":"en","game":"genshin"}`, nil, http.StatusBadRequest},
		{"missing item_id", `{"type":"reverse","lang":"en","game":"genshin"}`, nil, http.StatusBadRequest},
		{"unknown type", `{"type":"sideways","lang":"en","game":"genshin","item_name":"x"}`, nil, http.StatusForbidden},
		{"language not supported", `{"type":"normal","lang":"xx","game":"genshin","item_name":"x"}`, language.ErrNotSupported, http.StatusForbidden},
		{"game not supported", `{"type":"normal","lang":"en","game":"tetris","item_name":"x"}`, game.ErrNotSupported, http.StatusForbidden},
		{"malformed list", `{"type":"normal","lang":"en","game":"genshin","item_name":"[broken"}`, translator.ErrMalformedList, http.StatusBadRequest},
		{"not found", `{"type":"normal","lang":"en","game":"genshin","item_name":"x"}`, translator.ErrItemNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := &fakeResolver{
				forward: func(_, _, _ string) (translator.Result, error) {
					return translator.Result{}, tc.err
				},
				reverse: func(_, _, _ string) (translator.Result, error) {
					return translator.Result{}, tc.err
				},
			}
			r := newTestRouter(t, res, nil, nil, nil)
			w := doJSON(r, http.MethodPost, "/translate", tc.body)
			assert.Equal(t, tc.want, w.Code)

			var detail struct {
				Detail string `json:"detail"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
			assert.NotEmpty(t, detail.Detail)
		})
	}
}

func TestIdentifyFound(t *testing.T) {
	res := &fakeResolver{
		matches: []translator.Match{
			{ItemID: "1001", MatchedLangs: []string{"en-us", "fr-fr"}},
		},
	}
	r := newTestRouter(t, res, nil, nil, nil)

	w := doJSON(r, http.MethodGet, "/identify/genshin/Sword", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1,"matched":[{"item_id":"1001","matched_langs":["en-us","fr-fr"]}]}`, w.Body.String())
}

func TestIdentifyNotFoundStatuses(t *testing.T) {
	res := &fakeResolver{err: translator.ErrItemNotFound}
	r := newTestRouter(t, res, nil, nil, nil)

	w := doJSON(r, http.MethodGet, "/identify/genshin/Nothing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/identify/tetris/Sword", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDictLazyBuild(t *testing.T) {
	dicts := &fakeDicts{root: t.TempDir()}
	r := newTestRouter(t, nil, dicts, nil, nil)

	w := doJSON(r, http.MethodGet, "/dict/genshin/en.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "en.json")
	assert.JSONEq(t, `{"Sword":"1001"}`, w.Body.String())
}

func TestDictStatuses(t *testing.T) {
	dicts := &fakeDicts{root: t.TempDir()}
	r := newTestRouter(t, nil, dicts, nil, nil)

	// no .json suffix
	w := doJSON(r, http.MethodGet, "/dict/genshin/en", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// unknown game
	w = doJSON(r, http.MethodGet, "/dict/tetris/en.json", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// unknown language
	w = doJSON(r, http.MethodGet, "/dict/genshin/xx.json", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// aggregate artifact absent until a refresh ran
	w = doJSON(r, http.MethodGet, "/dict/genshin/all.json", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDictServesExistingAggregate(t *testing.T) {
	dicts := &fakeDicts{root: t.TempDir()}
	path := dicts.Path("genshin", "all")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"en":{}}`), 0o644))

	r := newTestRouter(t, nil, dicts, nil, nil)
	w := doJSON(r, http.MethodGet, "/dict/genshin/all.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "all.json")
}

func TestChecksumWarmCache(t *testing.T) {
	sums := &fakeSums{byGame: map[string]map[string]string{
		"genshin": {"en.json": "d41d8cd98f00b204e9800998ecf8427e"},
	}}
	ref := &fakeRefresher{}
	r := newTestRouter(t, nil, nil, sums, ref)

	w := doJSON(r, http.MethodGet, "/md5/genshin", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"en.json":"d41d8cd98f00b204e9800998ecf8427e"}`, w.Body.String())
	assert.Empty(t, ref.scheduled)
}

func TestChecksumColdCachePending(t *testing.T) {
	ref := &fakeRefresher{}
	r := newTestRouter(t, nil, nil, nil, ref)

	w := doJSON(r, http.MethodGet, "/md5/starrail", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"pending"}`, w.Body.String())
	assert.Equal(t, []string{"starrail"}, ref.scheduled)
}

func TestChecksumUnknownGame(t *testing.T) {
	r := newTestRouter(t, nil, nil, nil, nil)
	w := doJSON(r, http.MethodGet, "/md5/tetris", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRefreshRequiresToken(t *testing.T) {
	ref := &fakeRefresher{}
	r := newTestRouter(t, nil, nil, nil, ref)

	// missing token
	w := doJSON(r, http.MethodGet, "/refresh/genshin", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, ref.triggered)

	// wrong token
	req := httptest.NewRequest(http.MethodGet, "/refresh/genshin", nil)
	req.Header.Set("X-Refresh-Token", "wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, ref.triggered)
}

func TestRefreshAccepted(t *testing.T) {
	ref := &fakeRefresher{}
	r := newTestRouter(t, nil, nil, nil, ref)

	req := httptest.NewRequest(http.MethodGet, "/refresh/genshin", nil)
	req.Header.Set("X-Refresh-Token", testToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"genshin"}, ref.triggered)
}

func TestRefreshAlreadyRunningStillAccepted(t *testing.T) {
	ref := &fakeRefresher{triggerErr: refresh.ErrAlreadyRunning}
	r := newTestRouter(t, nil, nil, nil, ref)

	req := httptest.NewRequest(http.MethodGet, "/refresh/genshin", nil)
	req.Header.Set("X-Refresh-Token", testToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "already in progress")
}

func TestRefreshUnknownGame(t *testing.T) {
	ref := &fakeRefresher{}
	r := newTestRouter(t, nil, nil, nil, ref)

	req := httptest.NewRequest(http.MethodGet, "/refresh/tetris", nil)
	req.Header.Set("X-Refresh-Token", testToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	r := newTestRouter(t, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "b1c84d0f-2f9a-4f5e-9a1e-6f1a2b3c4d5e")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "b1c84d0f-2f9a-4f5e-9a1e-6f1a2b3c4d5e", w.Header().Get("X-Request-ID"))
}
