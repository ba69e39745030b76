package refresh

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/UIGF-org/UIGF-API/internal/fetcher"
	"github.com/UIGF-org/UIGF-API/internal/game"
	"github.com/UIGF-org/UIGF-API/internal/store"
)

// recorder collects pipeline phase names so ordering can be asserted.
type recorder struct {
	mu     sync.Mutex
	phases []string
	done   chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{})}
}

func (r *recorder) add(phase string) {
	r.mu.Lock()
	r.phases = append(r.phases, phase)
	r.mu.Unlock()
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.phases...)
}

type fakeSource struct {
	rec     *recorder
	block   chan struct{} // nil means do not block
	mapping fetcher.Mapping
	err     error
}

func (f *fakeSource) Fetch(context.Context) (fetcher.Mapping, error) {
	f.rec.add("fetch")
	if f.block != nil {
		<-f.block
	}
	return f.mapping, f.err
}

type fakeStore struct{ rec *recorder }

func (f *fakeStore) Clear(context.Context, int) error {
	f.rec.add("clear")
	return nil
}

func (f *fakeStore) InsertBatch(_ context.Context, gameID int, mapping map[string]map[string]string) ([]store.Entry, error) {
	f.rec.add("insert")
	entries := make([]store.Entry, 0, len(mapping))
	for itemID := range mapping {
		entries = append(entries, store.Entry{GameID: gameID, ItemID: itemID})
	}
	return entries, nil
}

type fakeMirror struct {
	rec *recorder
	err error
}

func (f *fakeMirror) MirrorBatch(context.Context, []store.Entry) error {
	f.rec.add("mirror")
	return f.err
}

type fakeDict struct{ rec *recorder }

func (f *fakeDict) BuildAll(context.Context, string) error {
	f.rec.add("build")
	return nil
}

type fakeSums struct {
	rec  *recorder
	once sync.Once
}

func (f *fakeSums) Refresh(string) (map[string]string, error) {
	f.rec.add("checksum")
	f.once.Do(func() { close(f.rec.done) })
	return map[string]string{"en": "abc"}, nil
}

func newOrchestrator(t *testing.T, rec *recorder, src fetcher.Source, mirrorErr error) *Orchestrator {
	t.Helper()
	o, err := New(
		&fakeStore{rec: rec},
		&fakeMirror{rec: rec, err: mirrorErr},
		&fakeDict{rec: rec},
		&fakeSums{rec: rec},
		map[string]fetcher.Source{"genshin": src},
		2,
		zap.NewNop(),
	)
	require.NoError(t, err)
	t.Cleanup(o.Close)
	return o
}

func TestTriggerRunsPhasesInOrder(t *testing.T) {
	rec := newRecorder()
	src := &fakeSource{rec: rec, mapping: fetcher.Mapping{"1001": {"en": "Sword"}}}
	o := newOrchestrator(t, rec, src, nil)

	require.NoError(t, o.Trigger("genshin"))

	select {
	case <-rec.done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not finish")
	}
	assert.Equal(t, []string{"fetch", "clear", "insert", "mirror", "build", "checksum"}, rec.list())
}

func TestMirrorFailureIsNotFatal(t *testing.T) {
	rec := newRecorder()
	src := &fakeSource{rec: rec, mapping: fetcher.Mapping{"1001": {"en": "Sword"}}}
	o := newOrchestrator(t, rec, src, assert.AnError)

	require.NoError(t, o.Trigger("genshin"))

	select {
	case <-rec.done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not finish")
	}
	// Dictionary and checksum phases still run after a mirror failure.
	assert.Contains(t, rec.list(), "build")
	assert.Contains(t, rec.list(), "checksum")
}

func TestTriggerRejectsUnknownGame(t *testing.T) {
	rec := newRecorder()
	o := newOrchestrator(t, rec, &fakeSource{rec: rec}, nil)
	assert.ErrorIs(t, o.Trigger("tetris"), game.ErrNotSupported)
}

func TestAtMostOneInflightPerGame(t *testing.T) {
	rec := newRecorder()
	block := make(chan struct{})
	src := &fakeSource{rec: rec, block: block, mapping: fetcher.Mapping{}}
	o := newOrchestrator(t, rec, src, nil)

	require.NoError(t, o.Trigger("genshin"))

	// Wait until the first task is actually inside Fetch.
	require.Eventually(t, func() bool {
		return len(rec.list()) >= 1
	}, 5*time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, o.Trigger("genshin"), ErrAlreadyRunning)

	close(block)
	select {
	case <-rec.done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not finish")
	}

	// Once released, the game can be refreshed again.
	rec2 := newRecorder()
	src.rec = rec2
	require.Eventually(t, func() bool {
		return o.Trigger("genshin") == nil
	}, 5*time.Second, 10*time.Millisecond)
}
