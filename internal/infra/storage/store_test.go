package storage

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"boss_respawn_bot/internal/domain/timer"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *FileStore {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewFileStore(filepath.Join(t.TempDir(), "boss_data.json"), log.WithField("component", "storage"))
}

func TestLoadAbsentFile(t *testing.T) {
	s := testStore(t)
	st := s.Load()
	require.NotNil(t, st)
	assert.Empty(t, st.Scopes)
	assert.Empty(t, st.Confirmations)
}

func TestLoadCorruptFileFallsBackToEmpty(t *testing.T) {
	s := testStore(t)
	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0o644))

	st := s.Load()
	require.NotNil(t, st)
	assert.Empty(t, st.Scopes)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	respawn := time.Date(2026, time.March, 10, 18, 0, 0, 0, time.FixedZone("CST", 8*3600))

	st := timer.NewState()
	sc := st.Scope("room-1")
	sc.Timers["小巴"] = timer.Record{RespawnAt: respawn, Mode: timer.ModeDeath}
	sc.AddTarget("100")
	require.NoError(t, s.Save(st))

	loaded := s.Load()
	rec := loaded.Scopes["room-1"].Timers["小巴"]
	assert.True(t, rec.RespawnAt.Equal(respawn))
	assert.Equal(t, []string{"100"}, loaded.Scopes["room-1"].Targets)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(timer.NewState()))

	entries, err := os.ReadDir(filepath.Dir(s.path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(s.path), entries[0].Name())
}

func TestUpdateErrorSkipsSave(t *testing.T) {
	s := testStore(t)
	boom := errors.New("boom")

	err := s.Update(func(st *timer.State) error {
		st.Scope("room-1").Timers["小巴"] = timer.Record{}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, statErr := os.Stat(s.path)
	assert.True(t, os.IsNotExist(statErr), "failed update must not write the file")
}

func TestUpdateNoChangeSkipsSave(t *testing.T) {
	s := testStore(t)

	err := s.Update(func(st *timer.State) error {
		return timer.ErrNoChange
	})
	require.NoError(t, err)

	_, statErr := os.Stat(s.path)
	assert.True(t, os.IsNotExist(statErr))
}

// Concurrent updates through the store lock must always leave a parseable
// document behind.
func TestConcurrentUpdatesStayParseable(t *testing.T) {
	s := testStore(t)
	respawn := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				err := s.Update(func(st *timer.State) error {
					sc := st.Scope("room-1")
					sc.Timers["小巴"] = timer.Record{RespawnAt: respawn, Mode: timer.ModeDeath}
					sc.AddTarget("100")
					return nil
				})
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	raw, err := os.ReadFile(s.path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
}
