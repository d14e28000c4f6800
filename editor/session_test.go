package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"editcore/config"
)

func TestSaveStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "state.json")

	s := New(config.Default())
	a := s.NewBuffer("a", "hello world")
	s.NewBuffer("b", "second")
	a.GotoChar(2)
	a.PushMark()
	a.GotoChar(8)
	s.KillRing().Push("older")
	s.KillRing().Push("newer")
	require.NoError(t, s.Switch("b"))
	require.NoError(t, s.SaveState(path))

	restored := New(config.Default())
	ra := restored.NewBuffer("a", "hello")
	restored.NewBuffer("b", "second")
	ok, err := restored.LoadState(path)
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, 5, ra.Point())
	require.Equal(t, []int{2}, ra.Marks())
	require.Equal(t, "b", restored.Current().Name)
	require.Equal(t, []string{"newer", "older"}, restored.KillRing().Entries())
}

func TestSaveStateRemovesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"stale":true}`), 0o644))

	s := New(config.Default())
	require.NoError(t, s.SaveState(path))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "expected stale state file to be removed, stat err=%v", err)
}

func TestLoadStateMissingOrBroken(t *testing.T) {
	dir := t.TempDir()
	s := New(config.Default())

	ok, err := s.LoadState(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	require.False(t, ok)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o644))
	_, err = s.LoadState(broken)
	require.Error(t, err)
}

func TestRestoreSkipsUnknownBuffers(t *testing.T) {
	s := New(config.Default())
	s.NewBuffer("kept", "abc")
	ok := s.Restore(StateData{Buffers: []BufferState{{Name: "gone", Point: 2}}})
	require.False(t, ok)
	require.Equal(t, 0, s.Current().Point())
}
