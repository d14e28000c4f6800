package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// StateData is what SaveState writes: the kill ring and where each buffer's
// point and marks were.
type StateData struct {
	KillRing []string      `json:"kill_ring"`
	Current  string        `json:"current"`
	Buffers  []BufferState `json:"buffers"`
}

type BufferState struct {
	Name  string `json:"name"`
	Point int    `json:"point"`
	Marks []int  `json:"marks,omitempty"`
}

// Snapshot captures the session state that outlives the process.
func (s *Session) Snapshot() StateData {
	data := StateData{KillRing: s.ring.Entries()}
	if s.current != nil {
		data.Current = s.current.Name
	}
	for _, b := range s.buffers {
		data.Buffers = append(data.Buffers, BufferState{
			Name:  b.Name,
			Point: b.Point(),
			Marks: b.Marks(),
		})
	}
	return data
}

// Restore loads the kill ring and puts point and marks back in buffers that
// exist under the same name. Offsets are clamped to the current text. It
// reports whether any buffer was restored.
func (s *Session) Restore(data StateData) bool {
	s.ring.Load(data.KillRing)
	restored := false
	for _, st := range data.Buffers {
		b, ok := s.Buffer(st.Name)
		if !ok {
			continue
		}
		b.GotoChar(st.Point)
		b.RestoreMarks(st.Marks)
		restored = true
	}
	if data.Current != "" {
		_ = s.Switch(data.Current)
	}
	return restored
}

// SaveState writes the session snapshot to path. With nothing worth keeping
// a stale file is removed instead.
func (s *Session) SaveState(path string) error {
	if path == "" {
		return nil
	}
	data := s.Snapshot()
	if len(data.KillRing) == 0 && len(data.Buffers) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	s.log.Debug("state saved", "path", path, "kill_ring", len(data.KillRing), "buffers", len(data.Buffers))
	return nil
}

// LoadState restores a snapshot written by SaveState. A missing file is not
// an error.
func (s *Session) LoadState(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	var data StateData
	if err := json.Unmarshal(raw, &data); err != nil {
		return false, fmt.Errorf("decoding %s: %w", path, err)
	}
	s.log.Debug("state loaded", "path", path, "kill_ring", len(data.KillRing))
	return s.Restore(data), nil
}
