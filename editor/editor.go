// Package editor is the command layer over the editing core: a session
// holding named buffers, the shared kill ring and command sequencing state,
// plus key translation for driving it.
package editor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"editcore/buffer"
	"editcore/config"
	"editcore/killring"
)

var (
	ErrNoBuffer      = errors.New("no current buffer")
	ErrUnknownBuffer = errors.New("no such buffer")
)

// Session replaces the global current-buffer and current-command state of
// a classic editor with one explicit value. It is driven by one goroutine;
// only ApplyConfig may be called from elsewhere.
type Session struct {
	cfg    *config.Config
	log    *slog.Logger
	level  *slog.LevelVar
	ring   *killring.Ring
	clip   killring.Clipboard
	window Window

	buffers []*buffer.Buffer
	current *buffer.Buffer

	lastCommand Command
	thisCommand Command

	messages []string

	mu      sync.Mutex
	pending *config.Config
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithLevel lets config reloads change the logger's level.
func WithLevel(lv *slog.LevelVar) Option {
	return func(s *Session) { s.level = lv }
}

func WithWindow(w Window) Option {
	return func(s *Session) { s.window = w }
}

// WithClipboard sets the clipboard the kill ring mirrors to when the
// clipboard_sync setting is on.
func WithClipboard(c killring.Clipboard) Option {
	return func(s *Session) { s.clip = c }
}

func New(cfg *config.Config, opts ...Option) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Session{
		cfg:  cfg,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		ring: killring.New(cfg.KillRingSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.applyConfig(cfg)
	return s
}

func (s *Session) Config() *config.Config { return s.cfg }

func (s *Session) KillRing() *killring.Ring { return s.ring }

func (s *Session) Window() Window { return s.window }

// NewBuffer creates a buffer sharing the session's kill ring. A taken name
// gets a "<n>" suffix. The first buffer becomes current.
func (s *Session) NewBuffer(name, text string) *buffer.Buffer {
	name = s.uniqueName(name)
	b := buffer.New(name, text, buffer.Options{
		Ring:      s.ring,
		WordChars: s.cfg.WordChars,
		UndoLimit: s.cfg.UndoLimit,
	})
	s.buffers = append(s.buffers, b)
	if s.current == nil {
		s.current = b
	}
	s.log.Debug("buffer created", "name", name, "len", b.Len())
	return b
}

func (s *Session) uniqueName(name string) string {
	if _, ok := s.Buffer(name); !ok {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s<%d>", name, n)
		if _, ok := s.Buffer(candidate); !ok {
			return candidate
		}
	}
}

func (s *Session) Buffer(name string) (*buffer.Buffer, bool) {
	for _, b := range s.buffers {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

func (s *Session) Current() *buffer.Buffer { return s.current }

func (s *Session) Switch(name string) error {
	b, ok := s.Buffer(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBuffer, name)
	}
	s.current = b
	return nil
}

// Kill removes a buffer. Killing the current buffer makes its neighbour
// current.
func (s *Session) Kill(name string) error {
	for i, b := range s.buffers {
		if b.Name != name {
			continue
		}
		s.buffers = append(s.buffers[:i], s.buffers[i+1:]...)
		if s.current == b {
			s.current = nil
			if len(s.buffers) > 0 {
				s.current = s.buffers[min(i, len(s.buffers)-1)]
			}
		}
		s.log.Debug("buffer killed", "name", name)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownBuffer, name)
}

func (s *Session) Names() []string {
	names := make([]string, len(s.buffers))
	for i, b := range s.buffers {
		names[i] = b.Name
	}
	return names
}

func (s *Session) LastCommand() Command { return s.lastCommand }

func (s *Session) ThisCommand() Command { return s.thisCommand }

// SetThisCommand retags the running command, which changes what the next
// command sees as LastCommand.
func (s *Session) SetThisCommand(cmd Command) { s.thisCommand = cmd }

// Message appends to the echo area log.
func (s *Session) Message(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.messages = append(s.messages, msg)
	s.log.Debug("message", "text", msg)
}

func (s *Session) Messages() []string {
	return append([]string(nil), s.messages...)
}

// LastMessage returns the newest echo area message, or "".
func (s *Session) LastMessage() string {
	if len(s.messages) == 0 {
		return ""
	}
	return s.messages[len(s.messages)-1]
}

// ApplyConfig queues cfg to take effect before the next command. It is safe
// to call from a config watcher goroutine.
func (s *Session) ApplyConfig(cfg *config.Config) {
	s.mu.Lock()
	s.pending = cfg
	s.mu.Unlock()
}

func (s *Session) applyPending() {
	s.mu.Lock()
	cfg := s.pending
	s.pending = nil
	s.mu.Unlock()
	if cfg != nil {
		s.applyConfig(cfg)
		s.log.Info("config reloaded", "kill_ring_size", cfg.KillRingSize, "undo_limit", cfg.UndoLimit)
	}
}

func (s *Session) applyConfig(cfg *config.Config) {
	s.cfg = cfg
	s.ring.Resize(cfg.KillRingSize)
	if cfg.ClipboardSync && s.clip != nil {
		s.ring.SetClipboard(s.clip)
	} else {
		s.ring.SetClipboard(nil)
	}
	for _, b := range s.buffers {
		b.History.SetLimit(cfg.UndoLimit)
		b.SetWordChars(cfg.WordChars)
	}
	if s.level != nil {
		s.level.Set(cfg.SlogLevel())
	}
}
