// Package clipboardx bridges the kill ring to the system clipboard.
package clipboardx

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

type helper struct {
	name string
	args []string
}

var (
	copyHelpers = []helper{
		{name: "wl-copy"},
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
		{name: "pbcopy"},
		{name: "clip.exe"},
	}
	pasteHelpers = []helper{
		{name: "wl-paste", args: []string{"--no-newline"}},
		{name: "xclip", args: []string{"-o", "-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--output"}},
		{name: "pbpaste"},
		{name: "powershell.exe", args: []string{"-NoProfile", "-Command", "Get-Clipboard"}},
	}
)

// System is a clipboard that writes through every backend it can reach and
// reads from the first one that answers. It always keeps an in-process copy,
// so a headless session still round-trips text.
type System struct {
	// WriteAll and ReadAll talk to the OS clipboard. They default to
	// github.com/atotto/clipboard.
	WriteAll func(string) error
	ReadAll  func() (string, error)
	// Helpers enables the external copy/paste programs.
	Helpers bool
	// Terminal receives OSC 52 sequences when non-nil.
	Terminal io.Writer

	internal string
}

// New returns a System wired to the OS clipboard. OSC 52 goes to stdout when
// stdout is a terminal.
func New() *System {
	s := &System{
		WriteAll: clipboard.WriteAll,
		ReadAll:  clipboard.ReadAll,
		Helpers:  true,
	}
	if fi, err := os.Stdout.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		s.Terminal = os.Stdout
	}
	return s
}

// Internal returns a System that never leaves the process.
func Internal() *System {
	return &System{}
}

// Write stores text and reports whether any external backend accepted it.
func (s *System) Write(text string) bool {
	s.internal = text
	ok := false
	if s.WriteAll != nil && !clipboard.Unsupported {
		if err := s.WriteAll(text); err == nil {
			ok = true
		}
	}
	if s.Helpers && runHelpers(copyHelpers, text) {
		ok = true
	}
	if s.Terminal != nil && writeOSC52(s.Terminal, text) {
		ok = true
	}
	return ok
}

// Read returns the clipboard text, falling back to the last text written
// through s.
func (s *System) Read() string {
	if s.ReadAll != nil && !clipboard.Unsupported {
		if text, err := s.ReadAll(); err == nil && text != "" {
			return text
		}
	}
	if s.Helpers {
		if text, ok := readHelpers(pasteHelpers); ok {
			return text
		}
	}
	return s.internal
}

func runHelpers(helpers []helper, text string) bool {
	ok := false
	for _, h := range helpers {
		if _, err := exec.LookPath(h.name); err != nil {
			continue
		}
		cmd := exec.Command(h.name, h.args...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			ok = true
		}
	}
	return ok
}

func readHelpers(helpers []helper) (string, bool) {
	for _, h := range helpers {
		if _, err := exec.LookPath(h.name); err != nil {
			continue
		}
		out, err := exec.Command(h.name, h.args...).Output()
		if err == nil && len(out) > 0 {
			return string(out), true
		}
	}
	return "", false
}

func writeOSC52(w io.Writer, text string) bool {
	if text == "" {
		return false
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := fmt.Fprintf(w, "\x1b]52;c;%s\x07", encoded)
	return err == nil
}
