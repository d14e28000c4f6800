package editor

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

var specialKeys = map[tcell.Key]string{
	tcell.KeyEnter:      "RET",
	tcell.KeyTab:        "TAB",
	tcell.KeyEscape:     "ESC",
	tcell.KeyBackspace:  "DEL",
	tcell.KeyBackspace2: "DEL",
	tcell.KeyUp:         "<up>",
	tcell.KeyDown:       "<down>",
	tcell.KeyLeft:       "<left>",
	tcell.KeyRight:      "<right>",
	tcell.KeyHome:       "<home>",
	tcell.KeyEnd:        "<end>",
	tcell.KeyPgUp:       "<prior>",
	tcell.KeyPgDn:       "<next>",
	tcell.KeyInsert:     "<insert>",
	tcell.KeyDelete:     "<delete>",
	tcell.KeyBacktab:    "<backtab>",
	tcell.KeyF1:         "<f1>",
	tcell.KeyF2:         "<f2>",
	tcell.KeyF3:         "<f3>",
	tcell.KeyF4:         "<f4>",
	tcell.KeyF5:         "<f5>",
	tcell.KeyF6:         "<f6>",
	tcell.KeyF7:         "<f7>",
	tcell.KeyF8:         "<f8>",
	tcell.KeyF9:         "<f9>",
	tcell.KeyF10:        "<f10>",
	tcell.KeyF11:        "<f11>",
	tcell.KeyF12:        "<f12>",
}

var specialNames = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(specialKeys))
	for k, name := range specialKeys {
		m[name] = k
	}
	m["DEL"] = tcell.KeyBackspace
	return m
}()

// KeyName renders a key event in Emacs notation: "a", "C-f", "M-<",
// "C-M-a", "RET", "<up>". tcell's KeyCtrlA..KeyCtrlZ codes, raw ASCII
// control codes and runes reported with a Ctrl modifier get the same name.
// Backspace is "DEL" since terminals send the same byte for both.
func KeyName(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	ctrl := mods&tcell.ModCtrl != 0
	meta := mods&(tcell.ModAlt|tcell.ModMeta) != 0
	shift := mods&tcell.ModShift != 0

	var base string
	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		if ctrl {
			r = unicode.ToLower(r)
		}
		base = runeName(r)
		shift = false
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		base, ctrl = string(rune('a'+k-tcell.KeyCtrlA)), true
	case k == tcell.KeyCtrlSpace || k == tcell.KeyNUL:
		base, ctrl, shift = "SPC", true, false
	case k == tcell.KeyCtrlLeftSq:
		base, ctrl, shift = "ESC", false, false
	case k > tcell.KeyCtrlLeftSq && k <= tcell.KeyCtrlUnderscore:
		base, ctrl, shift = string(rune('['+k-tcell.KeyCtrlLeftSq)), true, false
	case specialKeys[k] != "":
		base = specialKeys[k]
		if k < 256 {
			ctrl, shift = false, false
		}
	case k < 32:
		base, ctrl, shift = controlBase(k), true, false
	default:
		base = fmt.Sprintf("<key-%d>", int(k))
	}

	var sb strings.Builder
	if ctrl {
		sb.WriteString("C-")
	}
	if meta {
		sb.WriteString("M-")
	}
	if shift {
		sb.WriteString("S-")
	}
	sb.WriteString(base)
	return sb.String()
}

func runeName(r rune) string {
	if r == ' ' {
		return "SPC"
	}
	return string(r)
}

// controlBase names the character typed with Ctrl to produce the raw ASCII
// control code k.
func controlBase(k tcell.Key) string {
	if k >= 1 && k <= 26 {
		return string(rune('a' + k - 1))
	}
	return string(rune('@' + k))
}

// ParseKeys parses space-separated keys in Emacs notation, as produced by
// KeyName, into key events.
func ParseKeys(s string) ([]*tcell.EventKey, error) {
	fields := strings.Fields(s)
	events := make([]*tcell.EventKey, 0, len(fields))
	for _, tok := range fields {
		ev, err := parseKey(tok)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseKey(tok string) (*tcell.EventKey, error) {
	orig := tok
	var mods tcell.ModMask
modifiers:
	for len(tok) > 2 && tok[1] == '-' {
		switch tok[0] {
		case 'C':
			mods |= tcell.ModCtrl
		case 'M':
			mods |= tcell.ModAlt
		case 'S':
			mods |= tcell.ModShift
		default:
			break modifiers
		}
		tok = tok[2:]
	}

	if tok == "SPC" {
		tok = " "
	}
	if k, ok := specialNames[tok]; ok {
		ch := rune(0)
		if k < 256 {
			ch = rune(k)
		}
		return tcell.NewEventKey(k, ch, mods), nil
	}
	if utf8.RuneCountInString(tok) != 1 {
		return nil, fmt.Errorf("unknown key %q", orig)
	}
	r, _ := utf8.DecodeRuneInString(tok)
	if mods&tcell.ModCtrl != 0 {
		plain := mods &^ tcell.ModCtrl
		switch r = unicode.ToLower(r); {
		case r == ' ' || r == '@':
			return tcell.NewEventKey(tcell.KeyCtrlSpace, 0, mods), nil
		case r == 'i':
			// Terminals cannot tell C-i from TAB or C-m from RET.
			return tcell.NewEventKey(tcell.KeyTab, 0, plain), nil
		case r == 'm':
			return tcell.NewEventKey(tcell.KeyEnter, 0, plain), nil
		case r == '[':
			return tcell.NewEventKey(tcell.KeyEscape, 0, plain), nil
		case r >= 'a' && r <= 'z':
			return tcell.NewEventKey(tcell.KeyCtrlA+tcell.Key(r-'a'), 0, mods), nil
		case r == '\\' || r == ']' || r == '^' || r == '_':
			return tcell.NewEventKey(tcell.KeyCtrlLeftSq+tcell.Key(r-'['), 0, mods), nil
		}
	}
	return tcell.NewEventKey(tcell.KeyRune, r, mods), nil
}

// Keymap binds key sequences, written in Emacs notation, to commands.
type Keymap struct {
	bindings map[string]Command
	prefixes map[string]bool
}

func NewKeymap() *Keymap {
	return &Keymap{
		bindings: make(map[string]Command),
		prefixes: make(map[string]bool),
	}
}

// Bind binds seq, e.g. "C-x C-x", to cmd. A sequence cannot both be bound
// and be the prefix of a longer binding.
func (m *Keymap) Bind(seq string, cmd Command) error {
	events, err := ParseKeys(seq)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("empty key sequence")
	}
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = KeyName(ev)
	}
	key := strings.Join(names, " ")
	if m.prefixes[key] {
		return fmt.Errorf("%s is a prefix key", key)
	}
	for i := 1; i < len(names); i++ {
		prefix := strings.Join(names[:i], " ")
		if _, ok := m.bindings[prefix]; ok {
			return fmt.Errorf("%s is already bound to a command", prefix)
		}
	}
	for i := 1; i < len(names); i++ {
		m.prefixes[strings.Join(names[:i], " ")] = true
	}
	m.bindings[key] = cmd
	return nil
}

// Lookup resolves a sequence of key names. isPrefix is true when seq is
// the start of a longer binding.
func (m *Keymap) Lookup(seq []string) (cmd Command, isPrefix bool) {
	key := strings.Join(seq, " ")
	if cmd, ok := m.bindings[key]; ok {
		return cmd, false
	}
	return CmdNone, m.prefixes[key]
}

// KeysFor returns the sequences bound to cmd, sorted.
func (m *Keymap) KeysFor(cmd Command) []string {
	var keys []string
	for k, c := range m.bindings {
		if c == cmd {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

var defaultBindings = []struct {
	keys string
	cmd  Command
}{
	{"C-f", CmdForwardChar},
	{"<right>", CmdForwardChar},
	{"C-b", CmdBackwardChar},
	{"<left>", CmdBackwardChar},
	{"M-f", CmdForwardWord},
	{"M-b", CmdBackwardWord},
	{"C-n", CmdNextLine},
	{"<down>", CmdNextLine},
	{"C-p", CmdPreviousLine},
	{"<up>", CmdPreviousLine},
	{"C-d", CmdDeleteChar},
	{"<delete>", CmdDeleteChar},
	{"DEL", CmdBackwardDeleteChar},
	{"C-h", CmdBackwardDeleteChar},
	{"C-a", CmdBeginningOfLine},
	{"<home>", CmdBeginningOfLine},
	{"C-e", CmdEndOfLine},
	{"<end>", CmdEndOfLine},
	{"M-<", CmdBeginningOfBuffer},
	{"M->", CmdEndOfBuffer},
	{"C-SPC", CmdSetMarkCommand},
	{"C-x C-x", CmdExchangePointAndMark},
	{"M-w", CmdCopyRegion},
	{"C-w", CmdKillRegion},
	{"C-y", CmdYank},
	{"M-y", CmdYankPop},
	{"RET", CmdNewline},
	{"C-j", CmdNewline},
	{"C-t", CmdTransposeChars},
	{"M-g c", CmdGotoChar},
	{"M-g g", CmdGotoLine},
	{"M-g M-g", CmdGotoLine},
	{"C-q", CmdQuotedInsert},
	{"C-k", CmdKillLine},
	{"M-d", CmdKillWord},
	{"M-DEL", CmdBackwardKillWord},
	{"C-_", CmdUndo},
	{"C-/", CmdUndo},
	{"C-x u", CmdUndo},
	{"M-_", CmdRedo},
	{"M-m", CmdBackToIndentation},
	{"M-^", CmdDeleteIndentation},
	{"C-g", CmdKeyboardQuit},
	{"C-u", CmdUniversalArgument},
}

// DefaultKeymap returns the standard Emacs bindings.
func DefaultKeymap() *Keymap {
	m := NewKeymap()
	for _, b := range defaultBindings {
		if err := m.Bind(b.keys, b.cmd); err != nil {
			panic(fmt.Sprintf("default binding %q: %v", b.keys, err))
		}
	}
	return m
}
