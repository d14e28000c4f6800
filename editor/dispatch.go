package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

var ErrUndefinedKey = errors.New("key is undefined")

// Dispatcher turns a stream of key events into commands on a session. It
// tracks multi-key sequences, the C-u numeric prefix, quoted insertion and
// ESC used as a Meta prefix.
type Dispatcher struct {
	// Prompt answers the minibuffer question of goto_char and goto_line
	// when no numeric prefix was given. It may be nil.
	Prompt func(prompt string) (string, error)

	session *Session
	keymap  *Keymap

	pending []string
	meta    bool
	quoting bool
	quoted  Args

	argActive bool
	argN      int
	argDigits string
	argMinus  bool
	argClosed bool
}

func NewDispatcher(s *Session, km *Keymap) *Dispatcher {
	if km == nil {
		km = DefaultKeymap()
	}
	return &Dispatcher{session: s, keymap: km}
}

// Pending returns the prefix keys typed so far, e.g. "C-x".
func (d *Dispatcher) Pending() string {
	return strings.Join(d.pending, " ")
}

// Feed parses keys in Emacs notation and handles each in turn. Command
// failures are already reported to the session's echo area; they are
// joined into the returned error.
func (d *Dispatcher) Feed(keys string) error {
	events, err := ParseKeys(keys)
	if err != nil {
		return err
	}
	var errs []error
	for _, ev := range events {
		if err := d.HandleKey(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) HandleKey(ev *tcell.EventKey) error {
	if d.quoting {
		d.quoting = false
		args := d.quoted
		args.Key = ev
		return d.session.Execute(CmdQuotedInsert, args)
	}

	if d.meta {
		d.meta = false
		ev = tcell.NewEventKey(ev.Key(), ev.Rune(), ev.Modifiers()|tcell.ModAlt)
	} else if isEscape(ev) {
		d.meta = true
		return nil
	}

	name := KeyName(ev)
	if d.argActive && len(d.pending) == 0 && d.collectArgument(ev) {
		return nil
	}

	seq := append(append([]string(nil), d.pending...), name)
	cmd, isPrefix := d.keymap.Lookup(seq)
	if isPrefix {
		d.pending = seq
		return nil
	}
	d.pending = nil

	if cmd == CmdNone && len(seq) > 1 {
		if quit, _ := d.keymap.Lookup([]string{name}); quit == CmdKeyboardQuit {
			cmd = CmdKeyboardQuit
		}
	}

	switch cmd {
	case CmdUniversalArgument:
		switch {
		case !d.argActive:
			d.argActive, d.argN = true, 4
		case d.argDigits == "" && !d.argMinus:
			d.argN *= 4
		default:
			// C-u after digits or "-" ends the argument; later digits
			// are inserted.
			if d.argDigits == "" {
				d.argDigits = "4"
			}
			d.argClosed = true
		}
		return nil
	case CmdKeyboardQuit:
		d.resetArgument()
		return d.session.Execute(CmdKeyboardQuit, Args{Key: ev})
	case CmdQuotedInsert:
		d.quoting = true
		d.quoted = d.takeArgument()
		return nil
	case CmdNone:
		if len(seq) == 1 && isSelfInserting(ev) {
			cmd = CmdSelfInsert
			break
		}
		d.resetArgument()
		keys := strings.Join(seq, " ")
		d.session.Message("%s is undefined", keys)
		return fmt.Errorf("%w: %s", ErrUndefinedKey, keys)
	}

	args := d.takeArgument()
	args.Key = ev
	if (cmd == CmdGotoChar || cmd == CmdGotoLine) && !args.Prefix && d.Prompt != nil {
		prompt := "Go to char: "
		if cmd == CmdGotoLine {
			prompt = "Go to line: "
		}
		answer, err := d.Prompt(prompt)
		if err != nil {
			return err
		}
		args.Arg = answer
	}
	return d.session.Execute(cmd, args)
}

// isEscape reports a bare ESC, also typed as C-[.
func isEscape(ev *tcell.EventKey) bool {
	k := ev.Key()
	return (k == tcell.KeyEscape || k == tcell.KeyCtrlLeftSq) && ev.Modifiers()&(tcell.ModAlt|tcell.ModMeta) == 0
}

func isSelfInserting(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0
}

// collectArgument consumes digits and a leading minus typed after C-u.
func (d *Dispatcher) collectArgument(ev *tcell.EventKey) bool {
	if d.argClosed || !isSelfInserting(ev) {
		return false
	}
	r := ev.Rune()
	switch {
	case r >= '0' && r <= '9':
		d.argDigits += string(r)
		return true
	case r == '-' && d.argDigits == "" && !d.argMinus:
		d.argMinus = true
		return true
	}
	return false
}

func (d *Dispatcher) takeArgument() Args {
	if !d.argActive {
		return Args{}
	}
	n := d.argN
	if d.argDigits != "" {
		n, _ = strconv.Atoi(d.argDigits)
	} else if d.argMinus {
		n = 1
	}
	if d.argMinus {
		n = -n
	}
	d.resetArgument()
	return Args{Prefix: true, N: n}
}

func (d *Dispatcher) resetArgument() {
	d.argActive = false
	d.argN = 0
	d.argDigits = ""
	d.argMinus = false
	d.argClosed = false
}
