package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"editcore/buffer"
)

// Command is one of the editing commands a key can be bound to.
type Command int

const (
	CmdNone Command = iota
	CmdForwardChar
	CmdBackwardChar
	CmdForwardWord
	CmdBackwardWord
	CmdNextLine
	CmdPreviousLine
	CmdDeleteChar
	CmdBackwardDeleteChar
	CmdBeginningOfLine
	CmdEndOfLine
	CmdBeginningOfBuffer
	CmdEndOfBuffer
	CmdPushMark
	CmdPopMark
	CmdPopToMark
	CmdExchangePointAndMark
	CmdCopyRegion
	CmdKillRegion
	CmdYank
	CmdNewline
	CmdDeleteRegion
	CmdTransposeChars
	CmdSetMarkCommand
	CmdGotoChar
	CmdGotoLine
	CmdSelfInsert
	CmdQuotedInsert
	CmdKillLine
	CmdKillWord
	CmdBackwardKillWord
	CmdYankPop
	CmdUndo
	CmdRedo
	CmdBackToIndentation
	CmdDeleteIndentation
	CmdKeyboardQuit
	CmdUniversalArgument
)

var commandNames = [...]string{
	CmdNone:                 "none",
	CmdForwardChar:          "forward_char",
	CmdBackwardChar:         "backward_char",
	CmdForwardWord:          "forward_word",
	CmdBackwardWord:         "backward_word",
	CmdNextLine:             "next_line",
	CmdPreviousLine:         "previous_line",
	CmdDeleteChar:           "delete_char",
	CmdBackwardDeleteChar:   "backward_delete_char",
	CmdBeginningOfLine:      "beginning_of_line",
	CmdEndOfLine:            "end_of_line",
	CmdBeginningOfBuffer:    "beginning_of_buffer",
	CmdEndOfBuffer:          "end_of_buffer",
	CmdPushMark:             "push_mark",
	CmdPopMark:              "pop_mark",
	CmdPopToMark:            "pop_to_mark",
	CmdExchangePointAndMark: "exchange_point_and_mark",
	CmdCopyRegion:           "copy_region",
	CmdKillRegion:           "kill_region",
	CmdYank:                 "yank",
	CmdNewline:              "newline",
	CmdDeleteRegion:         "delete_region",
	CmdTransposeChars:       "transpose_chars",
	CmdSetMarkCommand:       "set_mark_command",
	CmdGotoChar:             "goto_char",
	CmdGotoLine:             "goto_line",
	CmdSelfInsert:           "self_insert",
	CmdQuotedInsert:         "quoted_insert",
	CmdKillLine:             "kill_line",
	CmdKillWord:             "kill_word",
	CmdBackwardKillWord:     "backward_kill_word",
	CmdYankPop:              "yank_pop",
	CmdUndo:                 "undo",
	CmdRedo:                 "redo",
	CmdBackToIndentation:    "back_to_indentation",
	CmdDeleteIndentation:    "delete_indentation",
	CmdKeyboardQuit:         "keyboard_quit",
	CmdUniversalArgument:    "universal_argument",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "Command(" + strconv.Itoa(int(c)) + ")"
	}
	return commandNames[c]
}

// CommandByName looks a command up by its snake_case name.
func CommandByName(name string) (Command, bool) {
	name = strings.ReplaceAll(strings.TrimSpace(name), "-", "_")
	for c, n := range commandNames {
		if n == name && Command(c) != CmdNone {
			return Command(c), true
		}
	}
	return CmdNone, false
}

// Args carries what a command is invoked with.
type Args struct {
	// Prefix is set when a numeric prefix argument was given; N holds it.
	Prefix bool
	N      int
	// Key is the key that invoked the command, or the quoted key for
	// quoted_insert.
	Key *tcell.EventKey
	// Arg answers a command's prompt, such as the target of goto_line.
	Arg string
}

// Count is the repeat count: N when a prefix was given, else 1.
func (a Args) Count() int {
	if !a.Prefix {
		return 1
	}
	return a.N
}

// Execute runs cmd against the current buffer. A failure is reported to the
// echo area and returned; it never leaves the buffer half-edited.
func (s *Session) Execute(cmd Command, args Args) error {
	s.applyPending()
	b := s.current
	if b == nil {
		return ErrNoBuffer
	}

	s.thisCommand = cmd
	s.log.Debug("execute", "command", cmd, "buffer", b.Name, "n", args.Count(), "point", b.Point())

	err := s.run(b, cmd, args)
	if err != nil {
		s.log.Warn("command failed", "command", cmd, "kind", buffer.KindOf(err), "err", err)
		s.Message("%s", errorMessage(err))
	} else {
		s.log.Debug("executed", "command", s.thisCommand, "point", b.Point(), "edit", b.LastEdit())
	}
	s.lastCommand = s.thisCommand
	return err
}

func errorMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func (s *Session) run(b *buffer.Buffer, cmd Command, args Args) error {
	n := args.Count()
	switch cmd {
	case CmdForwardChar:
		b.ForwardChar(n)
	case CmdBackwardChar:
		b.BackwardChar(n)
	case CmdForwardWord:
		b.ForwardWord(n)
	case CmdBackwardWord:
		b.BackwardWord(n)
	case CmdNextLine:
		b.NextLine(n)
	case CmdPreviousLine:
		b.PreviousLine(n)
	case CmdDeleteChar:
		b.DeleteChar(n)
	case CmdBackwardDeleteChar:
		b.BackwardDeleteChar(n)
	case CmdBeginningOfLine:
		b.BeginningOfLine()
	case CmdEndOfLine:
		b.EndOfLine()
	case CmdBeginningOfBuffer:
		b.BeginningOfBuffer()
	case CmdEndOfBuffer:
		b.EndOfBuffer()
	case CmdPushMark:
		b.PushMark()
	case CmdPopMark:
		b.PopMark()
	case CmdPopToMark:
		b.PopToMark()
	case CmdExchangePointAndMark:
		b.ExchangePointAndMark()
	case CmdCopyRegion:
		return b.CopyRegion()
	case CmdKillRegion:
		return b.KillRegion()
	case CmdYank:
		return b.Yank()
	case CmdNewline:
		for i := 0; i < n; i++ {
			b.Newline()
		}
	case CmdDeleteRegion:
		r, ok := b.Region()
		if !ok {
			return buffer.ErrNoMark
		}
		b.DeleteRegion(r.Start, r.End)
	case CmdTransposeChars:
		b.TransposeChars()
	case CmdSetMarkCommand:
		if args.Prefix {
			b.PopToMark()
		} else {
			b.PushMark()
			s.Message("Mark set")
		}
	case CmdGotoChar, CmdGotoLine:
		return s.gotoCommand(b, cmd, args)
	case CmdSelfInsert:
		return s.selfInsert(b, args)
	case CmdQuotedInsert:
		r, ok := quotedRune(args.Key)
		if !ok {
			return buffer.ErrInvalidInput
		}
		if n > 0 {
			b.Insert(strings.Repeat(string(r), n), false)
		}
	case CmdKillLine:
		b.KillLine(s.lastCommand == CmdKillRegion)
		s.thisCommand = CmdKillRegion
	case CmdKillWord:
		b.KillWord(s.lastCommand == CmdKillRegion)
		s.thisCommand = CmdKillRegion
	case CmdBackwardKillWord:
		b.BackwardKillWord(s.lastCommand == CmdKillRegion)
		s.thisCommand = CmdKillRegion
	case CmdYankPop:
		if s.lastCommand != CmdYank {
			return buffer.ErrNotAfterYank
		}
		if err := b.YankPop(); err != nil {
			return err
		}
		s.thisCommand = CmdYank
	case CmdUndo:
		if err := b.Undo(); err != nil {
			return err
		}
		s.Message("Undo!")
	case CmdRedo:
		if err := b.Redo(); err != nil {
			return err
		}
		s.Message("Redo!")
	case CmdBackToIndentation:
		backToIndentation(b)
	case CmdDeleteIndentation:
		return deleteIndentation(b)
	case CmdKeyboardQuit:
		s.Message("Quit")
	case CmdNone, CmdUniversalArgument:
	default:
		return fmt.Errorf("%w: unknown command %d", buffer.ErrInvalidInput, int(cmd))
	}
	return nil
}

func (s *Session) selfInsert(b *buffer.Buffer, args Args) error {
	if args.Key == nil || args.Key.Key() != tcell.KeyRune {
		return buffer.ErrInvalidInput
	}
	n := args.Count()
	if n <= 0 {
		return nil
	}
	merge := s.lastCommand == CmdSelfInsert
	b.Insert(strings.Repeat(string(args.Key.Rune()), n), merge)
	return nil
}

func (s *Session) gotoCommand(b *buffer.Buffer, cmd Command, args Args) error {
	target, err := gotoTarget(args)
	if err != nil {
		return err
	}
	if cmd == CmdGotoChar {
		b.GotoChar(target)
	} else {
		b.GotoLine(target)
	}
	if s.window != nil {
		s.window.RecenterIfNeeded(b)
	}
	return nil
}

func gotoTarget(args Args) (int, error) {
	if arg := strings.TrimSpace(args.Arg); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", buffer.ErrInvalidInput, arg)
		}
		return n, nil
	}
	if args.Prefix {
		return args.N, nil
	}
	return 0, fmt.Errorf("%w: missing argument", buffer.ErrInvalidInput)
}

// quotedRune returns the character a quoted key inserts. Control keys
// insert their control character; keys with no character are rejected.
func quotedRune(ev *tcell.EventKey) (rune, bool) {
	if ev == nil {
		return 0, false
	}
	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			if r := ev.Rune(); (r >= '@' && r <= '_') || (r >= 'a' && r <= 'z') {
				return r & 0x1f, true
			}
		}
		return ev.Rune(), true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return rune(k-tcell.KeyCtrlA) + 1, true
	case k == tcell.KeyCtrlSpace:
		return 0, true
	case k >= tcell.KeyCtrlLeftSq && k <= tcell.KeyCtrlUnderscore:
		return rune(k-tcell.KeyCtrlLeftSq) + 0x1b, true
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		return 0x7f, true
	case k < 256:
		return rune(k), true
	}
	return 0, false
}

func isIndent(r rune) bool { return r == ' ' || r == '\t' }

func backToIndentation(b *buffer.Buffer) {
	b.BeginningOfLine()
	b.SkipForward(isIndent)
}

// deleteIndentation joins the current line to the previous one, leaving a
// single space at the join and point before it.
func deleteIndentation(b *buffer.Buffer) error {
	backToIndentation(b)
	pos := b.Point()
	b.SkipBackward(func(r rune) bool { return r != '\n' })
	if b.IsBeginningOfBuffer() {
		return nil
	}
	return b.UndoGroup(func() error {
		b.BackwardChar(1)
		b.SkipBackward(isIndent)
		b.DeleteRegion(b.Point(), pos)
		b.Insert(" ", false)
		b.BackwardChar(1)
		return nil
	})
}

// IsEditorError reports whether err is one the command layer reports and
// carries on from.
func IsEditorError(err error) bool {
	var ee *buffer.EditorError
	return errors.As(err, &ee)
}
