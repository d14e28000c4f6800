package editor

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"editcore/buffer"
	"editcore/config"
)

type recordingWindow struct {
	calls  int
	points []int
}

func (w *recordingWindow) RecenterIfNeeded(b *buffer.Buffer) {
	w.calls++
	w.points = append(w.points, b.Point())
}

func newTestSession(t *testing.T, text string, opts ...Option) (*Session, *buffer.Buffer) {
	t.Helper()
	s := New(config.Default(), opts...)
	b := s.NewBuffer("test", text)
	return s, b
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestExecute_SelfInsertMergesIntoOneUndoEntry(t *testing.T) {
	s, b := newTestSession(t, "")
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Execute(CmdSelfInsert, Args{Key: runeKey('a')}))
	}
	require.Equal(t, "aaa", b.Text())
	require.Len(t, b.UndoEntries(), 1)

	require.NoError(t, s.Execute(CmdUndo, Args{}))
	require.Equal(t, "", b.Text())
	require.Equal(t, "Undo!", s.LastMessage())
}

func TestExecute_SelfInsertBreaksMergeAfterOtherCommand(t *testing.T) {
	s, b := newTestSession(t, "")
	require.NoError(t, s.Execute(CmdSelfInsert, Args{Key: runeKey('a')}))
	require.NoError(t, s.Execute(CmdBackwardChar, Args{}))
	require.NoError(t, s.Execute(CmdForwardChar, Args{}))
	require.NoError(t, s.Execute(CmdSelfInsert, Args{Key: runeKey('b')}))
	require.Len(t, b.UndoEntries(), 2)
}

func TestExecute_SelfInsertRepeatsWithPrefix(t *testing.T) {
	s, b := newTestSession(t, "")
	require.NoError(t, s.Execute(CmdSelfInsert, Args{Key: runeKey('z'), Prefix: true, N: 3}))
	require.Equal(t, "zzz", b.Text())

	require.NoError(t, s.Execute(CmdSelfInsert, Args{Key: runeKey('z'), Prefix: true, N: 0}))
	require.Equal(t, "zzz", b.Text())
}

func TestExecute_SelfInsertRejectsNonText(t *testing.T) {
	s, _ := newTestSession(t, "")
	err := s.Execute(CmdSelfInsert, Args{Key: tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)})
	require.ErrorIs(t, err, buffer.ErrInvalidInput)
	require.Equal(t, buffer.KindInvalidInput, buffer.KindOf(err))
}

func TestExecute_KillLineAppendsWhileKilling(t *testing.T) {
	s, b := newTestSession(t, "one\ntwo\nthree")
	require.NoError(t, s.Execute(CmdKillLine, Args{}))
	require.Equal(t, CmdKillRegion, s.LastCommand())
	require.NoError(t, s.Execute(CmdKillLine, Args{}))
	require.Equal(t, "two\nthree", b.Text())

	require.NoError(t, s.Execute(CmdForwardChar, Args{}))
	require.NoError(t, s.Execute(CmdKillLine, Args{}))

	require.Equal(t, []string{"wo", "one\n"}, s.KillRing().Entries())
}

func TestExecute_KillWordAfterKillLineAppends(t *testing.T) {
	s, b := newTestSession(t, "alpha beta")
	require.NoError(t, s.Execute(CmdKillWord, Args{}))
	require.NoError(t, s.Execute(CmdKillWord, Args{}))
	require.Equal(t, "", b.Text())
	require.Equal(t, []string{"alpha beta"}, s.KillRing().Entries())
}

func TestExecute_YankPopCyclesThroughRing(t *testing.T) {
	s, b := newTestSession(t, "")
	for _, text := range []string{"S1", "S2", "S3"} {
		s.KillRing().Push(text)
	}

	require.NoError(t, s.Execute(CmdYank, Args{}))
	require.Equal(t, "S3", b.Text())
	for _, want := range []string{"S2", "S1", "S3"} {
		require.NoError(t, s.Execute(CmdYankPop, Args{}))
		require.Equal(t, want, b.Text())
		require.Equal(t, CmdYank, s.LastCommand())
	}
}

func TestExecute_YankPopWithoutYank(t *testing.T) {
	s, b := newTestSession(t, "text")
	s.KillRing().Push("x")
	require.NoError(t, s.Execute(CmdYank, Args{}))
	require.NoError(t, s.Execute(CmdForwardChar, Args{}))

	err := s.Execute(CmdYankPop, Args{})
	require.ErrorIs(t, err, buffer.ErrNotAfterYank)
	require.Equal(t, "Previous command was not a yank", s.LastMessage())
	require.Equal(t, "xtext", b.Text())
}

func TestExecute_YankFromEmptyRing(t *testing.T) {
	s, _ := newTestSession(t, "")
	err := s.Execute(CmdYank, Args{})
	require.ErrorIs(t, err, buffer.ErrEmptyRing)
	require.True(t, IsEditorError(err))
}

func TestExecute_SetMarkCommand(t *testing.T) {
	s, b := newTestSession(t, "hello world")
	require.NoError(t, s.Execute(CmdForwardChar, Args{Prefix: true, N: 2}))
	require.NoError(t, s.Execute(CmdSetMarkCommand, Args{}))
	require.Equal(t, "Mark set", s.LastMessage())
	require.Equal(t, 1, b.MarkCount())

	require.NoError(t, s.Execute(CmdEndOfLine, Args{}))
	require.NoError(t, s.Execute(CmdSetMarkCommand, Args{Prefix: true, N: 4}))
	require.Equal(t, 2, b.Point())
	require.Zero(t, b.MarkCount())
}

func TestExecute_RegionCommandsNeedMark(t *testing.T) {
	s, _ := newTestSession(t, "hello")
	for _, cmd := range []Command{CmdCopyRegion, CmdKillRegion, CmdDeleteRegion} {
		err := s.Execute(cmd, Args{})
		require.ErrorIs(t, err, buffer.ErrNoMark, cmd.String())
	}
	require.Equal(t, "The mark is not set now", s.LastMessage())
}

func TestExecute_DeleteRegionDoesNotKill(t *testing.T) {
	s, b := newTestSession(t, "hello world")
	require.NoError(t, s.Execute(CmdPushMark, Args{}))
	require.NoError(t, s.Execute(CmdForwardWord, Args{}))
	require.NoError(t, s.Execute(CmdDeleteRegion, Args{}))
	require.Equal(t, " world", b.Text())
	require.Zero(t, s.KillRing().Len())
}

func TestExecute_GotoNotifiesWindow(t *testing.T) {
	w := &recordingWindow{}
	s, b := newTestSession(t, "one\ntwo\nthree", WithWindow(w))

	require.NoError(t, s.Execute(CmdGotoChar, Args{Arg: " 5 "}))
	require.Equal(t, 5, b.Point())
	require.NoError(t, s.Execute(CmdGotoLine, Args{Prefix: true, N: 3}))
	require.Equal(t, 8, b.Point())
	require.NoError(t, s.Execute(CmdGotoChar, Args{Arg: "1000"}))
	require.Equal(t, b.Len(), b.Point())

	require.Equal(t, 3, w.calls)
	require.Equal(t, []int{5, 8, 13}, w.points)
}

func TestExecute_GotoRejectsBadArgument(t *testing.T) {
	w := &recordingWindow{}
	s, b := newTestSession(t, "abc", WithWindow(w))
	require.ErrorIs(t, s.Execute(CmdGotoLine, Args{Arg: "two"}), buffer.ErrInvalidInput)
	require.ErrorIs(t, s.Execute(CmdGotoChar, Args{}), buffer.ErrInvalidInput)
	require.Zero(t, b.Point())
	require.Zero(t, w.calls)
}

func TestExecute_QuotedInsert(t *testing.T) {
	s, b := newTestSession(t, "")
	require.NoError(t, s.Execute(CmdQuotedInsert, Args{Key: tcell.NewEventKey(tcell.KeyCtrlJ, rune(tcell.KeyCtrlJ), tcell.ModCtrl)}))
	require.NoError(t, s.Execute(CmdQuotedInsert, Args{Key: runeKey('x'), Prefix: true, N: 2}))
	require.Equal(t, "\nxx", b.Text())

	require.NoError(t, s.Execute(CmdQuotedInsert, Args{Key: tcell.NewEventKey(tcell.KeyCtrlA, 0, tcell.ModCtrl)}))
	require.NoError(t, s.Execute(CmdQuotedInsert, Args{Key: tcell.NewEventKey(tcell.KeyBackspace, 0, tcell.ModNone)}))
	require.NoError(t, s.Execute(CmdQuotedInsert, Args{Key: tcell.NewEventKey(tcell.KeyCtrlUnderscore, 0, tcell.ModCtrl)}))
	require.Equal(t, "\nxx\x01\x7f\x1f", b.Text())

	err := s.Execute(CmdQuotedInsert, Args{Key: tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)})
	require.ErrorIs(t, err, buffer.ErrInvalidInput)
	require.ErrorIs(t, s.Execute(CmdQuotedInsert, Args{}), buffer.ErrInvalidInput)
}

func TestExecute_UndoRedoMessages(t *testing.T) {
	s, b := newTestSession(t, "")
	err := s.Execute(CmdUndo, Args{})
	require.ErrorIs(t, err, buffer.ErrNothingToUndo)
	require.Equal(t, "No further undo information", s.LastMessage())

	require.NoError(t, s.Execute(CmdSelfInsert, Args{Key: runeKey('q')}))
	require.NoError(t, s.Execute(CmdUndo, Args{}))
	require.NoError(t, s.Execute(CmdRedo, Args{}))
	require.Equal(t, "Redo!", s.LastMessage())
	require.Equal(t, "q", b.Text())
}

func TestExecute_BackToIndentation(t *testing.T) {
	s, b := newTestSession(t, "x\n \t  body")
	require.NoError(t, s.Execute(CmdEndOfBuffer, Args{}))
	require.NoError(t, s.Execute(CmdBackToIndentation, Args{}))
	require.Equal(t, 6, b.Point())
}

func TestExecute_DeleteIndentationJoinsLines(t *testing.T) {
	s, b := newTestSession(t, "foo  \n   bar")
	require.NoError(t, s.Execute(CmdEndOfBuffer, Args{}))
	require.NoError(t, s.Execute(CmdDeleteIndentation, Args{}))
	require.Equal(t, "foo bar", b.Text())
	require.Equal(t, 3, b.Point())

	require.NoError(t, s.Execute(CmdUndo, Args{}))
	require.Equal(t, "foo  \n   bar", b.Text())
}

func TestExecute_DeleteIndentationOnFirstLine(t *testing.T) {
	s, b := newTestSession(t, "  only")
	require.NoError(t, s.Execute(CmdDeleteIndentation, Args{}))
	require.Equal(t, "  only", b.Text())
	require.False(t, b.CanUndo())
}

func TestExecute_TransposeAndNewline(t *testing.T) {
	s, b := newTestSession(t, "ab")
	require.NoError(t, s.Execute(CmdForwardChar, Args{}))
	require.NoError(t, s.Execute(CmdTransposeChars, Args{}))
	require.Equal(t, "ba", b.Text())
	require.NoError(t, s.Execute(CmdNewline, Args{Prefix: true, N: 2}))
	require.Equal(t, "ba\n\n", b.Text())
}

func TestExecute_NoBuffer(t *testing.T) {
	s := New(nil)
	require.ErrorIs(t, s.Execute(CmdForwardChar, Args{}), ErrNoBuffer)
}

func TestCommandNames(t *testing.T) {
	cmd, ok := CommandByName("yank-pop")
	require.True(t, ok)
	require.Equal(t, CmdYankPop, cmd)
	require.Equal(t, "yank_pop", cmd.String())

	_, ok = CommandByName("none")
	require.False(t, ok)
	_, ok = CommandByName("self_destruct")
	require.False(t, ok)
	require.Equal(t, "Command(999)", Command(999).String())
}

func TestArgsCount(t *testing.T) {
	require.Equal(t, 1, Args{}.Count())
	require.Equal(t, 1, Args{N: 7}.Count())
	require.Equal(t, -2, Args{Prefix: true, N: -2}.Count())
}
