package buffer

import (
	"errors"

	"editcore/killring"
)

// Kind classifies the recoverable errors an editing command can surface.
type Kind int

const (
	KindHistory Kind = iota + 1
	KindSequence
	KindEmptyRing
	KindInvalidInput
	KindNoMark
)

func (k Kind) String() string {
	switch k {
	case KindHistory:
		return "history"
	case KindSequence:
		return "sequence"
	case KindEmptyRing:
		return "empty-ring"
	case KindInvalidInput:
		return "invalid-input"
	case KindNoMark:
		return "no-mark"
	default:
		return "unknown"
	}
}

// EditorError is a failure the command layer reports to the user and then
// carries on. None of them leave the buffer in a partial state.
type EditorError struct {
	Kind Kind
	Err  error
}

func (e *EditorError) Error() string { return e.Err.Error() }

func (e *EditorError) Unwrap() error { return e.Err }

var (
	ErrNothingToUndo = &EditorError{Kind: KindHistory, Err: errors.New("no further undo information")}
	ErrNothingToRedo = &EditorError{Kind: KindHistory, Err: errors.New("no further redo information")}
	ErrNotAfterYank  = &EditorError{Kind: KindSequence, Err: errors.New("previous command was not a yank")}
	ErrEmptyRing     = &EditorError{Kind: KindEmptyRing, Err: killring.ErrEmpty}
	ErrInvalidInput  = &EditorError{Kind: KindInvalidInput, Err: errors.New("invalid input")}
	ErrNoMark        = &EditorError{Kind: KindNoMark, Err: errors.New("the mark is not set now")}
)

// KindOf returns the Kind of the first EditorError in err's chain, or 0.
func KindOf(err error) Kind {
	var ee *EditorError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return 0
}
