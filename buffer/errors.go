package buffer

import "errors"

var (
	ErrOutOfRange      = errors.New("out of buffer")
	ErrMidCharacter    = errors.New("position is in the middle of a character")
	ErrInvalidEncoding = errors.New("invalid byte sequence")
	ErrNoUndo          = errors.New("no further undo information")
	ErrNoRedo          = errors.New("no further redo information")
	ErrSearchFailed    = errors.New("search failed")
	ErrNoMatch         = errors.New("no match data")
	ErrNoFileName      = errors.New("file name is not set")
	ErrMarkNotSet      = errors.New("mark is not set")
	ErrReadOnly        = errors.New("buffer is read only")
	ErrNotYank         = errors.New("previous command was not a yank")
)
