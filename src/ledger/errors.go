package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadySet      = errors.New("hash link already set")
	ErrTampered        = errors.New("block content does not match its commitment")
	ErrBrokenLink      = errors.New("hash link does not match neighbouring commitment")
	ErrIndexOutOfRange = errors.New("block index out of range")
	ErrUnknownDigest   = errors.New("unknown digest")
)

// LinkField names one of the two settable link fields of a Block.
type LinkField int

const (
	PreviousLink LinkField = iota
	NextLink
)

func (f LinkField) String() string {
	switch f {
	case PreviousLink:
		return "previous_hash"
	case NextLink:
		return "next_hash"
	default:
		return fmt.Sprintf("LinkField(%d)", int(f))
	}
}

// LinkError reports a rejected attempt to set a link field.
type LinkError struct {
	Index uint32
	Field LinkField
	Err   error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("block %d: set %s: %v", e.Index, e.Field, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }

// BlockError describes a single problem found during chain verification.
type BlockError struct {
	Index uint32
	Err   error
}

func (e BlockError) Error() string {
	return fmt.Sprintf("block %d: %v", e.Index, e.Err)
}

func (e BlockError) Unwrap() error { return e.Err }
