package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidRange      = errors.New("start is after end")
	ErrUnknownProduct    = errors.New("unknown grocery id")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidStock      = errors.New("invalid stock")
	ErrEmptyName         = errors.New("empty name")
	ErrMalformedRow      = errors.New("malformed row")
	ErrNoData            = errors.New("no data")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrForbidden         = errors.New("action not allowed for role")
	ErrPartialWrite      = errors.New("partial write")
)

// RowIssue reports a row that was skipped while loading or scanning.
// Row is 1-based and counts data rows only (the header is not a row).
type RowIssue struct {
	Source string
	Row    int
	Err    error
	Detail string
}

func (i RowIssue) Error() string {
	msg := fmt.Sprintf("%s row %d: %v", i.Source, i.Row, i.Err)
	if i.Detail != "" {
		msg += " (" + i.Detail + ")"
	}
	return msg
}

func (i RowIssue) Unwrap() error {
	return i.Err
}
