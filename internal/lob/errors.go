package lob

import "errors"

// Rejection errors for Book.Add. Not-found conditions on Cancel/Modify are
// silent no-ops per §7 and do not surface an error.
var (
	ErrDuplicateID   = errors.New("lob: order id already resting")
	ErrInvalidShares = errors.New("lob: shares must be positive")
)
