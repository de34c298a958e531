package query

import "errors"

var (
	// ErrOutOfRange is returned by the strict node_at_* / lrt_translate
	// accessors when the requested time/line/rank falls past the end of
	// what the index covers.
	ErrOutOfRange = errors.New("query: requested position is out of range")

	// ErrUndefined is returned by get_reg_value (never by getmem, which
	// reports undefined bytes via its mask instead) when the requested
	// register is not fully defined at the queried instant.
	ErrUndefined = errors.New("query: requested value is not fully defined")

	// ErrRegisterTooWide is returned by get_reg_value for any register
	// wider than 8 bytes: there is no integer type to return it as.
	ErrRegisterTooWide = errors.New("query: register is wider than 8 bytes")
)
