package errors

import (
	stderrors "errors"
)

/*
* Error codes convey detailed errors internally and to clients. They are
* combined with the appropriate HTTP status code, but are not intended to
* supercede correct HTTP responses.
*
* A missing item is reported to callers as InvalidArgument (HTTP 400), as the
* caller supplied an identifier that does not exist. NotFound is the code
* carried internally by the store and the cache layer.
 */

const (

	// HTTP 400 Bad Request.
	// Content does not match Content-Type or unmarshalling error.
	InvalidContent ErrCode = 2
	// A parameter was not of the expected type.
	UnexpectedType ErrCode = 3
	// The identifier supplied does not refer to an existing item.
	InvalidArgument ErrCode = 4

	// Internal to the store and cache layers, surfaced as InvalidArgument.
	NotFound ErrCode = 14

	// HTTP 500 Internal Server Error.
	// The cache backend could not be reached or returned an error.
	CacheUnavailable ErrCode = 30
	// The persistent store could not be reached or returned an error.
	StoreUnavailable ErrCode = 31
)

// Sentinels for use with errors.Is. Any ItemError matches the sentinel that
// carries the same ErrCode.
var (
	ErrNotFound         = &ItemError{ErrorCode: NotFound, ErrorMessage: "item not found"}
	ErrInvalidArgument  = &ItemError{ErrorCode: InvalidArgument, ErrorMessage: "invalid argument"}
	ErrCacheUnavailable = &ItemError{ErrorCode: CacheUnavailable, ErrorMessage: "cache unavailable"}
	ErrStoreUnavailable = &ItemError{ErrorCode: StoreUnavailable, ErrorMessage: "store unavailable"}
)

// ItemError implements the Error interface.
type ItemError struct {
	ItemID       int64   `json:"itemId,omitempty"`
	Function     string  `json:"-"`
	ErrorCode    ErrCode `json:"errorCode"`
	ErrorMessage string  `json:"errorDetail"`
	Err          error   `json:"-"`
}

type ErrCode uint8

func (e *ItemError) Error() string {
	if e.Err != nil {
		return e.ErrorMessage + ": " + e.Err.Error()
	}
	return e.ErrorMessage
}

// Unwrap returns the underlying cause, if any.
func (e *ItemError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an ItemError with the same code.
func (e *ItemError) Is(target error) bool {
	t, ok := target.(*ItemError)
	if !ok {
		return false
	}
	return t.ErrorCode == e.ErrorCode
}

func New(itemID int64, function string, errCode ErrCode, errMessage string) error {
	return &ItemError{
		ItemID:       itemID,
		Function:     function,
		ErrorCode:    errCode,
		ErrorMessage: errMessage,
	}
}

// Wrap attaches a code and a function name to an underlying error.
func Wrap(err error, itemID int64, function string, errCode ErrCode, errMessage string) error {
	if err == nil {
		return nil
	}
	return &ItemError{
		ItemID:       itemID,
		Function:     function,
		ErrorCode:    errCode,
		ErrorMessage: errMessage,
		Err:          err,
	}
}

// Code returns the ErrCode carried by err, or zero if err is not an
// ItemError.
func Code(err error) ErrCode {
	var ie *ItemError
	if stderrors.As(err, &ie) {
		return ie.ErrorCode
	}
	return 0
}
