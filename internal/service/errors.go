package service

import "errors"

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrInvalidCredentials = errors.New("invalid credentials") // 400
	ErrInvalidToken       = errors.New("invalid token")       // 400
	ErrNotFound           = errors.New("not found")           // 404
)

// Error pairs a taxonomy sentinel with the user-facing detail message so
// handlers can classify with errors.Is and render err.Error() verbatim.
type Error struct {
	kind   error
	detail string
}

func (e *Error) Error() string { return e.detail }
func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, detail string) *Error {
	return &Error{kind: kind, detail: detail}
}
