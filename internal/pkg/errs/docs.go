// Package errs holds the validation and lookup errors shared by the domain,
// the use cases and the HTTP adapter.
//
// Every type wraps a sentinel (ErrValueIsRequired, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrObjectNotFound) so callers can branch with
// errors.Is and still read the parameter name with errors.As. The *WithCause
// constructors keep the underlying error in the message.
package errs
