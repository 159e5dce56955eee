// Package guard provides the constructor guard used by value objects,
// commands and queries to reject zero values that skipped their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as built by its constructor.
// Embed it as a private field and set it with NewConstructorGuard; the zero
// value reports the struct as not constructed.
//
//	type Fee struct {
//	    amount int
//	    guard  guard.ConstructorGuard
//	}
//
//	func (f Fee) Validate() error {
//	    return f.guard.Validate(ErrFeeIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
