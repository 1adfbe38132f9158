// Package guard implements the constructor-guard pattern used by commands
// and value objects to detect zero-value instances that bypassed their
// designated constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error is supplied and the object was not constructed.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures objects are only created through their
// constructor functions. Embedding a guard in a struct makes a zero-value
// instance distinguishable from a properly constructed one: the internal
// flag is only set by NewConstructorGuard, so Validate fails for any
// instance that was created by direct struct initialization.
//
// Example:
//
//	type ClaimOrderCommand struct {
//	    orderID  kernel.UUID
//	    pickerID kernel.UUID
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewClaimOrderCommand(orderID, pickerID kernel.UUID) (ClaimOrderCommand, error) {
//	    // ... validate inputs ...
//	    return ClaimOrderCommand{orderID: orderID, pickerID: pickerID, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c *ClaimOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the owning object as
// properly constructed. Call it in every constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the owning object was created through its
// constructor, otherwise the provided validationError (or
// ErrDefaultConstructorGuard when validationError is nil).
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
