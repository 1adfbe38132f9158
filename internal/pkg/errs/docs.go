// Package errs provides standardized error types for the fulfillment application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package defines one error type per failure class:
//   - ValueIsRequiredError: a required value is missing (caller error)
//   - ValueIsInvalidError: a value is malformed or outside the allowed set
//   - ValueIsOutOfRangeError: a numeric value falls outside its bounds
//   - ObjectNotFoundError: a referenced object does not exist
//   - ConflictError: a state guard rejected the operation; carries a
//     machine-readable code so callers can branch without string matching
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// The HTTP adapter maps these classes onto status codes: required/invalid
// to 400, not-found to 404, conflict to 409, everything else to 500.
package errs
