// Package records holds the lifecycle rules for accounts and student records:
// what makes each creatable, which defaults fill unsupplied fields, and how
// failures are reported back to callers.
//
// Every failure is a *Error carrying one of the kinds ErrValidation, ErrDuplicate,
// ErrNotFound or ErrStorage plus a human-readable Reason suitable for a single
// transient notification. Validation and duplicate checks run before anything is
// written.
package records
