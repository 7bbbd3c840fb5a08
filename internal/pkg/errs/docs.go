// Package errs holds the typed errors returned by constructors, use cases and repositories.
//
// Every type pairs a sentinel (ErrValueIsRequired, ErrValueIsInvalid, ErrObjectNotFound,
// ErrConflict, ...) with a struct carrying the parameter name and an optional cause. Unwrap
// returns the sentinel, so callers test with errors.Is.
//
// KindOf folds an error chain into the four outcomes the HTTP adapter reports:
// NotFound, BadRequest, Conflict and Internal.
package errs
