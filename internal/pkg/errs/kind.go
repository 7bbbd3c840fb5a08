package errs

import "errors"

// Kind classifies an error for callers that need a coarse outcome, such as the HTTP adapter
// or the per-item results of bulk operations.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindBadRequest:
		return "BadRequest"
	case KindConflict:
		return "Conflict"
	default:
		return "Internal"
	}
}

// KindOf returns KindInternal for nil and for errors outside this package's taxonomy.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindBadRequest
	default:
		return KindInternal
	}
}
