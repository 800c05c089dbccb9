package syncer

import (
	"errors"
	"fmt"

	"starship-dashboard/internal/swapi"
)

// CommitError wraps a failure to persist the staged batch. The transaction
// was rolled back, so storage is unchanged.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit sync batch: %v", e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// Error kinds reported by Kind.
const (
	KindNone   = "ok"
	KindFetch  = "fetch"
	KindDecode = "decode"
	KindCommit = "commit"
	KindOther  = "other"
)

// Kind classifies a Synchronize error for logs and metrics.
func Kind(err error) string {
	var (
		fe *swapi.FetchError
		de *swapi.DecodeError
		ce *CommitError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &fe):
		return KindFetch
	case errors.As(err, &de):
		return KindDecode
	case errors.As(err, &ce):
		return KindCommit
	default:
		return KindOther
	}
}
