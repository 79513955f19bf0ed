// Package store owns the durable session record. The record travels
// through a replicated channel (a commit to the repository) so the next
// quantum, possibly on a different host, observes the update. The store is
// the only component that touches the record's bytes; everyone else works
// with session.State values.
package store

import (
	"context"
	"errors"

	"github.com/DataDeltas/autoCMSCheck/internal/session"
)

// ErrNotFound reports that no session record exists. The controller
// treats it as the INIT condition, not a failure.
var ErrNotFound = errors.New("no session record")

// ErrPersistence reports that a record write could not be committed after
// the bounded retries. Fatal: the session is left in its last-known-good
// state for manual resume.
var ErrPersistence = errors.New("could not persist session record")

// Store is the durable record contract. Save overwrites the whole record;
// Remove's success condition is the record's absence afterwards, which
// callers verify with a follow-up Load.
type Store interface {
	Load(ctx context.Context) (session.State, error)
	Save(ctx context.Context, st session.State) error
	Remove(ctx context.Context) error
}
