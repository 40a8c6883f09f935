package ports

import (
	"context"

	"github.com/Pizajolo/nft-ticket-registration/core"
)

// SessionStore is the authoritative session record.
//
// Every mutation is a whole-record replace; concurrent writers get
// last-writer-wins semantics. Implementations must be safe for use from
// multiple goroutines.
type SessionStore interface {
	// Put stores a session keyed by its ID.
	Put(ctx context.Context, session core.Session) error

	// Get returns the session or core.ErrNotFound.
	Get(ctx context.Context, sessionID string) (core.Session, error)

	// Delete removes a session. It reports whether a record was present,
	// so repeated deletes are harmless.
	Delete(ctx context.Context, sessionID string) (bool, error)

	// DeleteByWallet removes every session bound to the wallet and
	// returns the number removed.
	DeleteByWallet(ctx context.Context, wallet string) (int, error)

	// All returns a snapshot of every stored session.
	All(ctx context.Context) ([]core.Session, error)
}

// ChallengeStore tracks value-transfer challenges by ID.
type ChallengeStore interface {
	Put(ctx context.Context, challenge core.ValueChallenge) error
	Get(ctx context.Context, challengeID string) (core.ValueChallenge, error)
}

// CredentialStore holds admin principals. It has no knowledge of sessions.
type CredentialStore interface {
	SeedAdmin(ctx context.Context, admin core.AdminCredential) error
	FindAdminByEmail(ctx context.Context, email string) (core.AdminCredential, error)
	FindAdminByWallet(ctx context.Context, wallet string) (core.AdminCredential, error)
}

// ActivityStore retains a bounded window of recent audit entries; once the
// cap is reached the oldest entry is dropped for each new one appended.
type ActivityStore interface {
	Append(ctx context.Context, activity core.Activity) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]core.Activity, error)
}
