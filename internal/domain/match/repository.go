package match

import (
	"context"
	"time"
)

// Repository persists match records. Methods touching both sides of a pairing
// are atomic: either both records change or neither does.
type Repository interface {
	GetByID(ctx context.Context, recordID string) (Record, bool, error)
	GetByToken(ctx context.Context, token string) (Record, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Record, error)
	Create(ctx context.Context, record Record) error
	Update(ctx context.Context, record Record) error

	// CreatePair updates the host record and inserts the mirror record in one
	// transaction.
	CreatePair(ctx context.Context, host, mirror Record) error

	// UpdatePair applies both record updates in one transaction.
	UpdatePair(ctx context.Context, first, second Record) error

	// DeletePair removes the host record and, when mirrorID is non-empty, the
	// mirror record in one transaction.
	DeletePair(ctx context.Context, hostID, mirrorID string) error

	// ExpireChallenge cancels the record and clears its token fields only if
	// it is still in CHALLENGE_SENT. Returns whether this call performed the
	// transition, making lazy expiration exactly-once under concurrent reads.
	ExpireChallenge(ctx context.Context, recordID, reason string, now time.Time) (bool, error)
}
