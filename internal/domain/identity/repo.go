package identity

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups for an identity that is not in the
// registry. Callers decide whether that means "synthesize one" or "404".
var ErrNotFound = errors.New("identity not found")

type Repository interface {
	GetByID(ctx context.Context, identityID string) (*Identity, error)
	Insert(ctx context.Context, id *Identity) error
	List(ctx context.Context, limit, offset int) ([]*Identity, int, error)
	Count(ctx context.Context) (int, error)
}
