package cache

import (
	"context"
	"errors"

	"github.com/splax/accounts/internal/domain"
)

// ErrMiss indicates the key is absent. Absence never means the user does
// not exist; the store stays authoritative.
var ErrMiss = errors.New("cache: miss")

// ProfileCache stores denormalized profile projections keyed by user id.
// Every method returns its error so that best-effort callers discard it
// visibly at the call site; a cache failure must never fail a request.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (domain.Profile, error)
	Set(ctx context.Context, userID string, profile domain.Profile) error
	Delete(ctx context.Context, userID string) error
	Close()
}
