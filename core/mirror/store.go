package mirror

import (
	"context"
	"errors"

	"catalog-sync/core/lifecycle"
)

// ErrNotFound is returned by Store.Get when no record matches the identity.
var ErrNotFound = errors.New("mirror: entity not found")

// Store persists mirror records. Implementations must treat
// (entity type, external id, scope) as the unique identity.
type Store interface {
	// Get returns the record for the given identity, or ErrNotFound.
	Get(ctx context.Context, entityType, externalID, scope string) (*Record, error)

	// ListByTypeAndScope returns every record of a kind within a scope,
	// including DELETED ones.
	ListByTypeAndScope(ctx context.Context, entityType, scope string) ([]Record, error)

	// ListByPropagation returns records of a kind within a scope whose
	// propagation status is one of the given values.
	ListByPropagation(ctx context.Context, entityType, scope string, statuses ...lifecycle.PropagationStatus) ([]Record, error)

	// ListChildren returns records of childType whose ParentID matches the
	// given external id within the scope.
	ListChildren(ctx context.Context, childType, parentID, scope string) ([]Record, error)

	// Upsert creates the record if it has no primary key yet, updates it
	// otherwise.
	Upsert(ctx context.Context, rec *Record) error

	// SetPropagation updates the propagation status of the given records.
	SetPropagation(ctx context.Context, ids []uint, p lifecycle.PropagationStatus) error

	// Transaction runs fn against a transactional view of the store. If fn
	// returns an error every write inside it is rolled back.
	Transaction(ctx context.Context, fn func(Store) error) error
}
