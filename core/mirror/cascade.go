package mirror

import (
	"context"

	"catalog-sync/core/lifecycle"

	"go.uber.org/zap"
)

// CascadeDeleter applies a DELETED classification to an entity and its whole
// reachable subtree in the static parent/child hierarchy.
type CascadeDeleter struct {
	store    Store
	registry *Registry
	logger   *zap.Logger
}

// NewCascadeDeleter creates a cascade deleter over the given store and registry.
func NewCascadeDeleter(store Store, registry *Registry, logger *zap.Logger) *CascadeDeleter {
	return &CascadeDeleter{store: store, registry: registry, logger: logger}
}

// Delete marks the root entity and every descendant DELETED, projecting each
// record's propagation status, inside a single transaction: either the whole
// subtree transitions or none of it does.
//
// Records already DELETED are traversed (their children may not be) but not
// counted again. Returns the number of records that actually transitioned.
func (d *CascadeDeleter) Delete(ctx context.Context, entityType, externalID, scope string) (int, error) {
	affected := 0

	err := d.store.Transaction(ctx, func(tx Store) error {
		root, err := tx.Get(ctx, entityType, externalID, scope)
		if err != nil {
			return err
		}

		type node struct {
			rec *Record
			typ string
		}

		// Breadth-first over the static hierarchy, one level at a time.
		queue := []node{{rec: root, typ: entityType}}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			if current.rec.Status != lifecycle.StatusDeleted {
				next := lifecycle.MarkAbsent(current.rec.Status)
				current.rec.Propagation = lifecycle.Project(next, current.rec.Propagation)
				current.rec.Status = next
				if err := tx.Upsert(ctx, current.rec); err != nil {
					return err
				}
				affected++
			}

			for _, childType := range d.registry.ChildrenOf(current.typ) {
				children, err := tx.ListChildren(ctx, childType, current.rec.ExternalID, scope)
				if err != nil {
					return err
				}
				for i := range children {
					queue = append(queue, node{rec: &children[i], typ: childType})
				}
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	if affected > 1 {
		d.logger.Info("Cascade delete applied",
			zap.String("type", entityType),
			zap.String("external_id", externalID),
			zap.String("scope", scope),
			zap.Int("affected", affected))
	}

	return affected, nil
}
