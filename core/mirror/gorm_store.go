package mirror

import (
	"context"
	"errors"
	"fmt"

	"catalog-sync/core/lifecycle"

	"gorm.io/gorm"
)

// GormStore is the MySQL-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm connection as a Store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the sync_entities table.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&Record{})
}

// Get returns the record for the given identity, or ErrNotFound.
func (s *GormStore) Get(ctx context.Context, entityType, externalID, scope string) (*Record, error) {
	var rec Record
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND external_id = ? AND scope = ?", entityType, externalID, scope).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load entity %s/%s: %w", entityType, externalID, err)
	}
	return &rec, nil
}

// ListByTypeAndScope returns every record of a kind within a scope.
func (s *GormStore) ListByTypeAndScope(ctx context.Context, entityType, scope string) ([]Record, error) {
	var recs []Record
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND scope = ?", entityType, scope).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s entities in scope %s: %w", entityType, scope, err)
	}
	return recs, nil
}

// ListByPropagation returns records matching any of the propagation statuses.
func (s *GormStore) ListByPropagation(ctx context.Context, entityType, scope string, statuses ...lifecycle.PropagationStatus) ([]Record, error) {
	var recs []Record
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND scope = ? AND propagation IN ?", entityType, scope, statuses).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending %s entities: %w", entityType, err)
	}
	return recs, nil
}

// ListChildren returns records of childType under the given parent.
func (s *GormStore) ListChildren(ctx context.Context, childType, parentID, scope string) ([]Record, error) {
	var recs []Record
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND parent_id = ? AND scope = ?", childType, parentID, scope).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s children of %s: %w", childType, parentID, err)
	}
	return recs, nil
}

// Upsert creates or updates the record based on its primary key.
func (s *GormStore) Upsert(ctx context.Context, rec *Record) error {
	var err error
	if rec.ID == 0 {
		err = s.db.WithContext(ctx).Create(rec).Error
	} else {
		err = s.db.WithContext(ctx).Save(rec).Error
	}
	if err != nil {
		return fmt.Errorf("failed to upsert entity %s/%s: %w", rec.EntityType, rec.ExternalID, err)
	}
	return nil
}

// SetPropagation updates the propagation status of the given records.
func (s *GormStore) SetPropagation(ctx context.Context, ids []uint, p lifecycle.PropagationStatus) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Model(&Record{}).
		Where("id IN ?", ids).
		Update("propagation", p).Error
	if err != nil {
		return fmt.Errorf("failed to set propagation %s: %w", p, err)
	}
	return nil
}

// Transaction runs fn in a database transaction.
func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
