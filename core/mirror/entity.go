package mirror

import (
	"encoding/json"
	"time"

	"catalog-sync/core/lifecycle"
)

// SourceEntity is one entity as read from a source catalog listing.
type SourceEntity struct {
	// ExternalID is the identity assigned by the source, stable unless the
	// source reassigns it.
	ExternalID string
	// DisplayName is the human-readable name forwarded downstream.
	DisplayName string
	// TrackedFields is the ordered tuple of semantic values for this kind.
	// Only these fields participate in the change fingerprint.
	TrackedFields []*string
	// Attributes are display attributes forwarded to the downstream catalog.
	// They do not participate in the fingerprint unless also tracked.
	Attributes map[string]string
	// ParentID is the external id of the hierarchy parent, empty for roots.
	ParentID string
	// Relations maps relation-type name to target external ids. Used only at
	// export time.
	Relations map[string][]string
}

// Record is one persisted row of the mirror, covering any asset kind.
type Record struct {
	ID          uint   `gorm:"primaryKey"`
	EntityType  string `gorm:"size:32;uniqueIndex:idx_sync_identity,priority:1"`
	ExternalID  string `gorm:"size:255;uniqueIndex:idx_sync_identity,priority:2"`
	Scope       string `gorm:"size:128;uniqueIndex:idx_sync_identity,priority:3"`
	DisplayName string `gorm:"size:255"`

	// Fingerprint is nil only before first persistence.
	Fingerprint *string                     `gorm:"size:64"`
	Status      lifecycle.Status            `gorm:"size:16"`
	Propagation lifecycle.PropagationStatus `gorm:"size:16"`

	// ParentID is the external id of the hierarchy parent within this scope.
	ParentID string `gorm:"size:255;index:idx_sync_parent"`

	// AttributesJSON and RelationsJSON hold the export-time payload pieces.
	AttributesJSON []byte `gorm:"type:json"`
	RelationsJSON  []byte `gorm:"type:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName sets the mirror table name.
func (Record) TableName() string {
	return "sync_entities"
}

// Attributes decodes the stored display attributes. A decode failure yields an
// empty map; the stored payload is always produced by SetAttributes.
func (r *Record) Attributes() map[string]string {
	if len(r.AttributesJSON) == 0 {
		return map[string]string{}
	}
	var attrs map[string]string
	if err := json.Unmarshal(r.AttributesJSON, &attrs); err != nil {
		return map[string]string{}
	}
	return attrs
}

// SetAttributes encodes and stores the display attributes.
func (r *Record) SetAttributes(attrs map[string]string) {
	if len(attrs) == 0 {
		r.AttributesJSON = nil
		return
	}
	b, _ := json.Marshal(attrs)
	r.AttributesJSON = b
}

// Relations decodes the stored relation map.
func (r *Record) Relations() map[string][]string {
	if len(r.RelationsJSON) == 0 {
		return map[string][]string{}
	}
	var rels map[string][]string
	if err := json.Unmarshal(r.RelationsJSON, &rels); err != nil {
		return map[string][]string{}
	}
	return rels
}

// SetRelations encodes and stores the relation map.
func (r *Record) SetRelations(rels map[string][]string) {
	if len(rels) == 0 {
		r.RelationsJSON = nil
		return
	}
	b, _ := json.Marshal(rels)
	r.RelationsJSON = b
}
