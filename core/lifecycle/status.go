package lifecycle

// Status is the primary lifecycle classification of a mirrored entity.
type Status string

const (
	// StatusNew marks an entity seen for the first time.
	StatusNew Status = "NEW"
	// StatusActive marks an entity whose tracked fields are unchanged.
	StatusActive Status = "ACTIVE"
	// StatusUpdated marks an entity whose tracked fields changed.
	StatusUpdated Status = "UPDATED"
	// StatusDeleted marks an entity that vanished from the source listing.
	// Deletion is sticky; see Classify.
	StatusDeleted Status = "DELETED"
)

// PropagationStatus tracks whether a change has been pushed downstream.
type PropagationStatus string

const (
	// PropagationNotSynced means the entity has never been exported, or was
	// deleted before it ever reached the downstream catalog.
	PropagationNotSynced PropagationStatus = "NOT_SYNCED"
	// PropagationSynced means the downstream catalog reflects the entity.
	PropagationSynced PropagationStatus = "SYNCED"
	// PropagationPendingUpdate means a change awaits export.
	PropagationPendingUpdate PropagationStatus = "PENDING_UPDATE"
	// PropagationPendingDelete means a downstream deletion awaits execution.
	PropagationPendingDelete PropagationStatus = "PENDING_DELETE"
)

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusActive, StatusUpdated, StatusDeleted:
		return true
	default:
		return false
	}
}

// Valid reports whether p is a known propagation status.
func (p PropagationStatus) Valid() bool {
	switch p {
	case PropagationNotSynced, PropagationSynced, PropagationPendingUpdate, PropagationPendingDelete:
		return true
	default:
		return false
	}
}
