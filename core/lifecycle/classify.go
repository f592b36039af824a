package lifecycle

// Classify returns the next lifecycle status for an entity that appeared in
// the current source listing.
//
// storedFingerprint is the last persisted fingerprint, or nil before first
// persistence. freshFingerprint is the digest of the tracked fields just read
// from the source. current is the entity's persisted status.
//
// A stored DELETED status is sticky: an entity whose fingerprint matches its
// last stored one stays DELETED rather than reverting to ACTIVE. Entities
// absent from the listing are handled separately by MarkAbsent.
func Classify(storedFingerprint *string, freshFingerprint string, current Status) Status {
	if storedFingerprint == nil {
		return StatusNew
	}

	if *storedFingerprint == freshFingerprint {
		if current == StatusDeleted {
			return StatusDeleted
		}
		return StatusActive
	}

	return StatusUpdated
}

// MarkAbsent returns the next status for an entity that was previously seen
// but is absent from the current full listing for its scope. Absence is the
// deletion signal regardless of fingerprint.
func MarkAbsent(current Status) Status {
	return StatusDeleted
}

// Project returns the next propagation status given the freshly classified
// lifecycle status and the entity's current propagation state.
//
// The projection is derived solely from the lifecycle transition; it never
// drives the lifecycle status, and it never advances to SYNCED on its own.
func Project(next Status, current PropagationStatus) PropagationStatus {
	switch next {
	case StatusNew:
		// First sighting always resets.
		return PropagationNotSynced

	case StatusUpdated:
		// An entity never pushed downstream stays NOT_SYNCED rather than
		// claiming a pending update.
		if current == PropagationSynced {
			return PropagationPendingUpdate
		}
		return current

	case StatusDeleted:
		// Only entities the downstream has seen need a retraction.
		if current == PropagationSynced || current == PropagationPendingUpdate {
			return PropagationPendingDelete
		}
		return current

	default: // StatusActive
		return current
	}
}
