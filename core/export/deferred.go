package export

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Deletion identifies one downstream entity pending deletion.
type Deletion struct {
	// EntityType is the asset kind name.
	EntityType string `json:"entity_type"`
	// ExternalID is the stable external identifier.
	ExternalID string `json:"external_id"`
	// Scope disambiguates the identity.
	Scope string `json:"scope"`
	// RecordID is the mirror row, for post-deletion bookkeeping.
	RecordID uint `json:"-"`
}

// DeletionFailure pairs a deletion with the error it produced.
type DeletionFailure struct {
	Deletion Deletion `json:"deletion"`
	Error    string   `json:"error"`
}

// DeletionResult summarizes a queue drain. Deletions are best-effort: failures
// are reported but never revert already-recorded import successes.
type DeletionResult struct {
	// Deleted counts successful downstream deletions.
	Deleted int `json:"deleted"`
	// Succeeded lists the deletions that went through.
	Succeeded []Deletion `json:"-"`
	// Failed lists the deletions that did not.
	Failed []DeletionFailure `json:"failed,omitempty"`
}

// DeletionQueue accumulates delete candidates across all asset types during a
// run. It supports concurrent append from in-flight type exports; the drain
// happens once, after every type's import pass has finished, so a deletion can
// never break a forward reference another type's import still needs.
type DeletionQueue struct {
	mu    sync.Mutex
	items []Deletion
}

// NewDeletionQueue creates an empty queue.
func NewDeletionQueue() *DeletionQueue {
	return &DeletionQueue{}
}

// Add appends delete candidates. Safe for concurrent use.
func (q *DeletionQueue) Add(items ...Deletion) {
	if len(items) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, items...)
	q.mu.Unlock()
}

// Len returns the number of queued deletions.
func (q *DeletionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain executes every queued deletion against the downstream catalog and
// empties the queue. Each deletion is independent; one failure does not stop
// the rest.
func (q *DeletionQueue) Drain(ctx context.Context, deleter Deleter, logger *zap.Logger) DeletionResult {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()

	var res DeletionResult
	for _, d := range items {
		if err := deleter.DeleteEntity(ctx, d.EntityType, d.ExternalID, d.Scope); err != nil {
			res.Failed = append(res.Failed, DeletionFailure{Deletion: d, Error: err.Error()})
			logger.Warn("Downstream deletion failed",
				zap.String("type", d.EntityType),
				zap.String("external_id", d.ExternalID),
				zap.String("scope", d.Scope),
				zap.Error(err))
			continue
		}
		res.Deleted++
		res.Succeeded = append(res.Succeeded, d)
	}

	if len(items) > 0 {
		logger.Info("Deferred deletions drained",
			zap.Int("queued", len(items)),
			zap.Int("deleted", res.Deleted),
			zap.Int("failed", len(res.Failed)))
	}

	return res
}
