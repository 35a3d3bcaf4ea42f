package ordering

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/mevshield/shield/types"
)

// pendingTask is one accepted commit awaiting batch dispatch.
type pendingTask struct {
	enc        *types.EncryptedTransaction
	commitment *types.OrderingCommitment
	score      int32
	addedAt    time.Time
}

// batchQueue accumulates commits until a batch is ready to dispatch,
// the way preconf.TimedTxSet accumulates transactions by arrival order
// (spec.md §4.2 "pending-task queue").
type batchQueue struct {
	mu    sync.Mutex
	byID  map[common.Hash]*pendingTask
	order []common.Hash
}

func newBatchQueue() *batchQueue {
	return &batchQueue{byID: make(map[common.Hash]*pendingTask)}
}

func (q *batchQueue) Add(task *pendingTask) {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := task.commitment.TxID
	if _, exists := q.byID[id]; !exists {
		q.order = append(q.order, id)
	}
	q.byID[id] = task
	log.Trace("ordering: commit queued", "tx", id.Hex(), "score", task.score)
}

func (q *batchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// Drain removes and returns every queued task in arrival order,
// clearing the queue for the next batch.
func (q *batchQueue) Drain() []*pendingTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*pendingTask, 0, len(q.order))
	for _, id := range q.order {
		if t, ok := q.byID[id]; ok {
			out = append(out, t)
		}
	}
	q.byID = make(map[common.Hash]*pendingTask)
	q.order = nil
	return out
}

// OldestAge reports how long the oldest queued task has waited, for
// the computation_timeout dispatch trigger.
func (q *batchQueue) OldestAge(now time.Time) time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.order) == 0 {
		return 0
	}
	oldest := q.byID[q.order[0]]
	if oldest == nil {
		return 0
	}
	return now.Sub(oldest.addedAt)
}
