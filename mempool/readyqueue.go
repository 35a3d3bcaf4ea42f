package mempool

import (
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mevshield/shield/types"
)

// readyQueue indexes encrypted transactions by id, the way
// preconf.FIFOTxSet indexes transactions by hash: a map for O(1)
// lookup/removal. No ordered slice is kept on insert; Ready builds and
// sorts a fresh candidate slice on every call, since which entries are
// eligible depends on time-lock and age, which change continuously
// while an entry waits.
type readyQueue struct {
	mu  sync.Mutex
	txs map[common.Hash]*types.EncryptedTransaction
}

func newReadyQueue() *readyQueue {
	return &readyQueue{txs: make(map[common.Hash]*types.EncryptedTransaction)}
}

func (q *readyQueue) Add(enc *types.EncryptedTransaction) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.txs[enc.ID] = enc
}

func (q *readyQueue) Get(id common.Hash) (*types.EncryptedTransaction, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	enc, ok := q.txs[id]
	return enc, ok
}

func (q *readyQueue) Remove(id common.Hash) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.txs, id)
}

func (q *readyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.txs)
}

// All returns every entry currently stored, in no particular order.
func (q *readyQueue) All() []*types.EncryptedTransaction {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*types.EncryptedTransaction, 0, len(q.txs))
	for _, enc := range q.txs {
		out = append(out, enc)
	}
	return out
}

// Ready returns every entry whose time-lock has elapsed and whose age
// is at least minimumAge as of now, sorted by priority descending,
// submission-time ascending (spec.md §4.1).
func (q *readyQueue) Ready(now time.Time, minimumAge time.Duration) []*types.EncryptedTransaction {
	q.mu.Lock()
	candidates := make([]*types.EncryptedTransaction, 0, len(q.txs))
	for _, enc := range q.txs {
		if enc.TimeLock.Elapsed(now) && enc.Age(now) >= minimumAge {
			candidates = append(candidates, enc)
		}
	}
	q.mu.Unlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].SubmittedAt.Before(candidates[j].SubmittedAt)
	})
	return candidates
}

// EvictOlderThan removes and returns every entry older than maxAge as
// of now, for the background cleanup task.
func (q *readyQueue) EvictOlderThan(now time.Time, maxAge time.Duration) []*types.EncryptedTransaction {
	q.mu.Lock()
	defer q.mu.Unlock()
	var evicted []*types.EncryptedTransaction
	for id, enc := range q.txs {
		if enc.Age(now) >= maxAge {
			evicted = append(evicted, enc)
			delete(q.txs, id)
		}
	}
	return evicted
}
