package detector

import (
	"time"

	"github.com/mevshield/shield/types"
)

// history is the detector's bounded FIFO of recently seen transactions,
// retained within Config.Window (spec.md §4.3 "State") but, like the
// original source's Arc<RwLock<VecDeque<Transaction>>>, write-only —
// nothing currently reads it back for cross-batch matching. Eviction
// happens inline on every push rather than on a separate timer, since
// the detector is driven synchronously by analyze_batch calls.
type history struct {
	maxSize int
	window  time.Duration
	entries []*types.Transaction
}

func newHistory(maxSize int, window time.Duration) *history {
	return &history{maxSize: maxSize, window: window}
}

// push appends txs and evicts anything older than the window or beyond
// maxSize, oldest first.
func (h *history) push(txs []*types.Transaction, now time.Time) {
	h.entries = append(h.entries, txs...)

	cutoff := now.Add(-h.window)
	start := 0
	for start < len(h.entries) && h.entries[start].SubmittedAt.Before(cutoff) {
		start++
	}
	h.entries = h.entries[start:]

	if over := len(h.entries) - h.maxSize; over > 0 {
		h.entries = h.entries[over:]
	}
	metricsHistorySize(len(h.entries))
}

func (h *history) len() int { return len(h.entries) }
