// Package ordering implements the fair-ordering engine: it commits
// encrypted transactions to a deterministic hash, evaluates a
// verifiable delay function over each commitment, and sorts by VDF
// output so the final order is fixed before any ciphertext is revealed
// (spec.md §4.2).
package ordering

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/mevshield/shield/types"
)

// Config bounds batch dispatch behavior (spec.md §6 configuration).
type Config struct {
	BatchSize          int
	ComputationTimeout time.Duration
	ComputeFanout      int // max concurrent VDF evaluations
	CacheBytes         int
	dispatchInterval   time.Duration // unexported: how often the loop polls for a timeout trigger
}

// DefaultConfig returns reasonable operating parameters; vdf_difficulty
// and the modulus are supplied separately via Params since they govern
// cryptographic cost, not batching policy.
func DefaultConfig() Config {
	return Config{
		BatchSize:          32,
		ComputationTimeout: 2 * time.Second,
		ComputeFanout:      8,
		CacheBytes:         32 * 1024 * 1024,
		dispatchInterval:   50 * time.Millisecond,
	}
}

// Batch is one dispatched, ordered group of encrypted transactions,
// delivered to subscribers of SubscribeBatches.
type Batch struct {
	BlockHeight uint64
	Ordered     []*types.EncryptedTransaction
}

// Engine is the ordering engine component; it exclusively owns the VDF
// output cache and the pending-task queue (spec.md §3 "Ownership").
type Engine struct {
	params Params
	cfg    Config

	queue *batchQueue
	cache *outputCache

	batchFeed event.Feed

	nextHeight func() uint64
	cancel     context.CancelFunc
}

// New constructs an Engine and starts its batch-dispatch loop.
// heightFn supplies the block height a dispatched batch is ordered
// for; callers without a real chain can pass a monotonic counter.
func New(params Params, cfg Config, heightFn func() uint64) (*Engine, error) {
	if params.Difficulty == 0 || params.Modulus == nil {
		return nil, ErrInvalidParams
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.dispatchInterval <= 0 {
		cfg.dispatchInterval = DefaultConfig().dispatchInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		params:     params,
		cfg:        cfg,
		queue:      newBatchQueue(),
		cache:      newOutputCache(cfg.CacheBytes),
		nextHeight: heightFn,
		cancel:     cancel,
	}
	go e.dispatchLoop(ctx)
	return e, nil
}

// Close stops the batch-dispatch loop.
func (e *Engine) Close() { e.cancel() }

// SubscribeBatches returns a subscription delivering every dispatched,
// ordered batch.
func (e *Engine) SubscribeBatches(ch chan<- *Batch) event.Subscription {
	return e.batchFeed.Subscribe(ch)
}

// Commit computes enc's OrderingCommitment and priority score
// (spec.md §4.2 "commit").
func (e *Engine) Commit(enc *types.EncryptedTransaction, now time.Time) (*types.OrderingCommitment, int32) {
	return Commit(enc, now)
}

// EnqueueCommit commits enc and queues it for the next batch dispatch
// (spec.md §4.2 "accepts commits asynchronously").
func (e *Engine) EnqueueCommit(enc *types.EncryptedTransaction, now time.Time) *types.OrderingCommitment {
	commitment, score := e.Commit(enc, now)
	e.queue.Add(&pendingTask{enc: enc, commitment: commitment, score: score, addedAt: now})
	metricsPending(e.queue.Len())
	return commitment
}

func (e *Engine) dispatchLoop(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.dispatchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if e.queue.Len() >= e.cfg.BatchSize || e.queue.OldestAge(time.Now()) >= e.cfg.ComputationTimeout {
				e.dispatch(ctx)
			}
		}
	}
}

func (e *Engine) dispatch(ctx context.Context) {
	tasks := e.queue.Drain()
	if len(tasks) == 0 {
		return
	}
	metricsPending(0)

	height := e.nextHeight()
	taskCtx, cancel := context.WithTimeout(ctx, e.cfg.ComputationTimeout)
	defer cancel()

	ordered, err := e.orderTasks(taskCtx, tasks, height)
	if err != nil {
		log.Warn("ordering: batch dispatch failed", "err", err, "tasks", len(tasks))
		metricsTaskFailed()
		return
	}
	metricsBatchDispatched(len(ordered))
	e.batchFeed.Send(&Batch{BlockHeight: height, Ordered: ordered})
}

// Order computes one VDFOutput per entry and returns the entries
// sorted by VDFOutput.y ascending, submission time ascending on ties
// (spec.md §4.2 "order"). Output is a permutation of the input; a
// per-task computation failure drops that entry rather than failing
// the whole call (spec.md §4.2 "Failure").
func (e *Engine) Order(ctx context.Context, encs []*types.EncryptedTransaction, blockHeight uint64) ([]*types.EncryptedTransaction, error) {
	now := time.Now()
	tasks := make([]*pendingTask, len(encs))
	for i, enc := range encs {
		commitment, score := e.Commit(enc, now)
		tasks[i] = &pendingTask{enc: enc, commitment: commitment, score: score, addedAt: now}
	}
	return e.orderTasks(ctx, tasks, blockHeight)
}

type orderedEntry struct {
	enc *types.EncryptedTransaction
	y   []byte // big-endian magnitude, for deterministic comparison
}

func (e *Engine) orderTasks(ctx context.Context, tasks []*pendingTask, blockHeight uint64) ([]*types.EncryptedTransaction, error) {
	start := time.Now()
	defer metricsComputeDuration(start)

	entries := make([]orderedEntry, 0, len(tasks))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.ComputeFanout)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			out, err := e.vdfFor(gctx, task.commitment, blockHeight)
			if err != nil {
				log.Warn("ordering: vdf computation failed, dropping commitment", "tx", task.commitment.TxID.Hex(), "err", err)
				metricsTaskFailed()
				return nil
			}
			mu.Lock()
			entries = append(entries, orderedEntry{enc: task.enc, y: out.Y.Bytes()})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		ci := compareMagnitude(entries[i].y, entries[j].y)
		if ci != 0 {
			return ci < 0
		}
		return entries[i].enc.SubmittedAt.Before(entries[j].enc.SubmittedAt)
	})

	out := make([]*types.EncryptedTransaction, len(entries))
	for i, entry := range entries {
		out[i] = entry.enc
	}
	return out, nil
}

func (e *Engine) vdfFor(ctx context.Context, commitment *types.OrderingCommitment, blockHeight uint64) (*types.VDFOutput, error) {
	if cached, ok := e.cache.get(commitment.CommitmentHash, blockHeight); ok {
		return cached, nil
	}
	x := commitmentX(commitment)
	out, err := computeVDF(ctx, x, e.params)
	if err != nil {
		return nil, err
	}
	e.cache.put(commitment.CommitmentHash, blockHeight, out)
	return out, nil
}

// Verify recomputes each checkpoint from commitment and checks it
// against proof (spec.md §4.2 "verify").
func (e *Engine) Verify(ctx context.Context, commitment *types.OrderingCommitment, proof types.VDFProof) (bool, error) {
	start := time.Now()
	defer metricsVerifyDuration(start)

	x := commitmentX(commitment)
	ok, err := verifyVDF(ctx, x, e.params, proof)
	if err != nil {
		return false, err
	}
	if !ok {
		metricsVerifyFailed()
	}
	return ok, nil
}

func compareMagnitude(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
