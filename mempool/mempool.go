// Package mempool implements the encrypted mempool: threshold-AEAD
// encryption of submitted transactions, time-locked release, and
// decryption gated on a quorum of validator shares (spec.md §4.1).
package mempool

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/mevshield/shield/types"
	"github.com/mevshield/shield/validatorset"
)

// Time-lock deltas by transaction kind (spec.md §4.1).
const (
	deltaTransfer     = 5 * time.Second
	deltaDefault      = 10 * time.Second
	deltaContractCall = 15 * time.Second

	// defaultExpiry is how long an entry may sit in the mempool before
	// the cleanup task evicts it regardless of state (spec.md §3, §4.1).
	defaultExpiry = time.Hour
)

// Config bounds the mempool's behavior (spec.md §6 configuration).
type Config struct {
	MaxPoolSize       int
	MinimumAge        time.Duration
	EncryptionTimeout time.Duration
	CleanupInterval   time.Duration
	ShareFanout       int // max concurrent RequestShare calls
}

// DefaultConfig returns spec.md's stated defaults.
func DefaultConfig() Config {
	return Config{
		MaxPoolSize:       50_000,
		MinimumAge:        5 * time.Second,
		EncryptionTimeout: 30 * time.Second,
		CleanupInterval:   5 * time.Minute,
		ShareFanout:       8,
	}
}

// Mempool is the encrypted mempool component: it owns the ready queue
// and the decryption-share cache exclusively (spec.md §3 "Ownership").
type Mempool struct {
	cfg        Config
	validators validatorset.ValidatorSet
	queue      *readyQueue
	shares     *shareCache

	readyFeed event.Feed // fires common.Hash of a newly-submitted entry

	// nowFn stands in for time.Now so tests can exercise time-lock and
	// age gating without sleeping through the real (multi-second)
	// deltas mandated by spec.md §4.1.
	nowFn func() time.Time

	cancel context.CancelFunc
}

// New constructs a Mempool bound to the given validator set and starts
// its background cleanup task.
func New(cfg Config, validators validatorset.ValidatorSet) *Mempool {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Mempool{
		cfg:        cfg,
		validators: validators,
		queue:      newReadyQueue(),
		shares:     newShareCache(),
		nowFn:      time.Now,
		cancel:     cancel,
	}
	go m.cleanupLoop(ctx)
	return m
}

func (m *Mempool) now() time.Time { return m.nowFn() }

// Close stops the background cleanup task.
func (m *Mempool) Close() {
	m.cancel()
}

// SubscribeReady returns a subscription delivering the id of every
// transaction accepted by Encrypt, for downstream pipelining
// (spec.md §5 eventing — modeled on miner/miner_preconf.go's
// preconfTxRequestSub).
func (m *Mempool) SubscribeReady(ch chan<- common.Hash) event.Subscription {
	return m.readyFeed.Subscribe(ch)
}

func timeLockDelta(kind types.TxKind) time.Duration {
	switch kind {
	case types.KindTransfer:
		return deltaTransfer
	case types.KindContractCall:
		return deltaContractCall
	default:
		return deltaDefault
	}
}

// Encrypt validates tx, threshold-encrypts it, and stores the result
// (spec.md §4.1 "encrypt").
func (m *Mempool) Encrypt(ctx context.Context, tx *types.Transaction) (*types.EncryptedTransaction, error) {
	start := time.Now()
	defer metricsEncryptDuration(start)

	ctx, cancel := context.WithTimeout(ctx, m.cfg.EncryptionTimeout)
	defer cancel()

	if err := tx.Validate(); err != nil {
		metricsInvalid()
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if m.queue.Len() >= m.cfg.MaxPoolSize {
		metricsFull()
		return nil, ErrFull
	}

	id, err := tx.Hash()
	if err != nil {
		metricsInvalid()
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	plaintext, err := tx.Encode()
	if err != nil {
		metricsInvalid()
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	secret, err := rand.Int(rand.Reader, fieldPrime)
	if err != nil {
		return nil, fmt.Errorf("mempool: secret generation failed: %w", err)
	}
	ciphertext, err := aeadEncrypt(secret.Bytes(), plaintext)
	if err != nil {
		return nil, fmt.Errorf("mempool: encryption failed: %w", err)
	}

	threshold, total := int(m.validators.Threshold()), int(m.validators.Total())
	dealt, err := splitSecret(secret, threshold, total)
	if err != nil {
		return nil, fmt.Errorf("mempool: share split failed: %w", err)
	}
	if seeder, ok := m.validators.(validatorset.Seeder); ok {
		if err := seeder.Seed(ctx, id, dealt); err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return nil, ErrTimeout
			}
			return nil, fmt.Errorf("mempool: share dealing failed: %w", err)
		}
	}
	if ctx.Err() == context.DeadlineExceeded {
		return nil, ErrTimeout
	}

	now := m.now()
	enc := &types.EncryptedTransaction{
		ID:          id,
		Ciphertext:  ciphertext,
		SubmittedAt: now,
		TimeLock: &types.TimeLock{
			UnlockAt:  now.Add(timeLockDelta(tx.Kind())),
			CreatedAt: now,
		},
		Priority: types.PriorityBandFor(tx.GasPrice),
		GasPrice: tx.GasPrice,
		ChainID:  tx.ChainID,
	}
	m.queue.Add(enc)
	metricsPoolSize(m.queue.Len())
	metricsEncrypted()
	log.Trace("mempool: encrypted", "tx", id.Hex(), "priority", enc.Priority)

	m.readyFeed.Send(id)
	return enc, nil
}

// Ready returns every entry eligible for release as of now, in
// priority/age order (spec.md §4.1 "ready").
func (m *Mempool) Ready(blockHeight uint64) []*types.EncryptedTransaction {
	return m.queue.Ready(m.now(), m.cfg.MinimumAge)
}

// CollectShares gathers decryption shares for (txID, blockHeight),
// reusing cached shares and requesting only the missing ones, stopping
// once the threshold is reached or ctx is done (spec.md §4.1
// "collect_shares", idempotent; SPEC_FULL.md §4 per-height caching).
func (m *Mempool) CollectShares(ctx context.Context, txID common.Hash, blockHeight uint64) (map[uint32][]byte, error) {
	start := time.Now()
	defer metricsShareCollectDuration(start)

	threshold := int(m.validators.Threshold())
	pubKeys := m.validators.GetPublicKeys()

	cached := m.shares.get(txID, blockHeight)
	valid := make(map[uint32][]byte, threshold)
	for idx, s := range cached {
		valid[idx] = s.ShareBytes
	}
	if len(valid) >= threshold {
		return valid, nil
	}

	missing := make([]uint32, 0, len(pubKeys))
	for idx := range pubKeys {
		vidx := uint32(idx)
		if _, have := cached[vidx]; !have {
			missing = append(missing, vidx)
		}
	}

	fanoutCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(fanoutCtx)
	g.SetLimit(m.cfg.ShareFanout)

	results := make(chan *validatorset.Share, len(missing))
	for _, vidx := range missing {
		vidx := vidx
		g.Go(func() error {
			share, err := m.validators.RequestShare(gctx, vidx, txID)
			if err != nil {
				log.Debug("mempool: share request failed", "validator", vidx, "tx", txID.Hex(), "err", err)
				return nil // a missing share is not fatal; just doesn't count
			}
			if int(vidx) >= len(pubKeys) || !validatorset.VerifyShareSignature(pubKeys[vidx], txID, share) {
				log.Warn("mempool: share signature invalid", "validator", vidx, "tx", txID.Hex())
				return nil
			}
			select {
			case results <- share:
			case <-gctx.Done():
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

collectLoop:
	for len(valid) < threshold {
		select {
		case share, ok := <-results:
			if !ok {
				break collectLoop
			}
			m.shares.put(txID, blockHeight, share.ValidatorIndex, share)
			valid[share.ValidatorIndex] = share.ShareBytes
		case <-done:
			// Fan-out finished; drain whatever is already buffered.
			for {
				select {
				case share := <-results:
					m.shares.put(txID, blockHeight, share.ValidatorIndex, share)
					valid[share.ValidatorIndex] = share.ShareBytes
				default:
					break collectLoop
				}
			}
		case <-fanoutCtx.Done():
			break collectLoop
		}
	}

	if len(valid) < threshold {
		metricsInsufficientShares()
		return valid, &InsufficientSharesError{Need: uint32(threshold), Got: uint32(len(valid))}
	}
	return valid, nil
}

// Decrypt releases the plaintext transaction for enc once a quorum of
// shares is available (spec.md §4.1 "decrypt").
func (m *Mempool) Decrypt(ctx context.Context, txID common.Hash, blockHeight uint64) (*types.Transaction, error) {
	enc, ok := m.queue.Get(txID)
	if !ok {
		return nil, ErrUnknownTransaction
	}
	now := m.now()
	if !enc.TimeLock.Elapsed(now) || enc.Age(now) < m.cfg.MinimumAge {
		return nil, ErrNotReady
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, m.cfg.EncryptionTimeout)
	defer cancel()

	points, err := m.CollectShares(timeoutCtx, txID, blockHeight)
	var insufficient *InsufficientSharesError
	if err != nil {
		if ok := asInsufficientShares(err, &insufficient); ok {
			return nil, insufficient
		}
		return nil, err
	}

	secret := combineShares(points)
	plaintext, err := aeadDecrypt(secret.Bytes(), enc.Ciphertext)
	if err != nil {
		metricsCryptoError()
		m.queue.Remove(txID)
		m.shares.drop(txID)
		log.Error("mempool: ciphertext authentication failed, dropping transaction", "tx", txID.Hex())
		return nil, ErrCryptoError
	}

	tx, err := decodeTransaction(plaintext)
	if err != nil {
		metricsCryptoError()
		m.queue.Remove(txID)
		m.shares.drop(txID)
		log.Error("mempool: decrypted payload failed to decode, dropping transaction", "tx", txID.Hex(), "err", err)
		return nil, fmt.Errorf("%w: %v", ErrCryptoError, err)
	}
	tx.SubmittedAt = enc.SubmittedAt

	m.queue.Remove(txID)
	m.shares.drop(txID)
	metricsPoolSize(m.queue.Len())
	metricsDecrypted()
	log.Trace("mempool: decrypted", "tx", txID.Hex())
	return tx, nil
}

func asInsufficientShares(err error, target **InsufficientSharesError) bool {
	if ise, ok := err.(*InsufficientSharesError); ok {
		*target = ise
		return true
	}
	return false
}

func (m *Mempool) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runCleanup()
		}
	}
}

// runCleanup evicts entries older than defaultExpiry, logging the two
// distinct cases surfaced from the original implementation
// (SPEC_FULL.md §4): a time-locked entry evicted before its time-lock
// elapsed indicates a misconfigured clock and is logged at Warn.
func (m *Mempool) runCleanup() {
	now := m.now()
	evicted := m.queue.EvictOlderThan(now, defaultExpiry)
	for _, enc := range evicted {
		m.shares.drop(enc.ID)
		if enc.TimeLock != nil && !enc.TimeLock.Elapsed(now) {
			log.Warn("mempool: evicted while still time-locked", "tx", enc.ID.Hex())
		} else {
			log.Debug("mempool: expired before release", "tx", enc.ID.Hex())
		}
	}
	if len(evicted) > 0 {
		metricsEvicted(len(evicted))
		metricsPoolSize(m.queue.Len())
	}
}

// decodeTransaction reverses Transaction.Encode for the plaintext
// recovered after share combination.
func decodeTransaction(plaintext []byte) (*types.Transaction, error) {
	return types.DecodeTransaction(plaintext)
}
