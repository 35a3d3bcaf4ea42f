// Package shield wires the encrypted mempool, ordering engine, MEV
// detector, and redistribution accountant into the single stable
// in-process API described in spec.md §6: submit_protected, status,
// process_batch, capture, and pending_rewards.
package shield

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/mevshield/shield/accountant"
	"github.com/mevshield/shield/detector"
	"github.com/mevshield/shield/mempool"
	"github.com/mevshield/shield/ordering"
	"github.com/mevshield/shield/types"
	"github.com/mevshield/shield/validatorset"
)

// Shield is the assembled core: one mempool, one ordering engine, one
// detector, and one accountant, plus the transaction_id ↔ record
// bookkeeping the external API needs (spec.md §6). It owns none of its
// components' internal state directly (spec.md §3 "Ownership" — each
// component owns its own container); Shield only owns the id registry.
type Shield struct {
	mempool    *mempool.Mempool
	ordering   *ordering.Engine
	detector   *detector.Detector
	accountant *accountant.Accountant

	mu      sync.Mutex
	records map[uuid.UUID]*record
}

// New assembles a Shield from already-constructed components. The
// validator set, payment processor, and VDF parameters are collaborators
// specified only at the boundary the core sees (spec.md §6); callers
// provide concrete implementations.
func New(
	validators validatorset.ValidatorSet,
	processor accountant.PaymentProcessor,
	vdfParams ordering.Params,
	mempoolCfg mempool.Config,
	orderingCfg ordering.Config,
	detectorCfg detector.Config,
	accountantCfg accountant.Config,
	heightFn func() uint64,
) (*Shield, error) {
	mp := mempool.New(mempoolCfg, validators)

	oe, err := ordering.New(vdfParams, orderingCfg, heightFn)
	if err != nil {
		mp.Close()
		return nil, fmt.Errorf("shield: ordering engine: %w", err)
	}

	det, err := detector.New(detectorCfg)
	if err != nil {
		mp.Close()
		oe.Close()
		return nil, fmt.Errorf("shield: detector: %w", err)
	}

	acc, err := accountant.New(accountantCfg, processor)
	if err != nil {
		mp.Close()
		oe.Close()
		return nil, fmt.Errorf("shield: accountant: %w", err)
	}

	return &Shield{
		mempool:    mp,
		ordering:   oe,
		detector:   det,
		accountant: acc,
		records:    make(map[uuid.UUID]*record),
	}, nil
}

// Close releases every component's background resources.
func (s *Shield) Close() {
	s.mempool.Close()
	s.ordering.Close()
}

// SubmitProtected encrypts tx and registers it under a fresh
// transaction_id for status tracking (spec.md §6 "submit_protected").
func (s *Shield) SubmitProtected(ctx context.Context, tx *types.Transaction, protection ProtectionLevel) (*SubmitResult, error) {
	originalHash, err := tx.Hash()
	if err != nil {
		return nil, fmt.Errorf("shield: hash transaction: %w", err)
	}

	enc, err := s.mempool.Encrypt(ctx, tx)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	s.mu.Lock()
	s.records[id] = &record{
		originalHash: originalHash,
		encryptedID:  enc.ID,
		protection:   protection,
		status:       StatusEncrypted,
	}
	s.mu.Unlock()

	log.Info("shield: submitted", "id", id, "tx", originalHash.Hex(), "protection", protection)

	return &SubmitResult{
		TransactionID:     id,
		OriginalHash:      originalHash,
		EncryptedHash:     enc.ID,
		ExecutionSchedule: enc.TimeLock.UnlockAt,
		EstimatedSavings:  estimatedSavings(tx, protection),
	}, nil
}

// estimatedSavings applies the protection level's savings heuristic to
// the transaction's declared gas spend.
func estimatedSavings(tx *types.Transaction, protection ProtectionLevel) *uint256.Int {
	if tx.GasPrice == nil {
		return uint256.NewInt(0)
	}
	spend := new(uint256.Int).Mul(tx.GasPrice, uint256.NewInt(tx.GasLimit))
	bps := savingsBasisPoints[protection]
	out := new(uint256.Int).Mul(spend, uint256.NewInt(bps))
	return out.Div(out, uint256.NewInt(10_000))
}

// Status reports a tracked transaction's lifecycle stage (spec.md §6
// "status").
func (s *Shield) Status(id uuid.UUID) (*StatusResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return nil, ErrUnknownTransaction
	}
	return &StatusResult{
		Status:            r.status,
		BlockNumber:       r.blockNumber,
		BlockHash:         r.blockHash,
		ProtectionDetails: r.protection,
	}, nil
}

// ProcessBatch orders encs for blockHeight, decrypts each released
// entry, and screens the decrypted batch for MEV before returning it
// (spec.md §6 "process_batch"). A confirmed High/Critical alert vetoes
// the whole batch: *BatchMEVDetectedError carries the detector's result
// back to the caller with evidence, and no transaction in the batch is
// marked Ordered (spec.md §7 "MEVDetected ... veto batch, return to
// caller with evidence").
func (s *Shield) ProcessBatch(ctx context.Context, encs []*types.EncryptedTransaction, blockHeight uint64) ([]*types.Transaction, error) {
	ordered, err := s.ordering.Order(ctx, encs, blockHeight)
	if err != nil {
		return nil, fmt.Errorf("shield: order batch: %w", err)
	}

	decrypted := make([]*types.Transaction, 0, len(ordered))
	byHash := make(map[common.Hash]*types.Transaction, len(ordered))
	for _, enc := range ordered {
		tx, err := s.mempool.Decrypt(ctx, enc.ID, blockHeight)
		if err != nil {
			log.Warn("shield: decrypt failed during batch processing", "tx", enc.ID.Hex(), "err", err)
			continue
		}
		decrypted = append(decrypted, tx)
		byHash[enc.ID] = tx
	}

	result := s.detector.AnalyzeBatch(decrypted)
	if detector.HasVetoSeverity(result.Alerts) {
		s.markFailed(ordered)
		log.Warn("shield: batch vetoed by detector", "block", blockHeight, "alerts", len(result.Alerts))
		return nil, &BatchMEVDetectedError{Result: result}
	}

	s.markOrdered(ordered, blockHeight)
	return decrypted, nil
}

func (s *Shield) markOrdered(ordered []*types.EncryptedTransaction, blockHeight uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, enc := range ordered {
		for _, r := range s.records {
			if r.encryptedID == enc.ID {
				r.status = StatusOrdered
				height := blockHeight
				r.blockNumber = &height
			}
		}
	}
}

func (s *Shield) markFailed(ordered []*types.EncryptedTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, enc := range ordered {
		for _, r := range s.records {
			if r.encryptedID == enc.ID {
				r.status = StatusFailed
			}
		}
	}
}

// Capture feeds block and mevData into the accountant, then marks every
// tracked transaction in the block Executed (spec.md §6 "capture").
func (s *Shield) Capture(block *types.Block, mevData *types.MEVData) error {
	if err := s.accountant.Capture(block, mevData); err != nil {
		return err
	}
	if err := s.accountant.Observe(block, mevData); err != nil {
		return err
	}

	blockHash, err := block.Hash()
	if err != nil {
		return fmt.Errorf("shield: hash block: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range block.Transactions {
		originalHash, err := tx.Hash()
		if err != nil {
			continue
		}
		for _, r := range s.records {
			if r.originalHash == originalHash {
				r.status = StatusExecuted
				height := block.Number
				r.blockNumber = &height
				hash := blockHash
				r.blockHash = &hash
			}
		}
	}
	return nil
}

// PendingRewards reports address's estimated share of the accountant's
// currently available balance (spec.md §6 "pending_rewards").
func (s *Shield) PendingRewards(address common.Address) *uint256.Int {
	return s.accountant.Pending(address)
}

// Distribute triggers the accountant's periodic payout, if due.
func (s *Shield) Distribute(ctx context.Context) (*accountant.DistributionResult, error) {
	return s.accountant.Distribute(ctx)
}

// Ready returns the mempool entries eligible for release at blockHeight,
// for a caller driving EnqueueCommit/ProcessBatch itself.
func (s *Shield) Ready(blockHeight uint64) []*types.EncryptedTransaction {
	return s.mempool.Ready(blockHeight)
}

// EnqueueCommit commits enc into the ordering engine's pending batch
// (spec.md §4.2 "accepts commits asynchronously").
func (s *Shield) EnqueueCommit(enc *types.EncryptedTransaction) *types.OrderingCommitment {
	return s.ordering.EnqueueCommit(enc, time.Now())
}
