package mempool

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mevshield/shield/validatorset"
)

// shareCache caches decryption shares per (tx id, block height), so a
// share collected for a height that is later abandoned cannot leak
// into a retry at a new height (spec.md §4.1 collect_shares; the
// per-height keying is a behavior supplemented from
// original_source/src/encryption.rs, see SPEC_FULL.md §4).
type shareCache struct {
	mu      sync.Mutex
	byTx    map[common.Hash]map[uint64]map[uint32]*validatorset.Share
}

func newShareCache() *shareCache {
	return &shareCache{byTx: make(map[common.Hash]map[uint64]map[uint32]*validatorset.Share)}
}

func (c *shareCache) get(txID common.Hash, height uint64) map[uint32]*validatorset.Share {
	c.mu.Lock()
	defer c.mu.Unlock()
	byHeight, ok := c.byTx[txID]
	if !ok {
		return nil
	}
	shares, ok := byHeight[height]
	if !ok {
		return nil
	}
	out := make(map[uint32]*validatorset.Share, len(shares))
	for idx, s := range shares {
		out[idx] = s
	}
	return out
}

func (c *shareCache) put(txID common.Hash, height uint64, validatorIndex uint32, share *validatorset.Share) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byHeight, ok := c.byTx[txID]
	if !ok {
		byHeight = make(map[uint64]map[uint32]*validatorset.Share)
		c.byTx[txID] = byHeight
	}
	shares, ok := byHeight[height]
	if !ok {
		shares = make(map[uint32]*validatorset.Share)
		byHeight[height] = shares
	}
	shares[validatorIndex] = share
}

// drop removes every cached share for txID across all heights, called
// once the transaction leaves the mempool.
func (c *shareCache) drop(txID common.Hash) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byTx, txID)
}
