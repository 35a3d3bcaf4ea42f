package types

import (
	"encoding/binary"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Block is the ordered batch the detector screens and the accountant
// captures value from (spec.md §3).
type Block struct {
	Number       uint64
	ParentHash   common.Hash
	Timestamp    time.Time
	BaseFee      *uint256.Int
	Transactions []*Transaction
}

// Hash returns a content hash over the block's header fields and its
// transactions' own hashes. Block production and consensus are out of
// this core's scope (spec.md §1); this identifier exists only so the
// shield boundary layer can report a block_hash in status responses.
func (b *Block) Hash() (common.Hash, error) {
	buf := make([]byte, 0, 8+len(b.ParentHash)+8+32*len(b.Transactions))
	var numBytes [8]byte
	binary.BigEndian.PutUint64(numBytes[:], b.Number)
	buf = append(buf, numBytes[:]...)
	buf = append(buf, b.ParentHash[:]...)
	var tsBytes [8]byte
	binary.BigEndian.PutUint64(tsBytes[:], uint64(b.Timestamp.Unix()))
	buf = append(buf, tsBytes[:]...)
	for _, tx := range b.Transactions {
		h, err := tx.Hash()
		if err != nil {
			return common.Hash{}, err
		}
		buf = append(buf, h[:]...)
	}
	return crypto.Keccak256Hash(buf), nil
}

// MEVData carries the value the block builder is known to have
// extracted or paid out, fed into the accountant's capture step
// alongside the block itself (spec.md §4.4, §6).
type MEVData struct {
	ExtractedValue *uint256.Int
	BuilderPayment *uint256.Int
	// GasUsed maps each transaction hash in the block to the gas it
	// consumed, since the core does not execute transactions itself.
	GasUsed map[common.Hash]uint64
}
