package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// VDFCheckpointCount is the fixed number of checkpoints a VDF proof
// carries, independent of difficulty (spec.md §4.2, supplemented from
// original_source/src/ordering.rs).
const VDFCheckpointCount = 10

// VDFProof carries the intermediate squaring checkpoints at steps
// T/10, 2T/10, ..., T, plus a digest binding (x, y, T) so verification
// cannot be satisfied by unrelated checkpoint values.
type VDFProof struct {
	Checkpoints [VDFCheckpointCount]*big.Int
	Digest      common.Hash
}

// VDFOutput is the result of evaluating the verifiable delay function
// over a commitment: y = x^(2^T) mod N, plus its proof (spec.md §3, §4.2).
type VDFOutput struct {
	X     *big.Int
	Y     *big.Int
	Proof VDFProof
}
