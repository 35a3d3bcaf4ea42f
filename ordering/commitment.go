package ordering

import (
	"math/big"
	"time"

	"github.com/mevshield/shield/types"
)

// Commit builds the deterministic OrderingCommitment for enc and its
// 32-bit priority score (spec.md §4.2 "commit").
func Commit(enc *types.EncryptedTransaction, now time.Time) (*types.OrderingCommitment, int32) {
	return types.NewOrderingCommitment(enc), priorityScore(enc, now)
}

// priorityScore implements spec.md §4.2's formula:
// min(gas_price in gwei, 1000) + band weight − min(age_seconds, 100).
func priorityScore(enc *types.EncryptedTransaction, now time.Time) int32 {
	gwei := new(big.Int).Div(enc.GasPrice.ToBig(), big.NewInt(1_000_000_000))
	gweiScore := clampInt32(gwei, 1000)

	age := int64(now.Sub(enc.SubmittedAt).Seconds())
	ageScore := age
	if ageScore > 100 {
		ageScore = 100
	}
	if ageScore < 0 {
		ageScore = 0
	}

	return gweiScore + enc.Priority.Score() - int32(ageScore)
}

func clampInt32(v *big.Int, max int64) int32 {
	if v.IsInt64() && v.Int64() < max {
		if v.Sign() < 0 {
			return 0
		}
		return int32(v.Int64())
	}
	return int32(max)
}

// commitmentX derives the VDF input x from a commitment hash, per
// spec.md §3 "x derived from the commitment hash".
func commitmentX(c *types.OrderingCommitment) *big.Int {
	return new(big.Int).SetBytes(c.CommitmentHash[:])
}
