package detector

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/mevshield/shield/types"
)

// ArbitrageDetector finds same-originator DEX operation chains that
// return to the starting token at a profit within a bounded number of
// entries (spec.md §4.3 "Arbitrage"). The original source leaves this
// pattern as an unimplemented stub; this implementation follows
// spec.md's formula directly. Transaction carries no block height, so
// "execution confined to ≤ 3 blocks" is approximated by position span
// within the ordered batch/history, which is monotonic in block height
// for any one originator's submissions.
type ArbitrageDetector struct {
	cfg Config
}

func newArbitrageDetector(cfg Config) *ArbitrageDetector { return &ArbitrageDetector{cfg: cfg} }

func (d *ArbitrageDetector) patternType() PatternType     { return PatternArbitrage }
func (d *ArbitrageDetector) confidenceThreshold() float64 { return d.cfg.ConfidenceThreshold }

func (d *ArbitrageDetector) detect(txs []*types.Transaction) []Alert {
	type step struct {
		tx  *types.Transaction
		op  types.DEXOperation
		idx int
	}
	byOriginator := make(map[common.Address][]step)
	for i, tx := range txs {
		op, err := DecodeOperation(tx)
		if err != nil {
			continue
		}
		byOriginator[tx.Originator] = append(byOriginator[tx.Originator], step{tx: tx, op: op, idx: i})
	}

	var alerts []Alert
	for _, steps := range byOriginator {
		if len(steps) < 2 {
			continue
		}
		for i := 0; i < len(steps); i++ {
			for j := i + 1; j < len(steps); j++ {
				span := uint64(steps[j].idx - steps[i].idx)
				if span > d.cfg.ArbitrageMaxBlocks {
					break
				}
				first, last := steps[i], steps[j]
				if first.op.TokenIn != last.op.TokenOut {
					continue // not a closed cycle back to the starting asset
				}
				if last.op.AmountOut == nil || first.op.AmountIn == nil {
					continue
				}
				if last.op.AmountOut.Cmp(first.op.AmountIn) <= 0 {
					continue
				}
				profit := new(uint256.Int).Sub(last.op.AmountOut, first.op.AmountIn)
				if profit.Cmp(d.cfg.ArbitrageMinProfit) < 0 {
					continue
				}

				confidence := d.confidence(profit, span)
				ids := make([]common.Hash, 0, j-i+1)
				for k := i; k <= j; k++ {
					id, err := steps[k].tx.Hash()
					if err != nil {
						continue
					}
					ids = append(ids, id)
				}
				alerts = append(alerts, Alert{
					PatternType:   PatternArbitrage,
					Confidence:    confidence,
					AffectedTxIDs: ids,
					Evidence: ArbitrageEvidence{
						CycleTxs:  ids,
						Profit:    profit,
						BlockSpan: span,
					},
					Timestamp: last.tx.SubmittedAt,
					Severity:  severityFor(confidence),
				})
			}
		}
	}
	return alerts
}

// confidence scales with profit size and inversely with the span
// consumed, within [0.7, 1.0] — spec.md gives no explicit formula for
// Arbitrage confidence (only Sandwich's), so this mirrors the
// confidence_threshold default the original source assigns arbitrage
// (0.7) as the floor.
func (d *ArbitrageDetector) confidence(profit *uint256.Int, span uint64) float64 {
	const floor = 0.7
	confidence := floor
	if profit.Cmp(new(uint256.Int).Mul(d.cfg.ArbitrageMinProfit, uint256.NewInt(2))) >= 0 {
		confidence += 0.15
	}
	if span <= 1 {
		confidence += 0.15
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
