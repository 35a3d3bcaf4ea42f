// Package detector implements the MEV pattern detector: it decodes DEX
// calldata, screens ordered batches for sandwich, front-run, and
// arbitrage patterns, and vetoes a batch when a confirmed high-severity
// alert is raised (spec.md §4.3).
package detector

import (
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mevshield/shield/types"
)

// patternDetector is the capability set every pattern detector
// implements (spec.md §4.3: "polymorphic over {detect(txs) → [Alert],
// pattern_type(), confidence_threshold()}").
type patternDetector interface {
	detect(txs []*types.Transaction) []Alert
	patternType() PatternType
	confidenceThreshold() float64
}

// Result is the aggregate outcome of AnalyzeBatch (spec.md §4.3
// "analyze_batch").
type Result struct {
	Alerts  []Alert
	MEVFree bool
}

// Detector is the MEV pattern detector component. It owns its
// transaction history ring exclusively (spec.md §3 "Ownership").
type Detector struct {
	cfg       Config
	detectors []patternDetector
	hist      *history
	nowFn     func() time.Time
}

// New constructs a Detector with the pattern detectors enabled by cfg.
func New(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Detector{
		cfg:   cfg,
		hist:  newHistory(cfg.MaxHistorySize, cfg.Window),
		nowFn: time.Now,
	}
	if cfg.SandwichEnabled {
		d.detectors = append(d.detectors, newSandwichDetector(cfg))
	}
	if cfg.FrontRunEnabled {
		d.detectors = append(d.detectors, newFrontRunDetector(cfg))
	}
	if cfg.ArbitrageEnabled {
		d.detectors = append(d.detectors, newArbitrageDetector(cfg))
	}
	return d, nil
}

func (d *Detector) now() time.Time { return d.nowFn() }

// Analyze runs every enabled pattern detector over a single transaction
// by wrapping it in a one-element batch (spec.md §4.3 "analyze").
func (d *Detector) Analyze(tx *types.Transaction) Result {
	return d.AnalyzeBatch([]*types.Transaction{tx})
}

// AnalyzeBatch runs each enabled pattern detector over txs, collects
// alerts, filters by the confidence threshold, and updates the history
// (spec.md §4.3 "analyze_batch"). A pattern detector error is logged and
// skipped; the remaining detectors still run (spec.md §4.3 "Failure").
func (d *Detector) AnalyzeBatch(txs []*types.Transaction) Result {
	now := d.now()
	d.hist.push(txs, now)

	var all []Alert
	for _, pd := range d.detectors {
		alerts := d.runDetector(pd, txs)
		all = append(all, alerts...)
	}

	filtered := all[:0]
	for _, a := range all {
		if a.Confidence >= d.cfg.ConfidenceThreshold {
			filtered = append(filtered, a)
		}
	}
	if len(filtered) > 0 {
		metricsAlert(len(filtered))
		log.Warn("detector: mev alerts raised", "count", len(filtered))
	}

	return Result{Alerts: filtered, MEVFree: len(filtered) == 0}
}

// runDetector recovers from a panicking pattern detector the same way
// the original treats a detector returning an error: log it and move on
// (spec.md §4.3 "A detector error is logged; other detectors continue").
func (d *Detector) runDetector(pd patternDetector, txs []*types.Transaction) (alerts []Alert) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("detector: pattern detector panicked", "pattern", pd.patternType(), "err", r)
			alerts = nil
		}
	}()
	return pd.detect(txs)
}

// ValidateBlockMEVFree reports whether block contains no confirmed
// High or Critical severity alert (spec.md §4.3 "validate_block_mev_free").
func (d *Detector) ValidateBlockMEVFree(block *types.Block) bool {
	result := d.AnalyzeBatch(block.Transactions)
	for _, a := range result.Alerts {
		if a.Severity == SeverityHigh || a.Severity == SeverityCritical {
			metricsVeto()
			return false
		}
	}
	return true
}

// HasVetoSeverity reports whether alerts contains a High or Critical
// entry — the veto condition process_batch applies (spec.md §6:
// "MEVDetected (High/Critical) ... veto batch").
func HasVetoSeverity(alerts []Alert) bool {
	for _, a := range alerts {
		if a.Severity == SeverityHigh || a.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
