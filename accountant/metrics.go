package accountant

import "github.com/ethereum/go-ethereum/metrics"

var (
	totalCapturedGauge = metrics.NewRegisteredGauge("accountant/pool/total_captured_wei", nil)
	availableGauge     = metrics.NewRegisteredGauge("accountant/pool/available_wei", nil)
	reservedGasGauge   = metrics.NewRegisteredGauge("accountant/pool/reserved_gas_wei", nil)
	epochGauge         = metrics.NewRegisteredGauge("accountant/pool/epoch", nil)
	captureMeter       = metrics.NewRegisteredMeter("accountant/capture/calls", nil)
	distributeMeter    = metrics.NewRegisteredMeter("accountant/distribute/success", nil)
	payoutFailedMeter  = metrics.NewRegisteredMeter("accountant/distribute/payout_failed", nil)
)

func metricsPoolState(totalCaptured, available, reservedGas int64, epoch uint64) {
	totalCapturedGauge.Update(totalCaptured)
	availableGauge.Update(available)
	reservedGasGauge.Update(reservedGas)
	epochGauge.Update(int64(epoch))
}

func metricsCaptured()         { captureMeter.Mark(1) }
func metricsDistributed(n int) { distributeMeter.Mark(int64(n)) }
func metricsPayoutFailed(n int) {
	if n > 0 {
		payoutFailedMeter.Mark(int64(n))
	}
}
