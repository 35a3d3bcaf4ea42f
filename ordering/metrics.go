package ordering

import (
	"time"

	"github.com/ethereum/go-ethereum/metrics"
)

var (
	pendingGauge       = metrics.NewRegisteredGauge("ordering/queue/pending", nil)
	batchDispatchMeter = metrics.NewRegisteredMeter("ordering/batch/dispatched", nil)
	taskFailedMeter    = metrics.NewRegisteredMeter("ordering/task/failed", nil)
	verifyFailedMeter  = metrics.NewRegisteredMeter("ordering/verify/failed", nil)
	computeTimer       = metrics.NewRegisteredTimer("ordering/vdf/compute_duration", nil)
	verifyTimer        = metrics.NewRegisteredTimer("ordering/vdf/verify_duration", nil)
)

func metricsPending(n int)                { pendingGauge.Update(int64(n)) }
func metricsBatchDispatched(n int)        { batchDispatchMeter.Mark(int64(n)) }
func metricsTaskFailed()                  { taskFailedMeter.Mark(1) }
func metricsVerifyFailed()                { verifyFailedMeter.Mark(1) }
func metricsComputeDuration(start time.Time) { computeTimer.Update(time.Since(start)) }
func metricsVerifyDuration(start time.Time)  { verifyTimer.Update(time.Since(start)) }
