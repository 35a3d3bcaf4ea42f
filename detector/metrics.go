package detector

import "github.com/ethereum/go-ethereum/metrics"

var (
	historyGauge     = metrics.NewRegisteredGauge("detector/history/size", nil)
	alertMeter       = metrics.NewRegisteredMeter("detector/alerts/raised", nil)
	vetoMeter        = metrics.NewRegisteredMeter("detector/batches/vetoed", nil)
	decodeFailedMeter = metrics.NewRegisteredMeter("detector/decode/failed", nil)
)

func metricsHistorySize(n int)  { historyGauge.Update(int64(n)) }
func metricsAlert(n int)        { alertMeter.Mark(int64(n)) }
func metricsVeto()              { vetoMeter.Mark(1) }
func metricsDecodeFailed()      { decodeFailedMeter.Mark(1) }
