package mempool

import (
	"time"

	"github.com/ethereum/go-ethereum/metrics"
)

// metrics, one file per component following preconf/metrics.go's shape:
// package-level registered gauges/meters/timers plus small
// Metrics<Verb> update helpers called from the hot path.
var (
	poolSizeGauge       = metrics.NewRegisteredGauge("mempool/pool/size", nil)
	encryptedMeter      = metrics.NewRegisteredMeter("mempool/encrypt/success", nil)
	fullMeter           = metrics.NewRegisteredMeter("mempool/encrypt/full", nil)
	invalidMeter        = metrics.NewRegisteredMeter("mempool/encrypt/invalid", nil)
	decryptedMeter      = metrics.NewRegisteredMeter("mempool/decrypt/success", nil)
	insufficientMeter   = metrics.NewRegisteredMeter("mempool/decrypt/insufficient_shares", nil)
	cryptoErrorMeter    = metrics.NewRegisteredMeter("mempool/decrypt/crypto_error", nil)
	evictedMeter        = metrics.NewRegisteredMeter("mempool/cleanup/evicted", nil)
	encryptTimer        = metrics.NewRegisteredTimer("mempool/encrypt/duration", nil)
	shareCollectTimer   = metrics.NewRegisteredTimer("mempool/shares/collect_duration", nil)
)

func metricsPoolSize(n int)            { poolSizeGauge.Update(int64(n)) }
func metricsEncrypted()                { encryptedMeter.Mark(1) }
func metricsFull()                     { fullMeter.Mark(1) }
func metricsInvalid()                  { invalidMeter.Mark(1) }
func metricsDecrypted()                { decryptedMeter.Mark(1) }
func metricsInsufficientShares()       { insufficientMeter.Mark(1) }
func metricsCryptoError()              { cryptoErrorMeter.Mark(1) }
func metricsEvicted(n int)             { evictedMeter.Mark(int64(n)) }
func metricsEncryptDuration(start time.Time) { encryptTimer.Update(time.Since(start)) }
func metricsShareCollectDuration(start time.Time) { shareCollectTimer.Update(time.Since(start)) }
