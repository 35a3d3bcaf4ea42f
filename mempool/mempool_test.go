package mempool

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/mevshield/shield/types"
	"github.com/mevshield/shield/validatorset"
)

// droppingValidatorSet wraps *validatorset.Local and simulates
// validators that never respond, to exercise the InsufficientShares
// path distinctly from the post-combination CryptoError path.
type droppingValidatorSet struct {
	*validatorset.Local
	drop map[uint32]bool
}

func (d *droppingValidatorSet) RequestShare(ctx context.Context, validatorIndex uint32, txID common.Hash) (*validatorset.Share, error) {
	if d.drop[validatorIndex] {
		return nil, fmt.Errorf("validator %d unreachable", validatorIndex)
	}
	return d.Local.RequestShare(ctx, validatorIndex, txID)
}

// fakeClock lets tests cross the (multi-second, spec-fixed) time-lock
// deltas deterministically instead of sleeping through them.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock { return &fakeClock{t: time.Now()} }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CleanupInterval = time.Hour // don't let the background sweep interfere
	return cfg
}

func newTestMempool(cfg Config, validators validatorset.ValidatorSet) (*Mempool, *fakeClock) {
	m := New(cfg, validators)
	clock := newFakeClock()
	m.nowFn = clock.now
	return m, clock
}

func testTransaction() *types.Transaction {
	return &types.Transaction{
		Originator:  testAddr(1),
		Destination: testAddr(2),
		Value:       uint256.NewInt(1_000),
		GasLimit:    21_000,
		GasPrice:    uint256.NewInt(25_000_000_000), // 25 gwei -> Medium
		Nonce:       0,
		Data:        []byte{0xAB}, // ContractCall kind, 15s time-lock
		ChainID:     1,
	}
}

func testAddr(b byte) (a [20]byte) {
	a[19] = b
	return a
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	validators, err := validatorset.NewLocal(2, 3)
	require.NoError(t, err)
	m, clock := newTestMempool(testConfig(), validators)
	defer m.Close()

	tx := testTransaction()
	enc, err := m.Encrypt(context.Background(), tx)
	require.NoError(t, err)
	require.Equal(t, types.PriorityMedium, enc.Priority)

	_, err = m.Decrypt(context.Background(), enc.ID, 1)
	require.ErrorIs(t, err, ErrNotReady)

	clock.advance(deltaContractCall + time.Second)

	got, err := m.Decrypt(context.Background(), enc.ID, 1)
	require.NoError(t, err)
	require.Equal(t, tx.Originator, got.Originator)
	require.Equal(t, tx.Destination, got.Destination)
	require.Equal(t, tx.Nonce, got.Nonce)
	require.Equal(t, 0, tx.Value.Cmp(got.Value))
	require.Equal(t, 0, tx.GasPrice.Cmp(got.GasPrice))

	_, err = m.Decrypt(context.Background(), enc.ID, 1)
	require.ErrorIs(t, err, ErrUnknownTransaction)
}

func TestDecryptCryptoErrorOnByzantineShares(t *testing.T) {
	validators, err := validatorset.NewLocal(2, 3)
	require.NoError(t, err)
	validators.SetByzantine(0, true)
	validators.SetByzantine(1, true)
	m, clock := newTestMempool(testConfig(), validators)
	defer m.Close()

	tx := testTransaction()
	enc, err := m.Encrypt(context.Background(), tx)
	require.NoError(t, err)
	clock.advance(deltaContractCall + time.Second)

	_, err = m.Decrypt(context.Background(), enc.ID, 1)
	require.ErrorIs(t, err, ErrCryptoError)
}

func TestDecryptInsufficientShares(t *testing.T) {
	local, err := validatorset.NewLocal(3, 4)
	require.NoError(t, err)
	validators := &droppingValidatorSet{Local: local, drop: map[uint32]bool{2: true, 3: true}}
	cfg := testConfig()
	cfg.EncryptionTimeout = 50 * time.Millisecond
	m, clock := newTestMempool(cfg, validators)
	defer m.Close()

	tx := testTransaction()
	enc, err := m.Encrypt(context.Background(), tx)
	require.NoError(t, err)
	clock.advance(deltaContractCall + time.Second)

	_, err = m.Decrypt(context.Background(), enc.ID, 1)
	var insufficient *InsufficientSharesError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, uint32(3), insufficient.Need)
	require.Equal(t, uint32(2), insufficient.Got)
}

func TestEncryptRejectsInvalidTransaction(t *testing.T) {
	validators, err := validatorset.NewLocal(1, 1)
	require.NoError(t, err)
	m, _ := newTestMempool(testConfig(), validators)
	defer m.Close()

	tx := testTransaction()
	tx.Destination = [20]byte{}
	tx.Data = nil
	_, err = m.Encrypt(context.Background(), tx)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestEncryptRejectsWhenFull(t *testing.T) {
	validators, err := validatorset.NewLocal(1, 1)
	require.NoError(t, err)
	cfg := testConfig()
	cfg.MaxPoolSize = 1
	m, _ := newTestMempool(cfg, validators)
	defer m.Close()

	_, err = m.Encrypt(context.Background(), testTransaction())
	require.NoError(t, err)

	tx2 := testTransaction()
	tx2.Nonce = 1
	_, err = m.Encrypt(context.Background(), tx2)
	require.ErrorIs(t, err, ErrFull)
}

func TestReadyOrdersByPriorityThenAge(t *testing.T) {
	validators, err := validatorset.NewLocal(1, 1)
	require.NoError(t, err)
	m, clock := newTestMempool(testConfig(), validators)
	defer m.Close()

	low := testTransaction()
	low.GasPrice = uint256.NewInt(1_000_000_000) // 1 gwei -> Low
	low.Nonce = 1
	high := testTransaction()
	high.GasPrice = uint256.NewInt(100_000_000_000) // 100 gwei -> High
	high.Nonce = 2

	_, err = m.Encrypt(context.Background(), low)
	require.NoError(t, err)
	_, err = m.Encrypt(context.Background(), high)
	require.NoError(t, err)

	clock.advance(deltaContractCall + time.Second)
	ready := m.Ready(1)
	require.Len(t, ready, 2)
	require.Equal(t, types.PriorityHigh, ready[0].Priority)
	require.Equal(t, types.PriorityLow, ready[1].Priority)
}
