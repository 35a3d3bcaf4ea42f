package shield

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/mevshield/shield/accountant"
	"github.com/mevshield/shield/detector"
	"github.com/mevshield/shield/mempool"
	"github.com/mevshield/shield/ordering"
	"github.com/mevshield/shield/types"
	"github.com/mevshield/shield/validatorset"
)

type stubPaymentProcessor struct{}

func (stubPaymentProcessor) Process(ctx context.Context, distributions map[common.Address]*uint256.Int) ([]accountant.PaymentResult, error) {
	results := make([]accountant.PaymentResult, 0, len(distributions))
	for addr, amt := range distributions {
		results = append(results, accountant.PaymentResult{Address: addr, Amount: amt})
	}
	return results, nil
}

func testVDFParams(t *testing.T) ordering.Params {
	t.Helper()
	modulus, err := ordering.GenerateModulus(512)
	require.NoError(t, err)
	return ordering.Params{Modulus: modulus, Difficulty: 50, SecurityBits: 128}
}

func newTestShield(t *testing.T) *Shield {
	t.Helper()
	validators, err := validatorset.NewLocal(2, 3)
	require.NoError(t, err)

	height := uint64(1)
	s, err := New(
		validators,
		stubPaymentProcessor{},
		testVDFParams(t),
		mempool.DefaultConfig(),
		ordering.DefaultConfig(),
		detector.DefaultConfig(),
		accountant.DefaultConfig(),
		func() uint64 { return height },
	)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func testTx(gasPrice uint64) *types.Transaction {
	return &types.Transaction{
		Originator:  common.HexToAddress("0x01"),
		Destination: common.HexToAddress("0x02"),
		Value:       uint256.NewInt(1000),
		GasLimit:    21_000,
		GasPrice:    uint256.NewInt(gasPrice),
		ChainID:     1,
	}
}

func TestSubmitProtectedThenStatusEncrypted(t *testing.T) {
	s := newTestShield(t)

	result, err := s.SubmitProtected(context.Background(), testTx(20_000_000_000), ProtectionStandard)
	require.NoError(t, err)
	require.NotEqual(t, result.OriginalHash, result.EncryptedHash)
	require.True(t, result.EstimatedSavings.Sign() > 0)

	status, err := s.Status(result.TransactionID)
	require.NoError(t, err)
	require.Equal(t, StatusEncrypted, status.Status)
	require.Equal(t, ProtectionStandard, status.ProtectionDetails)
}

func TestStatusUnknownTransaction(t *testing.T) {
	s := newTestShield(t)
	_, err := s.Status(uuid.Nil)
	require.ErrorIs(t, err, ErrUnknownTransaction)
}

func TestSubmittedTransactionNotReadyBeforeTimeLock(t *testing.T) {
	s := newTestShield(t)
	ctx := context.Background()

	result, err := s.SubmitProtected(ctx, testTx(20_000_000_000), ProtectionBasic)
	require.NoError(t, err)

	encs := s.mempool.Ready(1)
	require.Empty(t, encs, "not yet past the time-lock or minimum age")

	_, err = s.mempool.Decrypt(ctx, result.EncryptedHash, 1)
	require.ErrorIs(t, err, mempool.ErrNotReady)
}

func TestPendingRewardsZeroForUnknownAddress(t *testing.T) {
	s := newTestShield(t)
	reward := s.PendingRewards(common.HexToAddress("0xFF"))
	require.True(t, reward.IsZero())
}

func TestCaptureMarksTrackedTransactionExecuted(t *testing.T) {
	s := newTestShield(t)
	ctx := context.Background()

	tx := testTx(20_000_000_000)
	result, err := s.SubmitProtected(ctx, tx, ProtectionBasic)
	require.NoError(t, err)

	block := &types.Block{
		Number:       1,
		Timestamp:    time.Now(),
		BaseFee:      uint256.NewInt(10_000_000_000),
		Transactions: []*types.Transaction{tx},
	}
	id, err := tx.Hash()
	require.NoError(t, err)
	mevData := &types.MEVData{
		ExtractedValue: uint256.NewInt(0),
		BuilderPayment: uint256.NewInt(0),
		GasUsed:        map[common.Hash]uint64{id: 21_000},
	}

	require.NoError(t, s.Capture(block, mevData))

	status, err := s.Status(result.TransactionID)
	require.NoError(t, err)
	require.Equal(t, StatusExecuted, status.Status)
	require.NotNil(t, status.BlockNumber)
	require.Equal(t, uint64(1), *status.BlockNumber)
}

func TestClassifyErrorMapsInsufficientShares(t *testing.T) {
	err := &mempool.InsufficientSharesError{Need: 2, Got: 1}
	require.Equal(t, KindInsufficientShares, ClassifyError(err))
}
