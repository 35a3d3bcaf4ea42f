package ordering

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/mevshield/shield/types"
)

func testEncrypted(t *testing.T, seed byte, gasPrice uint64, submittedAt time.Time) *types.EncryptedTransaction {
	t.Helper()
	return &types.EncryptedTransaction{
		ID:          crypto.Keccak256Hash([]byte{seed}),
		Ciphertext:  []byte{seed, seed, seed},
		SubmittedAt: submittedAt,
		Priority:    types.PriorityBandFor(uint256.NewInt(gasPrice)),
		GasPrice:    uint256.NewInt(gasPrice),
		ChainID:     1,
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	params := testParams(t)
	cfg := DefaultConfig()
	cfg.BatchSize = 100
	height := uint64(0)
	e, err := New(params, cfg, func() uint64 { return height })
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestOrderIsPermutationAndDeterministic(t *testing.T) {
	e := newTestEngine(t)
	now := time.Now()
	encs := []*types.EncryptedTransaction{
		testEncrypted(t, 1, 5_000_000_000, now),
		testEncrypted(t, 2, 60_000_000_000, now.Add(time.Second)),
		testEncrypted(t, 3, 25_000_000_000, now.Add(2*time.Second)),
	}

	ordered1, err := e.Order(context.Background(), encs, 10)
	require.NoError(t, err)
	require.Len(t, ordered1, len(encs))

	ordered2, err := e.Order(context.Background(), encs, 10)
	require.NoError(t, err)
	require.Len(t, ordered2, len(encs))
	for i := range ordered1 {
		require.Equal(t, ordered1[i].ID, ordered2[i].ID)
	}

	seen := make(map[[32]byte]bool)
	for _, enc := range ordered1 {
		seen[enc.ID] = true
	}
	for _, enc := range encs {
		require.True(t, seen[enc.ID])
	}
}

func TestCommitThenVerifyRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	enc := testEncrypted(t, 7, 10_000_000_000, time.Now())

	commitment, score := e.Commit(enc, time.Now())
	require.GreaterOrEqual(t, score, int32(0))

	out, err := e.vdfFor(context.Background(), commitment, 5)
	require.NoError(t, err)

	ok, err := e.Verify(context.Background(), commitment, out.Proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsWrongCommitment(t *testing.T) {
	e := newTestEngine(t)
	enc1 := testEncrypted(t, 8, 10_000_000_000, time.Now())
	enc2 := testEncrypted(t, 9, 10_000_000_000, time.Now())

	c1, _ := e.Commit(enc1, time.Now())
	c2, _ := e.Commit(enc2, time.Now())

	out, err := e.vdfFor(context.Background(), c1, 1)
	require.NoError(t, err)

	ok, err := e.Verify(context.Background(), c2, out.Proof)
	require.NoError(t, err)
	require.False(t, ok)
}
