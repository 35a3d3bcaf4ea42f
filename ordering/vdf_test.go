package ordering

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// testParams uses a small modulus and low difficulty so the squaring
// loop runs quickly; production parameters come from GenerateModulus
// at 2048 bits with a much larger difficulty.
func testParams(t *testing.T) Params {
	modulus, err := GenerateModulus(512)
	require.NoError(t, err)
	return Params{Modulus: modulus, Difficulty: 200, SecurityBits: 128}
}

func TestComputeThenVerify(t *testing.T) {
	p := testParams(t)
	x := big.NewInt(123456789)

	out, err := computeVDF(context.Background(), x, p)
	require.NoError(t, err)
	for i, c := range out.Proof.Checkpoints {
		require.NotNil(t, c, "checkpoint %d", i)
	}

	ok, err := verifyVDF(context.Background(), x, p, out.Proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsTamperedCheckpoint(t *testing.T) {
	p := testParams(t)
	x := big.NewInt(42)

	out, err := computeVDF(context.Background(), x, p)
	require.NoError(t, err)

	tampered := out.Proof
	tampered.Checkpoints[3] = new(big.Int).Add(tampered.Checkpoints[3], big.NewInt(1))

	ok, err := verifyVDF(context.Background(), x, p, tampered)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestComputeDeterministic(t *testing.T) {
	p := testParams(t)
	x := big.NewInt(987654321)

	out1, err := computeVDF(context.Background(), x, p)
	require.NoError(t, err)
	out2, err := computeVDF(context.Background(), x, p)
	require.NoError(t, err)
	require.Equal(t, 0, out1.Y.Cmp(out2.Y))
	require.Equal(t, out1.Proof.Digest, out2.Proof.Digest)
}

func TestSegmentLengthsSumToDifficulty(t *testing.T) {
	for _, difficulty := range []uint64{10, 17, 200, 1001} {
		lens := segmentLengths(difficulty)
		var sum uint64
		for _, l := range lens {
			sum += l
		}
		require.Equal(t, difficulty, sum)
	}
}
