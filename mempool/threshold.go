package mempool

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// fieldPrime is secp256k1's field prime (2^256 - 2^32 - 977), used here
// only as a convenient, well-known prime close to 2^256 so Shamir
// shares cover the AEAD key space. The curve itself is irrelevant —
// only primality and bit length matter for the sharing scheme.
var fieldPrime, _ = new(big.Int).SetString(
	"fffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)

const shareByteLen = 32 // ceil(bits(fieldPrime)/8)

// splitSecret implements (t,n) Shamir secret sharing over GF(fieldPrime):
// it draws a random degree-(t-1) polynomial with constant term secret,
// and evaluates it at x = 1..n to produce one share per validator
// index (spec.md §4.1 Design Notes: "Combiner: Lagrange interpolation
// over the AEAD key").
func splitSecret(secret *big.Int, t, n int) (map[uint32][]byte, error) {
	if t <= 0 || n <= 0 || t > n {
		return nil, fmt.Errorf("mempool: invalid threshold parameters t=%d n=%d", t, n)
	}
	coeffs := make([]*big.Int, t)
	coeffs[0] = new(big.Int).Mod(secret, fieldPrime)
	for i := 1; i < t; i++ {
		c, err := rand.Int(rand.Reader, fieldPrime)
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}

	shares := make(map[uint32][]byte, n)
	for idx := 1; idx <= n; idx++ {
		x := big.NewInt(int64(idx))
		y := evalPoly(coeffs, x)
		shares[uint32(idx-1)] = leftPadBytes(y.Bytes(), shareByteLen)
	}
	return shares, nil
}

func evalPoly(coeffs []*big.Int, x *big.Int) *big.Int {
	result := new(big.Int)
	xPow := big.NewInt(1)
	tmp := new(big.Int)
	for _, c := range coeffs {
		tmp.Mul(c, xPow)
		result.Add(result, tmp)
		result.Mod(result, fieldPrime)
		xPow.Mul(xPow, x)
		xPow.Mod(xPow, fieldPrime)
	}
	return result
}

func leftPadBytes(b []byte, size int) []byte {
	if len(b) >= size {
		return b[len(b)-size:]
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

// combineShares reconstructs the secret via Lagrange interpolation at
// x=0 from a quorum of (validatorIndex, shareValue) points.
func combineShares(points map[uint32][]byte) *big.Int {
	secret := new(big.Int)
	for idxI, bytesI := range points {
		xi := big.NewInt(int64(idxI) + 1)
		yi := new(big.Int).SetBytes(bytesI)

		num := big.NewInt(1)
		den := big.NewInt(1)
		for idxJ := range points {
			if idxJ == idxI {
				continue
			}
			xj := big.NewInt(int64(idxJ) + 1)
			num.Mul(num, new(big.Int).Neg(xj))
			num.Mod(num, fieldPrime)

			diff := new(big.Int).Sub(xi, xj)
			diff.Mod(diff, fieldPrime)
			den.Mul(den, diff)
			den.Mod(den, fieldPrime)
		}
		denInv := new(big.Int).ModInverse(den, fieldPrime)
		if denInv == nil {
			// Duplicate x-coordinates among the supplied points;
			// treat as an unusable (Byzantine) point set.
			continue
		}
		lagrange := new(big.Int).Mul(num, denInv)
		lagrange.Mod(lagrange, fieldPrime)

		term := new(big.Int).Mul(yi, lagrange)
		secret.Add(secret, term)
		secret.Mod(secret, fieldPrime)
	}
	return secret
}
