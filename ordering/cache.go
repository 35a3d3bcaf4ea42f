package ordering

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"math/big"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/mevshield/shield/types"
)

// outputCache is the VDF output cache keyed by (commitment hash, block
// height), per spec.md §4.2 "State": fastcache backs it with a bounded
// byte-addressed store so the cache itself never grows unbounded
// (teacher go.mod dependency, wired here since no component in the
// teacher's own tree needed a byte cache).
type outputCache struct {
	cache *fastcache.Cache
}

func newOutputCache(maxBytes int) *outputCache {
	return &outputCache{cache: fastcache.New(maxBytes)}
}

func cacheKey(commitmentHash [32]byte, blockHeight uint64) []byte {
	key := make([]byte, 40)
	copy(key, commitmentHash[:])
	binary.BigEndian.PutUint64(key[32:], blockHeight)
	return key
}

func (c *outputCache) get(commitmentHash [32]byte, blockHeight uint64) (*types.VDFOutput, bool) {
	raw := c.cache.GetBig(nil, cacheKey(commitmentHash, blockHeight))
	if raw == nil {
		return nil, false
	}
	out, err := decodeVDFOutput(raw)
	if err != nil {
		return nil, false
	}
	return out, true
}

func (c *outputCache) put(commitmentHash [32]byte, blockHeight uint64, out *types.VDFOutput) {
	enc, err := encodeVDFOutput(out)
	if err != nil {
		return
	}
	c.cache.SetBig(cacheKey(commitmentHash, blockHeight), enc)
}

// gobVDFOutput is the cache wire shape: big.Int does not implement
// gob.GobEncoder directly in a form fastcache can store, so checkpoints
// and x/y are carried as their byte representations.
type gobVDFOutput struct {
	X, Y        []byte
	Checkpoints [types.VDFCheckpointCount][]byte
	Digest      [32]byte
}

func encodeVDFOutput(out *types.VDFOutput) ([]byte, error) {
	g := gobVDFOutput{
		X:      out.X.Bytes(),
		Y:      out.Y.Bytes(),
		Digest: out.Proof.Digest,
	}
	for i, c := range out.Proof.Checkpoints {
		if c == nil {
			return nil, fmt.Errorf("ordering: incomplete proof, checkpoint %d missing", i)
		}
		g.Checkpoints[i] = c.Bytes()
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeVDFOutput(raw []byte) (*types.VDFOutput, error) {
	var g gobVDFOutput
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&g); err != nil {
		return nil, err
	}
	out := &types.VDFOutput{
		X: new(big.Int).SetBytes(g.X),
		Y: new(big.Int).SetBytes(g.Y),
		Proof: types.VDFProof{
			Digest: g.Digest,
		},
	}
	for i, b := range g.Checkpoints {
		out.Proof.Checkpoints[i] = new(big.Int).SetBytes(b)
	}
	return out, nil
}
