package scene

import (
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"

	"golang.org/x/crypto/blake2b"
)

// contentHasher writes a canonical little-endian encoding of logical fields.
// Every variable-length section is prefixed with its element count so two
// different field layouts can never produce the same byte stream.
type contentHasher struct {
	h   hash.Hash
	buf [8]byte
}

func newContentHasher(domain string) *contentHasher {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only returned for oversized keys; we never pass one.
		panic(err)
	}
	c := &contentHasher{h: h}
	c.u64(uint64(len(domain)))
	c.h.Write([]byte(domain))
	return c
}

func (c *contentHasher) u32(v uint32) {
	binary.LittleEndian.PutUint32(c.buf[:4], v)
	c.h.Write(c.buf[:4])
}

func (c *contentHasher) u64(v uint64) {
	binary.LittleEndian.PutUint64(c.buf[:], v)
	c.h.Write(c.buf[:])
}

func (c *contentHasher) i64(v int64) {
	c.u64(uint64(v))
}

func (c *contentHasher) f32(v float32) {
	c.u32(math.Float32bits(v))
}

func (c *contentHasher) sum() string {
	return hex.EncodeToString(c.h.Sum(nil))
}

// hashStreams digests a packed vertex/index pair.
func hashStreams(vertices []float32, indices []uint32) string {
	c := newContentHasher("buffer")
	c.u64(uint64(len(vertices)))
	for _, v := range vertices {
		c.f32(v)
	}
	c.u64(uint64(len(indices)))
	for _, i := range indices {
		c.u32(i)
	}
	return c.sum()
}

// hashPrimitives digests a mesh by its primitive references.
// A primitive without material hashes as material -1.
func hashPrimitives(prims []Primitive) string {
	c := newContentHasher("mesh")
	c.u64(uint64(len(prims)))
	for _, p := range prims {
		c.i64(int64(p.Position))
		c.i64(int64(p.Indices))
		mat := int64(-1)
		if p.Material != nil {
			mat = int64(*p.Material)
		}
		c.i64(mat)
	}
	return c.sum()
}
