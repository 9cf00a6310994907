package cache

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/xxh3"
)

// Digest identifies one cached analysis.
type Digest [16]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Sum hashes parts in order. Each part is length-prefixed, so moving bytes
// across a boundary changes the digest.
func Sum(parts ...[]byte) Digest {
	h := xxh3.New()
	var size [8]byte
	for _, part := range parts {
		binary.LittleEndian.PutUint64(size[:], uint64(len(part)))
		_, _ = h.Write(size[:])
		_, _ = h.Write(part)
	}
	return h.Sum128().Bytes()
}
