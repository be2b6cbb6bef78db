package storage

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// MAC is the content address of a stored block: the blake3 sum of its
// serialized form.
type MAC [32]byte

func MACFromBytes(data []byte) MAC {
	return blake3.Sum256(data)
}

func (m MAC) String() string {
	return hex.EncodeToString(m[:])
}
