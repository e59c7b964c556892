package compression

import (
	"encoding/binary"
	"errors"

	"github.com/pierrec/lz4"
)

var ErrCorruptBlock = errors.New("corrupt lz4 block")

// LZ4 compresses values as a 4-byte little-endian original length followed
// by one lz4 block. Values that do not shrink are stored raw; the payload
// length then equals the prefix.
type LZ4 struct{}

func (LZ4) Compress(data []byte) ([]byte, error) {
	buf := make([]byte, 4+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(buf, uint32(len(data)))

	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(data, buf[4:], hashTable[:])
	if err != nil || n == 0 || n >= len(data) {
		// Incompressible: store raw.
		out := make([]byte, 4+len(data))
		copy(out[4:], data)
		return out, nil
	}
	return buf[:4+n], nil
}

func (LZ4) Decompress(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, ErrCorruptBlock
	}
	origLen := binary.LittleEndian.Uint32(data)
	if origLen == 0 {
		return append([]byte(nil), data[4:]...), nil
	}
	out := make([]byte, origLen)
	if uint32(len(data)-4) == origLen {
		// Stored raw.
		copy(out, data[4:])
		return out, nil
	}
	n, err := lz4.UncompressBlock(data[4:], out)
	if err != nil || uint32(n) != origLen {
		return nil, ErrCorruptBlock
	}
	return out, nil
}
