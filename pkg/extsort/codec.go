package extsort

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

func encodeBlock[T any](items []T) ([]byte, error) {
	encoded, err := binary.Marshal(items)
	if err != nil {
		return nil, err
	}
	return compress(encoded)
}

func decodeBlock[T any](bb []byte) ([]T, error) {
	raw, err := decompress(bb)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := binary.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}
