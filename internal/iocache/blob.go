package iocache

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// DATA measures (dsm matrices, gate details) are stored zstd-compressed.
var (
	blobEncoderOnce sync.Once
	blobEncoder     *zstd.Encoder
	blobDecoderOnce sync.Once
	blobDecoder     *zstd.Decoder
)

func encodeBlob(data []byte) []byte {
	if data == nil {
		return nil
	}
	blobEncoderOnce.Do(func() {
		// A nil writer with default options cannot fail.
		blobEncoder, _ = zstd.NewWriter(nil)
	})
	return blobEncoder.EncodeAll(data, make([]byte, 0, len(data)))
}

func decodeBlob(data []byte) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	blobDecoderOnce.Do(func() {
		blobDecoder, _ = zstd.NewReader(nil)
	})
	out, err := blobDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress measure data: %w", err)
	}
	return out, nil
}
