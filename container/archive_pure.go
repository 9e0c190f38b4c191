//go:build !cgo

package container

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// archiveDecoderPool mirrors the teacher's decoder-reuse rationale: the
// klauspost zstd decoder is built for reuse after warmup.
var archiveDecoderPool = sync.Pool{
	New: func() any {
		d, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return d
	},
}

var archiveEncoderPool = sync.Pool{
	New: func() any {
		e, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return e
	},
}

// Compress returns data recompressed with zstd.
func (ArchiveSink) Compress(data []byte) []byte {
	enc := archiveEncoderPool.Get().(*zstd.Encoder)
	defer archiveEncoderPool.Put(enc)

	var buf bytes.Buffer
	enc.Reset(&buf)
	if _, err := enc.Write(data); err != nil {
		panic(fmt.Sprintf("zstd compress: %v", err))
	}
	if err := enc.Close(); err != nil {
		panic(fmt.Sprintf("zstd compress: %v", err))
	}

	return buf.Bytes()
}

// Decompress reverses Compress.
func (ArchiveSink) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec := archiveDecoderPool.Get().(*zstd.Decoder)
	defer archiveDecoderPool.Put(dec)

	if err := dec.Reset(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return io.ReadAll(dec)
}
