//go:build cgo

package container

import "github.com/valyala/gozstd"

// Compress returns data recompressed with zstd.
func (ArchiveSink) Compress(data []byte) []byte {
	return gozstd.CompressLevel(nil, data, 3)
}

// Decompress reverses Compress.
func (ArchiveSink) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
