package container

// ArchiveSink re-compresses an already-inflated entry with zstd for callers
// who want to retain the inflated-but-not-melted bytes cheaply for
// long-term storage. The core pipeline never calls this itself — it melts
// or deserializes, it does not archive — this exists purely as an optional
// caller-facing codec, the same role zstd plays for the teacher's own
// cold-storage path. Compress/Decompress are implemented in
// archive_cgo.go (cgo builds, via gozstd) and archive_pure.go (cgo-free
// builds, via klauspost/compress/zstd), matching the teacher's own cgo /
// cgo-free split for its zstd codec.
type ArchiveSink struct{}
