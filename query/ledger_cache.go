package query

import (
	"bytes"
	"encoding/gob"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// LedgerCache memoizes a save's built ledger series by checksum, since
// ledger construction re-walks every segment of every nation-chain and a
// caller inspecting one save repeatedly (a report generator, a debugger)
// would otherwise redo that work. The cached payload is LZ4-compressed: a
// ledger cache is written once per save and read many times, favoring a
// fast codec over a high-ratio one.
type LedgerCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewLedgerCache returns an empty cache.
func NewLedgerCache() *LedgerCache {
	return &LedgerCache{entries: make(map[string][]byte)}
}

// Put stores series under checksum, overwriting any prior entry.
func (c *LedgerCache) Put(checksum string, series []LedgerEntry) error {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(series); err != nil {
		return err
	}

	var compressed bytes.Buffer
	w := lz4.NewWriter(&compressed)
	if _, err := w.Write(raw.Bytes()); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[checksum] = compressed.Bytes()
	c.mu.Unlock()

	return nil
}

// Get returns the cached series for checksum, or (nil, false, nil) on a
// miss.
func (c *LedgerCache) Get(checksum string) ([]LedgerEntry, bool, error) {
	c.mu.Lock()
	data, ok := c.entries[checksum]
	c.mu.Unlock()
	if !ok {
		return nil, false, nil
	}

	var series []LedgerEntry
	if err := gob.NewDecoder(lz4.NewReader(bytes.NewReader(data))).Decode(&series); err != nil {
		return nil, false, err
	}

	return series, true, nil
}
