// Package hash provides the xxHash64-based key compaction used by the query
// engine to key internal maps by (CountryTag, ProvinceId) pairs without
// allocating a string per lookup.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of data.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// TagProvince hashes a country tag and province id into a single map key,
// avoiding a struct key whose string field would otherwise force a larger
// hash computation per lookup in hot query-engine loops.
func TagProvince(tag string, province int) uint64 {
	var buf [8]byte
	buf[0], buf[1], buf[2] = tag[0], tag[1], tag[2]
	buf[3] = byte(province)
	buf[4] = byte(province >> 8)
	buf[5] = byte(province >> 16)
	buf[6] = byte(province >> 24)
	buf[7] = byte(province >> 32)

	return xxhash.Sum64(buf[:])
}
