// Package resolver maps 16-bit binary-dialect token ids to their textual
// field names (§4.2).
//
// The table is process-wide and immutable once built: load it once at
// startup from a token side file and share the *Resolver by reference
// across every save processed concurrently, the same way the teacher's
// token resolver-shaped structures (section headers, flag tables) are
// built once and never mutated (§5 Concurrency & Resource Model).
package resolver

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/paradoxgg/eu4save/errs"
)

// Resolver is a sparse id->name table over two contiguous ranges, built
// once from a token side file and never mutated afterward.
type Resolver struct {
	lower      []string // covers ids [0, len(lower))
	upperStart uint16
	upper      []string // covers ids [upperStart, upperStart+len(upper))
}

// Empty returns a Resolver with no entries. Looking anything up in it
// always reports a miss; it is the correct default for callers that will
// run the melter under PolicyIgnore without a token file available (§6
// Environment variables).
func Empty() *Resolver {
	return &Resolver{}
}

// Load reads a UTF-8 token file, one record per line formatted as
// "0xHHHH name". Lines without a space are a syntax error (§6 File
// inputs). Blank lines are skipped.
func Load(r io.Reader) (*Resolver, error) {
	entries := make(map[uint16]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		idx := strings.IndexByte(line, ' ')
		if idx < 0 {
			return nil, &errs.InvalidSyntaxError{Msg: fmt.Sprintf("missing space separator: %q", line)}
		}

		idField, nameField := line[:idx], strings.TrimSpace(line[idx+1:])
		id, err := parseHexID(idField)
		if err != nil {
			return nil, &errs.InvalidSyntaxError{Msg: fmt.Sprintf("bad token id %q: %v", idField, err)}
		}

		entries[id] = nameField
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return buildFromEntries(entries), nil
}

func parseHexID(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}

	return uint16(v), nil
}

// buildFromEntries splits the id set into two contiguous ranges at the
// single largest gap between sorted ids, matching the real token file's
// shape (a dense low block of well-known ids followed by a dense high
// block near 0xFFFF).
func buildFromEntries(entries map[uint16]string) *Resolver {
	if len(entries) == 0 {
		return Empty()
	}

	ids := make([]uint16, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	splitAt := len(ids) // no split: everything in the lower range
	biggestGap := -1
	for i := 1; i < len(ids); i++ {
		gap := int(ids[i]) - int(ids[i-1])
		if gap > biggestGap {
			biggestGap = gap
			splitAt = i
		}
	}

	lowerIDs, upperIDs := ids[:splitAt], ids[splitAt:]

	r := &Resolver{}
	if len(lowerIDs) > 0 {
		lowerLen := int(lowerIDs[len(lowerIDs)-1]) + 1
		r.lower = make([]string, lowerLen)
		for _, id := range lowerIDs {
			r.lower[id] = entries[id]
		}
	}
	if len(upperIDs) > 0 {
		r.upperStart = upperIDs[0]
		upperLen := int(upperIDs[len(upperIDs)-1]-r.upperStart) + 1
		r.upper = make([]string, upperLen)
		for _, id := range upperIDs {
			r.upper[id-r.upperStart] = entries[id]
		}
	}

	return r
}

// Lookup returns the textual name for id, or ("", false) if id falls
// outside both covered ranges or has no recorded name.
func (r *Resolver) Lookup(id uint16) (string, bool) {
	if int(id) < len(r.lower) {
		if name := r.lower[id]; name != "" {
			return name, true
		}

		return "", false
	}

	if id >= r.upperStart && int(id-r.upperStart) < len(r.upper) {
		if name := r.upper[id-r.upperStart]; name != "" {
			return name, true
		}
	}

	return "", false
}
