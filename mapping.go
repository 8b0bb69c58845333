// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mapping registry: records OS-provided address ranges, fuses physically
// adjacent ones, and answers whether an address still belongs to a given
// mapping. Generalizes the byte-offset translation idiom of lldb's
// InnerFiler from a single fixed offset to a growable table of ranges.

package galloc

// maxMappings is the registry's fixed capacity: the mapping index is a
// 15-bit header field, so at most 2^15 distinct mappings can ever be
// addressed.
const maxMappings = maxMappingIndex + 1

type region struct {
	lo, hi uintptr
}

type mappingTable struct {
	regions []region
}

func newMappingTable() *mappingTable {
	return &mappingTable{regions: make([]region, 0, 16)}
}

// register records a freshly mapped [lo, hi) range, fusing it into the most
// recently registered mapping when it begins exactly where that one ends.
// fused reports whether an existing index was extended rather than a new
// one assigned.
func (t *mappingTable) register(lo, hi uintptr) (idx uint16, fused bool, err error) {
	if n := len(t.regions); n > 0 {
		last := &t.regions[n-1]
		if last.hi == lo {
			last.hi = hi
			return uint16(n - 1), true, nil
		}
	}

	if len(t.regions) >= maxMappings {
		return 0, false, &MemoryError{Op: "fresh_carve", Reason: "mapping registry at capacity"}
	}

	t.regions = append(t.regions, region{lo, hi})
	return uint16(len(t.regions) - 1), false, nil
}

// atLowBound reports whether addr is mapping idx's first byte.
func (t *mappingTable) atLowBound(idx uint16, addr uintptr) bool {
	return addr == t.regions[idx].lo
}

// atHighBound reports whether addr is mapping idx's end (one past the last
// managed byte).
func (t *mappingTable) atHighBound(idx uint16, addr uintptr) bool {
	return addr == t.regions[idx].hi
}

func (t *mappingTable) count() int { return len(t.regions) }

func (t *mappingTable) totalBytes() uint64 {
	var total uint64
	for _, r := range t.regions {
		total += uint64(r.hi - r.lo)
	}
	return total
}
