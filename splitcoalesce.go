// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Splitting an oversized free block into a served head and a free tail, and
// coalescing two physically adjacent free blocks into one. Mirrors the
// free2 logic in lldb's Allocator.Free, generalized from atom-addressed
// handles to raw addresses and from a single free list to bucketed ones.

package galloc

// adjusted splits b if the leftover tail would itself be a legal free
// block (at least minAlloc bytes), inserting the tail into bt and returning
// b resized down to want. Otherwise b is returned unchanged: the leftover
// would be too small to track, so the whole block is handed to the caller.
func adjusted(bt *bucketTable, b block, want uint64) block {
	total := b.size()
	remainder := total - want
	mapping := b.mapping()

	if remainder < minAlloc {
		b.setMeta(total, mapping, false)
		return b
	}

	tail := block(uintptr(b) + uintptr(want))
	tail.setMeta(remainder, mapping, true)
	b.setMeta(want, mapping, false)

	bt.insert(tail)
	return b
}

// coalesce merges neighbour, a block currently sitting in a bucket, into
// survivor, which must not currently be in any bucket: neighbour is
// unlinked first, then survivor is rewritten to cover both blocks' bytes.
// survivor must be the physically lower of the two addresses, since the
// merged block's header and footer live at the start and end of the
// combined byte range.
func coalesce(bt *bucketTable, survivor, neighbour block) block {
	bt.remove(neighbour)
	survivor.setMeta(survivor.size()+neighbour.size(), survivor.mapping(), true)
	return survivor
}

// coalesceNeighbours absorbs any free physical neighbours of b (which must
// not itself be in a bucket yet) within its mapping's bounds, returning the
// fully merged block. Neighbours belonging to a different mapping, or
// falling outside mp's bounds, are left untouched: coalescing never crosses
// a mapping boundary, since a neighbour from a different mapping is not
// guaranteed to be physically contiguous in the address space the way two
// blocks from the same OS mapping are.
func coalesceNeighbours(bt *bucketTable, mp *mappingTable, b block) block {
	mapping := b.mapping()

	if !mp.atHighBound(mapping, b.end()) {
		next := block(b.end())
		if next.free() && next.mapping() == mapping {
			b = coalesce(bt, b, next)
		}
	}

	if !mp.atLowBound(mapping, uintptr(b)) {
		prev := prevNeighbour(b)
		if prev.free() && prev.mapping() == mapping {
			// prev, not b, is both the lower address and the bucketed
			// neighbour here, so coalesce's roles are reversed from the
			// next-neighbour case above and it cannot be reused directly.
			bt.remove(prev)
			prev.setMeta(prev.size()+b.size(), mapping, true)
			b = prev
		}
	}

	return b
}
