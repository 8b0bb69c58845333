// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Accounting, in the spirit of lldb's AllocStats: a lightweight summary of
// how much space is mapped, served, and idle, without lldb's structural
// integrity checking (out of scope here; Verify walks and cross-checks
// every block in a Filer, which this package has no equivalent of since
// its blocks live in process memory, not on disk).

package galloc

// Stats summarizes an Allocator's current bookkeeping.
type Stats struct {
	// MappedBytes is the total size of every range ever obtained from
	// the PageSource.
	MappedBytes uint64

	// MappedRanges is the number of distinct ranges registered (after
	// fusing physically adjacent ones).
	MappedRanges int

	// AllocatedBytes is the total block size (including header and
	// footer overhead) currently held by the caller.
	AllocatedBytes uint64

	// AllocatedBlocks is the number of blocks currently held by the
	// caller.
	AllocatedBlocks uint64

	// FreeBytes is MappedBytes minus AllocatedBytes: space carved from
	// the page source but not currently served.
	FreeBytes uint64
}

// Stats reports the Allocator's current bookkeeping.
func (a *Allocator) Stats() Stats {
	mapped := a.mp.totalBytes()
	return Stats{
		MappedBytes:     mapped,
		MappedRanges:    a.mp.count(),
		AllocatedBytes:  a.allocatedBytes,
		AllocatedBlocks: a.allocatedCount,
		FreeBytes:       mapped - a.allocatedBytes,
	}
}
