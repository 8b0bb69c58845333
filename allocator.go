// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import (
	"unsafe"

	"github.com/cznic/mathutil"
)

// An Allocator serves Acquire/Release/AcquireZero/Resize over address
// space drawn from a PageSource. The zero value is not usable; construct
// one with New.
type Allocator struct {
	opts Options
	mp   *mappingTable
	bt   *bucketTable

	allocatedBytes uint64
	allocatedCount uint64
}

// New constructs an Allocator. Passing the zero Options selects an
// OSPageSource with the default mapping size.
func New(opts Options) (*Allocator, error) {
	opts, err := opts.check()
	if err != nil {
		return nil, err
	}

	return &Allocator{
		opts: opts,
		mp:   newMappingTable(),
		bt:   &bucketTable{},
	}, nil
}

// roundup8 rounds n up to the next multiple of 8, or returns 0 if doing so
// would overflow uint64.
func roundup8(n uint64) (uint64, bool) {
	if n > maxBlockSize {
		return 0, false
	}
	r := (n + 7) &^ 7
	if r < n {
		return 0, false
	}
	return r, true
}

// roundupUnit rounds need up to the smallest multiple of unit that is at
// least need and at least unit itself, so a fresh mapping is always both
// big enough to serve need and a whole number of mmap units, per the page
// source's "always a positive multiple of the mapping unit" contract. ok
// is false if the rounding would overflow uint64.
func roundupUnit(need, unit uint64) (size uint64, ok bool) {
	sum := need + (unit - 1)
	if sum < need {
		return 0, false
	}

	n := sum / unit
	if n == 0 {
		n = 1
	}

	size = n * unit
	if size/n != unit {
		return 0, false
	}
	return size, true
}

// aligned computes the total block size needed to serve a payload
// of n bytes: header and footer overhead, rounded payload, floored at
// minAlloc. ok is false on overflow or on a payload too large for the
// 48-bit size field.
func aligned(n uint64) (size uint64, ok bool) {
	r, ok := roundup8(n)
	if !ok {
		return 0, false
	}
	if r > maxBlockSize-16 {
		return 0, false
	}
	size = r + 16
	if size < minAlloc {
		size = minAlloc
	}
	return size, true
}

// Acquire reserves a block of at least size bytes and returns a pointer to
// its first byte. The contents are unspecified.
func (a *Allocator) Acquire(size uintptr) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, &ArgumentError{Op: "Acquire", Arg: 0}
	}

	need, ok := aligned(uint64(size))
	if !ok {
		return nil, &ArgumentError{Op: "Acquire", Arg: uint64(size)}
	}

	b, err := a.acquireInternal(need)
	if err != nil {
		return nil, err
	}

	a.allocatedBytes += b.size()
	a.allocatedCount++
	return userPointer(b), nil
}

// AcquireZero reserves a block of at least num*size bytes, zero-filled.
func (a *Allocator) AcquireZero(num, size uintptr) (unsafe.Pointer, error) {
	if num == 0 || size == 0 {
		return nil, &ArgumentError{Op: "AcquireZero", Arg: 0}
	}

	total := uint64(num) * uint64(size)
	if total/uint64(size) != uint64(num) {
		return nil, &ArgumentError{Op: "AcquireZero", Arg: uint64(num)}
	}

	need, ok := aligned(total)
	if !ok {
		return nil, &ArgumentError{Op: "AcquireZero", Arg: total}
	}

	b, err := a.acquireInternal(need)
	if err != nil {
		return nil, err
	}

	a.allocatedBytes += b.size()
	a.allocatedCount++

	p := userPointer(b)
	clear(unsafe.Slice((*byte)(p), b.size()-2*wordSize))
	return p, nil
}

// Release returns a previously acquired block to the allocator. Releasing
// a nil pointer is a no-op; releasing a pointer not obtained from this
// Allocator is undefined.
func (a *Allocator) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	b := blockFromUserPointer(p)
	a.allocatedBytes -= b.size()
	a.allocatedCount--

	b.setFree(true)
	merged := coalesceNeighbours(a.bt, a.mp, b)
	a.bt.insert(merged)
}

// Resize changes a block's size, preserving its leading min(oldSize,
// newSize) bytes of content. A nil p behaves as Acquire; a zero size
// behaves as Release and returns a nil pointer. If growth cannot be
// satisfied, p's block and contents are left untouched and an error
// wrapping ErrOutOfMemory is returned.
func (a *Allocator) Resize(p unsafe.Pointer, size uintptr) (unsafe.Pointer, error) {
	if p == nil {
		return a.Acquire(size)
	}
	if size == 0 {
		a.Release(p)
		return nil, nil
	}

	need, ok := aligned(uint64(size))
	if !ok {
		return nil, &ArgumentError{Op: "Resize", Arg: uint64(size)}
	}

	b := blockFromUserPointer(p)
	cur := b.size()

	if need <= cur {
		a.allocatedBytes -= cur
		b = adjusted(a.bt, b, need)
		a.allocatedBytes += b.size()
		return userPointer(b), nil
	}

	mapping := b.mapping()
	if !a.mp.atHighBound(mapping, b.end()) {
		next := block(b.end())
		if next.free() && next.mapping() == mapping && cur+next.size() >= need {
			a.bt.remove(next)
			a.allocatedBytes -= cur
			b.setMeta(cur+next.size(), mapping, false)
			b = adjusted(a.bt, b, need)
			a.allocatedBytes += b.size()
			return userPointer(b), nil
		}
	}

	newB, err := a.acquireInternal(need)
	if err != nil {
		return nil, err
	}

	copyPayload(newB, b, cur-2*wordSize)

	a.allocatedBytes += newB.size() - cur
	b.setFree(true)
	merged := coalesceNeighbours(a.bt, a.mp, b)
	a.bt.insert(merged)

	return userPointer(newB), nil
}

// acquireInternal finds or carves a free block of at least need bytes,
// splitting off any leftover tail of at least minAlloc bytes, and marks it
// allocated.
func (a *Allocator) acquireInternal(need uint64) (block, error) {
	b := a.bt.firstFit(need)
	if !b.valid() {
		if _, err := a.freshCarve(need); err != nil {
			return 0, err
		}
		b = a.bt.firstFit(need)
	}

	return adjusted(a.bt, b, need), nil
}

// freshCarve asks the page source for a new range of at least need bytes,
// registers it, and deposits it as a single free block in the bucket
// table. It never returns a served block directly: the caller re-runs
// firstFit to pick it up, so a fused mapping's block can first merge with
// whatever free block immediately preceded it.
func (a *Allocator) freshCarve(need uint64) (block, error) {
	unit := uint64(a.opts.MappingSize)

	mapSize, ok := roundupUnit(need, unit)
	if !ok {
		return 0, &MemoryError{Op: "Acquire", Reason: "requested size overflows the mapping unit"}
	}

	lo, hi, err := a.opts.Source.Map(uintptr(mapSize))
	if err != nil {
		return 0, err
	}

	idx, _, err := a.mp.register(lo, hi)
	if err != nil {
		return 0, err
	}

	b := block(lo)
	b.setMeta(uint64(hi-lo), idx, true)

	merged := coalesceNeighbours(a.bt, a.mp, b)
	a.bt.insert(merged)

	return merged, nil
}

func copyPayload(dst, src block, n uint64) {
	if n == 0 {
		return
	}
	n = uint64(mathutil.MinInt64(int64(n), int64(src.size()-2*wordSize)))
	s := unsafe.Slice((*byte)(userPointer(src)), n)
	d := unsafe.Slice((*byte)(userPointer(dst)), n)
	copy(d, s)
}
