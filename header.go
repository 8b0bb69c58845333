// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Block layout: encoding and decoding of header and footer metadata
// directly in a block's raw bytes, and translation between a block address
// and the user-visible pointer.
//
// A block of total size S is laid out as:
//
//	[0:8)    header word: size:48 | mapping:15 | free:1
//	[8:16)   next sibling (free only) / client payload bytes [0:8)
//	[16:24)  prev sibling (free only) / client payload bytes [8:16)
//	...
//	[S-8:S)  footer word: duplicate of S
//
// Only the header word is preserved for the lifetime of an allocated block;
// bytes [8:S-8) belong to the client. minAlloc (32) is the smallest size
// that can hold header + next + prev + footer simultaneously, which is the
// floor every free block must respect.
package galloc

import "unsafe"

const wordSize = 8

// minAlloc is the smallest legal block size: header (8) + next (8) + prev
// (8) + footer (8).
const minAlloc = 32

const (
	sizeBits    = 48
	sizeMask    = 1<<sizeBits - 1
	mappingBits = 15
	mappingMask = 1<<mappingBits - 1
	mappingShift = sizeBits
	freeShift    = sizeBits + mappingBits
	freeBit      = uint64(1) << freeShift
)

// maxBlockSize is the largest size expressible in the 48-bit size field.
const maxBlockSize = sizeMask

// maxMappingIndex is the largest value the 15-bit mapping field can hold.
const maxMappingIndex = mappingMask

func loadWord(addr uintptr) uint64 {
	return *(*uint64)(unsafe.Pointer(addr))
}

func storeWord(addr uintptr, v uint64) {
	*(*uint64)(unsafe.Pointer(addr)) = v
}

func loadAddr(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

func storeAddr(addr uintptr, v uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = v
}

func packHeader(size uint64, mapping uint16, free bool) uint64 {
	w := size & sizeMask
	w |= uint64(mapping&mappingMask) << mappingShift
	if free {
		w |= freeBit
	}
	return w
}

func unpackHeader(w uint64) (size uint64, mapping uint16, free bool) {
	size = w & sizeMask
	mapping = uint16((w >> mappingShift) & mappingMask)
	free = w&freeBit != 0
	return
}

// block is the address of a managed block's first byte. It is a plain
// address, not a Go pointer: the memory it refers to comes from a
// PageSource and is never scanned or moved by the garbage collector. A
// block value of 0 means "no block".
type block uintptr

func (b block) valid() bool { return b != 0 }

func (b block) header() uint64 { return loadWord(uintptr(b)) }

func (b block) size() uint64 {
	s, _, _ := unpackHeader(b.header())
	return s
}

func (b block) mapping() uint16 {
	_, m, _ := unpackHeader(b.header())
	return m
}

func (b block) free() bool {
	_, _, f := unpackHeader(b.header())
	return f
}

// setMeta rewrites both the header and the footer, keeping the two in sync
// per the "Header.size == Footer.size" invariant.
func (b block) setMeta(size uint64, mapping uint16, free bool) {
	storeWord(uintptr(b), packHeader(size, mapping, free))
	storeWord(uintptr(b)+uintptr(size)-wordSize, size)
}

func (b block) setFree(free bool) {
	b.setMeta(b.size(), b.mapping(), free)
}

// next and prev are valid only while the block is free; they overlay the
// first 16 payload bytes.
func (b block) next() block { return block(loadAddr(uintptr(b) + wordSize)) }
func (b block) setNext(n block) { storeAddr(uintptr(b)+wordSize, uintptr(n)) }
func (b block) prev() block { return block(loadAddr(uintptr(b) + 2*wordSize)) }
func (b block) setPrev(p block) { storeAddr(uintptr(b)+2*wordSize, uintptr(p)) }

// end returns the address one past the block's last byte.
func (b block) end() uintptr { return uintptr(b) + uintptr(b.size()) }

// userPointer returns the client-visible pointer for an allocated block.
func userPointer(b block) unsafe.Pointer {
	return unsafe.Pointer(uintptr(b) + wordSize)
}

// blockFromUserPointer is the inverse of userPointer.
func blockFromUserPointer(p unsafe.Pointer) block {
	return block(uintptr(p) - wordSize)
}

// prevNeighbour reads the footer immediately preceding b and returns the
// block that owns it. The caller must first verify b is not at its
// mapping's low bound.
func prevNeighbour(b block) block {
	prevSize := loadWord(uintptr(b) - wordSize)
	return block(uintptr(b) - uintptr(prevSize))
}
