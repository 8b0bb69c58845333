// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Page sources: where an Allocator's address space actually comes from.
// OSPageSource maps anonymous memory via mmap, the way balloc's buddyMalloc
// seeds its arena. MemPageSource backs the same interface with plain Go
// byte slices pinned against collection, for tests that want to run
// without real mmap.

package galloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// PageSource supplies fresh, zeroed address ranges on demand and releases
// them on Close. Implementations need not support releasing individual
// ranges: galloc never unmaps a range once carved, only gives memory back
// to its own free lists.
type PageSource interface {
	// Map returns the bounds [lo, hi) of a freshly mapped, zero-filled
	// range of at least size bytes.
	Map(size uintptr) (lo, hi uintptr, err error)

	// Close releases every range this source has ever mapped.
	Close() error
}

// OSPageSource maps anonymous, private memory straight from the OS.
type OSPageSource struct {
	mappings [][]byte
}

// NewOSPageSource returns a PageSource backed by real mmap calls.
func NewOSPageSource() *OSPageSource {
	return &OSPageSource{}
}

func (s *OSPageSource) Map(size uintptr) (lo, hi uintptr, err error) {
	data, mmapErr := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if mmapErr != nil {
		return 0, 0, &MemoryError{Op: "mmap", Reason: mmapErr.Error()}
	}

	s.mappings = append(s.mappings, data)
	lo = uintptr(unsafe.Pointer(&data[0]))
	hi = lo + size
	return lo, hi, nil
}

func (s *OSPageSource) Close() error {
	for _, m := range s.mappings {
		if err := unix.Munmap(m); err != nil {
			return err
		}
	}
	s.mappings = nil
	return nil
}

// MemPageSource backs PageSource with ordinary Go byte slices, each pinned
// in the mappings field so the garbage collector never reclaims memory
// that blocks still reference by raw address. Intended for tests: it never
// fails short of the process running out of heap.
type MemPageSource struct {
	mappings [][]byte
}

// NewMemPageSource returns a PageSource backed by the Go heap.
func NewMemPageSource() *MemPageSource {
	return &MemPageSource{}
}

func (s *MemPageSource) Map(size uintptr) (lo, hi uintptr, err error) {
	data := make([]byte, size)
	s.mappings = append(s.mappings, data)
	lo = uintptr(unsafe.Pointer(&data[0]))
	hi = lo + size
	return lo, hi, nil
}

func (s *MemPageSource) Close() error {
	s.mappings = nil
	return nil
}

// failAfterPageSource wraps another PageSource and fails every call past
// the Nth, letting tests force ErrOutOfMemory without actually exhausting
// the machine's address space.
type failAfterPageSource struct {
	inner PageSource
	n     int
}

func (s *failAfterPageSource) Map(size uintptr) (lo, hi uintptr, err error) {
	if s.n <= 0 {
		return 0, 0, &MemoryError{Op: "mmap", Reason: "page source exhausted"}
	}
	s.n--
	return s.inner.Map(size)
}

func (s *failAfterPageSource) Close() error { return s.inner.Close() }
