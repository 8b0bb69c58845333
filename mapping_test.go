// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import "testing"

func TestMappingTableRegisterDisjoint(t *testing.T) {
	mt := newMappingTable()

	idx0, fused, err := mt.register(0x1000, 0x2000)
	if err != nil || fused || idx0 != 0 {
		t.Fatalf("got (%d,%v,%v)", idx0, fused, err)
	}

	idx1, fused, err := mt.register(0x5000, 0x6000)
	if err != nil || fused || idx1 != 1 {
		t.Fatalf("got (%d,%v,%v)", idx1, fused, err)
	}

	if g, e := mt.count(), 2; g != e {
		t.Fatalf("count: got %d, want %d", g, e)
	}
	if g, e := mt.totalBytes(), uint64(0x2000); g != e {
		t.Fatalf("totalBytes: got %d, want %d", g, e)
	}
}

func TestMappingTableRegisterFuses(t *testing.T) {
	mt := newMappingTable()

	idx0, _, err := mt.register(0x1000, 0x2000)
	if err != nil {
		t.Fatal(err)
	}

	idx1, fused, err := mt.register(0x2000, 0x3000)
	if err != nil {
		t.Fatal(err)
	}
	if !fused || idx1 != idx0 {
		t.Fatalf("expected fuse into %d, got (%d,%v)", idx0, idx1, fused)
	}

	if g, e := mt.count(), 1; g != e {
		t.Fatalf("count: got %d, want %d", g, e)
	}

	if !mt.atLowBound(idx0, 0x1000) || !mt.atHighBound(idx0, 0x3000) {
		t.Fatal("expected fused region [0x1000,0x3000)")
	}
}

func TestMappingTableBounds(t *testing.T) {
	mt := newMappingTable()
	idx, _, err := mt.register(0x1000, 0x2000)
	if err != nil {
		t.Fatal(err)
	}

	if !mt.atLowBound(idx, 0x1000) {
		t.Fatal("expected atLowBound at 0x1000")
	}
	if !mt.atHighBound(idx, 0x2000) {
		t.Fatal("expected atHighBound at 0x2000")
	}
	if mt.atLowBound(idx, 0x1001) || mt.atHighBound(idx, 0x1fff) {
		t.Fatal("bound checks must be exact")
	}
}

func TestMappingTableCapacity(t *testing.T) {
	mt := newMappingTable()
	lo := uintptr(0x10000)
	for i := 0; i < maxMappings; i++ {
		// Leave a gap between each mapping so none fuse.
		if _, _, err := mt.register(lo, lo+0x1000); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		lo += 0x2000
	}

	if _, _, err := mt.register(lo, lo+0x1000); err == nil {
		t.Fatal("expected capacity error")
	}
}
