// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import "testing"

func TestHeaderPackRoundTrip(t *testing.T) {
	cases := []struct {
		size    uint64
		mapping uint16
		free    bool
	}{
		{32, 0, false},
		{32, 0, true},
		{maxBlockSize, maxMappingIndex, true},
		{1024, 7, false},
	}

	for _, c := range cases {
		w := packHeader(c.size, c.mapping, c.free)
		size, mapping, free := unpackHeader(w)
		if size != c.size || mapping != c.mapping || free != c.free {
			t.Fatalf("packHeader(%d,%d,%v) round trip got (%d,%d,%v)",
				c.size, c.mapping, c.free, size, mapping, free)
		}
	}
}

func TestBlockMetaAndFooter(t *testing.T) {
	buf := make([]byte, 64)
	b := block(addrOf(buf))

	b.setMeta(64, 3, true)

	if g, e := b.size(), uint64(64); g != e {
		t.Fatalf("size: got %d, want %d", g, e)
	}
	if g, e := b.mapping(), uint16(3); g != e {
		t.Fatalf("mapping: got %d, want %d", g, e)
	}
	if !b.free() {
		t.Fatal("expected free")
	}

	footer := loadWord(uintptr(b) + 64 - wordSize)
	if footer != 64 {
		t.Fatalf("footer: got %d, want 64", footer)
	}

	b.setFree(false)
	if b.free() {
		t.Fatal("expected not free after setFree(false)")
	}
	if b.size() != 64 || b.mapping() != 3 {
		t.Fatal("setFree must not disturb size or mapping")
	}
}

func TestBlockLinks(t *testing.T) {
	buf := make([]byte, 64)
	b := block(addrOf(buf))
	b.setMeta(64, 0, true)

	b.setNext(0x1000)
	b.setPrev(0x2000)

	if b.next() != 0x1000 {
		t.Fatalf("next: got %#x", b.next())
	}
	if b.prev() != 0x2000 {
		t.Fatalf("prev: got %#x", b.prev())
	}
}

func TestUserPointerRoundTrip(t *testing.T) {
	buf := make([]byte, 64)
	b := block(addrOf(buf))
	b.setMeta(64, 0, false)

	p := userPointer(b)
	if blockFromUserPointer(p) != b {
		t.Fatal("userPointer/blockFromUserPointer did not round trip")
	}
}

func TestPrevNeighbour(t *testing.T) {
	buf := make([]byte, 128)
	base := addrOf(buf)

	lo := block(base)
	lo.setMeta(48, 0, false)

	hi := block(base + 48)
	hi.setMeta(80, 0, true)

	if g := prevNeighbour(hi); g != lo {
		t.Fatalf("prevNeighbour: got %#x, want %#x", uintptr(g), uintptr(lo))
	}
}
