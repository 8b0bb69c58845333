// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Free-list buckets: an array of doubly linked lists of free blocks, one
// per size class, each kept in non-decreasing size order. Lists are
// option-valued (a zero block means "no block") rather than sentinel-headed;
// either representation keeps remove O(1), and this is the same
// representation lldb's own FLT slots use (Head() int64, 0 meaning empty).

package galloc

type bucketList struct {
	head, tail block
}

type bucketTable struct {
	lists [numBuckets]bucketList
}

// insert adds a free block to its bucket, preserving non-decreasing size
// order with oldest-first tie breaking, and marks it free. Exact-size
// buckets (index < smallClasses) only ever hold one size, so appending at
// the tail already is the sorted insertion point; this is lldb's
// fast-path-for-small-buckets idea carried over verbatim.
func (bt *bucketTable) insert(b block) {
	size := b.size()
	b.setFree(true)
	idx := bucketIndex(size)
	list := &bt.lists[idx]

	if idx < smallClasses {
		bt.appendTail(list, b)
		return
	}

	// Power-of-two bucket: walk past every existing block whose size is
	// <= b's, so a newly inserted block lands after all equal-sized
	// predecessors (oldest-first), then splice in before the first
	// larger block.
	var after block
	for cur := list.head; cur.valid(); cur = cur.next() {
		if cur.size() > size {
			break
		}
		after = cur
	}

	switch {
	case !after.valid():
		bt.prependHead(list, b)
	case after == list.tail:
		bt.appendTail(list, b)
	default:
		succ := after.next()
		b.setPrev(after)
		b.setNext(succ)
		after.setNext(b)
		succ.setPrev(b)
	}
}

func (bt *bucketTable) appendTail(list *bucketList, b block) {
	b.setPrev(list.tail)
	b.setNext(0)
	if list.tail.valid() {
		list.tail.setNext(b)
	} else {
		list.head = b
	}
	list.tail = b
}

func (bt *bucketTable) prependHead(list *bucketList, b block) {
	b.setNext(list.head)
	b.setPrev(0)
	if list.head.valid() {
		list.head.setPrev(b)
	} else {
		list.tail = b
	}
	list.head = b
}

// remove unlinks a free block from its bucket. O(1).
func (bt *bucketTable) remove(b block) {
	list := &bt.lists[bucketIndex(b.size())]
	p, n := b.prev(), b.next()

	if p.valid() {
		p.setNext(n)
	} else {
		list.head = n
	}

	if n.valid() {
		n.setPrev(p)
	} else {
		list.tail = p
	}

	b.setNext(0)
	b.setPrev(0)
}

// firstFit finds and removes the first free block whose size is at least
// size, starting at size's own bucket and advancing through larger ones.
// Within a bucket the list is sorted ascending, so the first hit is the
// best fit in that bucket. Returns the zero block on a full miss.
func (bt *bucketTable) firstFit(size uint64) block {
	start := bucketIndex(size)
	for i := start; i < numBuckets; i++ {
		for cur := bt.lists[i].head; cur.valid(); cur = cur.next() {
			if cur.size() >= size {
				bt.remove(cur)
				return cur
			}
		}
	}
	return 0
}
