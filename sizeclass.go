// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Size class bucketing.

package galloc

// numBuckets is the size of the fixed bucket array. 128 exact size classes
// cover [0, 1016] in steps of 8; the remaining 38 classes are power-of-two
// ranges, the last topping out just below 2^48 bytes.
const numBuckets = 166

const smallClasses = 128

// smallClassThreshold is the smallest size served by a power-of-two bucket
// rather than an exact one.
const smallClassThreshold = 1024

// bucketIndex maps a block's total size in bytes to its bucket index.
//
// For size < 1024 the class is exact: i = size/8.
//
// For size >= 1024 the class is a power-of-two range: i = 121 +
// floor(log2(size/8)), found by scanning size's bits from index 10 upward
// (the first large class, i == 128, covers [1024, 2048) and 1024 == 2^10 is
// the smallest size that reaches this branch).
func bucketIndex(size uint64) int {
	if size < smallClassThreshold {
		return int(size >> 3)
	}

	bit := 10
	for size>>(bit+1) != 0 {
		bit++
	}

	return 121 + (bit - 3)
}
