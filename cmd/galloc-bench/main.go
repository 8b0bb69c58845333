// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command galloc-bench drives a fixed sequence of acquire_zero, resize and
// release cycles through a galloc.Allocator and reports wall time, for
// comparison against the same sequence run against Go's native make.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"
	"unsafe"

	"github.com/cznic/galloc"
)

const (
	cycles   = 20000
	maxLive  = 32
	maxCount = 64
	maxSize  = 4096
)

func runGalloc(seed int64) time.Duration {
	a, err := galloc.New(galloc.Options{})
	if err != nil {
		log.Fatal(err)
	}

	r := rand.New(rand.NewSource(seed))
	start := time.Now()

	var live []unsafe.Pointer
	for i := 0; i < cycles; i++ {
		num := uintptr(1 + r.Intn(maxCount))
		size := uintptr(1 + r.Intn(maxSize))

		p, err := a.AcquireZero(num, size)
		if err != nil {
			log.Fatal(err)
		}

		if r.Intn(2) == 0 {
			if p, err = a.Resize(p, num*size*2); err != nil {
				log.Fatal(err)
			}
		}

		live = append(live, p)

		if len(live) > maxLive {
			victim := r.Intn(len(live))
			a.Release(live[victim])
			live[victim] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}

	for _, p := range live {
		a.Release(p)
	}

	return time.Since(start)
}

func runNative(seed int64) time.Duration {
	r := rand.New(rand.NewSource(seed))
	start := time.Now()

	var live [][]byte
	for i := 0; i < cycles; i++ {
		num := 1 + r.Intn(maxCount)
		size := 1 + r.Intn(maxSize)

		buf := make([]byte, num*size)

		if r.Intn(2) == 0 {
			grown := make([]byte, num*size*2)
			copy(grown, buf)
			buf = grown
		}

		live = append(live, buf)

		if len(live) > maxLive {
			victim := r.Intn(len(live))
			live[victim] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}

	return time.Since(start)
}

func main() {
	g := runGalloc(42)
	n := runNative(42)

	fmt.Printf("galloc: %v for %d cycles\n", g, cycles)
	fmt.Printf("native: %v for %d cycles\n", n, cycles)
}
