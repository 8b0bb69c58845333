// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*

Package galloc implements a general purpose dynamic memory allocator over
raw, OS-provided address space.

An Allocator hands out blocks with Acquire, AcquireZero and Resize and
takes them back with Release. Blocks are addressed by unsafe.Pointer, not
by Go slice or struct values: the memory an Allocator serves comes from a
PageSource (mmap by default) and is never visible to, or moved by, the
garbage collector. Callers are responsible for not retaining a pointer
past its Release.

Internally, free blocks are kept in a fixed table of size-class buckets,
searched best-fit-within-bucket on Acquire and merged with their physical
neighbours on Release. See Options for tuning the underlying PageSource
and its mapping granularity.

This package does not synchronize concurrent use of a single Allocator;
callers sharing one across goroutines must provide their own locking.

*/
package galloc
