// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

// defaultMappingSize is the minimum size requested of a PageSource for any
// single mapping. A cold Acquire therefore always produces at least this
// much address space, most of it immediately free.
const defaultMappingSize = 128 * 1024

// Options configures an Allocator beyond its zero value. The zero Options
// is valid and selects an OSPageSource with defaultMappingSize.
type Options struct {
	// Source supplies the address ranges the allocator carves blocks
	// from. Nil selects a fresh OSPageSource.
	Source PageSource

	// MappingSize is the minimum number of bytes requested from Source
	// per fresh carve. Zero selects defaultMappingSize.
	MappingSize uintptr
}

// check validates o and returns a copy with defaults filled in.
func (o Options) check() (Options, error) {
	if o.MappingSize != 0 && o.MappingSize < minAlloc {
		return o, &ArgumentError{Op: "Options", Arg: uint64(o.MappingSize)}
	}

	if o.Source == nil {
		o.Source = NewOSPageSource()
	}
	if o.MappingSize == 0 {
		o.MappingSize = defaultMappingSize
	}
	return o, nil
}
