// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import "unsafe"

// addrOf returns the address of a Go-heap byte slice's backing array, for
// tests that need to exercise block layout code without going through a
// real PageSource. The slice must be kept alive by the caller for as long
// as the returned address is used.
func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}
