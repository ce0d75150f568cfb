// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memory implements a single-threaded general purpose heap
// allocator on top of a contiguous, break-extendable region and
// anonymous page mappings.
//
// Small requests are served out of a lazily-grown contiguous region
// using a best-fit free list with coalescing; large requests bypass the
// region entirely and get their own anonymous mapping. The zero value
// of Allocator is ready to use.
//
// Allocator carries no internal synchronization. Using the same
// Allocator from more than one goroutine without an external lock is
// not supported.
package memory
