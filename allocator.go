// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "unsafe"

// Allocator allocates and frees memory. Its zero value is ready for
// use. An Allocator is not safe for concurrent use by more than one
// goroutine; callers embedding it in a multi-threaded program must
// supply their own external lock.
type Allocator struct {
	anchor   *block
	prealloc bool
	gateway  platformGateway

	allocs int
	mmaps  int
	bytes  int // bytes obtained from the platform gateway
}

// Stats reports the allocator's current bookkeeping counters: the
// number of live (unfreed) allocations, the number of live anonymous
// mappings, and the bytes currently held from the platform gateway
// (bytes of unmapped blocks are subtracted again).
func (a *Allocator) Stats() (allocs, mmaps, bytes int) {
	return a.allocs, a.mmaps, a.bytes
}

func (a *Allocator) gw() platformGateway {
	if a.gateway == nil {
		a.gateway = defaultGateway
	}
	return a.gateway
}

func (a *Allocator) ensurePrimed(gw platformGateway) {
	if a.prealloc {
		return
	}
	base := gw.ExtendBreak(mmapThreshold)
	primer := (*block)(base)
	primer.payloadSize = uintptr(mmapThreshold - headerPadding)
	primer.state = stateFree
	a.appendBlock(primer)
	a.prealloc = true
	a.bytes += mmapThreshold
}

func (a *Allocator) findByPayload(p unsafe.Pointer) *block {
	if a.anchor == nil {
		return nil
	}
	cur := a.anchor
	for {
		if payloadPtr(cur) == p {
			return cur
		}
		cur = cur.next
		if cur == a.anchor {
			return nil
		}
	}
}

// view returns the length-bytes prefix of b's current payload, capped
// to b's full current payload size so in-block slack stays reachable
// by append without crossing into a neighboring block.
func view(b *block, length int) []byte {
	return blockBytes(b)[:length:int(b.payloadSize)]
}

// Allocate reserves size bytes and returns them uninitialized. It
// returns nil for size <= 0 and performs no syscalls in that case.
func (a *Allocator) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}
	gw := a.gw()
	want := alignUp(size, alignmentUnit)

	if headerPadding+want > mmapThreshold {
		b := a.newBlock(gw, size, false)
		a.allocs++
		a.mmaps++
		a.bytes += headerPadding + want
		trace("allocate", size, b, "served from fresh mapping")
		return view(b, size)
	}

	a.ensurePrimed(gw)
	a.coalesce()

	if b := a.findBestFit(size); b != nil {
		if int(b.payloadSize)-want >= headerPadding+alignmentUnit {
			a.split(b, size)
		} else {
			b.state = stateAllocated
		}
		a.allocs++
		trace("allocate", size, b, "served from best-fit free block")
		return view(b, size)
	}

	if last := a.lastContiguous(); last != nil && last.state == stateFree {
		delta := want - int(last.payloadSize)
		a.expandLast(gw, last, size)
		a.bytes += delta
		a.allocs++
		trace("allocate", size, last, "served by expanding tail block")
		return view(last, size)
	}

	b := a.newBlock(gw, size, false)
	a.allocs++
	a.bytes += headerPadding + want
	trace("allocate", size, b, "served from fresh contiguous block")
	return view(b, size)
}

// Free releases memory previously returned by Allocate, AllocateZeroed
// or Resize. Freeing nil is a no-op; freeing a pointer the allocator
// does not recognize is silently ignored.
func (a *Allocator) Free(ptr []byte) {
	if len(ptr) == 0 {
		return
	}
	b := a.findByPayload(unsafe.Pointer(&ptr[0]))
	if b == nil {
		return
	}

	switch b.state {
	case stateAllocated:
		b.state = stateFree
		a.allocs--
		trace("free", int(b.payloadSize), b, "returned to free list")
	case stateMapped:
		size := headerPadding + int(b.payloadSize)
		a.removeBlock(b)
		a.gw().Unmap(unsafe.Pointer(b), size)
		a.allocs--
		a.mmaps--
		a.bytes -= size
		trace("free", size, nil, "unmapped")
	}
}

// AllocateZeroed is like Allocate(count*size) except every returned
// byte is zero and the mmap threshold compared against is the
// operating system page size rather than the fixed 128 KiB threshold.
func (a *Allocator) AllocateZeroed(count, size int) []byte {
	if count <= 0 || size <= 0 {
		return nil
	}
	total := count * size
	gw := a.gw()
	want := alignUp(total, alignmentUnit)
	pageThreshold := gw.PageSize()

	if headerPadding+want > pageThreshold {
		b := a.newBlock(gw, total, true)
		a.allocs++
		a.mmaps++
		a.bytes += headerPadding + want
		trace("allocate_zeroed", total, b, "served from fresh mapping")
		return view(b, total)
	}

	a.ensurePrimed(gw)
	a.coalesce()

	if b := a.findBestFit(total); b != nil {
		if int(b.payloadSize)-want >= headerPadding+alignmentUnit {
			a.split(b, total)
		} else {
			b.state = stateAllocated
		}
		clear(blockBytes(b)[:want])
		a.allocs++
		trace("allocate_zeroed", total, b, "served from best-fit free block")
		return view(b, total)
	}

	if last := a.lastContiguous(); last != nil && last.state == stateFree {
		delta := want - int(last.payloadSize)
		a.expandLast(gw, last, total)
		a.bytes += delta
		clear(blockBytes(last)[:want])
		a.allocs++
		trace("allocate_zeroed", total, last, "served by expanding tail block")
		return view(last, total)
	}

	b := a.newBlock(gw, total, true)
	a.allocs++
	a.bytes += headerPadding + want
	trace("allocate_zeroed", total, b, "served from fresh contiguous block")
	return view(b, total)
}

// Resize changes the capacity behind ptr to new_size bytes, preserving
// the leading min(old, new) bytes. It attempts in-place reuse before
// relocating. A nil ptr behaves like Allocate; new_size <= 0 behaves
// like Free and returns nil. Resizing a freed or unrecognized pointer
// returns nil.
func (a *Allocator) Resize(ptr []byte, newSize int) []byte {
	if ptr == nil {
		return a.Allocate(newSize)
	}
	if newSize <= 0 {
		a.Free(ptr)
		return nil
	}

	a.coalesce()
	b := a.findByPayload(unsafe.Pointer(&ptr[0]))
	if b == nil {
		return nil
	}
	if b.state == stateFree {
		return nil
	}

	gw := a.gw()
	want := alignUp(newSize, alignmentUnit)

	if b.state == stateMapped || headerPadding+want > mmapThreshold {
		newPtr := a.Allocate(newSize)
		n := want
		if int(b.payloadSize) < n {
			n = int(b.payloadSize)
		}
		nb := a.findByPayload(unsafe.Pointer(&newPtr[0]))
		copy(blockBytes(nb)[:n], blockBytes(b)[:n])
		a.Free(ptr)
		trace("resize", newSize, nil, "relocated")
		return newPtr
	}

	if want == int(b.payloadSize) {
		trace("resize", newSize, b, "same aligned size, unchanged")
		return view(b, newSize)
	}

	if want < int(b.payloadSize) {
		if int(b.payloadSize)-want >= headerPadding+alignmentUnit {
			a.split(b, newSize)
		}
		trace("resize", newSize, b, "shrunk in place")
		return view(b, newSize)
	}

	if last := a.lastContiguous(); last == b {
		delta := want - int(b.payloadSize)
		a.expandLast(gw, b, newSize)
		a.bytes += delta
		trace("resize", newSize, b, "grown by expanding tail block")
		return view(b, newSize)
	}

	if b.next != a.anchor && b.next.state == stateFree &&
		int(b.payloadSize)+headerPadding+int(b.next.payloadSize) >= want {
		absorbed := b.next
		b.payloadSize = b.payloadSize + uintptr(headerPadding) + absorbed.payloadSize
		b.next = absorbed.next
		b.next.prev = b
		if int(b.payloadSize)-want >= headerPadding+alignmentUnit {
			a.split(b, newSize)
		}
		trace("resize", newSize, b, "grown by absorbing free neighbor")
		return view(b, newSize)
	}

	newPtr := a.Allocate(newSize)
	n := int(b.payloadSize)
	nb := a.findByPayload(unsafe.Pointer(&newPtr[0]))
	copy(blockBytes(nb)[:n], blockBytes(b)[:n])
	a.Free(ptr)
	trace("resize", newSize, nil, "relocated, no adjacent room")
	return newPtr
}
