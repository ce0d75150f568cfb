// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "unsafe"

// split carves requested (aligned) bytes off the front of b, leaving a
// new FREE block for the remainder. Callers must have already checked
// that the remainder admits a header plus at least one alignment unit.
func (a *Allocator) split(b *block, requested int) {
	want := alignUp(requested, alignmentUnit)
	nb := (*block)(unsafe.Add(unsafe.Pointer(b), headerPadding+want))
	nb.payloadSize = b.payloadSize - uintptr(want) - uintptr(headerPadding)
	nb.state = stateFree

	oldNext := b.next
	nb.next = oldNext
	nb.prev = b
	oldNext.prev = nb
	b.next = nb

	b.payloadSize = uintptr(want)
	b.state = stateAllocated
}

// expandLast grows the tail contiguous block in place by extending the
// break. The caller must have verified b is the last contiguous block;
// b may be FREE (Allocate) or ALLOCATED (Resize) and is ALLOCATED on
// return.
func (a *Allocator) expandLast(gw platformGateway, b *block, requested int) {
	want := alignUp(requested, alignmentUnit)
	delta := want - int(b.payloadSize)
	gw.ExtendBreak(delta)
	b.payloadSize = uintptr(want)
	b.state = stateAllocated
}

// newBlock obtains fresh backing memory for requested bytes, either by
// extending the break (small requests) or by creating a new anonymous
// mapping (large requests), and appends the resulting block to the
// registry. zeroed selects which mmap threshold applies, per the
// allocate vs. allocate-zeroed contract.
func (a *Allocator) newBlock(gw platformGateway, requested int, zeroed bool) *block {
	want := alignUp(requested, alignmentUnit)
	threshold := mmapThreshold
	if zeroed {
		threshold = gw.PageSize()
	}

	var b *block
	if headerPadding+want <= threshold {
		base := gw.ExtendBreak(headerPadding + want)
		b = (*block)(base)
		b.state = stateAllocated
	} else {
		base := gw.MapAnonymous(headerPadding + want)
		b = (*block)(base)
		b.state = stateMapped
	}
	b.payloadSize = uintptr(want)

	if zeroed {
		clear(blockBytes(b))
	}
	a.appendBlock(b)
	return b
}
