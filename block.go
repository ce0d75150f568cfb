// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "unsafe"

// blockState is the lifecycle state of a block.
type blockState uint8

const (
	stateAllocated blockState = iota
	stateFree
	stateMapped
)

func (s blockState) String() string {
	switch s {
	case stateAllocated:
		return "allocated"
	case stateFree:
		return "free"
	case stateMapped:
		return "mapped"
	default:
		return "unknown"
	}
}

// block is the header every live allocation carries immediately before
// its payload. Contiguous-region blocks and mapped blocks share the
// same header shape and the same registry; only their backing memory
// differs.
type block struct {
	payloadSize uintptr
	state       blockState
	next, prev  *block
}

const alignmentUnit = 8

// headerPadding is sizeof(block) rounded up to alignmentUnit; it is
// also the offset from a block's base address to its payload.
var headerPadding = alignUp(int(unsafe.Sizeof(block{})), alignmentUnit)

// alignUp rounds n up to the nearest multiple of m, m a power of two.
func alignUp(n, m int) int { return (n + m - 1) &^ (m - 1) }

func payloadPtr(b *block) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(b), headerPadding)
}

// blockBytes views a block's current payload as a byte slice, length
// and capacity both equal to payloadSize. Callers that need to expose
// a narrower, caller-requested view reslice the result.
func blockBytes(b *block) []byte {
	return unsafe.Slice((*byte)(payloadPtr(b)), int(b.payloadSize))
}

// ptrBlock recovers the block header for a payload address previously
// handed out by the allocator.
func ptrBlock(p unsafe.Pointer) *block {
	return (*block)(unsafe.Add(p, -headerPadding))
}

// appendBlock splices b into the registry immediately before the
// anchor, i.e. as the new last element, matching insertion order.
func (a *Allocator) appendBlock(b *block) {
	if a.anchor == nil {
		b.next = b
		b.prev = b
		a.anchor = b
		return
	}
	last := a.anchor.prev
	b.prev = last
	b.next = a.anchor
	last.next = b
	a.anchor.prev = b
}

// removeBlock unlinks b from the registry.
func (a *Allocator) removeBlock(b *block) {
	if b.next == b {
		a.anchor = nil
		return
	}
	b.prev.next = b.next
	b.next.prev = b.prev
	if a.anchor == b {
		a.anchor = b.next
	}
	b.next = nil
	b.prev = nil
}

// lastContiguous returns the rearmost block in the registry that lives
// in the contiguous region (ALLOCATED or FREE), scanning backward from
// the anchor's predecessor. It returns nil only if no such block
// exists anywhere in the registry — unlike the original implementation,
// it always inspects every block before giving up.
func (a *Allocator) lastContiguous() *block {
	if a.anchor == nil {
		return nil
	}
	start := a.anchor.prev
	cur := start
	for {
		if cur.state != stateMapped {
			return cur
		}
		cur = cur.prev
		if cur == start {
			return nil
		}
	}
}
