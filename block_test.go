// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	cases := []struct{ n, m, want int }{
		{0, 8, 0},
		{1, 8, 8},
		{7, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{128*1024 - 1, 8, 128 * 1024},
	}
	for _, c := range cases {
		require.Equal(t, c.want, alignUp(c.n, c.m), "alignUp(%d,%d)", c.n, c.m)
	}
}

func TestHeaderPaddingIsAligned(t *testing.T) {
	require.Zero(t, headerPadding%alignmentUnit)
	require.GreaterOrEqual(t, headerPadding, int(unsafe.Sizeof(block{})))
}

func TestRegistryAppendSingle(t *testing.T) {
	var a Allocator
	b := &block{payloadSize: 8, state: stateFree}
	a.appendBlock(b)
	require.Same(t, b, a.anchor)
	require.Same(t, b, b.next)
	require.Same(t, b, b.prev)
}

func TestRegistryAppendOrderAndLinks(t *testing.T) {
	var a Allocator
	b1 := &block{payloadSize: 8, state: stateFree}
	b2 := &block{payloadSize: 8, state: stateFree}
	b3 := &block{payloadSize: 8, state: stateFree}
	a.appendBlock(b1)
	a.appendBlock(b2)
	a.appendBlock(b3)

	require.Same(t, b1, a.anchor)
	require.Same(t, b2, b1.next)
	require.Same(t, b3, b2.next)
	require.Same(t, b1, b3.next)
	require.Same(t, b3, b1.prev)
	require.Same(t, b2, b3.prev)
	require.Same(t, b1, b2.prev)
}

func TestRegistryRemoveMiddle(t *testing.T) {
	var a Allocator
	b1 := &block{state: stateFree}
	b2 := &block{state: stateFree}
	b3 := &block{state: stateFree}
	a.appendBlock(b1)
	a.appendBlock(b2)
	a.appendBlock(b3)

	a.removeBlock(b2)
	require.Same(t, b3, b1.next)
	require.Same(t, b1, b3.next)
	require.Same(t, b1, a.anchor)
}

func TestRegistryRemoveAnchor(t *testing.T) {
	var a Allocator
	b1 := &block{state: stateFree}
	b2 := &block{state: stateFree}
	a.appendBlock(b1)
	a.appendBlock(b2)

	a.removeBlock(b1)
	require.Same(t, b2, a.anchor)
	require.Same(t, b2, b2.next)
	require.Same(t, b2, b2.prev)
}

func TestRegistryRemoveLastClearsAnchor(t *testing.T) {
	var a Allocator
	b := &block{state: stateFree}
	a.appendBlock(b)
	a.removeBlock(b)
	require.Nil(t, a.anchor)
}

func TestLastContiguousSkipsMapped(t *testing.T) {
	var a Allocator
	contiguous := &block{state: stateAllocated}
	mapped := &block{state: stateMapped}
	a.appendBlock(contiguous)
	a.appendBlock(mapped)

	require.Same(t, contiguous, a.lastContiguous())
}

func TestLastContiguousNilWhenAllMapped(t *testing.T) {
	var a Allocator
	m1 := &block{state: stateMapped}
	m2 := &block{state: stateMapped}
	a.appendBlock(m1)
	a.appendBlock(m2)

	require.Nil(t, a.lastContiguous())
}

func TestLastContiguousEmptyRegistry(t *testing.T) {
	var a Allocator
	require.Nil(t, a.lastContiguous())
}
