// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitCarvesTailFreeBlock(t *testing.T) {
	a, gw := newTestAllocator(4096)
	base := gw.ExtendBreak(headerPadding + 64)
	b := (*block)(base)
	b.payloadSize = 64
	b.state = stateFree
	a.appendBlock(b)

	a.split(b, 16)

	require.Equal(t, uintptr(16), b.payloadSize)
	require.Equal(t, stateAllocated, b.state)
	require.Same(t, b, a.anchor)

	next := b.next
	require.Equal(t, stateFree, next.state)
	require.Equal(t, uintptr(64-16-headerPadding), next.payloadSize)
	require.Same(t, b, next.prev)
	require.Same(t, b, next.next)
}

func TestExpandLastGrowsTailBlock(t *testing.T) {
	a, gw := newTestAllocator(4096)
	base := gw.ExtendBreak(headerPadding + 16)
	b := (*block)(base)
	b.payloadSize = 16
	b.state = stateFree
	a.appendBlock(b)

	a.expandLast(gw, b, 64)

	require.Equal(t, uintptr(64), b.payloadSize)
	require.Equal(t, stateAllocated, b.state)
}

func TestNewBlockContiguousForSmallRequest(t *testing.T) {
	a, gw := newTestAllocator(mmapThreshold * 2)
	b := a.newBlock(gw, 100, false)
	require.Equal(t, stateAllocated, b.state)
	require.Same(t, b, a.anchor)
	require.Equal(t, uintptr(alignUp(100, alignmentUnit)), b.payloadSize)
}

func TestNewBlockMappedForLargeRequest(t *testing.T) {
	a, gw := newTestAllocator(mmapThreshold * 2)
	b := a.newBlock(gw, mmapThreshold, false)
	require.Equal(t, stateMapped, b.state)
}

func TestNewBlockZeroedClearsPayload(t *testing.T) {
	a, gw := newTestAllocator(mmapThreshold * 2)
	b := a.newBlock(gw, 100, true)
	for _, by := range blockBytes(b) {
		require.Zero(t, by)
	}
}
