// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "unsafe"

// fakeGateway is a platformGateway backed by ordinary Go memory instead
// of real OS primitives, so the policy and bookkeeping logic can be
// exercised deterministically and without touching the process's real
// break or address space. This is the "pass it explicitly for
// testability" alternative the design notes call out.
type fakeGateway struct {
	arena    []byte
	brk      int
	pageSize int
	mapped   map[uintptr][]byte
}

func newFakeGateway(arenaSize int) *fakeGateway {
	return &fakeGateway{
		arena:    make([]byte, arenaSize),
		pageSize: 4096,
		mapped:   map[uintptr][]byte{},
	}
}

func (g *fakeGateway) ExtendBreak(delta int) unsafe.Pointer {
	if g.brk+delta > len(g.arena) {
		panic("fakeGateway: arena exhausted")
	}
	base := unsafe.Pointer(&g.arena[g.brk])
	g.brk += delta
	return base
}

func (g *fakeGateway) MapAnonymous(size int) unsafe.Pointer {
	b := make([]byte, size)
	p := unsafe.Pointer(&b[0])
	g.mapped[uintptr(p)] = b
	return p
}

func (g *fakeGateway) Unmap(base unsafe.Pointer, size int) {
	if _, ok := g.mapped[uintptr(base)]; !ok {
		panic("fakeGateway: unmap of unknown base")
	}
	delete(g.mapped, uintptr(base))
}

func (g *fakeGateway) PageSize() int { return g.pageSize }

func newTestAllocator(arenaSize int) (*Allocator, *fakeGateway) {
	gw := newFakeGateway(arenaSize)
	a := &Allocator{gateway: gw}
	return a, gw
}

// unsafePointerOf returns the address of a payload slice's first byte,
// for tests that need to recover the owning block via findByPayload.
func unsafePointerOf(p []byte) unsafe.Pointer {
	if len(p) == 0 {
		return nil
	}
	return unsafe.Pointer(&p[0])
}
