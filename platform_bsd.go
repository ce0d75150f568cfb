// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

// Modifications (c) 2017 The Memory Authors.

//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package memory

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// bsdReserve is the size of the single address-space reservation
// bsdGateway carves its emulated program break out of. Darwin has no
// brk kernel call at all, and the *BSDs' break(2) returns 0 on success
// rather than the new break address, so neither is a faithful
// substrate for the raw-syscall approach linuxGateway uses. mmap and
// mprotect are the portable primitives every kernel in this build
// constraint actually has, so the break is emulated the same way
// windowsGateway emulates one: reserve a large span up front
// (PROT_NONE, never backed by physical pages until touched) and grow a
// committed (PROT_READ|PROT_WRITE) prefix of it as the break advances.
const bsdReserve = 1 << 34 // 16 GiB of reserved, mostly PROT_NONE address space

// bsdGateway implements platformGateway via mmap/mprotect/munmap. Like
// linuxGateway, it is kept as one package-level instance: the
// reservation is a single process-wide resource.
type bsdGateway struct {
	base      uintptr
	committed uintptr
	reserved  bool
}

func (g *bsdGateway) reserve() {
	b, err := unix.Mmap(-1, 0, bsdReserve, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		fatal("mmap(PROT_NONE reserve)", err)
	}
	g.base = uintptr(unsafe.Pointer(&b[0]))
	g.reserved = true
}

func (g *bsdGateway) ExtendBreak(delta int) unsafe.Pointer {
	if !g.reserved {
		g.reserve()
	}
	old := g.base + g.committed
	newCommitted := g.committed + uintptr(delta)
	if newCommitted > uintptr(bsdReserve) {
		fatal("mprotect(grow break)", errors.New("break would exceed reserved address space"))
	}

	ps := uintptr(g.PageSize())
	commitBytes := (newCommitted + ps - 1) &^ (ps - 1)
	region := unsafe.Slice((*byte)(unsafe.Pointer(g.base)), int(commitBytes))
	if err := unix.Mprotect(region, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		fatal("mprotect(grow break)", err)
	}
	g.committed = newCommitted
	return unsafe.Pointer(old)
}

func (g *bsdGateway) MapAnonymous(size int) unsafe.Pointer {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		fatal("mmap", err)
	}
	return unsafe.Pointer(&b[0])
}

func (g *bsdGateway) Unmap(base unsafe.Pointer, size int) {
	b := unsafe.Slice((*byte)(base), size)
	if err := unix.Munmap(b); err != nil {
		fatal("munmap", err)
	}
}

func (g *bsdGateway) PageSize() int { return unix.Getpagesize() }

var defaultGateway platformGateway = &bsdGateway{}
