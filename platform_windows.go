// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

// Modifications (c) 2017 The Memory Authors.

//go:build windows

package memory

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// windowsReserve is the size of the single address-space reservation
// windowsGateway carves its emulated program break out of. Windows has
// no brk(2) equivalent, so the break is emulated as a monotonically
// committed prefix of one large MEM_RESERVE region, analogous to how
// glibc's sbrk is itself backed by a single growable mapping on
// platforms without a real break.
const windowsReserve = 1 << 34 // 16 GiB of reserved, mostly-uncommitted address space

// windowsGateway implements platformGateway via VirtualAlloc/VirtualFree.
// Like linuxGateway, it is kept as one package-level instance: the
// reservation is a single process-wide resource.
type windowsGateway struct {
	base      uintptr
	committed uintptr
	reserved  bool
}

func (g *windowsGateway) reserve() {
	addr, err := windows.VirtualAlloc(0, uintptr(windowsReserve), windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		fatal("VirtualAlloc(MEM_RESERVE)", err)
	}
	g.base = addr
	g.reserved = true
}

func (g *windowsGateway) ExtendBreak(delta int) unsafe.Pointer {
	if !g.reserved {
		g.reserve()
	}
	old := g.base + g.committed
	newCommitted := g.committed + uintptr(delta)
	if newCommitted > uintptr(windowsReserve) {
		fatal("VirtualAlloc(MEM_COMMIT)", errors.New("break would exceed reserved address space"))
	}

	ps := uintptr(g.PageSize())
	commitBytes := (newCommitted + ps - 1) &^ (ps - 1)
	if _, err := windows.VirtualAlloc(g.base, commitBytes, windows.MEM_COMMIT, windows.PAGE_READWRITE); err != nil {
		fatal("VirtualAlloc(MEM_COMMIT)", err)
	}
	g.committed = newCommitted
	return unsafe.Pointer(old)
}

func (g *windowsGateway) MapAnonymous(size int) unsafe.Pointer {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		fatal("VirtualAlloc", err)
	}
	return unsafe.Pointer(addr)
}

func (g *windowsGateway) Unmap(base unsafe.Pointer, size int) {
	if err := windows.VirtualFree(uintptr(base), 0, windows.MEM_RELEASE); err != nil {
		fatal("VirtualFree", err)
	}
}

func (g *windowsGateway) PageSize() int { return os.Getpagesize() }

var defaultGateway platformGateway = &windowsGateway{}
