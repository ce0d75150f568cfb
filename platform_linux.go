// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

// Modifications (c) 2017 The Memory Authors.

//go:build linux

package memory

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// linuxGateway implements platformGateway on top of raw brk(2) for the
// contiguous region and mmap(2)/munmap(2) for anonymous mappings. brk(2)
// is Linux-specific: on success it returns the new break address, which
// is the semantics probeBreak and ExtendBreak rely on below. The *BSDs'
// break(2) returns 0 on success instead, and Darwin has no brk syscall
// at all, so neither is a target for this file; see platform_bsd.go.
//
// The kernel break is a single process-wide resource, so linuxGateway is
// kept as one package-level instance shared by every Allocator, the
// same way a single process has exactly one program break.
type linuxGateway struct {
	brk    uintptr
	inited bool
}

func (g *linuxGateway) probeBreak() uintptr {
	r1, _, errno := unix.RawSyscall(unix.SYS_BRK, 0, 0, 0)
	if errno != 0 {
		fatal("brk(0)", errno)
	}
	return r1
}

func (g *linuxGateway) ExtendBreak(delta int) unsafe.Pointer {
	if !g.inited {
		g.brk = g.probeBreak()
		g.inited = true
	}
	old := g.brk
	want := old + uintptr(delta)
	r1, _, errno := unix.RawSyscall(unix.SYS_BRK, want, 0, 0)
	if errno != 0 || r1 < want {
		fatal("brk", errno)
	}
	g.brk = want
	return unsafe.Pointer(old)
}

func (g *linuxGateway) MapAnonymous(size int) unsafe.Pointer {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		fatal("mmap", err)
	}
	return unsafe.Pointer(&b[0])
}

func (g *linuxGateway) Unmap(base unsafe.Pointer, size int) {
	b := unsafe.Slice((*byte)(base), size)
	if err := unix.Munmap(b); err != nil {
		fatal("munmap", err)
	}
}

func (g *linuxGateway) PageSize() int { return unix.Getpagesize() }

var defaultGateway platformGateway = &linuxGateway{}
