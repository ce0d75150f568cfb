// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// mmapThreshold is the size above which Allocate and Resize serve a
// request from a fresh anonymous mapping instead of the contiguous
// region. AllocateZeroed uses the runtime page size instead; see
// newBlock.
const mmapThreshold = 128 * 1024

// platformGateway is the only way the allocator touches the operating
// system. Every method aborts the process on failure — the allocator
// treats these four primitives as infallible by contract.
type platformGateway interface {
	// ExtendBreak grows the contiguous region by exactly delta bytes
	// and returns the base address of the newly added span.
	ExtendBreak(delta int) unsafe.Pointer
	// MapAnonymous returns a fresh private read/write anonymous
	// mapping of the given size.
	MapAnonymous(size int) unsafe.Pointer
	// Unmap releases a mapping previously returned by MapAnonymous.
	Unmap(base unsafe.Pointer, size int)
	// PageSize reports the operating system page size.
	PageSize() int
}

// logger receives one structured entry per public Allocator operation
// when its level permits. It defaults to a level that emits nothing,
// matching the teacher package's opt-in trace convention.
var logger = func() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}()

// SetLogger replaces the package-level debug logger. Passing nil
// restores the default (silent) logger.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.New()
		l.SetLevel(logrus.ErrorLevel)
	}
	logger = l
}

// fatal reports a platform primitive failure and aborts the process.
// It is a variable so tests can intercept it instead of exiting.
var fatal = func(op string, err error) {
	logger.WithError(errors.Wrap(err, op)).Fatal("memory: platform primitive failed")
}
