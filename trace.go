// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "github.com/sirupsen/logrus"

// logFields builds the structured fields attached to a debug trace
// entry for one public operation. b may be nil when the block has
// already been removed from the registry (e.g. after an unmap).
func logFields(op string, requested int, b *block) logrus.Fields {
	f := logrus.Fields{
		"op":        op,
		"requested": requested,
	}
	if b != nil {
		f["state"] = b.state.String()
		f["payload_size"] = int(b.payloadSize)
	}
	return f
}

// trace emits one structured debug entry for a public operation. The
// fields map is built only if the debug level is actually enabled, so
// a silent logger (the default) costs callers nothing beyond this
// level check, matching the teacher's own "if trace {...}" guard
// around its ad hoc fmt.Fprintf tracing.
func trace(op string, requested int, b *block, msg string) {
	if !logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	logger.WithFields(logFields(op, requested, b)).Debug(msg)
}
