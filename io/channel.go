// Package io provides the host side of the Yan85 syscall boundary: a
// descriptor table over a filesystem, standard streams, and sleeping.
package io

import (
	"time"
)

// Host defines the operations a running program can request through SYS.
// Descriptors are small integers; the Cpu narrows them to one byte.
type Host interface {
	// Open opens a file by path, read only, and returns its descriptor.
	Open(path string) (fd int, err error)
	// Read reads up to len(data) bytes from a descriptor. End of
	// file is a zero byte read, not an error.
	Read(fd int, data []byte) (n int, err error)
	// Write writes data to a descriptor.
	Write(fd int, data []byte) (n int, err error)
	// Sleep blocks for a duration.
	Sleep(duration time.Duration)
}
