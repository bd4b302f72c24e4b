package io

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
)

const (
	FD_STDIN  = 0 // Standard input descriptor.
	FD_STDOUT = 1 // Standard output descriptor.
	FD_STDERR = 2 // Standard error descriptor.

	FD_FIRST = 3   // First descriptor handed out by Open.
	FD_LIMIT = 256 // Descriptors must fit in a register.
)

// Files is a Host over a filesystem. Descriptors 0, 1 and 2 are the standard
// streams; Open hands out the lowest free descriptor from FD_FIRST up.
// Opened files stay open until Close.
type Files struct {
	Fs      afero.Fs            // Filesystem Open resolves paths in.
	Stdio   [FD_FIRST]Tape      // Standard streams.
	Sleeper func(time.Duration) // Sleep implementation; time.Sleep if nil.

	file map[int]afero.File
}

var _ Host = (*Files)(nil)

// NewFiles creates a host over fs, with the process standard streams.
func NewFiles(fs afero.Fs) (files *Files) {
	files = &Files{
		Fs: fs,
		Stdio: [FD_FIRST]Tape{
			{Input: os.Stdin},
			{Output: os.Stdout},
			{Output: os.Stderr},
		},
	}

	return
}

// Open opens path read only.
func (files *Files) Open(path string) (fd int, err error) {
	if files.Fs == nil {
		err = &ErrOpen{Path: path, Err: os.ErrNotExist}
		return
	}

	if files.file == nil {
		files.file = make(map[int]afero.File)
	}

	next := FD_FIRST
	for {
		_, used := files.file[next]
		if !used {
			break
		}
		next++
	}
	if next >= FD_LIMIT {
		err = &ErrOpen{Path: path, Err: ErrDescriptorFull}
		return
	}

	file, err := files.Fs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		err = &ErrOpen{Path: path, Err: err}
		return
	}

	fd = next
	files.file[fd] = file

	return
}

// Read reads from a descriptor. End of file reads zero bytes.
func (files *Files) Read(fd int, data []byte) (n int, err error) {
	if fd >= 0 && fd < FD_FIRST {
		return files.Stdio[fd].Read(data)
	}

	file, ok := files.file[fd]
	if !ok {
		err = ErrDescriptorInvalid
		return
	}

	n, err = file.Read(data)
	if errors.Is(err, io.EOF) {
		err = nil
	}

	return
}

// Write writes to a descriptor. Opened files are read only.
func (files *Files) Write(fd int, data []byte) (n int, err error) {
	if fd >= 0 && fd < FD_FIRST {
		return files.Stdio[fd].Write(data)
	}

	_, ok := files.file[fd]
	if !ok {
		err = ErrDescriptorInvalid
		return
	}

	err = ErrDescriptorReadOnly
	return
}

// Sleep blocks for duration.
func (files *Files) Sleep(duration time.Duration) {
	if files.Sleeper != nil {
		files.Sleeper(duration)
		return
	}

	time.Sleep(duration)
}

// Descriptors returns the number of open files, not counting the standard
// streams.
func (files *Files) Descriptors() int {
	return len(files.file)
}

// Close closes every opened file.
func (files *Files) Close() (err error) {
	var errs []error
	for fd, file := range files.file {
		errs = append(errs, file.Close())
		delete(files.file, fd)
	}

	return errors.Join(errs...)
}
