//go:build unix || linux || darwin

// Memory-mapping for Unix platforms, grounded on the flock idiom in
// jpl-au-folio's lock_unix.go/lock_windows.go platform split.
package fstdb

import (
	"os"

	"golang.org/x/sys/unix"
)

type mmapping struct {
	data []byte
}

func mmapFile(f *os.File, size int) (mmapping, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return mmapping{}, err
	}
	return mmapping{data: data}, nil
}

func (m mmapping) unmap() error {
	if m.data == nil {
		return nil
	}
	return unix.Munmap(m.data)
}
