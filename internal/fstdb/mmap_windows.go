//go:build windows

// Memory-mapping for Windows, grounded on the flock idiom in
// jpl-au-folio's lock_unix.go/lock_windows.go platform split.
package fstdb

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

type mmapping struct {
	data   []byte
	addr   uintptr
	handle windows.Handle
}

func mmapFile(f *os.File, size int) (mmapping, error) {
	h, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READONLY, 0, 0, nil)
	if err != nil {
		return mmapping{}, err
	}

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(h)
		return mmapping{}, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return mmapping{data: data, addr: addr, handle: h}, nil
}

func (m mmapping) unmap() error {
	if m.data == nil {
		return nil
	}
	if err := windows.UnmapViewOfFile(m.addr); err != nil {
		return err
	}
	return windows.CloseHandle(m.handle)
}
