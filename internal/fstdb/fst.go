package fstdb

import "os"

// FST is a read-only, memory-mapped finite-state transducer database. It is
// safe to share a single FST across many Engines and goroutines: nothing
// about it is ever mutated after Open returns (spec.md §5).
type FST struct {
	file *os.File
	mm   mmapping
	hdr  header
	keys int
}

// Open memory-maps the database file at path and validates its header.
func Open(path string) (*FST, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := int(info.Size())
	if size < headerSize {
		f.Close()
		return nil, ErrCorrupt
	}

	mm, err := mmapFile(f, size)
	if err != nil {
		f.Close()
		return nil, err
	}

	hdr, err := decodeHeader(mm.data)
	if err != nil {
		mm.unmap()
		f.Close()
		return nil, err
	}

	return &FST{file: f, mm: mm, hdr: hdr, keys: int(hdr.keyCount)}, nil
}

// Close unmaps the database and closes the underlying file.
func (f *FST) Close() error {
	unmapErr := f.mm.unmap()
	closeErr := f.file.Close()
	if unmapErr != nil {
		return unmapErr
	}
	return closeErr
}

// KeyCount returns the diagnostic key count recorded at build time.
func (f *FST) KeyCount() int { return f.keys }

func (f *FST) nodeRegion() []byte {
	return f.mm.data[headerSize:]
}

func (f *FST) nodeAt(addr uint32) (decodedNode, error) {
	return decodeNodeAt(f.nodeRegion(), addr)
}

func (f *FST) root() (decodedNode, error) {
	return f.nodeAt(f.hdr.rootAddr)
}
