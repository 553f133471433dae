// Package mmap maps snapshot and reference files read-only into memory.
//
//	m, err := mmap.Open("index.snap")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//	m.Advise(mmap.AccessSequential)
//
// Unix systems use mmap(2) and madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile, where Advise is a no-op.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers
// must not use slices returned by Bytes after it returns.
package mmap
