package ast

import (
	"zephyr/internal/source"
)

// Files manages allocation of file nodes.
type Files struct {
	Arena *Arena[FileNode]
}

func NewFiles(capHint uint) *Files {
	if capHint == 0 {
		capHint = 1 << 4
	}
	return &Files{Arena: NewArena[FileNode](capHint)}
}

func (f *Files) New(span source.Span) FileID {
	return FileID(f.Arena.Allocate(FileNode{Span: span}))
}

func (f *Files) Get(id FileID) *FileNode {
	return f.Arena.Get(uint32(id))
}
