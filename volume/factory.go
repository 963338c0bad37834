package volume

import (
	"github.com/viant/afs"
)

// FileFactory creates file volumes sharing one base path: the index
// file at <path> and the data file at <path>.p. File management goes
// through an afs service.
type FileFactory struct {
	path     string
	readOnly bool
	fs       afs.Service
}

// NewFileFactory constructs a factory for the given index-file path.
func NewFileFactory(path string, readOnly bool) *FileFactory {
	return &FileFactory{path: path, readOnly: readOnly, fs: afs.New()}
}

func (f *FileFactory) CreateIndexVolume() (Volume, error) {
	return openFileVolume(f.path, f.readOnly, f.fs)
}

func (f *FileFactory) CreatePhysVolume() (Volume, error) {
	return openFileVolume(f.path+DataFileExt, f.readOnly, f.fs)
}

// Path returns the index-file path.
func (f *FileFactory) Path() string {
	return f.path
}

// MemFactory creates a pair of in-memory volumes.
type MemFactory struct{}

// NewMemFactory constructs an in-memory volume factory.
func NewMemFactory() *MemFactory {
	return &MemFactory{}
}

func (f *MemFactory) CreateIndexVolume() (Volume, error) {
	return NewMem(), nil
}

func (f *MemFactory) CreatePhysVolume() (Volume, error) {
	return NewMem(), nil
}
