package gitlib

import (
	"bytes"
	"io"
)

// File represents a file in a tree with its content accessible.
type File struct {
	Name string
	Hash Hash
	repo *Repository
}

// Contents returns the file contents.
func (f *File) Contents() ([]byte, error) {
	blob, err := f.repo.LookupBlob(f.Hash)
	if err != nil {
		return nil, err
	}
	defer blob.Free()

	return blob.Contents(), nil
}

// Reader returns a reader for the file contents.
func (f *File) Reader() (io.ReadCloser, error) {
	contents, err := f.Contents()
	if err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(contents)), nil
}

// Blob returns the blob object for this file. The caller owns the returned
// blob and must Free it.
func (f *File) Blob() (*Blob, error) {
	return f.repo.LookupBlob(f.Hash)
}
