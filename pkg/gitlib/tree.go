package gitlib

import (
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// ErrNotAFile is returned when a tree path resolves to something other than a
// blob.
var ErrNotAFile = errors.New("path is not a file")

// Tree wraps a libgit2 tree.
type Tree struct {
	tree *git2go.Tree
	repo *Repository
}

// Hash returns the tree hash.
func (t *Tree) Hash() Hash {
	return HashFromOid(t.tree.Id())
}

// File resolves path to a blob entry and returns it as a File. A path naming
// a directory or another non-blob object yields ErrNotAFile.
func (t *Tree) File(path string) (*File, error) {
	entry, err := t.tree.EntryByPath(path)
	if err != nil {
		return nil, fmt.Errorf("entry by path: %w", err)
	}

	if entry.Type != git2go.ObjectBlob {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	return &File{
		Name: path,
		Hash: HashFromOid(entry.Id),
		repo: t.repo,
	}, nil
}

// Free releases the tree resources.
func (t *Tree) Free() {
	if t.tree != nil {
		t.tree.Free()
		t.tree = nil
	}
}
