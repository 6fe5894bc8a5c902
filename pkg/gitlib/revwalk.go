package gitlib

import (
	"fmt"
	"io"

	git2go "github.com/libgit2/git2go/v34"
)

// RevWalk wraps a libgit2 revision walker.
type RevWalk struct {
	walk *git2go.RevWalk
	repo *Repository
}

// Push adds a commit to start walking from.
func (w *RevWalk) Push(hash Hash) error {
	err := w.walk.Push(hash.ToOid())
	if err != nil {
		return fmt.Errorf("push to revwalk: %w", err)
	}

	return nil
}

// PushHead adds HEAD to start walking from.
func (w *RevWalk) PushHead() error {
	head, err := w.repo.Head()
	if err != nil {
		return err
	}

	return w.Push(head)
}

// SortByTime orders the walk newest first by commit time, breaking ties
// topologically the way git log does.
func (w *RevWalk) SortByTime() {
	w.walk.Sorting(git2go.SortTime | git2go.SortTopological)
}

// Next returns the next commit hash in the walk. An exhausted or freed
// walker reports io.EOF; any other walk failure comes back wrapped.
func (w *RevWalk) Next() (Hash, error) {
	if w.walk == nil {
		return Hash{}, io.EOF
	}

	oid := new(git2go.Oid)

	err := w.walk.Next(oid)
	if err != nil {
		if git2go.IsErrorCode(err, git2go.ErrorCodeIterOver) {
			return Hash{}, io.EOF
		}

		return Hash{}, fmt.Errorf("revwalk next: %w", err)
	}

	return HashFromOid(oid), nil
}

// Free releases the walker resources.
func (w *RevWalk) Free() {
	if w.walk != nil {
		w.walk.Free()
		w.walk = nil
	}
}
