package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Diff wraps a libgit2 diff.
type Diff struct {
	diff *git2go.Diff
}

// NumDeltas returns the number of deltas in the diff.
func (d *Diff) NumDeltas() (int, error) {
	numDeltas, err := d.diff.NumDeltas()
	if err != nil {
		return 0, fmt.Errorf("get num deltas: %w", err)
	}

	return numDeltas, nil
}

// Delta returns the delta at the given index.
func (d *Diff) Delta(index int) (DiffDelta, error) {
	delta, err := d.diff.Delta(index)
	if err != nil {
		return DiffDelta{}, fmt.Errorf("get delta: %w", err)
	}

	return DiffDelta{
		Status:     delta.Status,
		Similarity: delta.Similarity,
		OldFile:    DiffFile{Path: delta.OldFile.Path, Hash: HashFromOid(delta.OldFile.Oid), Size: int64(delta.OldFile.Size)},
		NewFile:    DiffFile{Path: delta.NewFile.Path, Hash: HashFromOid(delta.NewFile.Oid), Size: int64(delta.NewFile.Size)},
		Flags:      delta.Flags,
	}, nil
}

// FindSimilar rewrites the diff's deltas, pairing adds with deletes into
// rename and copy records according to the thresholds. Follows git's -M/-C
// semantics: copy sources must themselves appear in the diff.
func (d *Diff) FindSimilar(opts DetectOptions) error {
	findOpts, err := git2go.DefaultDiffFindOptions()
	if err != nil {
		return fmt.Errorf("get diff find options: %w", err)
	}

	findOpts.Flags = git2go.DiffFindRenames | git2go.DiffFindCopies

	if opts.RenameThreshold > 0 {
		findOpts.RenameThreshold = opts.RenameThreshold
	}

	if opts.CopyThreshold > 0 {
		findOpts.CopyThreshold = opts.CopyThreshold
	}

	err = d.diff.FindSimilar(&findOpts)
	if err != nil {
		return fmt.Errorf("find similar: %w", err)
	}

	return nil
}

// Patch returns the unified diff text for the delta at the given index.
func (d *Diff) Patch(index int) (string, error) {
	patch, err := d.diff.Patch(index)
	if err != nil {
		return "", fmt.Errorf("get patch: %w", err)
	}

	text, strErr := patch.String()

	// Free errors are non-actionable in cleanup.
	_ = patch.Free()

	if strErr != nil {
		return "", fmt.Errorf("render patch: %w", strErr)
	}

	return text, nil
}

// Free releases the diff resources.
func (d *Diff) Free() {
	if d.diff == nil {
		return
	}

	err := d.diff.Free()
	d.diff = nil
	// Consume error - Free() errors are non-actionable in cleanup.
	if err != nil {
		return
	}
}

// DiffDelta represents a file change in a diff.
type DiffDelta struct {
	Status     git2go.Delta
	Similarity uint16
	OldFile    DiffFile
	NewFile    DiffFile
	Flags      git2go.DiffFlag
}

// DiffFile represents a file in a diff delta.
type DiffFile struct {
	Path string
	Hash Hash
	Size int64
}
