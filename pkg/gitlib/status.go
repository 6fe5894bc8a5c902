package gitlib

import (
	git2go "github.com/libgit2/git2go/v34"
)

// StatusCode identifies how a commit touched a path, using git's name-status
// letters.
type StatusCode byte

const (
	// StatusAdded indicates the path was created.
	StatusAdded StatusCode = 'A'
	// StatusModified indicates the path's content changed.
	StatusModified StatusCode = 'M'
	// StatusDeleted indicates the path was removed.
	StatusDeleted StatusCode = 'D'
	// StatusRenamed indicates the path moved from OldPath to NewPath.
	StatusRenamed StatusCode = 'R'
	// StatusCopied indicates NewPath was created as a copy of OldPath.
	StatusCopied StatusCode = 'C'
)

// PathStatus is one path-level change record from a commit's diff against its
// first parent. Renames and copies carry both operands. Single-operand
// records leave the unused side empty.
type PathStatus struct {
	Code       StatusCode
	OldPath    string
	NewPath    string
	Similarity uint16
}

// Path returns the operand of a single-operand record: the new path for
// additions and modifications, the old path for deletions.
func (s PathStatus) Path() string {
	if s.NewPath != "" {
		return s.NewPath
	}

	return s.OldPath
}

// IsRenameOrCopy reports whether the record carries two distinct operands.
func (s PathStatus) IsRenameOrCopy() bool {
	return s.Code == StatusRenamed || s.Code == StatusCopied
}

// DetectOptions controls rename and copy detection. Thresholds are similarity
// percentages in the 1..100 range, matching git's -M/-C values. Zero keeps
// libgit2's default.
type DetectOptions struct {
	RenameThreshold uint16
	CopyThreshold   uint16
}

// StatusDiff computes the path status records a commit introduced relative to
// its first parent, with rename and copy detection applied. A parentless
// commit yields no records, matching git diff-tree without --root.
func StatusDiff(repo *Repository, commit *Commit, opts DetectOptions) ([]PathStatus, error) {
	if commit.NumParents() == 0 {
		return nil, nil
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return nil, err
	}
	defer parent.Free()

	oldTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}
	defer oldTree.Free()

	newTree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	defer newTree.Free()

	diff, err := repo.DiffTreeToTree(oldTree, newTree)
	if err != nil {
		return nil, err
	}
	defer diff.Free()

	err = diff.FindSimilar(opts)
	if err != nil {
		return nil, err
	}

	return collectStatuses(diff)
}

// collectStatuses maps the diff's deltas into PathStatus records, preserving
// provider order.
func collectStatuses(diff *Diff) ([]PathStatus, error) {
	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, err
	}

	records := make([]PathStatus, 0, numDeltas)

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			continue
		}

		switch delta.Status {
		case git2go.DeltaAdded:
			records = append(records, PathStatus{Code: StatusAdded, NewPath: delta.NewFile.Path})
		case git2go.DeltaDeleted:
			records = append(records, PathStatus{Code: StatusDeleted, OldPath: delta.OldFile.Path})
		case git2go.DeltaModified:
			records = append(records, PathStatus{
				Code:    StatusModified,
				OldPath: delta.OldFile.Path,
				NewPath: delta.NewFile.Path,
			})
		case git2go.DeltaRenamed:
			records = append(records, PathStatus{
				Code:       StatusRenamed,
				OldPath:    delta.OldFile.Path,
				NewPath:    delta.NewFile.Path,
				Similarity: delta.Similarity,
			})
		case git2go.DeltaCopied:
			records = append(records, PathStatus{
				Code:       StatusCopied,
				OldPath:    delta.OldFile.Path,
				NewPath:    delta.NewFile.Path,
				Similarity: delta.Similarity,
			})
		case git2go.DeltaUnmodified, git2go.DeltaIgnored, git2go.DeltaUntracked,
			git2go.DeltaTypeChange, git2go.DeltaUnreadable, git2go.DeltaConflicted:
			// Not path changes.
			continue
		}
	}

	return records, nil
}
