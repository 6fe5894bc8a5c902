package gitlib

import (
	"strings"
)

// History resolves the commit history of a single path, following renames and
// copies the way git log --follow does. All diffs run with one set of
// detection thresholds, so list construction and later per-commit resolution
// agree on what each commit did.
type History struct {
	repo  *Repository
	opts  DetectOptions
	cache map[Hash][]PathStatus
}

// NewHistory creates a history resolver bound to a repository and detection
// thresholds.
func NewHistory(repo *Repository, opts DetectOptions) *History {
	return &History{
		repo:  repo,
		opts:  opts,
		cache: make(map[Hash][]PathStatus),
	}
}

// CommitsTouching walks the commit graph from HEAD and returns the commits
// that changed the given path, newest first. The anchor path hops to the
// rename or copy source whenever a commit created the current anchor that
// way, so the walk continues across renames. Merge commits are skipped,
// matching git log's default simplification. A positive limit caps the number
// of returned commits. The caller owns the returned commits and must Free
// them.
func (h *History) CommitsTouching(path string, limit int) ([]*Commit, error) {
	iter, err := h.repo.Log()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var matched []*Commit

	anchor := path

	for {
		commit, nextErr := iter.Next()
		if nextErr != nil {
			break
		}

		if limit > 0 && len(matched) >= limit {
			commit.Free()

			break
		}

		member, nextAnchor, considerErr := h.consider(commit, anchor)
		if considerErr != nil {
			commit.Free()
			FreeCommits(matched)

			return nil, considerErr
		}

		anchor = nextAnchor

		if member {
			matched = append(matched, commit)
		} else {
			commit.Free()
		}
	}

	return matched, nil
}

// consider decides whether a commit belongs to the path's history and where
// the anchor moves next. The scan mirrors the tracker's record matching so
// both phases agree on membership.
func (h *History) consider(commit *Commit, anchor string) (bool, string, error) {
	// A merge introduces no first-parent change of its own.
	if commit.NumParents() > 1 {
		return false, anchor, nil
	}

	if commit.NumParents() == 0 {
		_, err := commit.File(anchor)
		if err != nil {
			return false, anchor, nil
		}

		return true, anchor, nil
	}

	records, err := h.statusOf(commit)
	if err != nil {
		return false, anchor, err
	}

	member := false
	next := anchor

	for _, rec := range records {
		switch {
		case rec.IsRenameOrCopy() && rec.NewPath == anchor:
			member = true
			next = rec.OldPath
		case rec.IsRenameOrCopy() && rec.OldPath == anchor:
			member = true
		case !rec.IsRenameOrCopy() && rec.Path() == anchor:
			member = true
		}
	}

	return member, next, nil
}

// statusOf returns the commit's cached status records, computing them on
// first use.
func (h *History) statusOf(commit *Commit) ([]PathStatus, error) {
	hash := commit.Hash()

	if records, ok := h.cache[hash]; ok {
		return records, nil
	}

	records, err := StatusDiff(h.repo, commit, h.opts)
	if err != nil {
		return nil, err
	}

	h.cache[hash] = records

	return records, nil
}

// PathStatus returns the path status records the given commit introduced
// relative to its first parent. Results are cached per commit, so repeated
// calls (and the walk in CommitsTouching) observe identical records.
func (h *History) PathStatus(hash Hash) ([]PathStatus, error) {
	if records, ok := h.cache[hash]; ok {
		return records, nil
	}

	commit, err := h.repo.LookupCommit(hash)
	if err != nil {
		return nil, err
	}
	defer commit.Free()

	return h.statusOf(commit)
}

// ContentAt returns the content of path in the commit's tree.
func (h *History) ContentAt(hash Hash, path string) ([]byte, error) {
	commit, err := h.repo.LookupCommit(hash)
	if err != nil {
		return nil, err
	}
	defer commit.Free()

	file, err := commit.File(path)
	if err != nil {
		return nil, err
	}

	return file.Contents()
}

// PatchFor returns the unified diff text of the change the commit introduced
// to path, relative to its first parent. The result is empty when the commit
// did not touch the path. A parentless commit diffs against the empty tree,
// so its patch is the initial add.
func (h *History) PatchFor(hash Hash, path string) (string, error) {
	commit, err := h.repo.LookupCommit(hash)
	if err != nil {
		return "", err
	}
	defer commit.Free()

	var oldTree *Tree

	if commit.NumParents() > 0 {
		parent, parentErr := commit.Parent(0)
		if parentErr != nil {
			return "", parentErr
		}
		defer parent.Free()

		oldTree, err = parent.Tree()
		if err != nil {
			return "", err
		}
		defer oldTree.Free()
	}

	newTree, err := commit.Tree()
	if err != nil {
		return "", err
	}
	defer newTree.Free()

	diff, err := h.repo.DiffTreeToTree(oldTree, newTree)
	if err != nil {
		return "", err
	}
	defer diff.Free()

	err = diff.FindSimilar(h.opts)
	if err != nil {
		return "", err
	}

	return patchForPath(diff, path)
}

// patchForPath concatenates the patches of every delta whose old or new side
// is the requested path.
func patchForPath(diff *Diff, path string) (string, error) {
	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			continue
		}

		if delta.OldFile.Path != path && delta.NewFile.Path != path {
			continue
		}

		text, patchErr := diff.Patch(i)
		if patchErr != nil {
			return "", patchErr
		}

		buf.WriteString(text)
	}

	return buf.String(), nil
}

// FreeCommits releases a slice of commits.
func FreeCommits(commits []*Commit) {
	for _, c := range commits {
		c.Free()
	}
}
