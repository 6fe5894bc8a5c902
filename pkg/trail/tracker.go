// Package trail resolves the name a tracked file carried at each commit of
// its history, following the renames and copies recorded in per-commit path
// status records.
package trail

import (
	"fmt"

	"github.com/Sumatoshi-tech/filetrail/pkg/gitlib"
)

// Commit is the commit metadata the tracker reads. Both live repository
// commits and test commits satisfy it.
type Commit interface {
	Hash() gitlib.Hash
	Author() gitlib.Signature
	Summary() string
}

// StatusSource supplies the path status records a commit introduced relative
// to its first parent.
type StatusSource interface {
	PathStatus(hash gitlib.Hash) ([]gitlib.PathStatus, error)
}

// Resolution is the outcome of resolving the tracked path against a single
// commit's status records.
type Resolution struct {
	// Path is the tracked file's name at this commit.
	Path string

	// Matched reports whether any record mentioned the incoming path.
	Matched bool

	// Ambiguous reports that more than one record matched, so the result
	// depends on record order.
	Ambiguous bool
}

// Revision is one resolved entry of a file's history.
type Revision struct {
	Hash      gitlib.Hash
	Author    gitlib.Signature
	Summary   string
	Path      string
	Matched   bool
	Ambiguous bool
}

// ResolvePath resolves the tracked path against one commit's status records.
// prev is the file's name on the newer side of the commit. Records are
// scanned in order: a rename or copy whose destination equals prev resolves
// to its source, one whose source equals prev resolves to its destination,
// and a plain add, modify or delete of prev keeps the name unchanged. The
// last matching record wins. Without any match the name falls through
// untouched with Matched false.
func ResolvePath(prev string, records []gitlib.PathStatus) Resolution {
	res := Resolution{Path: prev}

	for _, rec := range records {
		next, ok := matchRecord(rec, prev)
		if !ok {
			continue
		}

		if res.Matched {
			res.Ambiguous = true
		}

		res.Matched = true
		res.Path = next
	}

	return res
}

// matchRecord reports whether a single record mentions prev and the name it
// resolves to.
func matchRecord(rec gitlib.PathStatus, prev string) (string, bool) {
	if rec.IsRenameOrCopy() {
		switch prev {
		case rec.NewPath:
			return rec.OldPath, true
		case rec.OldPath:
			return rec.NewPath, true
		}

		return "", false
	}

	if rec.Path() == prev {
		return prev, true
	}

	return "", false
}

// Tracker folds a file's tracked name through an ordered commit history.
type Tracker struct {
	source StatusSource
}

// NewTracker creates a tracker reading path status records from source.
func NewTracker(source StatusSource) *Tracker {
	return &Tracker{source: source}
}

// ResolveAll resolves the tracked name for every commit. start names the
// file on the newest side and commits arrive newest first, the order a
// history walk produces. Each commit's resolved name feeds the next older
// commit, since a rename recorded in a newer commit binds the file's older
// name. Revisions come back oldest first, the order they are exported in.
func (t *Tracker) ResolveAll(start string, commits []Commit) ([]Revision, error) {
	revisions := make([]Revision, 0, len(commits))

	path := start

	for _, commit := range commits {
		records, err := t.source.PathStatus(commit.Hash())
		if err != nil {
			return nil, fmt.Errorf("path status for %s: %w", commit.Hash(), err)
		}

		res := ResolvePath(path, records)

		revisions = append(revisions, Revision{
			Hash:      commit.Hash(),
			Author:    commit.Author(),
			Summary:   commit.Summary(),
			Path:      res.Path,
			Matched:   res.Matched,
			Ambiguous: res.Ambiguous,
		})

		path = res.Path
	}

	reverseRevisions(revisions)

	return revisions, nil
}

// reverseRevisions flips the slice in place from walk order to export order.
func reverseRevisions(revisions []Revision) {
	for i, j := 0, len(revisions)-1; i < j; i, j = i+1, j-1 {
		revisions[i], revisions[j] = revisions[j], revisions[i]
	}
}
