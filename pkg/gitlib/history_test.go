package gitlib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/filetrail/pkg/gitlib"
)

func touchedHashes(t *testing.T, repo *gitlib.Repository, path string, limit int) []gitlib.Hash {
	t.Helper()

	history := gitlib.NewHistory(repo, gitlib.DetectOptions{})

	commits, err := history.CommitsTouching(path, limit)
	require.NoError(t, err)

	defer gitlib.FreeCommits(commits)

	hashes := make([]gitlib.Hash, 0, len(commits))
	for _, commit := range commits {
		hashes = append(hashes, commit.Hash())
	}

	return hashes
}

func TestHistoryCommitsTouchingLinear(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("tracked.md", "v1\n")
	first := tr.commit("add tracked")

	tr.createFile("other.txt", "noise\n")
	tr.commit("add other")

	tr.createFile("tracked.md", "v1\nv2\n")
	third := tr.commit("grow tracked")

	tr.createFile("other.txt", "more noise\n")
	tr.commit("change other")

	repo := tr.open()
	defer repo.Free()

	hashes := touchedHashes(t, repo, "tracked.md", 0)

	require.Len(t, hashes, 2)
	assert.Equal(t, third, hashes[0])
	assert.Equal(t, first, hashes[1])
}

func TestHistoryCommitsTouchingFollowsRename(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("old.md", "alpha\nbravo\ncharlie\n")
	first := tr.commit("add old")

	tr.createFile("old.md", "alpha\nbravo\ncharlie\ndelta\n")
	second := tr.commit("grow old")

	tr.renameFile("old.md", "new.md")
	third := tr.commit("rename old to new")

	tr.createFile("unrelated.txt", "x\n")
	tr.commit("unrelated")

	repo := tr.open()
	defer repo.Free()

	hashes := touchedHashes(t, repo, "new.md", 0)

	require.Len(t, hashes, 3)
	assert.Equal(t, third, hashes[0])
	assert.Equal(t, second, hashes[1])
	assert.Equal(t, first, hashes[2])
}

func TestHistoryCommitsTouchingLimit(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("f.txt", "1\n")
	tr.commit("one")

	tr.createFile("f.txt", "1\n2\n")
	second := tr.commit("two")

	tr.createFile("f.txt", "1\n2\n3\n")
	third := tr.commit("three")

	repo := tr.open()
	defer repo.Free()

	hashes := touchedHashes(t, repo, "f.txt", 2)

	require.Len(t, hashes, 2)
	assert.Equal(t, third, hashes[0])
	assert.Equal(t, second, hashes[1])
}

func TestHistoryCommitsTouchingMissingPath(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("present.txt", "x\n")
	tr.commit("init")

	repo := tr.open()
	defer repo.Free()

	hashes := touchedHashes(t, repo, "absent.txt", 0)
	assert.Empty(t, hashes)
}

func TestHistorySkipsMergeCommits(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("f.txt", "v1\n")
	first := tr.commit("one")

	tr.createFile("f.txt", "v2\n")
	second := tr.commit("two")

	tr.createFile("f.txt", "v3\n")
	merge := tr.mergeCommit("merge", first)

	repo := tr.open()
	defer repo.Free()

	hashes := touchedHashes(t, repo, "f.txt", 0)

	require.Len(t, hashes, 2)
	assert.Equal(t, second, hashes[0])
	assert.Equal(t, first, hashes[1])
	assert.NotContains(t, hashes, merge)
}

func TestHistoryPathStatusCached(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("f.txt", "v1\n")
	root := tr.commit("one")

	tr.createFile("f.txt", "v2\n")
	change := tr.commit("two")

	repo := tr.open()
	defer repo.Free()

	history := gitlib.NewHistory(repo, gitlib.DetectOptions{})

	first, err := history.PathStatus(change)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, gitlib.StatusModified, first[0].Code)

	again, err := history.PathStatus(change)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	rootRecords, err := history.PathStatus(root)
	require.NoError(t, err)
	assert.Empty(t, rootRecords)
}

func TestHistoryContentAt(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("f.txt", "first version\n")
	first := tr.commit("one")

	tr.createFile("f.txt", "second version\n")
	second := tr.commit("two")

	repo := tr.open()
	defer repo.Free()

	history := gitlib.NewHistory(repo, gitlib.DetectOptions{})

	content, err := history.ContentAt(first, "f.txt")
	require.NoError(t, err)
	assert.Equal(t, "first version\n", string(content))

	content, err = history.ContentAt(second, "f.txt")
	require.NoError(t, err)
	assert.Equal(t, "second version\n", string(content))

	_, err = history.ContentAt(second, "missing.txt")
	require.Error(t, err)
}

func TestHistoryPatchForRootCommit(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("f.txt", "line one\n")
	root := tr.commit("init")

	repo := tr.open()
	defer repo.Free()

	history := gitlib.NewHistory(repo, gitlib.DetectOptions{})

	patch, err := history.PatchFor(root, "f.txt")
	require.NoError(t, err)

	assert.Contains(t, patch, "new file")
	assert.Contains(t, patch, "+line one")
}

func TestHistoryPatchForModification(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("f.txt", "old line\n")
	tr.commit("one")

	tr.createFile("f.txt", "new line\n")
	change := tr.commit("two")

	tr.createFile("g.txt", "unrelated\n")
	other := tr.commit("three")

	repo := tr.open()
	defer repo.Free()

	history := gitlib.NewHistory(repo, gitlib.DetectOptions{})

	patch, err := history.PatchFor(change, "f.txt")
	require.NoError(t, err)

	assert.Contains(t, patch, "-old line")
	assert.Contains(t, patch, "+new line")

	untouched, err := history.PatchFor(other, "f.txt")
	require.NoError(t, err)
	assert.Empty(t, untouched)
}

func TestHistoryPatchForRename(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("old.md", "alpha\nbravo\ncharlie\n")
	tr.commit("init")

	tr.renameFile("old.md", "new.md")
	rename := tr.commit("rename")

	repo := tr.open()
	defer repo.Free()

	history := gitlib.NewHistory(repo, gitlib.DetectOptions{})

	patch, err := history.PatchFor(rename, "new.md")
	require.NoError(t, err)

	assert.Contains(t, patch, "rename from old.md")
	assert.Contains(t, patch, "rename to new.md")
}
