package export_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/filetrail/pkg/export"
	"github.com/Sumatoshi-tech/filetrail/pkg/gitlib"
	"github.com/Sumatoshi-tech/filetrail/pkg/render"
	"github.com/Sumatoshi-tech/filetrail/pkg/trail"
)

const samplePatchText = `diff --git a/docs/guide.md b/docs/guide.md
--- a/docs/guide.md
+++ b/docs/guide.md
@@ -1,2 +1,2 @@
-old line
+new line
+another added
 context
`

// fakeExportSource serves content and patches keyed by commit and path.
// Missing keys return errors, standing in for unreadable revisions.
type fakeExportSource struct {
	contents map[string][]byte
	patches  map[string]string
}

func sourceKey(hash gitlib.Hash, path string) string {
	return hash.String() + ":" + path
}

func (s *fakeExportSource) ContentAt(hash gitlib.Hash, path string) ([]byte, error) {
	content, ok := s.contents[sourceKey(hash, path)]
	if !ok {
		return nil, fmt.Errorf("no blob for %s", path)
	}

	return content, nil
}

func (s *fakeExportSource) PatchFor(hash gitlib.Hash, path string) (string, error) {
	patch, ok := s.patches[sourceKey(hash, path)]
	if !ok {
		return "", fmt.Errorf("no diff for %s", path)
	}

	return patch, nil
}

type fakeRenderer struct {
	html string
	err  error
}

func (r *fakeRenderer) Render(string) (string, error) {
	if r.err != nil {
		return "", r.err
	}

	return r.html, nil
}

func (r *fakeRenderer) Name() string { return "fake" }

func exportRevision(hash gitlib.Hash, unix int64) trail.Revision {
	return trail.Revision{
		Hash: hash,
		Author: gitlib.Signature{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			When:  time.Unix(unix, 0).UTC(),
		},
		Summary: "change guide",
		Path:    "docs/guide.md",
		Matched: true,
	}
}

func readSummary(t *testing.T, dir string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, export.SummaryFileName))
	require.NoError(t, err)

	return string(data)
}

func TestNewExporterCreatesDirAndSummary(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "history_guide.md")
	source := &fakeExportSource{}

	exporter, err := export.NewExporter(source, export.Options{Dir: dir})
	require.NoError(t, err)

	artifacts, err := exporter.ExportAll(nil)
	require.NoError(t, err)
	require.NoError(t, exporter.Close())

	assert.Empty(t, artifacts)
	assert.DirExists(t, dir)
	assert.Empty(t, readSummary(t, dir))
}

func TestExportAllWritesContentAndPatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hash := gitlib.Hash{0x01}
	rev := exportRevision(hash, 1700000000)
	content := []byte("# Guide\n\nnew line\nanother added\ncontext\n")

	source := &fakeExportSource{
		contents: map[string][]byte{sourceKey(hash, rev.Path): content},
		patches:  map[string]string{sourceKey(hash, rev.Path): samplePatchText},
	}

	exporter, err := export.NewExporter(source, export.Options{Dir: dir})
	require.NoError(t, err)

	artifacts, err := exporter.ExportAll([]trail.Revision{rev})
	require.NoError(t, err)
	require.NoError(t, exporter.Close())

	require.Len(t, artifacts, 1)
	art := artifacts[0]

	base := "1700000000_" + hash.String() + "_guide.md"
	assert.Equal(t, base, art.ContentFile)
	assert.Equal(t, base+".patch", art.PatchFile)
	assert.Empty(t, art.HTMLFile)
	assert.Equal(t, int64(len(content)), art.ContentSize)
	assert.Equal(t, "Markdown", art.Language)
	assert.Equal(t, 5, art.Lines)
	assert.Equal(t, 2, art.Added)
	assert.Equal(t, 1, art.Removed)

	written, err := os.ReadFile(filepath.Join(dir, art.ContentFile))
	require.NoError(t, err)
	assert.Equal(t, content, written)

	patch, err := os.ReadFile(filepath.Join(dir, art.PatchFile))
	require.NoError(t, err)
	assert.Equal(t, samplePatchText, string(patch))

	summary := readSummary(t, dir)
	assert.Contains(t, summary, "Fichier extrait : "+base+"\n")
	assert.Contains(t, summary, "Patch : "+base+".patch\n")
}

func TestExportAllMissingContentKeepsPatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hash := gitlib.Hash{0x02}
	rev := exportRevision(hash, 1700000100)

	source := &fakeExportSource{
		patches: map[string]string{sourceKey(hash, rev.Path): samplePatchText},
	}

	exporter, err := export.NewExporter(source, export.Options{Dir: dir})
	require.NoError(t, err)

	artifacts, err := exporter.ExportAll([]trail.Revision{rev})
	require.NoError(t, err)
	require.NoError(t, exporter.Close())

	require.Len(t, artifacts, 1)
	assert.Empty(t, artifacts[0].ContentFile)
	assert.NotEmpty(t, artifacts[0].PatchFile)

	summary := readSummary(t, dir)
	assert.NotContains(t, summary, "Fichier extrait")
	assert.Contains(t, summary, "Patch : ")
}

func TestExportAllBinaryContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hash := gitlib.Hash{0x0b}
	rev := exportRevision(hash, 1700000250)
	content := []byte("PK\x03\x04\x00\x00binary payload")

	source := &fakeExportSource{
		contents: map[string][]byte{sourceKey(hash, rev.Path): content},
		patches:  map[string]string{sourceKey(hash, rev.Path): samplePatchText},
	}

	exporter, err := export.NewExporter(source, export.Options{Dir: dir})
	require.NoError(t, err)

	artifacts, err := exporter.ExportAll([]trail.Revision{rev})
	require.NoError(t, err)
	require.NoError(t, exporter.Close())

	require.Len(t, artifacts, 1)
	art := artifacts[0]
	assert.NotEmpty(t, art.ContentFile)
	assert.Equal(t, int64(len(content)), art.ContentSize)
	assert.Empty(t, art.Language)
	assert.Zero(t, art.Lines)
}

func TestExportAllEmptyPatchOmitted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hash := gitlib.Hash{0x03}
	rev := exportRevision(hash, 1700000200)

	source := &fakeExportSource{
		contents: map[string][]byte{sourceKey(hash, rev.Path): []byte("content\n")},
		patches:  map[string]string{sourceKey(hash, rev.Path): ""},
	}

	exporter, err := export.NewExporter(source, export.Options{Dir: dir})
	require.NoError(t, err)

	artifacts, err := exporter.ExportAll([]trail.Revision{rev})
	require.NoError(t, err)
	require.NoError(t, exporter.Close())

	require.Len(t, artifacts, 1)
	assert.NotEmpty(t, artifacts[0].ContentFile)
	assert.Empty(t, artifacts[0].PatchFile)
	assert.Zero(t, artifacts[0].Added)
	assert.Zero(t, artifacts[0].Removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Name(), ".patch"))
	}
}

func TestExportAllCompressedContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hash := gitlib.Hash{0x04}
	rev := exportRevision(hash, 1700000300)
	content := bytes.Repeat([]byte("repetitive line of content\n"), 64)

	source := &fakeExportSource{
		contents: map[string][]byte{sourceKey(hash, rev.Path): content},
		patches:  map[string]string{sourceKey(hash, rev.Path): samplePatchText},
	}

	exporter, err := export.NewExporter(source, export.Options{Dir: dir, Compress: true})
	require.NoError(t, err)

	artifacts, err := exporter.ExportAll([]trail.Revision{rev})
	require.NoError(t, err)
	require.NoError(t, exporter.Close())

	require.Len(t, artifacts, 1)
	art := artifacts[0]
	assert.True(t, strings.HasSuffix(art.ContentFile, ".lz4"))
	assert.Equal(t, int64(len(content)), art.ContentSize)

	compressed, err := os.ReadFile(filepath.Join(dir, art.ContentFile))
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(content))

	decompressed, err := io.ReadAll(lz4.NewReader(bytes.NewReader(compressed)))
	require.NoError(t, err)
	assert.Equal(t, content, decompressed)
}

func TestExportAllRendersHTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hash := gitlib.Hash{0x05}
	rev := exportRevision(hash, 1700000400)

	source := &fakeExportSource{
		contents: map[string][]byte{sourceKey(hash, rev.Path): []byte("content\n")},
		patches:  map[string]string{sourceKey(hash, rev.Path): samplePatchText},
	}

	renderer := &fakeRenderer{html: "<html><body>diff</body></html>"}

	exporter, err := export.NewExporter(source, export.Options{Dir: dir, HTML: true, Renderer: renderer})
	require.NoError(t, err)

	artifacts, err := exporter.ExportAll([]trail.Revision{rev})
	require.NoError(t, err)
	require.NoError(t, exporter.Close())

	require.Len(t, artifacts, 1)
	require.NotEmpty(t, artifacts[0].HTMLFile)

	html, err := os.ReadFile(filepath.Join(dir, artifacts[0].HTMLFile))
	require.NoError(t, err)
	assert.Equal(t, renderer.html, string(html))

	summary := readSummary(t, dir)
	assert.Contains(t, summary, "HTML : "+artifacts[0].HTMLFile+"\n")
}

func TestExportAllRendererUnavailable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hash1 := gitlib.Hash{0x06}
	hash2 := gitlib.Hash{0x07}
	rev1 := exportRevision(hash1, 1700000500)
	rev2 := exportRevision(hash2, 1700000600)

	source := &fakeExportSource{
		contents: map[string][]byte{
			sourceKey(hash1, rev1.Path): []byte("one\n"),
			sourceKey(hash2, rev2.Path): []byte("two\n"),
		},
		patches: map[string]string{
			sourceKey(hash1, rev1.Path): samplePatchText,
			sourceKey(hash2, rev2.Path): samplePatchText,
		},
	}

	renderer := &fakeRenderer{err: fmt.Errorf("%w: diff2html", render.ErrUnavailable)}

	exporter, err := export.NewExporter(source, export.Options{Dir: dir, HTML: true, Renderer: renderer})
	require.NoError(t, err)

	artifacts, err := exporter.ExportAll([]trail.Revision{rev1, rev2})
	require.NoError(t, err)
	require.NoError(t, exporter.Close())

	require.Len(t, artifacts, 2)
	assert.Empty(t, artifacts[0].HTMLFile)
	assert.Empty(t, artifacts[1].HTMLFile)
	assert.NotEmpty(t, artifacts[0].PatchFile)
	assert.NotEmpty(t, artifacts[1].PatchFile)
}

func TestExportAllRendererFailureIsolated(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hash := gitlib.Hash{0x08}
	rev := exportRevision(hash, 1700000700)

	source := &fakeExportSource{
		contents: map[string][]byte{sourceKey(hash, rev.Path): []byte("content\n")},
		patches:  map[string]string{sourceKey(hash, rev.Path): samplePatchText},
	}

	renderer := &fakeRenderer{err: errors.New("renderer crashed")}

	exporter, err := export.NewExporter(source, export.Options{Dir: dir, HTML: true, Renderer: renderer})
	require.NoError(t, err)

	artifacts, err := exporter.ExportAll([]trail.Revision{rev})
	require.NoError(t, err)
	require.NoError(t, exporter.Close())

	require.Len(t, artifacts, 1)
	assert.Empty(t, artifacts[0].HTMLFile)
	assert.NotEmpty(t, artifacts[0].ContentFile)
	assert.NotEmpty(t, artifacts[0].PatchFile)
}

func TestExportAllSummaryFollowsRevisionOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hash1 := gitlib.Hash{0x09}
	hash2 := gitlib.Hash{0x0a}
	rev1 := exportRevision(hash1, 1700000800)
	rev2 := exportRevision(hash2, 1700000900)

	source := &fakeExportSource{
		contents: map[string][]byte{
			sourceKey(hash1, rev1.Path): []byte("one\n"),
			sourceKey(hash2, rev2.Path): []byte("two\n"),
		},
		patches: map[string]string{
			sourceKey(hash1, rev1.Path): samplePatchText,
			sourceKey(hash2, rev2.Path): samplePatchText,
		},
	}

	exporter, err := export.NewExporter(source, export.Options{Dir: dir})
	require.NoError(t, err)

	_, err = exporter.ExportAll([]trail.Revision{rev1, rev2})
	require.NoError(t, err)
	require.NoError(t, exporter.Close())

	summary := readSummary(t, dir)
	first := strings.Index(summary, hash1.String())
	second := strings.Index(summary, hash2.String())
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
}
