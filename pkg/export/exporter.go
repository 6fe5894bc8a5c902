package export

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/filetrail/pkg/gitlib"
	"github.com/Sumatoshi-tech/filetrail/pkg/render"
	"github.com/Sumatoshi-tech/filetrail/pkg/textutil"
	"github.com/Sumatoshi-tech/filetrail/pkg/trail"
)

// Source fetches per-commit file data. A repository-backed history satisfies
// it.
type Source interface {
	ContentAt(hash gitlib.Hash, path string) ([]byte, error)
	PatchFor(hash gitlib.Hash, path string) (string, error)
}

// Artifacts lists what was produced for one revision. Empty filenames mean
// the artifact was omitted.
type Artifacts struct {
	ContentFile string
	PatchFile   string
	HTMLFile    string
	ContentSize int64
	Language    string
	Lines       int
	Added       int
	Removed     int
}

// Options configure an Exporter.
type Options struct {
	// Dir is the output directory, created on construction.
	Dir string

	// HTML enables patch rendering through Renderer.
	HTML bool

	// Renderer converts patch text to HTML when HTML is set.
	Renderer render.Renderer

	// Compress writes content artifacts through an LZ4 frame writer with an
	// .lz4 suffix.
	Compress bool
}

// Exporter writes the per-revision artifacts and the summary of a run. Any
// per-revision failure is logged and isolated to that revision's artifacts.
type Exporter struct {
	source  Source
	opts    Options
	summary *Summary

	// htmlNoticed keeps the renderer unavailability notice to one line.
	htmlNoticed bool
}

// NewExporter creates the output directory, truncates the summary file and
// returns an exporter ready to process revisions.
func NewExporter(source Source, opts Options) (*Exporter, error) {
	err := os.MkdirAll(opts.Dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	summary, err := NewSummary(filepath.Join(opts.Dir, SummaryFileName))
	if err != nil {
		return nil, err
	}

	return &Exporter{
		source:  source,
		opts:    opts,
		summary: summary,
	}, nil
}

// ExportAll processes revisions in order, writing artifacts and appending
// one summary record per revision. The returned slice is index-aligned with
// revisions.
func (e *Exporter) ExportAll(revisions []trail.Revision) ([]Artifacts, error) {
	artifacts := make([]Artifacts, 0, len(revisions))

	for _, rev := range revisions {
		art := e.exportOne(rev)

		appendErr := e.summary.Append(rev, art)
		if appendErr != nil {
			return artifacts, appendErr
		}

		artifacts = append(artifacts, art)
	}

	return artifacts, nil
}

// Close releases the summary file.
func (e *Exporter) Close() error {
	return e.summary.Close()
}

// exportOne writes the artifacts of a single revision. Failures are logged
// and leave the corresponding artifact empty.
func (e *Exporter) exportOne(rev trail.Revision) Artifacts {
	var art Artifacts

	base := ArtifactBase(rev.Author.When, rev.Hash, rev.Path)

	content, contentErr := e.source.ContentAt(rev.Hash, rev.Path)
	if contentErr != nil {
		log.Printf("warning: no content for %s at %s: %v", rev.Path, rev.Hash.Short(), contentErr)
	} else {
		name, writeErr := e.writeContent(base, content)
		if writeErr != nil {
			log.Printf("warning: write content for %s: %v", rev.Hash.Short(), writeErr)
		} else {
			art.ContentFile = name
			art.ContentSize = int64(len(content))

			// Binary blobs get neither a language nor a line count.
			if !textutil.IsBinary(content) {
				art.Language = enry.GetLanguage(path.Base(rev.Path), content)
				art.Lines = textutil.CountLines(content)
			}
		}
	}

	patch, patchErr := e.source.PatchFor(rev.Hash, rev.Path)

	switch {
	case patchErr != nil:
		log.Printf("warning: no patch for %s at %s: %v", rev.Path, rev.Hash.Short(), patchErr)
	case patch == "":
		log.Printf("warning: empty patch for %s at %s", rev.Path, rev.Hash.Short())
	default:
		name, writeErr := e.writePatch(base, patch)
		if writeErr != nil {
			log.Printf("warning: write patch for %s: %v", rev.Hash.Short(), writeErr)
		} else {
			art.PatchFile = name
			art.Added, art.Removed = countPatchLines(patch)
		}

		if e.opts.HTML {
			art.HTMLFile = e.renderHTML(base, patch)
		}
	}

	return art
}

// writeContent writes the content artifact, optionally through an LZ4 frame
// writer, and returns its filename.
func (e *Exporter) writeContent(base string, content []byte) (string, error) {
	name := base
	if e.opts.Compress {
		name += ".lz4"
	}

	target := filepath.Join(e.opts.Dir, name)

	if !e.opts.Compress {
		err := os.WriteFile(target, content, 0o644)
		if err != nil {
			return "", fmt.Errorf("write content: %w", err)
		}

		return name, nil
	}

	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("write content: %w", err)
	}

	writer := lz4.NewWriter(file)

	_, writeErr := writer.Write(content)
	if writeErr == nil {
		writeErr = writer.Close()
	}

	closeErr := file.Close()
	if writeErr != nil {
		return "", fmt.Errorf("compress content: %w", writeErr)
	}

	if closeErr != nil {
		return "", fmt.Errorf("write content: %w", closeErr)
	}

	return name, nil
}

// writePatch writes the patch artifact and returns its filename.
func (e *Exporter) writePatch(base string, patch string) (string, error) {
	name := base + ".patch"

	err := os.WriteFile(filepath.Join(e.opts.Dir, name), []byte(patch), 0o644)
	if err != nil {
		return "", fmt.Errorf("write patch: %w", err)
	}

	return name, nil
}

// renderHTML renders the patch and writes the HTML artifact. Unavailable
// renderers, empty output and render failures all omit the artifact; only
// unavailability is reported, once.
func (e *Exporter) renderHTML(base string, patch string) string {
	html, err := e.opts.Renderer.Render(patch)
	if err != nil {
		if errors.Is(err, render.ErrUnavailable) {
			if !e.htmlNoticed {
				e.htmlNoticed = true

				log.Printf("notice: HTML renderer %s not found, continuing without HTML diffs", e.opts.Renderer.Name())
			}

			return ""
		}

		log.Printf("warning: render HTML: %v", err)

		return ""
	}

	if html == "" {
		return ""
	}

	name := base + ".html"

	writeErr := os.WriteFile(filepath.Join(e.opts.Dir, name), []byte(html), 0o644)
	if writeErr != nil {
		log.Printf("warning: write HTML for %s: %v", name, writeErr)

		return ""
	}

	return name
}

// countPatchLines counts the added and removed lines of a unified diff,
// excluding the file header markers.
func countPatchLines(patch string) (int, int) {
	var added, removed int

	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}

	return added, removed
}
