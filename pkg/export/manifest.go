package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/filetrail/pkg/trail"
)

// ManifestFileName is the machine-readable run record written alongside the
// summary.
const ManifestFileName = "manifest.yaml"

// ManifestEntry records one revision and the artifacts it produced.
type ManifestEntry struct {
	Commit      string    `yaml:"commit"`
	Date        time.Time `yaml:"date"`
	Author      string    `yaml:"author"`
	Email       string    `yaml:"email"`
	Message     string    `yaml:"message"`
	Path        string    `yaml:"path"`
	Renamed     bool      `yaml:"renamed,omitempty"`
	Ambiguous   bool      `yaml:"ambiguous,omitempty"`
	ContentFile string    `yaml:"content_file,omitempty"`
	ContentSize int64     `yaml:"content_size,omitempty"`
	Language    string    `yaml:"language,omitempty"`
	Lines       int       `yaml:"lines,omitempty"`
	PatchFile   string    `yaml:"patch_file,omitempty"`
	HTMLFile    string    `yaml:"html_file,omitempty"`
	Added       int       `yaml:"added_lines,omitempty"`
	Removed     int       `yaml:"removed_lines,omitempty"`
}

// Manifest describes a complete run.
type Manifest struct {
	File      string          `yaml:"file"`
	Revisions int             `yaml:"revisions"`
	Entries   []ManifestEntry `yaml:"entries"`
}

// BuildManifest assembles the manifest from index-aligned revisions and
// artifacts.
func BuildManifest(tracked string, revisions []trail.Revision, artifacts []Artifacts) Manifest {
	manifest := Manifest{
		File:      tracked,
		Revisions: len(revisions),
		Entries:   make([]ManifestEntry, 0, len(revisions)),
	}

	for i, rev := range revisions {
		entry := ManifestEntry{
			Commit:    rev.Hash.String(),
			Date:      rev.Author.When,
			Author:    rev.Author.Name,
			Email:     rev.Author.Email,
			Message:   rev.Summary,
			Path:      rev.Path,
			Renamed:   rev.Path != tracked,
			Ambiguous: rev.Ambiguous,
		}

		if i < len(artifacts) {
			art := artifacts[i]
			entry.ContentFile = art.ContentFile
			entry.ContentSize = art.ContentSize
			entry.Language = art.Language
			entry.Lines = art.Lines
			entry.PatchFile = art.PatchFile
			entry.HTMLFile = art.HTMLFile
			entry.Added = art.Added
			entry.Removed = art.Removed
		}

		manifest.Entries = append(manifest.Entries, entry)
	}

	return manifest
}

// WriteManifest serializes the manifest to dir/manifest.yaml.
func WriteManifest(dir string, manifest Manifest) error {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	err = os.WriteFile(filepath.Join(dir, ManifestFileName), data, 0o644)
	if err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}
