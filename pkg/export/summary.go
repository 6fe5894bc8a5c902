package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/Sumatoshi-tech/filetrail/pkg/trail"
)

// SummaryFileName is the summary file inside the output directory.
const SummaryFileName = "summary.txt"

// summaryDateFormat matches git's default human-readable date output.
const summaryDateFormat = "Mon Jan 2 15:04:05 2006 -0700"

// Summary writes one record block per processed commit. The file is
// truncated once at creation and strictly appended afterwards; records are
// never revised. The field labels keep the legacy French wording for
// compatibility with downstream consumers of the original tool.
type Summary struct {
	file *os.File
}

// NewSummary creates or truncates the summary file at path.
func NewSummary(path string) (*Summary, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create summary: %w", err)
	}

	return &Summary{file: file}, nil
}

// Append writes the record block for one revision. Artifact lines are
// omitted when the artifact was not produced.
func (s *Summary) Append(rev trail.Revision, art Artifacts) error {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Commit : %s\n", rev.Hash)
	fmt.Fprintf(&buf, "Date : %s\n", rev.Author.When.Format(summaryDateFormat))
	fmt.Fprintf(&buf, "Auteur : %s\n", rev.Author)
	fmt.Fprintf(&buf, "Message : %s\n", rev.Summary)

	if art.ContentFile != "" {
		fmt.Fprintf(&buf, "Fichier extrait : %s\n", art.ContentFile)
	}

	if art.PatchFile != "" {
		fmt.Fprintf(&buf, "Patch : %s\n", art.PatchFile)
	}

	if art.HTMLFile != "" {
		fmt.Fprintf(&buf, "HTML : %s\n", art.HTMLFile)
	}

	buf.WriteByte('\n')

	_, err := s.file.WriteString(buf.String())
	if err != nil {
		return fmt.Errorf("append summary record: %w", err)
	}

	return nil
}

// Close flushes and closes the summary file.
func (s *Summary) Close() error {
	err := s.file.Close()
	if err != nil {
		return fmt.Errorf("close summary: %w", err)
	}

	return nil
}
