// Package commands implements CLI command handlers for filetrail.
package commands

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/filetrail/internal/config"
	"github.com/Sumatoshi-tech/filetrail/pkg/export"
	"github.com/Sumatoshi-tech/filetrail/pkg/gitlib"
	"github.com/Sumatoshi-tech/filetrail/pkg/render"
	"github.com/Sumatoshi-tech/filetrail/pkg/trail"
)

// DefaultTrackedFile is the filename tracked when no argument is given,
// matching the legacy tool's single hardcoded target.
const DefaultTrackedFile = "cdc.md"

// TrackCommand holds flag state for the root command.
type TrackCommand struct {
	renameThreshold string
	copyThreshold   string
	html            bool
	rendererName    string
	outDir          string
	limit           int
	compress        bool
	manifest        bool
	plot            bool
	configPath      string
	quiet           bool
	verbose         bool

	// startDir seeds repository discovery. "." outside of tests.
	startDir string
}

// NewRootCommand creates the filetrail root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(".")
}

func newRootCommand(startDir string) *cobra.Command {
	tc := &TrackCommand{startDir: startDir}

	cmd := &cobra.Command{
		Use:   "filetrail [file]",
		Short: "Extract the full revision history of one file in a git repository",
		Long: `Filetrail walks the repository history of a single file, following renames
and copies, and writes one content snapshot and one patch per commit into an
output directory, together with a summary log.

Run it from inside a git repository:
  filetrail docs/guide.md
  filetrail --html --renderer builtin README.md
  RENAME_THRESHOLD=50% filetrail cdc.md`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          tc.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&tc.renameThreshold, "rename-threshold", "", "Rename similarity threshold in percent, e.g. '50%' (default 1%)")
	cmd.Flags().StringVar(&tc.copyThreshold, "copy-threshold", "", "Copy similarity threshold in percent, e.g. '50%' (default 1%)")
	cmd.Flags().BoolVar(&tc.html, "html", false, "Render an HTML diff per commit")
	cmd.Flags().StringVar(&tc.rendererName, "renderer", "", "HTML renderer: an external command or 'builtin' (default diff2html)")
	cmd.Flags().StringVarP(&tc.outDir, "out", "o", "", "Output directory (default history_<file>)")
	cmd.Flags().IntVar(&tc.limit, "limit", 0, "Limit number of commits to process (0 = no limit)")
	cmd.Flags().BoolVar(&tc.compress, "compress", false, "Write content artifacts through LZ4 compression")
	cmd.Flags().BoolVar(&tc.manifest, "manifest", false, "Write a machine-readable manifest.yaml")
	cmd.Flags().BoolVar(&tc.plot, "plot", false, "Write an activity.html commits-per-month chart")
	cmd.Flags().StringVar(&tc.configPath, "config", "", "Config file path (default .filetrail.yaml in CWD or HOME)")

	cmd.PersistentFlags().BoolVarP(&tc.quiet, "quiet", "q", false, "suppress console output")
	cmd.PersistentFlags().BoolVarP(&tc.verbose, "verbose", "v", false, "verbose progress output")

	return cmd
}

func (tc *TrackCommand) run(cmd *cobra.Command, args []string) error {
	file := trackedFile(args)
	progressWriter := cmd.ErrOrStderr()

	tc.progressf(progressWriter, "tracking %s", file)

	cfg, err := config.LoadConfig(tc.configPath)
	if err != nil {
		return err
	}

	tc.applyOverrides(cmd, cfg)

	err = cfg.Validate()
	if err != nil {
		return err
	}

	renameThreshold, err := config.ParseThreshold(cfg.Thresholds.Rename)
	if err != nil {
		return fmt.Errorf("rename threshold: %w", err)
	}

	copyThreshold, err := config.ParseThreshold(cfg.Thresholds.Copy)
	if err != nil {
		return fmt.Errorf("copy threshold: %w", err)
	}

	repo, err := gitlib.DiscoverRepository(tc.startDir)
	if err != nil {
		return err
	}
	defer repo.Free()

	history := gitlib.NewHistory(repo, gitlib.DetectOptions{
		RenameThreshold: renameThreshold,
		CopyThreshold:   copyThreshold,
	})

	commits, err := history.CommitsTouching(file, cfg.Limit)
	if err != nil {
		return err
	}
	defer gitlib.FreeCommits(commits)

	tc.progressf(progressWriter, "found %d commits", len(commits))

	revisions, err := trail.NewTracker(history).ResolveAll(file, trailCommits(commits))
	if err != nil {
		return err
	}

	tc.reportAmbiguities(revisions)

	outDir := cfg.Output.Dir
	if outDir == "" {
		outDir = export.DirFor(file)
	}

	htmlEnabled, renderer := tc.htmlOptions(cmd, cfg)

	exporter, err := export.NewExporter(history, export.Options{
		Dir:      outDir,
		HTML:     htmlEnabled,
		Renderer: renderer,
		Compress: cfg.Output.Compress,
	})
	if err != nil {
		return err
	}

	artifacts, exportErr := exporter.ExportAll(revisions)

	closeErr := exporter.Close()
	if exportErr != nil {
		return exportErr
	}

	if closeErr != nil {
		return closeErr
	}

	if len(revisions) == 0 {
		tc.noticef(cmd, "no commits touch %s, nothing to extract", file)

		return nil
	}

	if cfg.Output.Manifest {
		err = export.WriteManifest(outDir, export.BuildManifest(file, revisions, artifacts))
		if err != nil {
			return err
		}
	}

	if cfg.Output.Plot {
		err = export.WriteActivityPlot(outDir, file, revisions)
		if err != nil {
			return err
		}
	}

	if !tc.quiet {
		tc.printReport(cmd.OutOrStdout(), file, outDir, revisions, artifacts)
	}

	return nil
}

// trackedFile picks the positional filename or the default, normalized to a
// repository-relative path.
func trackedFile(args []string) string {
	file := DefaultTrackedFile
	if len(args) > 0 && args[0] != "" {
		file = args[0]
	}

	return strings.TrimPrefix(file, "./")
}

// applyOverrides lets explicitly set flags win over config file and
// environment values.
func (tc *TrackCommand) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("rename-threshold") {
		cfg.Thresholds.Rename = tc.renameThreshold
	}

	if flags.Changed("copy-threshold") {
		cfg.Thresholds.Copy = tc.copyThreshold
	}

	if flags.Changed("html") {
		cfg.HTML.Enabled = tc.html
	}

	if flags.Changed("renderer") {
		cfg.HTML.Renderer = tc.rendererName
	}

	if flags.Changed("out") {
		cfg.Output.Dir = tc.outDir
	}

	if flags.Changed("limit") {
		cfg.Limit = tc.limit
	}

	if flags.Changed("compress") {
		cfg.Output.Compress = tc.compress
	}

	if flags.Changed("manifest") {
		cfg.Output.Manifest = tc.manifest
	}

	if flags.Changed("plot") {
		cfg.Output.Plot = tc.plot
	}
}

// htmlOptions resolves the renderer when HTML output is requested. An
// unavailable renderer downgrades the run to patch-only with a one-time
// notice.
func (tc *TrackCommand) htmlOptions(cmd *cobra.Command, cfg *config.Config) (bool, render.Renderer) {
	if !cfg.HTML.Enabled {
		return false, nil
	}

	renderer := render.Select(cfg.HTML.Renderer)

	if probe, ok := renderer.(interface{ Available() bool }); ok && !probe.Available() {
		tc.noticef(cmd, "HTML diff requested but %s is not available, continuing without HTML", renderer.Name())

		return false, nil
	}

	return true, renderer
}

// reportAmbiguities logs every revision where more than one status record
// matched the tracked path.
func (tc *TrackCommand) reportAmbiguities(revisions []trail.Revision) {
	for _, rev := range revisions {
		if rev.Ambiguous {
			log.Printf("warning: ambiguous path match at %s, kept %s", rev.Hash.Short(), rev.Path)
		}
	}
}

func (tc *TrackCommand) printReport(out io.Writer, file, outDir string, revisions []trail.Revision, artifacts []export.Artifacts) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(out)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Commit", "Date", "Path", "Size", "Language", "Artifacts"})

	var totalBytes uint64

	for i, rev := range revisions {
		var art export.Artifacts
		if i < len(artifacts) {
			art = artifacts[i]
		}

		totalBytes += uint64(art.ContentSize)

		tbl.AppendRow(table.Row{
			rev.Hash.Short(),
			humanize.Time(rev.Author.When),
			rev.Path,
			humanize.Bytes(uint64(art.ContentSize)),
			art.Language,
			artifactMarkers(art),
		})
	}

	tbl.Render()

	color.New(color.FgGreen).Fprintf(out, "extracted %d revisions of %s into %s (%s)\n",
		len(revisions), file, outDir, humanize.Bytes(totalBytes))
}

func artifactMarkers(art export.Artifacts) string {
	var markers []string

	if art.ContentFile != "" {
		markers = append(markers, "content")
	}

	if art.PatchFile != "" {
		markers = append(markers, "patch")
	}

	if art.HTMLFile != "" {
		markers = append(markers, "html")
	}

	if len(markers) == 0 {
		return "-"
	}

	return strings.Join(markers, "+")
}

func (tc *TrackCommand) noticef(cmd *cobra.Command, format string, args ...any) {
	if tc.quiet {
		return
	}

	color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func (tc *TrackCommand) progressf(writer io.Writer, format string, args ...any) {
	if !tc.verbose || tc.quiet {
		return
	}

	_, _ = fmt.Fprintf(writer, "progress: "+format+"\n", args...)
}

func trailCommits(commits []*gitlib.Commit) []trail.Commit {
	converted := make([]trail.Commit, len(commits))
	for i, commit := range commits {
		converted[i] = commit
	}

	return converted
}
