package commands

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/filetrail/internal/config"
)

// exitCodeValidationFailure is the exit code for config validation failures.
const exitCodeValidationFailure = 2

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	cmd.AddCommand(newConfigValidateCommand())

	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	var nocolor bool

	cmd := &cobra.Command{
		Use:   "validate <file.yaml>",
		Short: "Validate a filetrail config file against the config schema",
		Long: `Validate a filetrail YAML config file against the embedded schema.

Examples:
  filetrail config validate .filetrail.yaml
  filetrail config validate --no-color ci/filetrail.yaml
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigValidate(cmd, args[0], nocolor)
		},
	}

	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, path string, nocolor bool) error {
	if nocolor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	issues, err := config.ValidateFile(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if len(issues) == 0 {
		color.New(color.FgGreen).Fprintf(out, "config is valid (%s)\n", path)

		return nil
	}

	color.New(color.FgRed).Fprintf(out, "config validation failed (%s)\n", path)

	for _, issue := range issues {
		color.New(color.FgRed).Fprintf(out, "  - %s: %s\n", issue.Field, issue.Description)
	}

	os.Exit(exitCodeValidationFailure)

	return nil
}
