package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacklok/dvk8s/cmd/dvk8s/app/ui"
	"github.com/stacklok/dvk8s/pkg/loader"
)

type listOptions struct {
	sourceOptions
	format string
}

func newSecretsListCommand() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show how the entries of a vault group would be converted",
		Long: `Read a vault file and show, for each selected entry, the Secret type and data keys
that "dvk8s secrets load" would produce, or why the entry would be skipped.
Secret values are never printed.`,
		Args: cobra.NoArgs,
		PreRunE: chainPreRunE(
			sourcePreRunE(&opts.sourceOptions),
			ValidateFormat(&opts.format),
		),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFatal(cmd, "listing secrets", func() error {
				return runSecretsList(cmd, opts)
			})
		},
	}

	addSourceFlags(cmd, &opts.sourceOptions)
	AddFormatFlag(cmd, &opts.format)

	return cmd
}

func runSecretsList(cmd *cobra.Command, opts *listOptions) error {
	v, err := openVault(cmd, &opts.sourceOptions)
	if err != nil {
		return err
	}

	summaries, err := newLoader(v, &opts.sourceOptions).Inspect(opts.kdbxGroup, opts.kdbxSecrets)
	if err != nil {
		return err
	}

	if opts.format == FormatJSON {
		return printJSONSummaries(cmd, summaries)
	}
	return ui.RenderSummaryTable(cmd.OutOrStdout(), summaries)
}

func printJSONSummaries(cmd *cobra.Command, summaries []loader.Summary) error {
	jsonData, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}
