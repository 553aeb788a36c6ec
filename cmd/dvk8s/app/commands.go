// Package app provides the entry point for the dvk8s command-line application.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/dvk8s/pkg/logger"
)

// NewRootCmd creates a new root command for the dvk8s CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "dvk8s",
		DisableAutoGenTag: true,
		Short:             "dvk8s turns password vault entries into Kubernetes Secret manifests",
		Long: `dvk8s reads entries from a password vault (currently KeePass kdbx files) and prints
them as Kubernetes Secret manifests on stdout, ready to be piped into kubectl apply.

Entries without attachments become Opaque secrets. Entries carrying PEM attachments
for a certificate, a private key and a chain become kubernetes.io/tls secrets.`,
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				logger.Errorf("Error displaying help: %v", err)
			}
		},
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// re-initialize so --debug takes effect
			logger.Initialize()
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	if err != nil {
		logger.Errorf("Error binding debug flag: %v", err)
	}

	// Add subcommands
	rootCmd.AddCommand(newSecretsCommand())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
