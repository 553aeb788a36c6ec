package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/stacklok/dvk8s/pkg/errors"
	"github.com/stacklok/dvk8s/pkg/k8s"
	"github.com/stacklok/dvk8s/pkg/loader"
	"github.com/stacklok/dvk8s/pkg/logger"
	"github.com/stacklok/dvk8s/pkg/manifest"
	"github.com/stacklok/dvk8s/pkg/vault"
)

const (
	// passwordEnvVar holds the vault password when --password is not given.
	passwordEnvVar = "DVK8S_PASSWORD"
	passwordKey    = "password"
	passwordPrompt = "KeepassX file password: "
)

// sourceOptions selects the vault, the group and the entries to read.
type sourceOptions struct {
	file        string
	sourceType  string
	password    string
	namespace   string
	kdbxGroup   string
	kdbxSecrets []string
	warnMissing bool
}

type loadOptions struct {
	sourceOptions
	namespaceFromContext bool
	checksum             bool
}

func newSecretsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Render Kubernetes Secrets from a vault",
		Long:  "The secrets command provides subcommands to turn vault entries into Kubernetes Secret manifests.",
	}

	cmd.AddCommand(
		newSecretsLoadCommand(),
		newSecretsListCommand(),
	)

	return cmd
}

func newSecretsLoadCommand() *cobra.Command {
	opts := &loadOptions{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Print the entries of a vault group as Secret manifests",
		Long: `Read a vault file and print one Kubernetes Secret manifest per entry of the
selected group. Documents are separated by "---" and written to stdout.

The vault password is taken from --password, then from the DVK8S_PASSWORD
environment variable. If neither is set, you will be prompted for it
(input will be hidden).

Custom entry properties become Secret data, except "namespace" and "labels"
which set the Secret metadata. Entries with cert, key and chain PEM attachments
become kubernetes.io/tls secrets.

Examples:
  dvk8s secrets load -f vault.kdbx -t kdbx --kdbx-group prod | kubectl apply -f -
  dvk8s secrets load -f vault.kdbx -t kdbx --kdbx-group prod --kdbx-secret db --kdbx-secret web-tls`,
		Args:    cobra.NoArgs,
		PreRunE: sourcePreRunE(&opts.sourceOptions),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFatal(cmd, "loading secrets", func() error {
				return runSecretsLoad(cmd, opts)
			})
		},
	}

	addSourceFlags(cmd, &opts.sourceOptions)
	cmd.Flags().BoolVar(&opts.namespaceFromContext, "namespace-from-context", false,
		"Use the namespace of the current kubeconfig context for Secrets that have none")
	cmd.Flags().BoolVar(&opts.checksum, "checksum", false, "Annotate each Secret with a checksum of its content")

	return cmd
}

func addSourceFlags(cmd *cobra.Command, opts *sourceOptions) {
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to the vault file")
	cmd.Flags().StringVarP(&opts.sourceType, "type", "t", "", fmt.Sprintf("Vault type (%s)", supportedTypes()[0]))
	cmd.Flags().StringVarP(&opts.password, passwordKey, "p", "",
		fmt.Sprintf("Vault password (defaults to $%s, then an interactive prompt)", passwordEnvVar))
	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "",
		"Namespace for every Secret, overriding the entry's namespace property")
	cmd.Flags().StringVar(&opts.kdbxGroup, "kdbx-group", "", "KeePass group to read entries from (required for kdbx)")
	cmd.Flags().StringArrayVar(&opts.kdbxSecrets, "kdbx-secret", nil,
		"Title of an entry to use (repeatable, defaults to every entry of the group)")
	cmd.Flags().BoolVar(&opts.warnMissing, "warn-missing", false, "Log a warning for each requested secret that is not found")

	if err := cmd.MarkFlagRequired("file"); err != nil {
		logger.Errorf("Error marking file flag as required: %v", err)
	}
	if err := cmd.MarkFlagRequired("type"); err != nil {
		logger.Errorf("Error marking type flag as required: %v", err)
	}
	if err := viper.BindEnv(passwordKey, passwordEnvVar); err != nil {
		logger.Errorf("Error binding %s: %v", passwordEnvVar, err)
	}
}

// sourcePreRunE validates the source flags before the vault is touched.
func sourcePreRunE(opts *sourceOptions) func(*cobra.Command, []string) error {
	return chainPreRunE(
		ValidateChoice("type", &opts.sourceType, supportedTypes()...),
		RequireWhen("kdbx-group", &opts.kdbxGroup,
			func() bool { return vault.SourceType(opts.sourceType) == vault.KDBXType },
			"when --type is kdbx"),
	)
}

// runFatal runs fn once the flags are known to be valid.
//
// Vault errors (missing file, wrong password, unknown group) and internal
// errors are logged and returned silenced so that cobra prints neither usage
// nor the error again. Invalid arguments found at run time, such as a missing
// password without a terminal, are left to cobra together with the usage.
func runFatal(cmd *cobra.Command, action string, fn func() error) error {
	cmd.SilenceUsage = true
	err := fn()
	switch {
	case err == nil:
		return nil
	case errors.IsInvalidArgument(err):
		cmd.SilenceUsage = false
		return err
	case errors.IsFatal(err):
		logger.Errorf("Error %s: %v", action, err)
	default:
		logger.Errorf("Unexpected error %s: %v", action, err)
	}
	cmd.SilenceErrors = true
	return err
}

func supportedTypes() []string {
	types := make([]string, 0, len(vault.SupportedTypes))
	for _, t := range vault.SupportedTypes {
		types = append(types, string(t))
	}
	return types
}

func runSecretsLoad(cmd *cobra.Command, opts *loadOptions) error {
	v, err := openVault(cmd, &opts.sourceOptions)
	if err != nil {
		return err
	}

	l := newLoader(v, &opts.sourceOptions)
	l.Renderer = manifest.NewRenderer(rendererOptions(opts)...)
	l.Writer = manifest.NewWriter(cmd.OutOrStdout())

	_, err = l.Run(opts.kdbxGroup, opts.kdbxSecrets)
	return err
}

func openVault(cmd *cobra.Command, opts *sourceOptions) (vault.Vault, error) {
	password, err := resolvePassword(cmd, opts)
	if err != nil {
		return nil, err
	}
	return vault.Open(vault.SourceType(opts.sourceType), opts.file, password)
}

func newLoader(v vault.Vault, opts *sourceOptions) *loader.Loader {
	return &loader.Loader{
		Vault:             v,
		NamespaceOverride: opts.namespace,
		WarnMissing:       opts.warnMissing,
	}
}

func rendererOptions(opts *loadOptions) []manifest.Option {
	var ropts []manifest.Option
	if opts.namespaceFromContext {
		if ns, ok := k8s.CurrentNamespace(); ok {
			logger.Debugf("using namespace %q from the current context", ns)
			ropts = append(ropts, manifest.WithDefaultNamespace(ns))
		} else {
			logger.Warn("no namespace found in the current context")
		}
	}
	if opts.checksum {
		ropts = append(ropts, manifest.WithChecksumAnnotation())
	}
	return ropts
}

// resolvePassword picks the password from the flag, then the environment,
// then the terminal.
func resolvePassword(cmd *cobra.Command, opts *sourceOptions) (string, error) {
	if cmd.Flags().Changed(passwordKey) {
		return opts.password, nil
	}
	if password := viper.GetString(passwordKey); password != "" {
		return password, nil
	}
	password, err := readPassword(cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// readPassword prompts for the vault password without echo. Tests replace it.
var readPassword = func(prompt io.Writer) ([]byte, error) {
	in, prompt, closeFn, err := passwordTerminal(os.Stdin, prompt, openControllingTerminal)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	fmt.Fprint(prompt, passwordPrompt)
	password, err := term.ReadPassword(int(in.Fd())) //nolint:gosec // G115: file descriptors fit in an int
	// Start new line after receiving password to ensure errors are printed correctly.
	fmt.Fprintln(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// controllingTerminal is the device opened when stdin is not a terminal,
// for example when data is piped into the command.
const controllingTerminal = "/dev/tty"

func openControllingTerminal() (*os.File, error) {
	return os.OpenFile(controllingTerminal, os.O_RDWR, 0)
}

// passwordTerminal picks where the password is read from. Stdin is used when
// it is a terminal; otherwise the prompt and the input both go through the
// controlling terminal returned by openTTY.
func passwordTerminal(
	stdin *os.File, prompt io.Writer, openTTY func() (*os.File, error),
) (*os.File, io.Writer, func(), error) {
	if term.IsTerminal(int(stdin.Fd())) { //nolint:gosec // G115: file descriptors fit in an int
		return stdin, prompt, func() {}, nil
	}

	tty, err := openTTY()
	if err != nil {
		return nil, nil, nil, errors.NewInvalidArgumentError(
			fmt.Sprintf("no password given and no terminal to prompt on, use --%s or $%s", passwordKey, passwordEnvVar), err)
	}
	return tty, tty, func() { _ = tty.Close() }, nil
}
