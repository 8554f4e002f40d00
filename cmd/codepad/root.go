package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/config"
	"github.com/gsarma/codepad/internal/language"
	"github.com/gsarma/codepad/internal/logging"
)

// errUnsuccessful is returned when at least one file did not finish with Accepted.
var errUnsuccessful = errors.New("one or more executions were not successful")

type providerFactory func(cfg *config.Config, logLevel string) code.Provider

func defaultProvider(cfg *config.Config, logLevel string) code.Provider {
	return code.NewJudge0Client(cfg.Judge0, code.WithLogger(logging.New(logLevel, os.Stderr)))
}

func newRootCmd(newProvider providerFactory) *cobra.Command {
	root := &cobra.Command{
		Use:   "codepad",
		Short: "Run source code on a remote Judge0 service",
		Long: `codepad - submit source files to a Judge0 code execution service and print
their output, errors, time and memory.

Credentials are read from JUDGE0_API_KEY / JUDGE0_AUTH_TOKEN (or a .env file).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newRunCmd(newProvider), newLanguagesCmd(), newTemplateCmd())
	return root
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLABEL\tEXTENSIONS")
			for _, d := range language.All() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", d.ID, d.Name, d.Label, strings.Join(extensionsFor(d.ID), " "))
			}
			return w.Flush()
		},
	}
}

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template NAME",
		Short: "Print the starter snippet for a language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveLanguage("", args[0], 0)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), d.DefaultSource)
			return nil
		},
	}
}
