// Package cli is the cuisineo terminal application: one cobra command per
// view of the recipe book.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/config"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/logging"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	APIURL    string
	CachePath string
	Timeout   time.Duration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the cuisineo CLI.
func NewRootCommand() *cobra.Command {
	defaults := config.LoadClient()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cuisineo",
		Short: "Cuisineo - share your recipes",
		Long:  "Browse, publish and manage French home-cooking recipes shared by the Cuisineo community.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			logging.SetupClient(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", defaults.APIURL, "backend base URL")
	cmd.PersistentFlags().StringVar(&opts.CachePath, "cache", defaults.CachePath, "local cache file")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", defaults.HTTPTimeout, "HTTP timeout")

	cmd.AddCommand(NewSignUpCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoAmICommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewMineCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) printer(w io.Writer) *printer {
	return &printer{json: o.Format == "json", w: w}
}
