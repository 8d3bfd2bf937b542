package cli

import (
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/listing"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/spf13/cobra"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Category string
	Search   string
}

// NewListCommand creates the list command, the home view.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List every shared recipe, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := listing.Criteria{Category: recipes.Category(opts.Category), Search: opts.Search}
			if criteria.Category != "" && !criteria.Category.Valid() {
				return NewExitError(ExitFailure, "unknown category "+opts.Category+": use entrée, plat, dessert or boisson")
			}

			e, err := openEnv(cmd.Context(), opts.RootOptions)
			if err != nil {
				return err
			}
			defer e.close()

			all, err := e.access.ListAll(cmd.Context())
			if err != nil {
				return describe(err)
			}
			return showList(opts.printer(cmd.OutOrStdout()), all, criteria)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "only show this category (entrée|plat|dessert|boisson)")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "only show recipes whose name contains this text")

	return cmd
}

// NewMineCommand creates the mine command, listing the signed-in user's
// recipes.
func NewMineCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "mine",
		Short:         "List the recipes you published",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			id, err := e.requireIdentity("see your recipes")
			if err != nil {
				return err
			}
			list, err := e.access.ListByOwner(cmd.Context(), id.UID)
			if err != nil {
				return describe(err)
			}
			if len(list) == 0 {
				return rootOpts.printer(cmd.OutOrStdout()).message("You have not published any recipe yet.")
			}
			return rootOpts.printer(cmd.OutOrStdout()).list(list)
		},
	}
}

// NewShowCommand creates the show command, the detail view.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one recipe",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			r, found, err := e.access.GetByID(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			if !found {
				return NewExitError(ExitFailure, "Recipe not found.")
			}
			return rootOpts.printer(cmd.OutOrStdout()).detail(r)
		},
	}
}

func showList(p *printer, all []recipes.Recipe, c listing.Criteria) error {
	filtered := listing.Filter(all, c)
	if len(filtered) == 0 {
		return p.message(listing.EmptyMessage(len(all), c))
	}
	return p.list(filtered)
}
