package cli

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/form"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/spf13/cobra"
)

// RecipeOptions holds the form flags shared by add and edit.
type RecipeOptions struct {
	*RootOptions
	form.Input
}

func (o *RecipeOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Name, "name", "", "recipe name")
	cmd.Flags().StringVar(&o.Category, "category", "", "category (entrée|plat|dessert|boisson)")
	cmd.Flags().StringVar(&o.Ingredients, "ingredients", "", "ingredients, one per line")
	cmd.Flags().StringVar(&o.Steps, "steps", "", "preparation steps")
	cmd.Flags().StringVar(&o.ImageURL, "image-url", "", "optional http(s) image URL")
}

// overlay copies onto in the form flags the user actually passed.
func (o *RecipeOptions) overlay(cmd *cobra.Command, in form.Input) form.Input {
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name = o.Name
	}
	if flags.Changed("category") {
		in.Category = o.Category
	}
	if flags.Changed("ingredients") {
		in.Ingredients = o.Ingredients
	}
	if flags.Changed("steps") {
		in.Steps = o.Steps
	}
	if flags.Changed("image-url") {
		in.ImageURL = o.ImageURL
	}
	return in
}

// NewAddCommand creates the add command, the create view.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecipeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Publish a new recipe",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts.RootOptions)
			if err != nil {
				return err
			}
			defer e.close()

			id, err := e.requireIdentity("publish a recipe")
			if err != nil {
				return err
			}
			if outcome, err := e.migrator.Run(cmd.Context(), id); err != nil {
				slog.Warn("demo recipes were not imported", "error", err)
			} else {
				slog.Debug("seed migration finished", "outcome", outcome)
			}

			saved, err := form.Submit(cmd.Context(), id, e.client, opts.overlay(cmd, form.Input{}), nil)
			if err != nil {
				return describe(err)
			}
			return printSaved(opts.printer(cmd.OutOrStdout()), "Recipe published.", saved)
		},
	}
	opts.bind(cmd)

	return cmd
}

// NewEditCommand creates the edit command. Flags that are not passed keep
// the current value of the recipe.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecipeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "edit <id>",
		Short:         "Edit one of your recipes",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts.RootOptions)
			if err != nil {
				return err
			}
			defer e.close()

			id, err := e.requireIdentity("edit a recipe")
			if err != nil {
				return err
			}
			current, found, err := e.access.GetByID(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			if !found {
				return NewExitError(ExitFailure, "Recipe not found.")
			}
			if !current.OwnedBy(id.UID) {
				return NewExitError(ExitFailure, "You can only edit your own recipes.")
			}

			in := opts.overlay(cmd, form.FromRecipe(current))
			saved, err := form.Submit(cmd.Context(), id, e.client, in, &current)
			if err != nil {
				return describe(err)
			}
			return printSaved(opts.printer(cmd.OutOrStdout()), "Recipe updated.", saved)
		},
	}
	opts.bind(cmd)

	return cmd
}

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Yes bool
}

// NewDeleteCommand creates the delete command. Ownership is left to the
// backend policy.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete one of your recipes",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts.RootOptions)
			if err != nil {
				return err
			}
			defer e.close()

			if _, err := e.requireIdentity("delete a recipe"); err != nil {
				return err
			}
			p := opts.printer(cmd.OutOrStdout())

			current, found, err := e.access.GetByID(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			if !found {
				return p.message("Recipe already deleted.")
			}
			if !opts.Yes {
				ok, err := newLineReader(cmd).confirm("Delete \"" + current.Name + "\"?")
				if err != nil {
					return err
				}
				if !ok {
					return p.message("Cancelled.")
				}
			}

			if err := e.access.DeleteByID(cmd.Context(), current.ID); err != nil {
				return describe(err)
			}
			return p.message("Recipe deleted.")
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func printSaved(p *printer, msg string, r recipes.Recipe) error {
	if p.json {
		return p.encode(r)
	}
	if err := p.message(msg); err != nil {
		return err
	}
	return p.detail(r)
}
