package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // rejected by validation, the policy or the user
	ExitCommandError = 2 // local setup or backend unreachable
)

// ExitError is an error with a process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors that are not an
// ExitError map to ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// describe turns a store failure into the message shown to the user.
func describe(err error) error {
	if ve, ok := apperr.AsValidation(err); ok {
		names := make([]string, 0, len(ve.Fields))
		for name := range ve.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		var b strings.Builder
		b.WriteString("the recipe is not valid:")
		for _, name := range names {
			fmt.Fprintf(&b, "\n  - %s: %s", name, ve.Fields[name])
		}
		return NewExitError(ExitFailure, b.String())
	}
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		return WrapExitError(ExitFailure, "you are not allowed to change this recipe", err)
	case apperr.Retryable(err):
		return WrapExitError(ExitCommandError, "the recipe service is unreachable, please try again", err)
	}
	return WrapExitError(ExitFailure, "an unexpected error occurred", err)
}

type printer struct {
	json bool
	w    io.Writer
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) message(msg string) error {
	if p.json {
		return p.encode(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(p.w, msg)
	return err
}

func (p *printer) list(list []recipes.Recipe) error {
	if p.json {
		return p.encode(list)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tNAME\tCREATED")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Category, r.Name, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (p *printer) detail(r recipes.Recipe) error {
	if p.json {
		return p.encode(r)
	}
	fmt.Fprintf(p.w, "%s  [%s]\n", r.Name, r.Category)
	fmt.Fprintf(p.w, "id: %s\n", r.ID)
	if r.ImageURL != nil {
		fmt.Fprintf(p.w, "image: %s\n", *r.ImageURL)
	}
	fmt.Fprintln(p.w, "\nIngredients:")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(p.w, "  - %s\n", ing)
	}
	fmt.Fprintln(p.w, "\nSteps:")
	_, err := fmt.Fprintln(p.w, r.Steps)
	return err
}
