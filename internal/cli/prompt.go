package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// lineReader reads answers from the command's input. It is shared by every
// prompt of one command so buffered input is not lost between prompts.
type lineReader struct {
	cmd *cobra.Command
	r   *bufio.Reader
}

func newLineReader(cmd *cobra.Command) *lineReader {
	return &lineReader{cmd: cmd, r: bufio.NewReader(cmd.InOrStdin())}
}

func (l *lineReader) ask(label string) (string, error) {
	fmt.Fprint(l.cmd.ErrOrStderr(), label)
	line, err := l.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// secret reads a password without echo when the input is a terminal.
func (l *lineReader) secret(label string) (string, error) {
	if f, ok := l.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(l.cmd.ErrOrStderr(), label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(l.cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	return l.ask(label)
}

// confirm asks a yes/no question; anything but y or yes is a no.
func (l *lineReader) confirm(question string) (bool, error) {
	answer, err := l.ask(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
