package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/bdl/lang"
	"github.com/ardnew/bdl/log"
	"github.com/ardnew/bdl/pkg"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop over
// the session source. The source is written to a temp file and opened in the
// user's editor. If the result does not parse, the user is asked to re-edit;
// declining exits the program.
type editCommand struct {
	session *Session
	ctxFunc func() context.Context
	logger  log.Logger
	changed bool
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. It returns [ErrEditDeclined] if the
// user declines to fix a syntax error.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()
	content := c.session.Source()

	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-repl-*"+lang.Extension)
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// An empty file cancels the edit.
		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		if string(data) == c.session.Source() {
			return nil
		}

		parseErr := c.session.Replace(ctx, string(data))
		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.changed = true

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)

		if se, ok := lang.SyntaxError(parseErr); ok {
			fmt.Fprint(c.stderr, se.Snippet())
		}

		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// runEditor opens path in $EDITOR and returns the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
