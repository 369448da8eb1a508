package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"github.com/ardnew/bdl/lang"
)

// Error represents a CLI command error with structured logging support.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg == e.msg
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

var (
	ErrOpenSource  = NewError("open source")
	ErrWriteOutput = NewError("write output")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
	ErrUnresolved  = NewError("unresolved imports")
)

// Diagnostic colors.
var (
	errorColor = color.New(color.FgRed, color.Bold)
	caretColor = color.New(color.FgYellow)
	matchColor = color.New(color.FgCyan, color.Bold)
	dimColor   = color.New(color.Faint)
)

// Report writes a human-readable diagnostic for err to w. Syntax errors are
// followed by the offending source line and a caret.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}

	errorColor.Fprint(w, "error: ")
	fmt.Fprintln(w, err)

	if se, ok := lang.SyntaxError(err); ok {
		caretColor.Fprint(w, se.Snippet())
	}

	if errors.Is(err, lang.ErrImportNotFound) {
		dimColor.Fprintf(w, "  searched: %s\n", strings.Join(lang.SearchPath(), ", "))
	}
}
