// Package genericclioptions bundles the input/output streams shared by every
// strongholdctl subcommand, so tests can swap them for buffers without
// touching os.Stdin/os.Stdout.
package genericclioptions

import (
	"fmt"
	"io"
	"os"
)

type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	Verbose bool
}

// NewDefaultIOStreams returns the default IOStreams (os.Stdin, os.Stdout, os.Stderr).
func NewDefaultIOStreams() *IOStreams {
	return &IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

// Printf writes a general, unprefixed formatted message to the standard output stream.
func (s IOStreams) Printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}

// Debugf writes formatted debug output to the error stream if Verbose is enabled.
func (s IOStreams) Debugf(format string, args ...any) {
	if s.Verbose {
		fmt.Fprintf(s.ErrOut, "DEBUG "+format, args...)
	}
}

// Errorf writes a formatted message to the error stream.
func (s IOStreams) Errorf(format string, args ...any) {
	fmt.Fprintf(s.ErrOut, "WARN "+format, args...)
}
