// Package util holds helpers that touch the process environment
package util

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal and COLUMNS is unset
const DefaultWidth = 80

// Terminal abstracts the terminal queries used to size help output
type Terminal interface {
	IsTerminal(fd int) bool
	GetSize(fd int) (width, height int, err error)
}

type sysTerminal struct{}

func (sysTerminal) IsTerminal(fd int) bool { return term.IsTerminal(fd) }

func (sysTerminal) GetSize(fd int) (int, int, error) { return term.GetSize(fd) }

// DefaultTerminal queries the real terminal through golang.org/x/term
var DefaultTerminal Terminal = sysTerminal{}

// TerminalWidth returns the column count help text written to w should
// fit in. COLUMNS takes precedence, then the size of w when it is a
// terminal, then DefaultWidth.
func TerminalWidth(w io.Writer, t Terminal) int {
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	if t == nil {
		t = DefaultTerminal
	}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		fd := int(f.Fd())
		if t.IsTerminal(fd) {
			if width, _, err := t.GetSize(fd); err == nil && width > 0 {
				return width
			}
		}
	}
	return DefaultWidth
}
