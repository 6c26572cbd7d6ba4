package progress

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Column count assumed when the real width cannot be probed.
const defaultColumns = 80

// Terminal is the surface the renderer draws on. The production
// implementation writes ANSI to a real tty; tests substitute a recorder.
type Terminal interface {
	// Columns returns the current width of the terminal.
	Columns() int
	// ClearLine erases the current line without moving the cursor.
	ClearLine()
	// MoveToColumn puts the cursor at the zero-based column.
	MoveToColumn(col int)
	// Write emits raw text, escape sequences included.
	Write(s string)
	// Newline advances to the next line.
	Newline()
}

type ansiTerminal struct {
	out *os.File
}

// NewTerminal wraps a file (normally os.Stdout) as a Terminal.
func NewTerminal(out *os.File) Terminal {
	return &ansiTerminal{out: out}
}

func (t *ansiTerminal) Columns() int {
	w, _, err := term.GetSize(int(t.out.Fd()))
	if err != nil || w <= 0 {
		return defaultColumns
	}
	return w
}

func (t *ansiTerminal) ClearLine() {
	io.WriteString(t.out, "\x1b[2K")
}

func (t *ansiTerminal) MoveToColumn(col int) {
	// ANSI columns are 1-based
	fmt.Fprintf(t.out, "\x1b[%dG", col+1)
}

func (t *ansiTerminal) Write(s string) {
	io.WriteString(t.out, s)
}

func (t *ansiTerminal) Newline() {
	io.WriteString(t.out, "\n")
}
