package output

import (
	"os"

	"golang.org/x/term"
)

// isTerminal is swapped in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// IsTTY reports whether stdin and stdout are both attached to a terminal.
// Spinners and interactive forms are only shown when this is true.
func IsTTY() bool {
	if os.Getenv("QSTART_NO_TTY") != "" {
		return false
	}
	return isTerminal()
}

// TerminalWidth returns the stdout width, or fallback when it is unknown.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
