package main

import (
	"os"

	"github.com/veraxsec/mailguard/internal/cmd"
	"golang.org/x/term"
)

// The keyboard shortcut listener puts the terminal into raw mode; restore it
// on exit so a Ctrl+C during serve mode doesn't leave the shell broken.
var originalTerminalState *term.State

func main() {
	saveTerminalState()
	defer restoreTerminalState()
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func saveTerminalState() {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		state, err := term.GetState(int(os.Stdin.Fd()))
		if err == nil {
			originalTerminalState = state
		}
	}
}

func restoreTerminalState() {
	if originalTerminalState != nil {
		_ = term.Restore(int(os.Stdin.Fd()), originalTerminalState)
	}
}
