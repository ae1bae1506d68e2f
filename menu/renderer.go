package menu

import (
	"os"

	"golang.org/x/term"
)

// Renderer produces the prompt text for a menu state.
type Renderer interface {
	Prompt(state State) string
}

const rootChoices = `  1) clean-copy       strip metadata into a new copy
  2) clean-overwrite  strip metadata and replace the original
  3) secure-wipe      overwrite and delete the file
  4) skip             do nothing
`

type plainRenderer struct{}

func (plainRenderer) Prompt(state State) string {
	switch state {
	case StateConfirmOverwrite:
		return "This will replace the original file. Type 'yes' to continue: "
	case StateConfirmWipe:
		return "This will PERMANENTLY DESTROY the file. Type 'DELETE' to continue: "
	}
	return "\nSelect an action:\n" + rootChoices + "Choice [4]: "
}

// colorRenderer highlights the destructive confirmations in red.
type colorRenderer struct{}

func (colorRenderer) Prompt(state State) string {
	const red = "\x1b[31m"
	const bold = "\x1b[1m"
	const reset = "\x1b[0m"
	switch state {
	case StateConfirmOverwrite:
		return red + "This will replace the original file." + reset + " Type 'yes' to continue: "
	case StateConfirmWipe:
		return red + bold + "This will PERMANENTLY DESTROY the file." + reset + " Type 'DELETE' to continue: "
	}
	header := bold + "Select an action:" + reset
	return "\n" + header + "\n" + rootChoices + "Choice [4]: "
}

// NewRenderer picks the prompt surface: colored on a terminal unless
// disabled, plain otherwise.
func NewRenderer(noColor bool) Renderer {
	if noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		return plainRenderer{}
	}
	return colorRenderer{}
}

// Interactive reports whether stdin and stdout are both attached to a
// terminal, i.e. whether prompting is possible at all.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
