// Package menu resolves the post-scan action selection. The transition
// logic is a pure function over state and input, so the same machine
// drives both the colored and the plain prompt surfaces.
package menu

import (
	"bufio"
	"io"
	"strings"

	"rattlescan/clean"
)

type State int

const (
	StateRoot State = iota
	StateConfirmOverwrite
	StateConfirmWipe
)

// Step is the outcome of feeding one input line to the machine. When
// Done is false the caller prompts again for Step.State.
type Step struct {
	State  State
	Action clean.Action
	Done   bool
}

// Next advances the machine. Destructive choices route through a
// confirmation state; anything but the exact confirmation word maps to
// skip. Unknown input at the root re-prompts.
func Next(state State, input string) Step {
	input = strings.TrimSpace(input)
	switch state {
	case StateRoot:
		switch strings.ToLower(input) {
		case "1", "clean-copy":
			return Step{Action: clean.ActionCleanCopy, Done: true}
		case "2", "clean-overwrite":
			return Step{State: StateConfirmOverwrite}
		case "3", "secure-wipe":
			return Step{State: StateConfirmWipe}
		case "4", "skip", "":
			return Step{Action: clean.ActionSkip, Done: true}
		}
		return Step{State: StateRoot}
	case StateConfirmOverwrite:
		if strings.ToLower(input) == "yes" {
			return Step{Action: clean.ActionCleanOverwrite, Done: true}
		}
		return Step{Action: clean.ActionSkip, Done: true}
	case StateConfirmWipe:
		// Case-sensitive on purpose; the word must be typed exactly.
		if input == "DELETE" {
			return Step{Action: clean.ActionSecureWipe, Done: true}
		}
		return Step{Action: clean.ActionSkip, Done: true}
	}
	return Step{Action: clean.ActionSkip, Done: true}
}

// Run drives the machine over a line-oriented input until it yields an
// action. EOF maps to skip.
func Run(in io.Reader, out io.Writer, r Renderer) clean.Action {
	scanner := bufio.NewScanner(in)
	state := StateRoot
	for {
		io.WriteString(out, r.Prompt(state))
		if !scanner.Scan() {
			return clean.ActionSkip
		}
		step := Next(state, scanner.Text())
		if step.Done {
			return step.Action
		}
		state = step.State
	}
}
