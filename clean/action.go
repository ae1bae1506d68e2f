// Package clean performs the destructive and semi-destructive file
// mutations: metadata stripping into a copy or in place, and secure
// multi-pass overwrite. Exactly one action runs per invocation.
package clean

import "fmt"

// Action is the single mutation selected for this invocation.
type Action string

const (
	ActionSkip           Action = "skip"
	ActionCleanCopy      Action = "clean-copy"
	ActionCleanOverwrite Action = "clean-overwrite"
	ActionSecureWipe     Action = "secure-wipe"
)

// ParseAction validates a user-supplied action name.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionSkip, ActionCleanCopy, ActionCleanOverwrite, ActionSecureWipe:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action: %s", s)
}

// Destructive reports whether the action mutates or removes the
// original file.
func (a Action) Destructive() bool {
	return a == ActionCleanOverwrite || a == ActionSecureWipe
}

// Outcome is the result of one cleaning or wipe attempt.
type Outcome struct {
	Success bool
	Message string
	// OutputPath names the file the action produced, when any.
	OutputPath string
}
