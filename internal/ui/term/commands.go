package term

import (
	"fmt"
	"strings"
)

// Action is a parsed console command.
type Action int

const (
	ActionNone Action = iota
	ActionToggle
	ActionReset
	ActionExport
	ActionStatus
	ActionHistory
	ActionHelp
	ActionQuit
)

// ParseCommand maps an input line to an action. A line made only of spaces
// toggles, so the space bar followed by enter starts and stops the watch.
func ParseCommand(line string) (Action, error) {
	input := strings.TrimSpace(line)
	if input == "" {
		if line != "" && strings.Trim(line, " ") == "" {
			return ActionToggle, nil
		}
		return ActionNone, nil
	}

	switch strings.ToLower(strings.Fields(input)[0]) {
	case "p", "pause", "toggle", "space":
		return ActionToggle, nil
	case "r", "reset":
		return ActionReset, nil
	case "e", "export":
		return ActionExport, nil
	case "s", "status":
		return ActionStatus, nil
	case "h", "history":
		return ActionHistory, nil
	case "help", "?":
		return ActionHelp, nil
	case "q", "quit", "exit":
		return ActionQuit, nil
	}
	return ActionNone, fmt.Errorf("unknown command: %s (type 'help' for commands)", input)
}

const helpText = `
Stopwatch Commands:
  p, pause, toggle   - Start or pause (a blank line of spaces works too)
  r, reset           - Reset elapsed time to zero
  e, export          - Export the elapsed time
  s, status          - Show elapsed time and state
  h, history         - Show recent journal entries
  help               - Show this help
  q, quit            - Save and exit
`
