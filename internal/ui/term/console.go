// Package term provides the interactive terminal frontend for the stopwatch.
package term

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"stopwatch/internal/core/display"
	"stopwatch/internal/core/model"
	"stopwatch/internal/journal"
	"stopwatch/internal/outbox"
)

const historyLimit = 10

// Controller is the part of the session the console drives.
type Controller interface {
	TogglePause() (bool, error)
	Reset() error
	Export(ctx context.Context) (outbox.Message, error)
	Elapsed() (time.Duration, error)
	Paused() bool
}

// Config configures the console.
type Config struct {
	Display     model.DisplayConfig
	JournalPath string
}

// Console handles interactive mode.
type Console struct {
	ctrl   Controller
	config Config
	rl     *readline.Instance
	out    io.Writer
}

// New creates a console reading from the terminal.
func New(ctrl Controller, config Config) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt(display.Placeholder(config.Display.Resolution), true),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	console := newConsole(ctrl, config, rl.Stdout())
	console.rl = rl
	return console, nil
}

func newConsole(ctrl Controller, config Config, out io.Writer) *Console {
	return &Console{ctrl: ctrl, config: config, out: out}
}

// Stdout returns a writer that coordinates with the prompt. Log output
// should go here.
func (console *Console) Stdout() io.Writer {
	return console.out
}

// Close stops a running Run by closing the terminal.
func (console *Console) Close() error {
	if console.rl == nil {
		return nil
	}
	return console.rl.Close()
}

// Run reads commands until quit, EOF or ctx is done. The prompt shows the
// live elapsed time.
func (console *Console) Run(ctx context.Context) {
	defer console.rl.Close()

	poller := display.NewPoller(console.ctrl, func(reading display.Reading, err error) {
		console.rl.SetPrompt(console.livePrompt(reading, err))
		console.rl.Refresh()
	}, console.config.Display)
	poller.Start()
	defer poller.Stop()

	fmt.Fprint(console.out, helpText)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := console.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(console.out, "Exiting...")
			return
		}

		if quit := console.Execute(ctx, line); quit {
			return
		}
	}
}

// Execute runs one input line and reports whether the console should exit.
func (console *Console) Execute(ctx context.Context, line string) bool {
	action, err := ParseCommand(line)
	if err != nil {
		fmt.Fprintln(console.out, err)
		return false
	}

	switch action {
	case ActionToggle:
		if _, err := console.ctrl.TogglePause(); err != nil {
			console.fail(err)
			return false
		}
		console.printStatus()
	case ActionReset:
		if err := console.ctrl.Reset(); err != nil {
			console.fail(err)
			return false
		}
		console.printStatus()
	case ActionExport:
		message, err := console.ctrl.Export(ctx)
		if err != nil {
			console.fail(err)
			return false
		}
		fmt.Fprintf(console.out, "Exported %s (%d ms)\n", message.ID, message.ElapsedMS)
	case ActionStatus:
		console.printStatus()
	case ActionHistory:
		console.printHistory()
	case ActionHelp:
		fmt.Fprint(console.out, helpText)
	case ActionQuit:
		fmt.Fprintln(console.out, "Exiting...")
		return true
	}
	return false
}

func (console *Console) printStatus() {
	elapsed, err := console.ctrl.Elapsed()
	if err != nil {
		console.fail(err)
		return
	}
	reading := display.Format(elapsed, console.config.Display.Resolution)
	fmt.Fprintf(console.out, "%s  %s\n", color.New(color.Bold).Sprint(reading.String()), stateLabel(console.ctrl.Paused()))
}

func (console *Console) printHistory() {
	if console.config.JournalPath == "" {
		fmt.Fprintln(console.out, "Journal disabled")
		return
	}

	events, err := journal.Tail(console.config.JournalPath, journal.Filter{}, historyLimit)
	if err != nil {
		console.fail(err)
		return
	}
	if len(events) == 0 {
		fmt.Fprintln(console.out, "No journal entries")
		return
	}

	for _, event := range events {
		line := fmt.Sprintf("  %s  %-16s %s",
			event.Timestamp.Local().Format("2006-01-02 15:04:05"),
			event.Kind,
			display.Format(event.Elapsed(), console.config.Display.Resolution))
		if event.Error != "" {
			line += "  " + color.RedString(event.Error)
		}
		fmt.Fprintln(console.out, line)
	}
}

func (console *Console) fail(err error) {
	fmt.Fprintln(console.out, color.RedString("Error: %v", err))
}

func stateLabel(paused bool) string {
	if paused {
		return color.YellowString("PAUSED")
	}
	return color.GreenString("RUNNING")
}

// livePrompt marks the prompt when the clock cannot be read instead of
// showing the last good time.
func (console *Console) livePrompt(reading display.Reading, err error) string {
	if err != nil {
		return fmt.Sprintf("[%s] !! ", display.Unavailable(console.config.Display.Resolution))
	}
	return prompt(reading, console.ctrl.Paused())
}

func prompt(reading display.Reading, paused bool) string {
	marker := ">"
	if paused {
		marker = "||"
	}
	return fmt.Sprintf("[%s] %s ", reading, marker)
}
