package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/minio/cli"

	"stopwatch/internal/app"
	"stopwatch/internal/config"
	"stopwatch/internal/platform"
	"stopwatch/internal/storage"
	"stopwatch/internal/ui/term"
)

const appName = "stopwatch"

var Version = "1.0"

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "stopwatch-term"
	cliApp.Usage = "terminal stopwatch that keeps counting while closed"
	cliApp.Version = Version
	cliApp.Flags = config.Flags()
	cliApp.Action = run

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%v", err))
		os.Exit(1)
	}
}

func run(c *cli.Context) {
	if err := runConsole(c); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%v", err))
		os.Exit(1)
	}
}

func runConsole(c *cli.Context) error {
	cfg := config.LoadFromContext(c)
	if cfg.NoColor {
		color.NoColor = true
	}

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.YellowString("Using default settings: %v", err))
	}
	settings, err = cfg.Apply(settings)
	if err != nil {
		return err
	}

	guard, err := platform.AcquireSingleInstance(appName, nil)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			return fmt.Errorf("another stopwatch is already running")
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logOutput := &switchWriter{w: os.Stderr}
	logger := app.NewLogger(logOutput, settings)
	logger.Debug("single instance lock held", "address", guard.Address())
	runtime, err := app.Start(ctx, app.Options{
		AppName:  appName,
		DataDir:  cfg.DataDir,
		Settings: settings,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	console, err := term.New(runtime.Session, term.Config{
		Display:     settings.DisplayConfig(),
		JournalPath: runtime.JournalPath,
	})
	if err != nil {
		_ = runtime.Shutdown(context.Background())
		return err
	}

	logOutput.Switch(console.Stdout())
	go runtime.DrainOutbox(ctx)

	go func() {
		s := make(chan os.Signal, 1)
		signal.Notify(s, os.Interrupt, syscall.SIGTERM)
		select {
		case <-s:
			fmt.Fprintln(console.Stdout(), color.YellowString("Stopping."))
			cancel()
			_ = console.Close()
		case <-ctx.Done():
		}
	}()

	console.Run(ctx)
	logOutput.Switch(os.Stderr)

	if err := runtime.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("save stopwatch: %w", err)
	}
	color.Green("Saved.")
	return nil
}

// switchWriter lets log output move onto the readline writer once the prompt
// is up.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) Switch(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}
