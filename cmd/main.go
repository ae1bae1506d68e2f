package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"rattlescan/clean"
	"rattlescan/config"
	"rattlescan/display"
	"rattlescan/logger"
	"rattlescan/menu"
	"rattlescan/report"
	"rattlescan/scanner"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: rattlescan <file_path> [flags]")
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	if _, err := os.Stat(cfg.FilePath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot access %s: %v\n", cfg.FilePath, err)
		os.Exit(1)
	}

	if cfg.ScanSensitive && cfg.RedactSensitive == "" {
		logger.Warn("Sensitive data matches will be shown unredacted. Consider --redact-sensitive mask or hash.")
	}

	sections, err := scanner.Scan(cfg.FilePath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	color := !cfg.NoColor && term.IsTerminal(int(os.Stdout.Fd()))
	opts := display.Options{Format: cfg.OutputFormat, Color: color}
	if err := display.Render(os.Stdout, sections, opts); err != nil {
		logger.Errorf("Rendering report: %v", err)
	}

	action := resolveAction(cfg)
	if action == clean.ActionSkip {
		return
	}

	outcome := clean.Run(cfg.FilePath, action, clean.Options{
		WipePasses:     cfg.WipePasses,
		MaxIOPerSecond: cfg.MaxIOPerSecond,
		ShowProgress:   cfg.OutputFormat != "json" && menu.Interactive(),
	})
	renderOutcome(action, outcome, opts)
}

// resolveAction turns the flag surface into one cleaning action.
// --action short-circuits the menu; --clean/--wipe open the interactive
// menu when a terminal is attached.
func resolveAction(cfg *config.Config) clean.Action {
	if cfg.Action != "" {
		action, err := clean.ParseAction(cfg.Action)
		if err != nil {
			logger.Errorf("%v", err)
			return clean.ActionSkip
		}
		return action
	}
	if !cfg.Clean && !cfg.Wipe {
		return clean.ActionSkip
	}
	if !menu.Interactive() {
		logger.Warn("No terminal attached; skipping the action menu. Use --action to run non-interactively.")
		return clean.ActionSkip
	}
	return menu.Run(os.Stdin, os.Stdout, menu.NewRenderer(cfg.NoColor))
}

func renderOutcome(action clean.Action, outcome clean.Outcome, opts display.Options) {
	rep := report.New()
	rep.AddText("Action", string(action))
	if outcome.Success {
		rep.AddText("Result", "Success")
	} else {
		rep.AddWarning("Result", "Failed")
	}
	rep.AddText("Message", outcome.Message)
	if outcome.OutputPath != "" {
		rep.AddText("Output Path", outcome.OutputPath)
	}
	sections := []report.Section{{Title: "Cleaning Result", Report: rep}}
	if err := display.Render(os.Stdout, sections, opts); err != nil {
		logger.Errorf("Rendering outcome: %v", err)
	}
}
