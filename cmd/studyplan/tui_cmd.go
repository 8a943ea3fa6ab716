package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/studyplan/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:         "tui",
	Short:       "Launch the interactive TUI",
	Annotations: map[string]string{setupAnnotation: setupQuiet},
	RunE:        runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	app := tui.New(application.Service)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
