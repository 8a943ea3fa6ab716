package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fentz26/studyplan/internal/app"
	"github.com/fentz26/studyplan/internal/config"
)

// version is set at build time.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "studyplan",
	Short:         "studyplan - weekly study schedule planner",
	Long:          `studyplan tracks study tasks and packs them into a seven-day plan by deadline, priority and difficulty.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setup := cmd.Annotations[setupAnnotation]
		if setup == setupNone {
			return nil
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if setup == setupQuiet {
			// Log lines would draw over the full-screen UI.
			cfg.Log.Level = "error"
		}
		loaded = cfg
		logger := app.NewLogger(cfg.Log)

		if setup == setupConfigOnly {
			return nil
		}
		application, err = app.New(cfg, logger)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if application != nil {
			return application.Close()
		}
		return nil
	},
	// No RunE - defaults to showing help when no subcommand is provided
}

// setupAnnotation tells the root command how much to initialize before a subcommand runs.
const (
	setupAnnotation = "studyplan/setup"
	setupNone       = "none"
	setupConfigOnly = "config"
	setupQuiet      = "quiet"
)

var (
	configPath string
	dbPath     string

	loaded      *config.Config
	application *app.App
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.studyplan/config.yaml or $STUDYPLAN_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(auditCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if application != nil {
			application.Close()
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
