package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fentz26/studyplan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage studyplan configuration",
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a default config file",
	Annotations: map[string]string{setupAnnotation: setupNone},
	RunE:        runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration",
	Annotations: map[string]string{setupAnnotation: setupConfigOnly},
	RunE:        runConfigShow,
}

var forceInit bool

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(loaded)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}
