package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"rrt-planner/internal/config"
	"rrt-planner/internal/logging"
)

// loadScenario reads --config and applies the persistent logging flags.
func loadScenario(cmd *cobra.Command) (config.Scenario, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	scenario, err := config.LoadFile(path)
	if err != nil {
		return scenario, nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		scenario.Logging.Level = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		scenario.Logging.Format = format
	}
	scenario.Logging.Writer = cmd.ErrOrStderr()

	logger, err := logging.New(scenario.Logging)
	if err != nil {
		return scenario, nil, err
	}
	return scenario, logger, nil
}
