package main

import (
	"github.com/spf13/cobra"

	"rrt-planner/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve planning sessions over HTTP and websocket",
		Long: `Endpoints:
  POST /plan                 - Run a planning session
  GET  /sessions/{id}        - Tree, parent links and path of a session
  GET  /sessions/{id}/lines  - Tree edges for visualization
  GET  /stream               - Websocket: stream node events while planning
  GET  /health               - Check server status
  GET  /metrics              - Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	scenario, logger, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		scenario.Server.Addr = addr
	}

	polygons, err := scenario.LoadObstacles(logger)
	if err != nil {
		return err
	}
	return server.New(scenario, polygons, logger).ListenAndServe(cmd.Context())
}
