package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rrt-planner",
		Short: "Rapidly-exploring random tree path planner",
		Long: `rrt-planner grows a random tree from a start point until it connects to a
goal point in a bounded 2D map with polygon obstacles.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "scenario YAML file")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "log format: text or json")

	root.AddCommand(newPlanCmd(), newServeCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
