package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"rrt-planner/obstacles"
	"rrt-planner/planner"
	"rrt-planner/smoothing"
)

// planOutput is the JSON document printed by the plan command.
type planOutput struct {
	GoalReached    bool            `json:"goalReached"`
	Path           []planner.Point `json:"path"`
	PathLength     float64         `json:"pathLength"`
	SmoothedPath   []planner.Point `json:"smoothedPath,omitempty"`
	SmoothedLength float64         `json:"smoothedLength,omitempty"`
	Nodes          int             `json:"nodes"`
	Iterations     int             `json:"iterations"`
	Rejected       int             `json:"rejected"`
	Obstacles      int             `json:"obstacles"`
	Tree           []planner.Point `json:"tree,omitempty"`
	Parent         []int           `json:"parent,omitempty"`
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run one planning session and print the result as JSON",
		Example: `  rrt-planner plan --nodes 5000 --epsilon 7 --init 50,50 --goal 540,380
  rrt-planner plan --config scenario.yaml --obstacles zones.geojson --smooth`,
		Args: cobra.NoArgs,
		RunE: runPlan,
	}

	flags := cmd.Flags()
	flags.Int("nodes", 0, "maximum number of tree nodes")
	flags.Float64("epsilon", 0, "maximum step size and goal tolerance")
	flags.Float64Slice("init", nil, "start point as x,y")
	flags.Float64Slice("goal", nil, "goal point as x,y")
	flags.Int("bias-percentage", 0, "goal bias percentage, 1-100")
	flags.Float64Slice("bounds", nil, "sampling bounds as minX,minY,maxX,maxY")
	flags.Int64("seed", 0, "random seed for a reproducible tree")
	flags.String("index", "", "nearest-neighbor index: linear or rtree")
	flags.Int("max-attempts", 0, "cap on iterations, rejected ones included (0 = none)")
	flags.StringSlice("obstacles", nil, "GeoJSON obstacle files")
	flags.Bool("smooth", false, "shortcut the found path")
	flags.Bool("tree", false, "include the tree and parent arrays in the output")
	flags.Bool("fail-if-unreached", false, "exit non-zero when the goal is not reached")
	return cmd
}

func runPlan(cmd *cobra.Command, _ []string) error {
	scenario, logger, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	cfg := scenario.Planner
	if err := applyPlanFlags(cmd, &cfg); err != nil {
		return err
	}

	polygons, err := scenario.LoadObstacles(logger)
	if err != nil {
		return err
	}
	files, _ := cmd.Flags().GetStringSlice("obstacles")
	for _, file := range files {
		loaded, err := obstacles.LoadGeoJSONFile(file, obstacles.LoadOptions{
			SimplifyTolerance: scenario.Obstacles.SimplifyTolerance,
			Compact:           scenario.Obstacles.Compact,
			MergeTolerance:    scenario.Obstacles.MergeTolerance,
			Logger:            logger,
		})
		if err != nil {
			return err
		}
		polygons = append(polygons, loaded...)
	}
	field := obstacles.NewField(polygons)

	p, err := planner.New(cfg, field, planner.WithLogger(logger))
	if err != nil {
		return err
	}
	result, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := planOutput{
		GoalReached: result.GoalReached,
		Path:        result.Path,
		PathLength:  planner.PathLength(result.Path),
		Nodes:       len(result.Tree),
		Iterations:  result.Iterations,
		Rejected:    result.Rejected,
		Obstacles:   field.Len(),
	}
	smooth, _ := cmd.Flags().GetBool("smooth")
	if (smooth || scenario.Smoothing.Enabled) && result.GoalReached {
		out.SmoothedPath = smoothing.Shortcut(result.Path, field.SegmentFree)
		out.SmoothedLength = planner.PathLength(out.SmoothedPath)
	}
	if withTree, _ := cmd.Flags().GetBool("tree"); withTree {
		out.Tree = result.Tree
		out.Parent = result.Parent
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if failIfUnreached, _ := cmd.Flags().GetBool("fail-if-unreached"); failIfUnreached && !result.GoalReached {
		return fmt.Errorf("%w after %d nodes", planner.ErrGoalNotReached, len(result.Tree))
	}
	return nil
}

// applyPlanFlags overrides scenario values with the flags set on the command line.
func applyPlanFlags(cmd *cobra.Command, cfg *planner.Config) error {
	flags := cmd.Flags()
	if flags.Changed("nodes") {
		cfg.MaxNodes, _ = flags.GetInt("nodes")
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon, _ = flags.GetFloat64("epsilon")
	}
	if flags.Changed("bias-percentage") {
		cfg.BiasPercentage, _ = flags.GetInt("bias-percentage")
	}
	if flags.Changed("index") {
		cfg.NeighborIndex, _ = flags.GetString("index")
	}
	if flags.Changed("max-attempts") {
		cfg.MaxAttempts, _ = flags.GetInt("max-attempts")
	}
	if flags.Changed("seed") {
		seed, _ := flags.GetInt64("seed")
		cfg.RandomSeed = &seed
	}
	for _, name := range []string{"init", "goal"} {
		if !flags.Changed(name) {
			continue
		}
		values, _ := flags.GetFloat64Slice(name)
		if len(values) != 2 {
			return fmt.Errorf("--%s takes x,y, got %d values", name, len(values))
		}
		point := planner.Point{X: values[0], Y: values[1]}
		if name == "init" {
			cfg.Start = point
		} else {
			cfg.Goal = point
		}
	}
	if flags.Changed("bounds") {
		values, _ := flags.GetFloat64Slice("bounds")
		if len(values) != 4 {
			return fmt.Errorf("--bounds takes minX,minY,maxX,maxY, got %d values", len(values))
		}
		cfg.Bounds = planner.Bounds{MinX: values[0], MinY: values[1], MaxX: values[2], MaxY: values[3]}
	}
	return nil
}
