package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Neighbor index kinds accepted by Config.NeighborIndex.
const (
	IndexLinear = "linear"
	IndexRTree  = "rtree"
)

// Config holds the parameters of one planning session.
type Config struct {
	Start          Point   `json:"start" yaml:"start"`
	Goal           Point   `json:"goal" yaml:"goal"`
	MaxNodes       int     `json:"maxNodes" yaml:"max_nodes" validate:"gt=0"`
	Epsilon        float64 `json:"epsilon" yaml:"epsilon" validate:"gt=0"`
	BiasPercentage int     `json:"biasPercentage" yaml:"bias_percentage" validate:"min=1,max=100"`
	Bounds         Bounds  `json:"bounds" yaml:"bounds"`

	// RandomSeed makes the session reproducible. Nil seeds from the clock.
	RandomSeed *int64 `json:"randomSeed,omitempty" yaml:"random_seed,omitempty"`

	// RetainPreviousTree seeds the session with the tree passed to WithPreviousTree.
	RetainPreviousTree bool `json:"retainPreviousTree,omitempty" yaml:"retain_previous_tree,omitempty"`

	// NeighborIndex selects the nearest-neighbor structure; empty means linear.
	NeighborIndex string `json:"neighborIndex,omitempty" yaml:"neighbor_index,omitempty" validate:"omitempty,oneof=linear rtree"`

	// MaxAttempts caps the number of iterations, rejected ones included. Zero
	// means no cap; the node budget and goal remain the only terminal conditions.
	MaxAttempts int `json:"maxAttempts,omitempty" yaml:"max_attempts,omitempty" validate:"gte=0"`
}

// DefaultConfig returns the reference scenario: a 640x480 map from (50,50) to
// (540,380) with 5000 nodes, a step of 7 and 30% goal bias.
func DefaultConfig() Config {
	return Config{
		Start:          Point{X: 50, Y: 50},
		Goal:           Point{X: 540, Y: 380},
		MaxNodes:       5000,
		Epsilon:        7.0,
		BiasPercentage: 30,
		Bounds:         Bounds{MinX: 0, MinY: 0, MaxX: 640, MaxY: 480},
		NeighborIndex:  IndexLinear,
	}
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	configValidate.RegisterStructValidation(validateEndpoints, Config{})
}

// validateEndpoints checks the sampling domain and that start and goal lie inside it.
func validateEndpoints(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Bounds.Empty() {
		sl.ReportError(cfg.Bounds, "Bounds", "Bounds", "nonempty", "")
		return
	}
	if !cfg.Bounds.Contains(cfg.Start) {
		sl.ReportError(cfg.Start, "Start", "Start", "inbounds", "")
	}
	if !cfg.Bounds.Contains(cfg.Goal) {
		sl.ReportError(cfg.Goal, "Goal", "Goal", "inbounds", "")
	}
}

// Validate reports every constraint violation wrapped in ErrInvalidConfiguration.
func (c Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s, got %v", fe.Field(), comparison(fe.Tag()), fe.Param(), fe.Value())
	case "min", "max":
		return fmt.Sprintf("%s must be within [1,100], got %v", fe.Field(), fe.Value())
	case "nonempty":
		return "Bounds must have a positive width and height"
	case "inbounds":
		return fmt.Sprintf("%s %v lies outside the bounds", fe.Field(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
}

func comparison(tag string) string {
	if tag == "gte" {
		return ">="
	}
	return ">"
}

// goalBiasPeriod converts a bias percentage into "every Nth iteration targets the goal".
func goalBiasPeriod(biasPercentage int) int {
	if biasPercentage >= 100 {
		return 1
	}
	return max(1, 10-biasPercentage/10)
}
