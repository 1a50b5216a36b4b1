package obstacles

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
)

// LoadOptions tunes how obstacle outlines are read.
type LoadOptions struct {
	// SimplifyTolerance applies Douglas-Peucker with this threshold. Zero disables it.
	SimplifyTolerance float64 `json:"simplifyTolerance,omitempty" yaml:"simplify_tolerance,omitempty"`
	// Compact drops polygons that lie entirely inside another polygon.
	Compact bool `json:"compact,omitempty" yaml:"compact,omitempty"`
	// MergeTolerance merges edge-sharing polygons into their convex hull when positive.
	MergeTolerance float64 `json:"mergeTolerance,omitempty" yaml:"merge_tolerance,omitempty"`
	// Logger receives per-file progress. Nil discards it.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (o LoadOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LoadGeoJSON parses a GeoJSON FeatureCollection and returns the outer ring of
// every Polygon and MultiPolygon member. Holes are not represented, so an
// obstacle with a hole blocks the hole too.
func LoadGeoJSON(r io.Reader, opts LoadOptions) ([]Polygon, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read geojson: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geojson: %w", err)
	}

	var polygons []Polygon
	for _, feature := range fc.Features {
		polygons = append(polygons, outerRings(feature.Geometry)...)
	}
	return prepare(polygons, opts), nil
}

// LoadGeoJSONFile loads obstacles from a single GeoJSON file.
func LoadGeoJSONFile(path string, opts LoadOptions) ([]Polygon, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	polygons, err := LoadGeoJSON(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	opts.logger().Info("loaded obstacles", "file", filepath.Base(path), "polygons", len(polygons))
	return polygons, nil
}

// LoadGeoJSONDir loads every *.geojson file in dir. Unreadable files are
// logged and skipped.
func LoadGeoJSONDir(dir string, opts LoadOptions) ([]Polygon, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	logger := opts.logger()
	logger.Info("loading obstacles", "dir", dir, "files", len(files))

	perFile := opts
	perFile.Compact = false
	var all []Polygon
	for _, file := range files {
		polygons, err := LoadGeoJSONFile(file, perFile)
		if err != nil {
			logger.Warn("skipping obstacle file", "file", file, "error", err)
			continue
		}
		all = append(all, polygons...)
	}

	if opts.Compact {
		all = Compact(all)
	}
	logger.Info("total obstacles loaded", "polygons", len(all))
	return all, nil
}

// outerRings converts GeoJSON geometry to obstacle outlines
func outerRings(g orb.Geometry) []Polygon {
	var polygons []Polygon

	switch geom := g.(type) {
	case orb.Polygon:
		// First ring is the outer boundary
		if len(geom) > 0 {
			polygons = append(polygons, fromRing(geom[0]))
		}
	case orb.MultiPolygon:
		for _, poly := range geom {
			if len(poly) > 0 {
				polygons = append(polygons, fromRing(poly[0]))
			}
		}
	case orb.Collection:
		for _, member := range geom {
			polygons = append(polygons, outerRings(member)...)
		}
	}

	return polygons
}

func prepare(polygons []Polygon, opts LoadOptions) []Polygon {
	if opts.SimplifyTolerance > 0 {
		polygons = SimplifyPolygons(polygons, opts.SimplifyTolerance)
	}
	if opts.Compact {
		polygons = Compact(polygons)
	}
	if opts.MergeTolerance > 0 {
		polygons = MergeAdjacent(polygons, opts.MergeTolerance)
	}
	return polygons
}

// SimplifyPolygon reduces outline complexity using Douglas-Peucker. Outlines
// that would collapse below three vertices are returned unchanged.
func SimplifyPolygon(polygon Polygon, tolerance float64) Polygon {
	if len(polygon.Vertices) <= 3 {
		return polygon
	}
	ring, ok := simplify.DouglasPeucker(tolerance).Simplify(polygon.Ring()).(orb.Ring)
	if !ok || len(ring) < 4 {
		return polygon
	}
	return fromRing(ring)
}

// SimplifyPolygons simplifies multiple polygons
func SimplifyPolygons(polygons []Polygon, tolerance float64) []Polygon {
	simplified := make([]Polygon, len(polygons))
	for i, poly := range polygons {
		simplified[i] = SimplifyPolygon(poly, tolerance)
	}
	return simplified
}
