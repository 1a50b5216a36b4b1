// Package obstacles provides polygonal obstacle sets for the planner: loading
// outlines from GeoJSON, simplifying and compacting them, and answering point
// and segment collision queries through an R-tree.
package obstacles
