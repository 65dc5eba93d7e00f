package shaders

import (
	_ "embed"
)

//go:embed melt_points.wgsl
var MeltPointsWGSL string
