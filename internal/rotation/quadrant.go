package rotation

import "SectorRRG/internal/model"

// QuadrantInfo describes how a quadrant is shown on the chart.
type QuadrantInfo struct {
	Quadrant model.Quadrant
	Fill     string  // named fill color
	LabelX   float64 // label anchor
	LabelY   float64
	Meaning  string
}

// Quadrants lists the four regions clockwise from the top right.
var Quadrants = []QuadrantInfo{
	{model.QuadrantLeading, "lightgreen", 1.5, 1.5, "relative strength above the benchmark and still rising"},
	{model.QuadrantWeakening, "lightyellow", 1.5, -1.5, "relative strength above the benchmark but momentum fading"},
	{model.QuadrantLagging, "#FFCCCB", -1.5, -1.5, "relative strength below the benchmark and falling"},
	{model.QuadrantImproving, "lightblue", -1.5, 1.5, "relative strength below the benchmark but momentum picking up"},
}

// Classify places an (RS, MOM) point in its quadrant. Zero on one axis counts as positive;
// only the exact origin, where fully degenerate instruments land, is Neutral.
// So (0, -0.2) is Weakening and (-0.2, 0) is Improving.
func Classify(rs, mom float64) model.Quadrant {
	switch {
	case rs == 0 && mom == 0:
		return model.QuadrantNeutral
	case rs >= 0 && mom >= 0:
		return model.QuadrantLeading
	case rs >= 0:
		return model.QuadrantWeakening
	case mom < 0:
		return model.QuadrantLagging
	default:
		return model.QuadrantImproving
	}
}

// Info returns the display description of q.
func Info(q model.Quadrant) (QuadrantInfo, bool) {
	for _, qi := range Quadrants {
		if qi.Quadrant == q {
			return qi, true
		}
	}
	return QuadrantInfo{}, false
}
