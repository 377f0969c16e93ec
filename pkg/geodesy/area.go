package geodesy

// AreaOfUse is a bounding rectangle in degrees plus a free-text description.
// West may exceed east to denote an antimeridian-crossing extent.
type AreaOfUse struct {
	West        float64
	South       float64
	East        float64
	North       float64
	Description string
}

// lonSpans returns the extent as one or two non-wrapping [west,east] spans.
func (a AreaOfUse) lonSpans() [][2]float64 {
	if a.West <= a.East {
		return [][2]float64{{a.West, a.East}}
	}
	return [][2]float64{{a.West, 180}, {-180, a.East}}
}

// Intersects reports whether two extents share any area.
func (a AreaOfUse) Intersects(b AreaOfUse) bool {
	if a.South > b.North || b.South > a.North {
		return false
	}
	for _, sa := range a.lonSpans() {
		for _, sb := range b.lonSpans() {
			if sa[0] <= sb[1] && sb[0] <= sa[1] {
				return true
			}
		}
	}
	return false
}

// Contains reports whether b lies entirely within a.
func (a AreaOfUse) Contains(b AreaOfUse) bool {
	if b.South < a.South || b.North > a.North {
		return false
	}
	for _, sb := range b.lonSpans() {
		covered := false
		for _, sa := range a.lonSpans() {
			if sb[0] >= sa[0] && sb[1] <= sa[1] {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

// Intersection returns the overlap of two extents clipped to a single span.
// The boolean is false when the extents do not intersect.
func (a AreaOfUse) Intersection(b AreaOfUse) (AreaOfUse, bool) {
	if !a.Intersects(b) {
		return AreaOfUse{}, false
	}
	out := AreaOfUse{South: maxf(a.South, b.South), North: minf(a.North, b.North)}
	best := [2]float64{}
	bestWidth := -1.0
	for _, sa := range a.lonSpans() {
		for _, sb := range b.lonSpans() {
			w := maxf(sa[0], sb[0])
			e := minf(sa[1], sb[1])
			if e >= w && e-w > bestWidth {
				best = [2]float64{w, e}
				bestWidth = e - w
			}
		}
	}
	out.West, out.East = best[0], best[1]
	return out, true
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
