package compose

import "math"

// PartBoundary describes one exported part of an over-length composition
type PartBoundary struct {
	Index int
	Start float64
	End   float64
}

// SplitBoundaries partitions [0,total) into fixed-stride windows of at
// most maxDuration seconds. Cuts are not content-aware; the last part
// absorbs the remainder and may be shorter, never longer.
func SplitBoundaries(total, maxDuration float64) []PartBoundary {
	if total <= 0 || maxDuration <= 0 {
		return nil
	}

	numParts := int(math.Ceil(total / maxDuration))
	boundaries := make([]PartBoundary, 0, numParts)

	for i := 0; i < numParts; i++ {
		start := float64(i) * maxDuration
		end := math.Min(float64(i+1)*maxDuration, total)
		boundaries = append(boundaries, PartBoundary{
			Index: i + 1,
			Start: start,
			End:   end,
		})
	}

	return boundaries
}
