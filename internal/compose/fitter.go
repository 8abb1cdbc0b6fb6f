package compose

import (
	"fmt"
	"math/rand"
)

// TargetFrame is the fixed output geometry for every composed video
type TargetFrame struct {
	Width  int
	Height int
	FPS    int
}

// Plan holds the derived parameters that fit one source video to the
// target frame and the narration duration. Exactly one of Loops > 1 or a
// window offset applies: short sources loop from zero, long sources play a
// single window starting at Offset.
type Plan struct {
	SourceDuration float64
	TargetDuration float64
	ScaledWidth    int
	ScaledHeight   int
	CropX          int
	CropY          int
	Loops          int
	Offset         float64
}

// PlanFit computes the spatial and temporal transform for a source video.
// rnd picks the window offset for sources longer than the target; passing
// a seeded source makes the choice reproducible in tests.
func PlanFit(src *MediaInfo, frame TargetFrame, targetDuration float64, rnd *rand.Rand) (*Plan, error) {
	if src.Width <= 0 || src.Height <= 0 {
		return nil, fmt.Errorf("invalid source dimensions %dx%d", src.Width, src.Height)
	}
	if src.Duration <= 0 {
		return nil, fmt.Errorf("invalid source duration %.2f", src.Duration)
	}
	if targetDuration <= 0 {
		return nil, fmt.Errorf("invalid target duration %.2f", targetDuration)
	}
	if frame.Width <= 0 || frame.Height <= 0 || frame.FPS <= 0 {
		return nil, fmt.Errorf("invalid target frame %dx%d@%d", frame.Width, frame.Height, frame.FPS)
	}

	plan := &Plan{
		SourceDuration: src.Duration,
		TargetDuration: targetDuration,
		Loops:          1,
	}

	srcAspect := float64(src.Width) / float64(src.Height)
	targetAspect := float64(frame.Width) / float64(frame.Height)

	if srcAspect > targetAspect {
		// Wider than target: match height, center-crop the width
		plan.ScaledHeight = frame.Height
		plan.ScaledWidth = int(float64(frame.Height) * srcAspect)
		plan.CropX = plan.ScaledWidth/2 - frame.Width/2
	} else {
		// Narrower or equal: match width, center-crop height if needed
		plan.ScaledWidth = frame.Width
		plan.ScaledHeight = int(float64(frame.Width) / srcAspect)
		if plan.ScaledHeight > frame.Height {
			plan.CropY = plan.ScaledHeight/2 - frame.Height/2
		}
	}

	if src.Duration < targetDuration {
		// Loop the minimum whole number of times to cover the target,
		// then trim from zero.
		plan.Loops = int(targetDuration/src.Duration) + 1
	} else {
		maxStart := src.Duration - targetDuration
		plan.Offset = rnd.Float64() * maxStart
	}

	return plan, nil
}

// CoveredDuration is the raw looped length before trimming
func (p *Plan) CoveredDuration() float64 {
	return float64(p.Loops) * p.SourceDuration
}
