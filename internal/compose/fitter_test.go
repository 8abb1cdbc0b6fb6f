package compose

import (
	"math"
	"math/rand"
	"testing"
)

var vertical = TargetFrame{Width: 1080, Height: 1920, FPS: 30}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestPlanFitWideSourceCropsWidth(t *testing.T) {
	src := &MediaInfo{Duration: 10, Width: 1920, Height: 1080}

	plan, err := PlanFit(src, vertical, 15, testRand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.ScaledHeight != 1920 {
		t.Errorf("expected scaled height 1920, got %d", plan.ScaledHeight)
	}
	srcAspect := 1920.0 / 1080.0
	wantWidth := int(1920.0 * srcAspect)
	if plan.ScaledWidth != wantWidth {
		t.Errorf("expected scaled width %d, got %d", wantWidth, plan.ScaledWidth)
	}
	if plan.CropX != plan.ScaledWidth/2-vertical.Width/2 {
		t.Errorf("crop not centered: x=%d scaled=%d", plan.CropX, plan.ScaledWidth)
	}
	if plan.CropY != 0 {
		t.Errorf("wide source should not crop vertically, got y=%d", plan.CropY)
	}

	// Crop window must stay on canvas
	if plan.CropX < 0 || plan.CropX+vertical.Width > plan.ScaledWidth {
		t.Errorf("crop window off canvas: x=%d width=%d scaled=%d",
			plan.CropX, vertical.Width, plan.ScaledWidth)
	}
}

func TestPlanFitShortSourceLoops(t *testing.T) {
	// 10s source, 15s narration: loop twice and trim
	src := &MediaInfo{Duration: 10, Width: 1920, Height: 1080}

	plan, err := PlanFit(src, vertical, 15, testRand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.Loops != 2 {
		t.Errorf("expected 2 loops, got %d", plan.Loops)
	}
	if plan.CoveredDuration() < plan.TargetDuration {
		t.Errorf("looped duration %.1f does not cover target %.1f",
			plan.CoveredDuration(), plan.TargetDuration)
	}
	if plan.Offset != 0 {
		t.Errorf("looped plan must start at 0, got offset %.2f", plan.Offset)
	}
	if plan.TargetDuration != 15 {
		t.Errorf("expected target duration 15, got %.2f", plan.TargetDuration)
	}
}

func TestPlanFitLongSourcePicksWindowInRange(t *testing.T) {
	src := &MediaInfo{Duration: 300, Width: 1080, Height: 1920}
	rnd := testRand()

	for i := 0; i < 100; i++ {
		plan, err := PlanFit(src, vertical, 45, rnd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.Loops != 1 {
			t.Fatalf("long source must not loop, got %d", plan.Loops)
		}
		if plan.Offset < 0 || plan.Offset > 255 {
			t.Fatalf("offset %.2f outside [0,255]", plan.Offset)
		}
		if plan.ScaledWidth != 1080 || plan.ScaledHeight != 1920 {
			t.Fatalf("matching aspect should scale to frame exactly, got %dx%d",
				plan.ScaledWidth, plan.ScaledHeight)
		}
		if plan.CropX != 0 || plan.CropY != 0 {
			t.Fatalf("matching aspect needs no crop, got %d,%d", plan.CropX, plan.CropY)
		}
	}
}

func TestPlanFitNarrowSourceCropsHeight(t *testing.T) {
	// 1:2.4 source is narrower than 9:16, scaled height overshoots
	src := &MediaInfo{Duration: 60, Width: 500, Height: 1200}

	plan, err := PlanFit(src, vertical, 30, testRand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.ScaledWidth != 1080 {
		t.Errorf("expected scaled width 1080, got %d", plan.ScaledWidth)
	}
	if plan.ScaledHeight <= vertical.Height {
		t.Fatalf("test expects overshooting height, got %d", plan.ScaledHeight)
	}
	if plan.CropY != plan.ScaledHeight/2-vertical.Height/2 {
		t.Errorf("vertical crop not centered: y=%d scaled=%d", plan.CropY, plan.ScaledHeight)
	}
	if plan.CropY < 0 || plan.CropY+vertical.Height > plan.ScaledHeight {
		t.Errorf("crop window off canvas: y=%d", plan.CropY)
	}
}

func TestPlanFitExactFitNeedsNoLoopOrOffset(t *testing.T) {
	src := &MediaInfo{Duration: 45, Width: 1080, Height: 1920}

	plan, err := PlanFit(src, vertical, 45, testRand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Loops != 1 || plan.Offset != 0 {
		t.Errorf("exact-length source should play as-is, got loops=%d offset=%.2f",
			plan.Loops, plan.Offset)
	}
}

func TestPlanFitRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		src    MediaInfo
		frame  TargetFrame
		target float64
	}{
		{"zero width", MediaInfo{Duration: 10, Width: 0, Height: 100}, vertical, 10},
		{"zero duration", MediaInfo{Duration: 0, Width: 100, Height: 100}, vertical, 10},
		{"zero target duration", MediaInfo{Duration: 10, Width: 100, Height: 100}, vertical, 0},
		{"bad frame", MediaInfo{Duration: 10, Width: 100, Height: 100}, TargetFrame{}, 10},
	}

	for _, c := range cases {
		if _, err := PlanFit(&c.src, c.frame, c.target, testRand()); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestPlanFitLoopCountCoversArbitraryDurations(t *testing.T) {
	rnd := testRand()
	for i := 0; i < 200; i++ {
		srcDur := 1 + rnd.Float64()*60
		target := srcDur + rnd.Float64()*300
		src := &MediaInfo{Duration: srcDur, Width: 1280, Height: 720}

		plan, err := PlanFit(src, vertical, target, rnd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.CoveredDuration() < target {
			t.Fatalf("loops=%d of %.2fs do not cover %.2fs", plan.Loops, srcDur, target)
		}
		want := int(target/srcDur) + 1
		if plan.Loops != want {
			t.Fatalf("expected minimal loop count %d, got %d", want, plan.Loops)
		}
	}
}

func TestSplitBoundaries(t *testing.T) {
	boundaries := SplitBoundaries(185, 90)

	if len(boundaries) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(boundaries))
	}

	want := []PartBoundary{
		{Index: 1, Start: 0, End: 90},
		{Index: 2, Start: 90, End: 180},
		{Index: 3, Start: 180, End: 185},
	}
	for i, b := range boundaries {
		if b != want[i] {
			t.Errorf("part %d: got %+v, want %+v", i, b, want[i])
		}
	}
}

func TestSplitBoundariesProperties(t *testing.T) {
	rnd := testRand()
	for i := 0; i < 200; i++ {
		max := 10 + rnd.Float64()*170
		total := max + rnd.Float64()*1000

		boundaries := SplitBoundaries(total, max)

		wantParts := int(math.Ceil(total / max))
		if len(boundaries) != wantParts {
			t.Fatalf("total=%.2f max=%.2f: expected %d parts, got %d",
				total, max, wantParts, len(boundaries))
		}
		if boundaries[0].Start != 0 {
			t.Fatalf("first part must start at 0, got %.2f", boundaries[0].Start)
		}
		if last := boundaries[len(boundaries)-1]; last.End != total {
			t.Fatalf("last part must end at total %.2f, got %.2f", total, last.End)
		}
		for j, b := range boundaries {
			if b.End-b.Start > max+1e-9 {
				t.Fatalf("part %d span %.4f exceeds max %.4f", j, b.End-b.Start, max)
			}
			if b.End <= b.Start {
				t.Fatalf("part %d has non-positive span", j)
			}
			if j > 0 && boundaries[j-1].End != b.Start {
				t.Fatalf("gap between part %d and %d", j-1, j)
			}
		}
	}
}

func TestSplitBoundariesExactMultiple(t *testing.T) {
	boundaries := SplitBoundaries(180, 90)
	if len(boundaries) != 2 {
		t.Fatalf("expected 2 parts for exact multiple, got %d", len(boundaries))
	}
	if boundaries[1].End != 180 {
		t.Errorf("expected last end 180, got %.2f", boundaries[1].End)
	}
}
