package compose

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/codebuildervaibhav/shortform-video/internal/subtitles"
)

// Options configures the composer
type Options struct {
	Frame            TargetFrame
	RenderSubtitles  bool
	SubtitlePosition float64 // fraction of frame height, 0 = top
	FontFile         string
	FontSize         int
	SplitLongVideos  bool
	MaxPartDuration  float64
	TempDir          string
}

// Composer fits a background video to the target frame, muxes the
// narration audio, optionally burns in subtitles and exports one file or a
// sequence of bounded parts.
type Composer struct {
	opts Options
	rnd  *rand.Rand
}

// New creates a composer
func New(opts Options) *Composer {
	return &Composer{
		opts: opts,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Compose produces the final video artifact(s) for one narration. It
// returns the ordered list of output paths: a single entry normally, or
// one per part when the narration exceeds the per-part duration ceiling.
func (c *Composer) Compose(videoPath, audioPath string, subs []subtitles.Segment, outputPath string) ([]string, error) {
	videoInfo, err := Probe(videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load background video: %v", err)
	}
	audioInfo, err := Probe(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load narration audio: %v", err)
	}

	targetDuration := audioInfo.Duration
	plan, err := PlanFit(videoInfo, c.opts.Frame, targetDuration, c.rnd)
	if err != nil {
		return nil, fmt.Errorf("failed to plan composition: %v", err)
	}

	if plan.Loops > 1 {
		log.Printf("Background %.1fs shorter than narration %.1fs, looping %d times",
			plan.SourceDuration, targetDuration, plan.Loops)
	} else if plan.Offset > 0 {
		log.Printf("Selected random background window: %.1fs - %.1fs",
			plan.Offset, plan.Offset+targetDuration)
	}

	if !c.opts.SplitLongVideos || targetDuration <= c.opts.MaxPartDuration {
		if err := c.export(videoPath, audioPath, plan, subs, outputPath); err != nil {
			return nil, err
		}
		return []string{outputPath}, nil
	}

	log.Printf("Narration %.1fs exceeds part limit %.1fs, splitting",
		targetDuration, c.opts.MaxPartDuration)

	// Compose once into a temp master, then cut parts from it with
	// stream copy. The uuid keeps concurrent runs from colliding.
	master := filepath.Join(c.opts.TempDir, fmt.Sprintf("composite_%s.mp4", uuid.New().String()))
	if err := c.export(videoPath, audioPath, plan, subs, master); err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(master); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove composite temp file %s: %v", master, err)
		}
	}()

	boundaries := SplitBoundaries(targetDuration, c.opts.MaxPartDuration)
	outputs := make([]string, 0, len(boundaries))

	for _, b := range boundaries {
		partPath := partFilename(outputPath, b.Index)
		log.Printf("Exporting part %d/%d: %.1fs - %.1fs to %s",
			b.Index, len(boundaries), b.Start, b.End, filepath.Base(partPath))

		if err := cutPart(master, partPath, b); err != nil {
			return nil, fmt.Errorf("failed to export part %d: %v", b.Index, err)
		}
		outputs = append(outputs, partPath)
	}

	return outputs, nil
}

// export runs the full ffmpeg graph to one output file. A failure with
// subtitles in the graph degrades to a subtitle-free export before giving
// up; a failure without subtitles is fatal.
func (c *Composer) export(videoPath, audioPath string, plan *Plan, subs []subtitles.Segment, outputPath string) error {
	withSubs := c.opts.RenderSubtitles && len(subs) > 0

	err := c.runExport(videoPath, audioPath, plan, subs, outputPath, withSubs)
	if err != nil && withSubs {
		log.Printf("WARNING: subtitle rendering failed, exporting without subtitles: %v", err)
		err = c.runExport(videoPath, audioPath, plan, nil, outputPath, false)
	}
	if err != nil {
		// Never leave a partial file behind as the declared output
		os.Remove(outputPath)
		return fmt.Errorf("video export failed: %v", err)
	}

	return nil
}

func (c *Composer) runExport(videoPath, audioPath string, plan *Plan, subs []subtitles.Segment, outputPath string, withSubs bool) error {
	frame := c.opts.Frame

	inputArgs := ffmpeg.KwArgs{}
	if plan.Loops > 1 {
		inputArgs["stream_loop"] = plan.Loops - 1
	} else if plan.Offset > 0 {
		inputArgs["ss"] = fmt.Sprintf("%.3f", plan.Offset)
	}

	video := ffmpeg.Input(videoPath, inputArgs).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", plan.ScaledWidth, plan.ScaledHeight)}).
		Filter("crop", ffmpeg.Args{fmt.Sprintf("%d:%d:%d:%d", frame.Width, frame.Height, plan.CropX, plan.CropY)}).
		Filter("fps", ffmpeg.Args{strconv.Itoa(frame.FPS)})

	if withSubs {
		applied := 0
		for _, seg := range subs {
			kwargs, err := c.drawtextArgs(seg)
			if err != nil {
				log.Printf("WARNING: skipping subtitle %q: %v", seg.Text, err)
				continue
			}
			video = video.Filter("drawtext", ffmpeg.Args{}, kwargs)
			applied++
		}
		log.Printf("Rendering %d/%d subtitle segments", applied, len(subs))
	}

	audio := ffmpeg.Input(audioPath)

	outputArgs := ffmpeg.KwArgs{
		"c:v":     "libx264",
		"c:a":     "aac",
		"r":       frame.FPS,
		"pix_fmt": "yuv420p",
		"t":       fmt.Sprintf("%.3f", plan.TargetDuration),
	}

	return ffmpeg.Output([]*ffmpeg.Stream{video, audio}, outputPath, outputArgs).
		OverWriteOutput().
		Run()
}

// drawtextArgs builds one timed drawtext overlay for a subtitle segment
func (c *Composer) drawtextArgs(seg subtitles.Segment) (ffmpeg.KwArgs, error) {
	if seg.End <= seg.Start {
		return nil, fmt.Errorf("non-positive display window [%.3f,%.3f]", seg.Start, seg.End)
	}

	text := escapeDrawText(seg.Text)
	if text == "" {
		return nil, fmt.Errorf("empty text after escaping")
	}

	kwargs := ffmpeg.KwArgs{
		"text":        text,
		"fontsize":    c.opts.FontSize,
		"fontcolor":   "white",
		"borderw":     4,
		"bordercolor": "black",
		"x":           "(w-text_w)/2",
		"y":           strconv.Itoa(int(float64(c.opts.Frame.Height) * c.opts.SubtitlePosition)),
		"enable":      fmt.Sprintf("between(t,%.3f,%.3f)", seg.Start, seg.End),
	}
	if c.opts.FontFile != "" {
		kwargs["fontfile"] = c.opts.FontFile
	}

	return kwargs, nil
}

// escapeDrawText escapes the characters drawtext treats specially
func escapeDrawText(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return strings.TrimSpace(replacer.Replace(text))
}

// cutPart extracts one bounded window from the composite. Stream copy is
// tried first; some keyframe layouts refuse it, so re-encoding is the
// fallback.
func cutPart(master, partPath string, b PartBoundary) error {
	duration := b.End - b.Start

	err := ffmpeg.Input(master, ffmpeg.KwArgs{"ss": fmt.Sprintf("%.3f", b.Start)}).
		Output(partPath, ffmpeg.KwArgs{
			"t":   fmt.Sprintf("%.3f", duration),
			"c:v": "copy",
			"c:a": "copy",
		}).
		OverWriteOutput().
		Run()
	if err == nil {
		return nil
	}

	log.Printf("Stream copy failed for part %d, re-encoding", b.Index)

	return ffmpeg.Input(master, ffmpeg.KwArgs{"ss": fmt.Sprintf("%.3f", b.Start)}).
		Output(partPath, ffmpeg.KwArgs{
			"t":   fmt.Sprintf("%.3f", duration),
			"c:v": "libx264",
			"c:a": "aac",
		}).
		OverWriteOutput().
		Run()
}

// partFilename derives base_part<N>.mp4 from the single-file output path
func partFilename(outputPath string, index int) string {
	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, ext)
	return fmt.Sprintf("%s_part%d%s", base, index, ext)
}
