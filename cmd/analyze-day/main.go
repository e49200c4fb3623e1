// analyze-day runs the motion analysis pipeline on one daily recording and
// writes the day timeline CSV plus a plain-text summary next to it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/opetryk/wheeltrack/internal/config"
	"github.com/opetryk/wheeltrack/internal/stats"
	"github.com/opetryk/wheeltrack/internal/timeline"
	"github.com/opetryk/wheeltrack/internal/video"
)

func main() {
	var (
		videoPath    = flag.String("video", "", "Path to the daily recording (required)")
		fpsSample    = flag.Float64("fps", 1.0, "Sampling rate in frames per second")
		motionThresh = flag.Float64("motion-thresh", 0.1, "Minimum motion score for an active sample")
		minBlob      = flag.Int("min-blob", 1, "Minimum changed-region area in pixels")
		minStreak    = flag.Float64("min-streak", 1.0, "Minimum active episode duration in seconds")
		roiSpec      = flag.String("roi", "", "Activity zone as x,y,w,h (default: full frame)")
		csvOut       = flag.String("csv-out", "", "Timeline CSV path (default: <day>_wheel_times.csv)")
		summaryOut   = flag.String("summary-out", "", "Summary text path (default: <day>_summary.txt)")
		mergeDir     = flag.String("merge-dir", "", "Concatenate all .mp4 clips in this folder into -video first")
	)
	flag.Parse()

	if *videoPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if *mergeDir != "" {
		merger, err := video.NewMerger()
		if err != nil {
			log.Fatal("Failed to initialize merger:", err)
		}
		log.Printf("Merging clips from %s into %s", *mergeDir, *videoPath)
		if err := merger.Merge(context.Background(), *mergeDir, *videoPath); err != nil {
			log.Fatal("Failed to merge clips:", err)
		}
	}

	var region video.ROI
	if *roiSpec != "" {
		parsed, err := config.ParseROI(*roiSpec)
		if err != nil {
			log.Fatal("Invalid -roi:", err)
		}
		region = video.ROI{X: parsed[0], Y: parsed[1], W: parsed[2], H: parsed[3]}
	}

	base := strings.TrimSuffix(filepath.Base(*videoPath), filepath.Ext(*videoPath))
	day := stats.DayID(*videoPath)
	if *csvOut == "" {
		*csvOut = day + "_wheel_times.csv"
	}
	if *summaryOut == "" {
		*summaryOut = day + "_summary.txt"
	}

	detector, err := timeline.NewThresholdDetector(*motionThresh, *minBlob)
	if err != nil {
		log.Fatal("Invalid thresholds:", err)
	}

	sampler, err := video.NewSampler(*fpsSample, region)
	if err != nil {
		log.Fatal("Failed to initialize sampler:", err)
	}

	ctx := context.Background()

	prober, err := video.NewProbe()
	if err != nil {
		log.Fatal("Failed to initialize ffprobe:", err)
	}
	info, err := prober.Probe(*videoPath)
	if err != nil {
		log.Fatal("Failed to probe video:", err)
	}
	log.Printf("Analyzing %s: %.1fs, %dx%d @ %.2f fps", base, info.DurationSec, info.Width, info.Height, info.FPS)

	signals, err := sampler.Signals(ctx, *videoPath)
	if err != nil {
		log.Fatal("Failed to sample video:", err)
	}

	samples := make([]timeline.Sample, len(signals))
	for i, sig := range signals {
		samples[i] = timeline.Sample{
			T:           sig.T,
			MotionScore: sig.MotionScore,
			BlobArea:    sig.BlobArea,
			Active:      detector.Active(sig.MotionScore, sig.BlobArea),
		}
	}

	episodes := timeline.Segment(samples)
	episodes = timeline.ApplyMinStreak(episodes, *minStreak)
	summary := timeline.Summarize(episodes)

	if err := stats.WriteDayFile(*csvOut, episodes); err != nil {
		log.Fatal("Failed to write timeline CSV:", err)
	}

	report := stats.DayReport{
		VideoFile:      filepath.Base(*videoPath),
		DurationSec:    info.DurationSec,
		FPSSample:      *fpsSample,
		FrameStep:      stats.FrameStep(info.FPS, *fpsSample),
		ROI:            [4]int{region.X, region.Y, region.W, region.H},
		MotionThresh:   *motionThresh,
		MinBlob:        *minBlob,
		MinStreakSec:   *minStreak,
		TotalActiveSec: summary.TotalActiveSec,
	}
	if err := stats.WriteDayReport(*summaryOut, report); err != nil {
		log.Fatal("Failed to write summary:", err)
	}

	fmt.Printf("Wrote %s and %s\n", *csvOut, *summaryOut)
	fmt.Printf("Active: %s across %d episode(s)\n",
		stats.FormatHMS(int64(summary.TotalActiveSec)), summary.EpisodeCount)
}
