// Package video wraps the ffmpeg/ffprobe tooling that turns a daily
// recording into the per-sample motion signals the timeline engine consumes.
package video

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type Probe struct {
	ffprobePath string
}

func NewProbe() (*Probe, error) {
	path, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}
	return &Probe{ffprobePath: path}, nil
}

type ProbeResult struct {
	DurationSec float64
	Width       int
	Height      int
	FPS         float64
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

func (p *Probe) Probe(videoPath string) (*ProbeResult, error) {
	cmd := exec.Command(p.ffprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		videoPath)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", videoPath, err)
	}

	var out probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	result := &ProbeResult{}
	result.DurationSec, _ = strconv.ParseFloat(out.Format.Duration, 64)

	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		result.Width = s.Width
		result.Height = s.Height
		result.FPS = parseFrameRate(s.RFrameRate)
		break
	}

	if result.Width == 0 || result.Height == 0 {
		return nil, fmt.Errorf("no video stream in %s", videoPath)
	}
	if result.DurationSec <= 0 {
		return nil, fmt.Errorf("invalid duration %f for %s", result.DurationSec, videoPath)
	}

	return result, nil
}

// parseFrameRate parses ffprobe's rational frame rate ("30000/1001"); a
// malformed or zero-denominator rate yields 0.
func parseFrameRate(rate string) float64 {
	parts := strings.SplitN(rate, "/", 2)
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	if len(parts) == 1 {
		return num
	}
	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}
