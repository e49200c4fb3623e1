package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
)

// Signal is one sampled observation of the activity zone: the timestamp, a
// motion score (median absolute pixel difference against the previous sampled
// frame) and the area of the largest changed region. The first sample of a
// recording always scores 0 motion.
type Signal struct {
	T           float64
	MotionScore float64
	BlobArea    int
}

// Source yields the ordered signal sequence for one recording. The timeline
// engine depends only on this interface, so the detection technique behind it
// is swappable.
type Source interface {
	Signals(ctx context.Context, videoPath string) ([]Signal, error)
}

// ROI is the rectangular activity zone inside the frame. A zero ROI means
// the full frame.
type ROI struct {
	X, Y, W, H int
}

func (r ROI) Zero() bool {
	return r.W == 0 || r.H == 0
}

// Sampler extracts grayscale ROI frames from a recording at a fixed sampling
// rate via ffmpeg and reduces each to a Signal.
type Sampler struct {
	ffmpegPath string
	probe      *Probe

	// FPSSample is the sampling rate in frames per second.
	FPSSample float64
	// Region restricts analysis to the activity zone.
	Region ROI
	// DiffThresh is the per-pixel difference cutoff when building the
	// changed-region mask.
	DiffThresh uint8
}

func NewSampler(fpsSample float64, region ROI) (*Sampler, error) {
	if fpsSample <= 0 {
		return nil, fmt.Errorf("sampling rate must be positive, got %v", fpsSample)
	}

	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	probe, err := NewProbe()
	if err != nil {
		return nil, err
	}

	return &Sampler{
		ffmpegPath: ffmpegPath,
		probe:      probe,
		FPSSample:  fpsSample,
		Region:     region,
		DiffThresh: 25,
	}, nil
}

// Signals decodes the recording and emits one Signal per sampled frame in
// increasing timestamp order.
func (s *Sampler) Signals(ctx context.Context, videoPath string) ([]Signal, error) {
	info, err := s.probe.Probe(videoPath)
	if err != nil {
		return nil, err
	}

	region := s.Region
	if region.Zero() {
		region = ROI{X: 0, Y: 0, W: info.Width, H: info.Height}
	}
	if region.X < 0 || region.Y < 0 ||
		region.X+region.W > info.Width || region.Y+region.H > info.Height {
		return nil, fmt.Errorf("ROI %+v out of bounds for %dx%d video", region, info.Width, info.Height)
	}

	vf := fmt.Sprintf("crop=%d:%d:%d:%d,fps=%g,format=gray",
		region.W, region.H, region.X, region.Y, s.FPSSample)

	cmd := exec.CommandContext(ctx, s.ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-vf", vf,
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"-")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating ffmpeg pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting ffmpeg: %w", err)
	}

	frameSize := region.W * region.H
	frame := make([]byte, frameSize)
	var prev []byte
	diff := make([]byte, frameSize)
	mask := make([]bool, frameSize)

	var signals []Signal
	for i := 0; ; i++ {
		if _, err := io.ReadFull(stdout, frame); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			cmd.Wait()
			return nil, fmt.Errorf("reading frame %d: %w", i, err)
		}

		sig := Signal{T: float64(i) / s.FPSSample}
		if prev != nil {
			absDiff(frame, prev, diff)
			sig.MotionScore = float64(medianByte(diff))
			for p, d := range diff {
				mask[p] = d >= s.DiffThresh
			}
			sig.BlobArea = largestComponent(mask, region.W, region.H)
		} else {
			prev = make([]byte, frameSize)
		}
		copy(prev, frame)
		signals = append(signals, sig)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffmpeg failed: %v: %s", err, stderr.String())
	}

	log.Printf("[SAMPLER] %s: %d samples at %g fps (ROI %dx%d)",
		videoPath, len(signals), s.FPSSample, region.W, region.H)

	return signals, nil
}

func absDiff(a, b, out []byte) {
	for i := range a {
		if a[i] >= b[i] {
			out[i] = a[i] - b[i]
		} else {
			out[i] = b[i] - a[i]
		}
	}
}

// medianByte computes the median over a byte slice with a 256-bin histogram.
func medianByte(data []byte) uint8 {
	if len(data) == 0 {
		return 0
	}
	var hist [256]int
	for _, v := range data {
		hist[v]++
	}
	mid := len(data) / 2
	seen := 0
	for v, n := range hist {
		seen += n
		if seen > mid {
			return uint8(v)
		}
	}
	return 255
}

// largestComponent returns the pixel count of the largest 4-connected true
// region in a w x h mask. The mask is consumed.
func largestComponent(mask []bool, w, h int) int {
	best := 0
	var stack []int

	for start := range mask {
		if !mask[start] {
			continue
		}
		size := 0
		mask[start] = false
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++

			x, y := p%w, p/w
			if x > 0 && mask[p-1] {
				mask[p-1] = false
				stack = append(stack, p-1)
			}
			if x < w-1 && mask[p+1] {
				mask[p+1] = false
				stack = append(stack, p+1)
			}
			if y > 0 && mask[p-w] {
				mask[p-w] = false
				stack = append(stack, p-w)
			}
			if y < h-1 && mask[p+w] {
				mask[p+w] = false
				stack = append(stack, p+w)
			}
		}
		if size > best {
			best = size
		}
	}
	return best
}
