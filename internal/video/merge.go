package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Merger concatenates a folder of clips into one daily recording using the
// ffmpeg concat demuxer with stream copy, so no re-encoding happens.
type Merger struct {
	ffmpegPath string
}

func NewMerger() (*Merger, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	return &Merger{ffmpegPath: path}, nil
}

// Merge joins every .mp4 under dir (sorted by path) into outPath, dropping
// audio. Returns an error when the folder holds no clips.
func (m *Merger) Merge(ctx context.Context, dir, outPath string) error {
	var clips []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".mp4") && path != outPath {
			clips = append(clips, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(clips) == 0 {
		return fmt.Errorf("no .mp4 clips in %s", dir)
	}
	sort.Strings(clips)

	list, err := os.CreateTemp("", "wheeltrack-concat-*.txt")
	if err != nil {
		return fmt.Errorf("creating concat list: %w", err)
	}
	defer os.Remove(list.Name())

	for _, clip := range clips {
		abs, err := filepath.Abs(clip)
		if err != nil {
			return fmt.Errorf("resolving clip path: %w", err)
		}
		fmt.Fprintf(list, "file '%s'\n", abs)
	}
	if err := list.Close(); err != nil {
		return fmt.Errorf("closing concat list: %w", err)
	}

	cmd := exec.CommandContext(ctx, m.ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0",
		"-i", list.Name(),
		"-c:v", "copy", "-an",
		"-y", outPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %v: %s", err, stderr.String())
	}

	return nil
}
