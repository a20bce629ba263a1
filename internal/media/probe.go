package media

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ProbeDuration reads the container duration of a media file with ffprobe.
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	return parseProbeDuration([]byte(out))
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeDuration(data []byte) (float64, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("decode probe output: %w", err)
	}
	if out.Format.Duration == "" {
		return 0, fmt.Errorf("probe output has no duration")
	}
	d, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out.Format.Duration, err)
	}
	return d, nil
}
