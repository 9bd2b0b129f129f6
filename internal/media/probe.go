// Package media wraps ffprobe for the metadata the pipeline needs from source
// clips and rendered outputs.
package media

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Info is the probed metadata of a media file.
type Info struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
	HasAudio bool
}

// probeResult matches ffprobe JSON output structure.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// Probe inspects a media file and reports duration, dimensions, and whether
// it carries an audio track.
func Probe(path string) (*Info, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ffprobe failed for %s", path)
	}

	var probe probeResult
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, errors.Wrap(err, "failed to parse ffprobe output")
	}

	info := &Info{}
	if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = dur
	}

	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			info.Width = stream.Width
			info.Height = stream.Height
			info.Codec = stream.CodecName
		case "audio":
			info.HasAudio = true
		}
	}

	return info, nil
}
