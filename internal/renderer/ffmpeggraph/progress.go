package ffmpeggraph

import (
	"strconv"
	"strings"
)

// progressWriter consumes the key=value blocks ffmpeg emits on stderr under
// -progress pipe:2 and reports a completed fraction against the expected
// output duration.
type progressWriter struct {
	total  float64 // seconds; <= 0 disables fraction reporting
	report func(fraction float64)
	buf    strings.Builder
	last   float64
}

func newProgressWriter(totalSeconds float64, report func(float64)) *progressWriter {
	return &progressWriter{total: totalSeconds, report: report}
}

func (w *progressWriter) Write(p []byte) (int, error) {
	if w.report == nil || w.total <= 0 {
		return len(p), nil
	}
	w.buf.Write(p)
	for {
		data := w.buf.String()
		idx := strings.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		w.buf.Reset()
		w.buf.WriteString(data[idx+1:])
		w.line(strings.TrimSpace(data[:idx]))
	}
	return len(p), nil
}

func (w *progressWriter) line(line string) {
	value, ok := strings.CutPrefix(line, "out_time_us=")
	if !ok {
		// Older ffmpeg builds label microseconds out_time_ms.
		value, ok = strings.CutPrefix(line, "out_time_ms=")
	}
	if !ok {
		return
	}
	us, err := strconv.ParseInt(value, 10, 64)
	if err != nil || us < 0 {
		return
	}

	fraction := float64(us) / 1e6 / w.total
	if fraction > 1 {
		fraction = 1
	}
	// ffmpeg repeats blocks; only report forward motion.
	if fraction > w.last {
		w.last = fraction
		w.report(fraction)
	}
}
