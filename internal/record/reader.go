package record

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"jello-lod/internal/sim"
)

const maxLine = 64 << 20

// ReadAll returns every line of a trace written by Writer.
func ReadAll(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []json.RawMessage
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		line := append(json.RawMessage(nil), sc.Bytes()...)
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// FrameLogger records one entry per simulation tick.
type FrameLogger struct{ w *Writer }

// NewFrameLogger creates a trace at path.
func NewFrameLogger(path string) (*FrameLogger, error) {
	w, err := Create(path)
	if err != nil {
		return nil, err
	}
	return &FrameLogger{w: w}, nil
}

func (l *FrameLogger) WriteFrame(f sim.Frame) error { return l.w.Write(f) }
func (l *FrameLogger) Len() int                     { return l.w.Len() }
func (l *FrameLogger) Close() error                 { return l.w.Close() }

// ReadFrames decodes a trace written by FrameLogger.
func ReadFrames(path string) ([]sim.Frame, error) {
	lines, err := ReadAll(path)
	if err != nil {
		return nil, err
	}
	frames := make([]sim.Frame, len(lines))
	for i, line := range lines {
		if err := json.Unmarshal(line, &frames[i]); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, i+1, err)
		}
	}
	return frames, nil
}
