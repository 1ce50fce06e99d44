package pose

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Source defines the interface for landmark frame providers.
type Source interface {
	// Next returns the next landmark frame.
	// Returns io.EOF when no more frames are available.
	Next(ctx context.Context) (Frame, error)

	// Close releases any resources held by the source.
	Close() error
}

// maxFrameBytes bounds a single NDJSON line.
const maxFrameBytes = 1 << 20

// StreamSource reads newline-delimited JSON frames from a reader.
type StreamSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// NewStreamSource creates a StreamSource over r. If r is an io.Closer it is
// closed by Close.
func NewStreamSource(r io.Reader) *StreamSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameBytes)

	s := &StreamSource{scanner: scanner}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Next decodes the next non-blank line.
func (s *StreamSource) Next(ctx context.Context) (Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return Frame{}, fmt.Errorf("read line %d: %w", s.line+1, err)
			}
			return Frame{}, io.EOF
		}
		s.line++

		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		frame, err := DecodeFrame(line)
		if err != nil {
			return Frame{}, fmt.Errorf("line %d: %w", s.line, err)
		}
		return frame, nil
	}
}

// Line returns the number of lines consumed so far.
func (s *StreamSource) Line() int {
	return s.line
}

// Close closes the underlying reader when it is closable.
func (s *StreamSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
