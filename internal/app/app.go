// Package app runs analysis sessions over a stream of pose frames.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ayusman/liftform/internal/analysis"
	"github.com/ayusman/liftform/internal/logging"
	"github.com/ayusman/liftform/internal/pose"
	"github.com/ayusman/liftform/internal/store"
)

// MaxConsecutiveInvalid bounds the run of invalid frames a session skips
// before giving up on its source.
const MaxConsecutiveInvalid = 1000

// ErrTooManyInvalid is returned when a source yields more than
// MaxConsecutiveInvalid invalid frames in a row.
var ErrTooManyInvalid = errors.New("too many consecutive invalid frames")

// FrameReport is the report for one frame of a session.
type FrameReport struct {
	analysis.Report
	// Frame is the 1-based index of the frame within the session.
	Frame int `json:"frame"`
	// ID is set when the analysis was saved.
	ID string `json:"id,omitempty"`
}

// Summary aggregates a finished session.
type Summary struct {
	Frames       int     `json:"frames"`
	Good         int     `json:"good"`
	Invalid      int     `json:"invalid"`
	Saved        int     `json:"saved"`
	AverageScore float64 `json:"average_score"`
}

// Session analyses frames from a Source until it is exhausted.
type Session struct {
	Source pose.Source
	// Store records every analysed frame when set.
	Store *store.Store
	// Exercise applies to frames that name none.
	Exercise pose.Exercise
	Logger   *zap.Logger
	// OnReport is called for every analysed frame. Returning an error stops
	// the session.
	OnReport func(FrameReport) error
}

// Run pulls frames until the source returns io.EOF or ctx is done. Frames
// that fail to decode are counted and skipped, up to MaxConsecutiveInvalid
// in a row. The source is closed on
// return and its close error is reported when nothing else failed.
func (s *Session) Run(ctx context.Context) (sum Summary, err error) {
	if s.Source == nil {
		return Summary{}, errors.New("session has no source")
	}
	defer func() {
		if cerr := s.Source.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close source: %w", cerr)
		}
	}()

	log := logging.OrNop(s.Logger)
	p := &pipeline{session: s, log: log}
	invalidRun := 0

	for {
		frame, err := s.Source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, pose.ErrInvalidFrame) {
				p.summary.Invalid++
				invalidRun++
				if invalidRun > MaxConsecutiveInvalid {
					return p.finish(), fmt.Errorf("%w: last: %v", ErrTooManyInvalid, err)
				}
				log.Warn("skipping invalid frame", zap.Error(err))
				continue
			}
			return p.finish(), err
		}
		invalidRun = 0

		if err := p.process(frame); err != nil {
			return p.finish(), err
		}
	}

	sum = p.finish()
	log.Info("session finished",
		zap.Int("frames", sum.Frames),
		zap.Int("good", sum.Good),
		zap.Int("invalid", sum.Invalid),
		zap.Float64("average_score", sum.AverageScore))
	return sum, nil
}

// Replay runs a session over in-memory frames.
func Replay(ctx context.Context, exercise pose.Exercise, frames []pose.Frame, onReport func(FrameReport) error) (Summary, error) {
	s := &Session{
		Source:   pose.NewMockSource(frames...),
		Exercise: exercise,
		OnReport: onReport,
	}
	sum, err := s.Run(ctx)
	if err != nil {
		return sum, fmt.Errorf("replay: %w", err)
	}
	return sum, nil
}
