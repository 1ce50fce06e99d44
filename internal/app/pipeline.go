package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ayusman/liftform/internal/analysis"
	"github.com/ayusman/liftform/internal/pose"
	"github.com/ayusman/liftform/internal/store"
)

// pipeline carries per-session state across frames.
type pipeline struct {
	session  *Session
	log      *zap.Logger
	summary  Summary
	scoreSum float64
}

// process analyses one frame, persists it when a store is configured and
// hands the report to the session callback.
func (p *pipeline) process(frame pose.Frame) error {
	exercise := frame.Exercise
	if exercise == "" {
		exercise = p.session.Exercise
	}

	p.summary.Frames++
	fr := FrameReport{
		Report: analysis.BuildReport(frame.Keypoints(), exercise),
		Frame:  p.summary.Frames,
	}

	p.scoreSum += fr.Score
	if fr.IsGood {
		p.summary.Good++
	}

	if p.session.Store != nil {
		rec := store.FromReport(fr.Report)
		if err := p.session.Store.Analyses().Create(rec, frame.Landmarks); err != nil {
			return fmt.Errorf("save frame %d: %w", fr.Frame, err)
		}
		fr.ID = rec.ID
		p.summary.Saved++
	}

	p.log.Debug("frame analysed",
		zap.Int("frame", fr.Frame),
		zap.String("exercise", string(exercise)),
		zap.Float64("score", fr.Score),
		zap.Int("issues", len(fr.Issues)))

	if p.session.OnReport != nil {
		if err := p.session.OnReport(fr); err != nil {
			return fmt.Errorf("report frame %d: %w", fr.Frame, err)
		}
	}
	return nil
}

func (p *pipeline) finish() Summary {
	sum := p.summary
	if sum.Frames > 0 {
		sum.AverageScore = p.scoreSum / float64(sum.Frames)
	}
	return sum
}
