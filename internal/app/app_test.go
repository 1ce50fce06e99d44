package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ayusman/liftform/internal/analysis"
	"github.com/ayusman/liftform/internal/pose"
	"github.com/ayusman/liftform/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const delta = 1e-9

func cleanBench() []pose.Landmark {
	return append(pose.GoodBench(),
		pose.Landmark{Name: pose.LeftShoulder, Confidence: 0.6, X: 210, Y: 300},
		pose.Landmark{Name: pose.LeftElbow, Confidence: 0.6, X: 270, Y: 320},
		pose.Landmark{Name: pose.LeftWrist, Confidence: 0.6, X: 270, Y: 240},
	)
}

func TestSession_Run(t *testing.T) {
	src := pose.NewMockSource(
		pose.Frame{Landmarks: pose.WellAlignedSquat()},
		pose.Frame{Exercise: pose.ExerciseBench, Landmarks: cleanBench()},
	)

	var reports []FrameReport
	s := &Session{
		Source:   src,
		Exercise: pose.ExerciseSquat,
		Logger:   zaptest.NewLogger(t),
		OnReport: func(fr FrameReport) error {
			reports = append(reports, fr)
			return nil
		},
	}

	sum, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, reports, 2)
	assert.Equal(t, 1, reports[0].Frame)
	assert.Equal(t, pose.ExerciseSquat, reports[0].Exercise, "session exercise fills in")
	assert.Equal(t, []string{analysis.IssueSquatDepth}, reports[0].Issues)
	assert.Equal(t, pose.ExerciseBench, reports[1].Exercise, "frame exercise wins")
	assert.True(t, reports[1].IsGood)
	assert.Empty(t, reports[1].ID)

	assert.Equal(t, 2, sum.Frames)
	assert.Equal(t, 1, sum.Good)
	assert.Equal(t, 0, sum.Saved)
	assert.InDelta(t, (0.9+1.0)/2, sum.AverageScore, delta)
	assert.True(t, src.Closed())
}

func TestSession_RunPersists(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	s := &Session{
		Source:   pose.NewMockSource(pose.Frame{Landmarks: pose.FlatDeadlift()}),
		Store:    st,
		Exercise: pose.ExerciseDeadlift,
	}

	var id string
	s.OnReport = func(fr FrameReport) error {
		id = fr.ID
		return nil
	}

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Saved)

	a, err := st.Analyses().GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, pose.ExerciseDeadlift, a.Exercise)
}

func TestSession_SkipsInvalidFrames(t *testing.T) {
	input := strings.Join([]string{
		`{"exercise":"squat","landmarks":[{"name":"right_knee","confidence":0.9,"x":1,"y":1}]}`,
		`{"landmarks":[{"name":"nose","confidence":7}]}`,
		`not json`,
		`[]`,
	}, "\n")

	s := &Session{Source: pose.NewStreamSource(strings.NewReader(input))}

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Frames)
	assert.Equal(t, 2, sum.Invalid)
}

func TestSession_EmptySource(t *testing.T) {
	sum, err := (&Session{Source: pose.NewMockSource()}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
}

func TestSession_Errors(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		_, err := (&Session{}).Run(context.Background())
		assert.Error(t, err)
	})

	t.Run("source error stops the session", func(t *testing.T) {
		src := pose.NewMockSource()
		sourceErr := errors.New("camera unplugged")
		src.SetError(sourceErr)

		_, err := (&Session{Source: src}).Run(context.Background())
		assert.ErrorIs(t, err, sourceErr)
		assert.True(t, src.Closed())
	})

	t.Run("stuck invalid source stops the session", func(t *testing.T) {
		src := pose.NewMockSource()
		src.SetError(fmt.Errorf("%w: truncated payload", pose.ErrInvalidFrame))

		sum, err := (&Session{Source: src}).Run(context.Background())
		assert.ErrorIs(t, err, ErrTooManyInvalid)
		assert.Equal(t, MaxConsecutiveInvalid+1, sum.Invalid)
		assert.True(t, src.Closed())
	})

	t.Run("callback error stops the session", func(t *testing.T) {
		stop := errors.New("stop")
		calls := 0
		s := &Session{
			Source: pose.NewMockSource(
				pose.Frame{Landmarks: pose.WellAlignedSquat()},
				pose.Frame{Landmarks: pose.WellAlignedSquat()},
			),
			OnReport: func(FrameReport) error {
				calls++
				return stop
			},
		}

		sum, err := s.Run(context.Background())
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, sum.Frames)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := (&Session{Source: pose.NewMockSource(pose.Frame{})}).Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestReplay(t *testing.T) {
	frames := []pose.Frame{
		{Landmarks: pose.LowConfidenceSquat()},
	}

	var got []FrameReport
	sum, err := Replay(context.Background(), pose.ExerciseSquat, frames, func(fr FrameReport) error {
		got = append(got, fr)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.True(t, got[0].Gated)
	assert.Equal(t, 0, sum.Good)
}
