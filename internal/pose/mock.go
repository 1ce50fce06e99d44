package pose

import (
	"context"
	"io"
	"sync"
)

// MockSource is a test implementation of the Source interface.
// It replays the configured frames in order and then returns io.EOF.
type MockSource struct {
	mu     sync.Mutex
	frames []Frame
	next   int
	err    error
	closed bool
}

// NewMockSource creates a new MockSource replaying the given frames.
func NewMockSource(frames ...Frame) *MockSource {
	return &MockSource{frames: frames}
}

// SetFrames replaces the frames and rewinds the source.
func (m *MockSource) SetFrames(frames []Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = frames
	m.next = 0
}

// SetError sets the error that will be returned by Next.
func (m *MockSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Next returns the next pre-configured frame or error.
func (m *MockSource) Next(ctx context.Context) (Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if m.err != nil {
		return Frame{}, m.err
	}
	if m.next >= len(m.frames) {
		return Frame{}, io.EOF
	}

	f := m.frames[m.next]
	m.next++
	return f, nil
}

// Close marks the source closed.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// WellAlignedSquat returns a right-side squat stance with every joint
// stacked vertically over the ankle.
func WellAlignedSquat() []Landmark {
	return []Landmark{
		{Name: RightAnkle, Confidence: 0.9, X: 100, Y: 500},
		{Name: RightKnee, Confidence: 0.9, X: 100, Y: 400},
		{Name: RightHip, Confidence: 0.9, X: 100, Y: 300},
		{Name: RightShoulder, Confidence: 0.9, X: 100, Y: 150},
	}
}

// LowConfidenceSquat returns the WellAlignedSquat stance with every
// confidence lowered to 0.2.
func LowConfidenceSquat() []Landmark {
	landmarks := WellAlignedSquat()
	for i := range landmarks {
		landmarks[i].Confidence = 0.2
	}
	return landmarks
}

// FrontalView returns all 17 landmarks of a subject facing the camera with
// equal confidence on both sides.
func FrontalView() []Landmark {
	return []Landmark{
		{Name: Nose, Confidence: 0.95, X: 320, Y: 80},
		{Name: LeftEye, Confidence: 0.9, X: 335, Y: 70},
		{Name: RightEye, Confidence: 0.9, X: 305, Y: 70},
		{Name: LeftEar, Confidence: 0.8, X: 350, Y: 75},
		{Name: RightEar, Confidence: 0.8, X: 290, Y: 75},
		{Name: LeftShoulder, Confidence: 0.9, X: 380, Y: 150},
		{Name: RightShoulder, Confidence: 0.9, X: 260, Y: 150},
		{Name: LeftElbow, Confidence: 0.85, X: 400, Y: 230},
		{Name: RightElbow, Confidence: 0.85, X: 240, Y: 230},
		{Name: LeftWrist, Confidence: 0.8, X: 405, Y: 300},
		{Name: RightWrist, Confidence: 0.8, X: 235, Y: 300},
		{Name: LeftHip, Confidence: 0.9, X: 355, Y: 310},
		{Name: RightHip, Confidence: 0.9, X: 285, Y: 310},
		{Name: LeftKnee, Confidence: 0.9, X: 360, Y: 420},
		{Name: RightKnee, Confidence: 0.9, X: 280, Y: 420},
		{Name: LeftAnkle, Confidence: 0.85, X: 360, Y: 520},
		{Name: RightAnkle, Confidence: 0.85, X: 280, Y: 520},
	}
}

// FlatDeadlift returns a right-side deadlift setup where the knee and ankle
// share the same height, leaving the hip-height ratio undefined.
func FlatDeadlift() []Landmark {
	return []Landmark{
		{Name: RightAnkle, Confidence: 0.9, X: 200, Y: 500},
		{Name: RightKnee, Confidence: 0.9, X: 260, Y: 500},
		{Name: RightHip, Confidence: 0.9, X: 200, Y: 400},
		{Name: RightShoulder, Confidence: 0.9, X: 220, Y: 300},
	}
}

// GoodBench returns a right-side bench press position that passes every
// bench rule, including the optional hip and nose checks.
func GoodBench() []Landmark {
	return []Landmark{
		{Name: Nose, Confidence: 0.9, X: 150, Y: 300},
		{Name: RightShoulder, Confidence: 0.9, X: 200, Y: 300},
		{Name: RightElbow, Confidence: 0.9, X: 260, Y: 320},
		{Name: RightWrist, Confidence: 0.9, X: 260, Y: 240},
		{Name: RightHip, Confidence: 0.9, X: 260, Y: 310},
	}
}
