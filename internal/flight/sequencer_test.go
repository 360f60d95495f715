package flight

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/user/shopfront/internal/clock"
	"github.com/user/shopfront/internal/geometry"
	"github.com/user/shopfront/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	testViewport = geometry.Viewport{Width: 420, Height: 800}
	testSource   = geometry.Rect{Top: 100, Left: 50, Width: 80, Height: 80}
	testCart     = geometry.Rect{Top: 10, Left: 300, Width: 24, Height: 24}
)

type recorder struct {
	mu        sync.Mutex
	completed []types.Flight
	changes   int
}

func (r *recorder) complete(f types.Flight) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, f)
}

func (r *recorder) change() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes++
}

func newTestSequencer(t *testing.T, opts ...Option) (*Sequencer, *clock.Manual, *recorder) {
	t.Helper()
	c := clock.NewManual(time.Unix(1_700_000_000, 0))
	rec := &recorder{}
	base := []Option{
		WithClock(c),
		WithOnComplete(rec.complete),
		WithOnChange(rec.change),
	}
	s := New(append(base, opts...)...)
	t.Cleanup(s.Close)
	return s, c, rec
}

func TestLaunchStageSequence(t *testing.T) {
	s, c, rec := newTestSequencer(t)
	target := testCart

	f, err := s.Launch(testSource, &target, testViewport, "img1")
	require.NoError(t, err)
	assert.Equal(t, types.StageStart, f.Stage)
	assert.Equal(t, testSource, f.Current.Rect)

	c.Advance(399 * time.Millisecond)
	active := s.Active()
	require.NotNil(t, active)
	assert.Equal(t, types.StageStart, active.Stage)

	c.Advance(1 * time.Millisecond)
	active = s.Active()
	require.NotNil(t, active)
	assert.Equal(t, types.StageMid, active.Stage)
	assert.Equal(t, geometry.Rect{Top: 360, Left: 170, Width: 80, Height: 80}, active.Current.Rect)
	assert.Equal(t, 1.0, active.Current.Opacity)

	c.Advance(400 * time.Millisecond)
	assert.Nil(t, s.Active())
	require.Len(t, rec.completed, 1)

	done := rec.completed[0]
	assert.Equal(t, types.StageDone, done.Stage)
	assert.Equal(t, "img1", done.Payload)
	assert.Equal(t, geometry.Rect{Top: -18, Left: 272, Width: 80, Height: 80}, done.Current.Rect)
	assert.Equal(t, 0.0, done.Current.Opacity)
	assert.Equal(t, DefaultEndScale, done.Current.Scale)
	assert.Equal(t, 3, rec.changes)
}

func TestLaunchUsesScrollCapturedAtLaunch(t *testing.T) {
	s, c, _ := newTestSequencer(t)
	vp := geometry.Viewport{Width: 420, Height: 800, ScrollY: 1000}
	target := vp.ToDocument(testCart)

	f, err := s.Launch(vp.ToDocument(testSource), &target, vp, "img1")
	require.NoError(t, err)
	assert.Equal(t, 1100.0, f.Current.Rect.Top)
	assert.Equal(t, 1360.0, f.Animation.Keyframes[1].Rect.Top)
	assert.Equal(t, 982.0, f.Animation.Keyframes[2].Rect.Top)

	c.Advance(400 * time.Millisecond)
	assert.Equal(t, 1360.0, s.Active().Current.Rect.Top)
}

func TestLaunchWithoutTargetIsNotReady(t *testing.T) {
	s, c, rec := newTestSequencer(t)

	f, err := s.Launch(testSource, nil, testViewport, "img1")
	assert.Nil(t, f)
	assert.True(t, errors.Is(err, types.ErrNotReady))
	assert.Nil(t, s.Active())
	assert.Equal(t, 0, rec.changes)

	c.Advance(time.Second)
	assert.Empty(t, rec.completed)
}

func TestLaunchWhileActiveRejects(t *testing.T) {
	s, c, rec := newTestSequencer(t)
	target := testCart

	first, err := s.Launch(testSource, &target, testViewport, "img1")
	require.NoError(t, err)

	c.Advance(200 * time.Millisecond)
	_, err = s.Launch(testSource, &target, testViewport, "img2")
	assert.ErrorIs(t, err, types.ErrBusy)
	assert.Equal(t, first.ID, s.Active().ID)

	c.Advance(600 * time.Millisecond)
	require.Len(t, rec.completed, 1)
	assert.Equal(t, "img1", rec.completed[0].Payload)
}

func TestLaunchWhileActiveQueues(t *testing.T) {
	s, c, rec := newTestSequencer(t, WithPolicy(PolicyQueue), WithQueueSize(2))
	target := testCart

	_, err := s.Launch(testSource, &target, testViewport, "img1")
	require.NoError(t, err)

	q1, err := s.Launch(testSource, &target, testViewport, "img2")
	require.NoError(t, err)
	assert.Equal(t, types.StageQueued, q1.Stage)

	_, err = s.Launch(testSource, &target, testViewport, "img3")
	require.NoError(t, err)

	_, err = s.Launch(testSource, &target, testViewport, "img4")
	assert.ErrorIs(t, err, types.ErrQueueFull)
	assert.Equal(t, 2, s.Pending())

	c.Advance(800 * time.Millisecond)
	require.Len(t, rec.completed, 1)
	active := s.Active()
	require.NotNil(t, active)
	assert.Equal(t, q1.ID, active.ID)
	assert.Equal(t, types.StageStart, active.Stage)
	assert.Equal(t, 1, s.Pending())

	c.Advance(1600 * time.Millisecond)
	require.Len(t, rec.completed, 3)
	assert.Equal(t, []string{"img1", "img2", "img3"}, []string{
		rec.completed[0].Payload, rec.completed[1].Payload, rec.completed[2].Payload,
	})
	assert.Nil(t, s.Active())
	assert.Equal(t, 0, s.Pending())
}

func TestZeroAreaRectsStillComplete(t *testing.T) {
	s, c, rec := newTestSequencer(t)
	zero := geometry.Rect{}

	_, err := s.Launch(zero, &zero, geometry.Viewport{}, "img1")
	require.NoError(t, err)

	c.Advance(800 * time.Millisecond)
	assert.Nil(t, s.Active())
	assert.Len(t, rec.completed, 1)
}

func TestCancelDropsFlightWithoutCompleting(t *testing.T) {
	s, c, rec := newTestSequencer(t, WithPolicy(PolicyQueue))
	target := testCart

	_, err := s.Launch(testSource, &target, testViewport, "img1")
	require.NoError(t, err)
	_, err = s.Launch(testSource, &target, testViewport, "img2")
	require.NoError(t, err)

	c.Advance(500 * time.Millisecond)
	assert.True(t, s.Cancel())
	assert.False(t, s.Cancel())
	assert.Nil(t, s.Active())
	assert.Equal(t, 0, s.Pending())

	c.Advance(2 * time.Second)
	assert.Empty(t, rec.completed)
	assert.Equal(t, 0, c.Pending())
}

func TestLaunchAfterCloseIsNotReady(t *testing.T) {
	s, _, _ := newTestSequencer(t)
	s.Close()

	target := testCart
	_, err := s.Launch(testSource, &target, testViewport, "img1")
	assert.ErrorIs(t, err, types.ErrNotReady)
}

func TestCustomTimings(t *testing.T) {
	s, c, rec := newTestSequencer(t, WithTimings(100*time.Millisecond, 50*time.Millisecond), WithEndScale(0.5))
	target := testCart

	f, err := s.Launch(testSource, &target, testViewport, "img1")
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, f.Animation.Duration())
	assert.Equal(t, 0.5, f.Animation.Keyframes[2].Scale)

	c.Advance(150 * time.Millisecond)
	assert.Len(t, rec.completed, 1)
}

func TestRealClockFlight(t *testing.T) {
	done := make(chan types.Flight, 1)
	s := New(
		WithTimings(5*time.Millisecond, 5*time.Millisecond),
		WithOnComplete(func(f types.Flight) { done <- f }),
	)
	defer s.Close()

	target := testCart
	_, err := s.Launch(testSource, &target, testViewport, "img1")
	require.NoError(t, err)

	select {
	case f := <-done:
		assert.Equal(t, "img1", f.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("flight did not land")
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("queue")
	require.NoError(t, err)
	assert.Equal(t, PolicyQueue, p)

	_, err = ParsePolicy("drop")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}
