// Package flight drives the item-to-cart animation. It emits a declarative
// three-keyframe descriptor, advances the flight stage on two timers and
// reports completion through a hook.
package flight

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/shopfront/internal/clock"
	"github.com/user/shopfront/internal/geometry"
	"github.com/user/shopfront/internal/types"
)

// Policy decides what Launch does while a flight is already in the air.
type Policy string

const (
	// PolicyReject fails the launch with types.ErrBusy.
	PolicyReject Policy = "reject"
	// PolicyQueue appends the launch to a bounded FIFO drained one flight
	// at a time.
	PolicyQueue Policy = "queue"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyReject, PolicyQueue:
		return p, nil
	default:
		return "", fmt.Errorf("unknown flight policy %q: %w", s, types.ErrInvalidArgument)
	}
}

const (
	DefaultToCenter  = 400 * time.Millisecond
	DefaultToCart    = 400 * time.Millisecond
	DefaultEndScale  = 0.2
	DefaultEasing    = "ease-in-out"
	DefaultQueueSize = 4
)

// Sequencer runs at most one flight at a time.
type Sequencer struct {
	mu         sync.Mutex
	clock      clock.Clock
	logger     *zap.Logger
	toCenter   time.Duration
	toCart     time.Duration
	endScale   float64
	easing     string
	policy     Policy
	queueSize  int
	onChange   func()
	onComplete func(types.Flight)

	active *types.Flight
	queue  []*types.Flight
	timer  clock.Timer
	gen    uint64
	closed bool
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithTimings sets the duration of the leg to the viewport centre and of
// the leg to the cart.
func WithTimings(toCenter, toCart time.Duration) Option {
	return func(s *Sequencer) {
		s.toCenter = toCenter
		s.toCart = toCart
	}
}

func WithPolicy(p Policy) Option {
	return func(s *Sequencer) { s.policy = p }
}

func WithQueueSize(n int) Option {
	return func(s *Sequencer) { s.queueSize = n }
}

func WithEndScale(scale float64) Option {
	return func(s *Sequencer) { s.endScale = scale }
}

func WithEasing(name string) Option {
	return func(s *Sequencer) { s.easing = name }
}

func WithClock(c clock.Clock) Option {
	return func(s *Sequencer) { s.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Sequencer) { s.logger = l }
}

// WithOnChange sets a callback invoked after every stage transition,
// outside the sequencer's lock.
func WithOnChange(fn func()) Option {
	return func(s *Sequencer) { s.onChange = fn }
}

// WithOnComplete sets the callback invoked once per flight that reaches
// the Done stage. Cancelled flights never complete. fn runs under the
// sequencer's lock, in the same critical section that clears the flight,
// and must not call back into the Sequencer.
func WithOnComplete(fn func(types.Flight)) Option {
	return func(s *Sequencer) { s.onComplete = fn }
}

// New creates a Sequencer with the 400ms + 400ms timings of the storefront
// and the reject policy.
func New(opts ...Option) *Sequencer {
	s := &Sequencer{
		clock:     clock.Real{},
		logger:    zap.NewNop(),
		toCenter:  DefaultToCenter,
		toCart:    DefaultToCart,
		endScale:  DefaultEndScale,
		easing:    DefaultEasing,
		policy:    PolicyReject,
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.toCenter < 0 {
		s.toCenter = 0
	}
	if s.toCart < 0 {
		s.toCart = 0
	}
	if s.queueSize < 1 {
		s.queueSize = 1
	}
	return s
}

// Launch starts a flight of payload from source towards target. Both rects
// and vp must be captured at the same moment, in document coordinates. A nil
// target means the cart icon could not be measured: the launch is aborted
// with types.ErrNotReady and nothing changes.
//
// The returned Flight is a copy; its Stage is StageQueued when the launch
// was queued behind an active flight.
func (s *Sequencer) Launch(source geometry.Rect, target *geometry.Rect, vp geometry.Viewport, payload string) (*types.Flight, error) {
	if target == nil {
		return nil, fmt.Errorf("launch %s: cart geometry unavailable: %w", payload, types.ErrNotReady)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("launch %s: sequencer closed: %w", payload, types.ErrNotReady)
	}

	anim := Plan(source, *target, vp, s.toCenter, s.toCart, s.endScale, s.easing)
	f := &types.Flight{
		ID:        types.NewFlightID(),
		Payload:   payload,
		Stage:     types.StageStart,
		Current:   anim.Keyframes[0],
		Target:    anim.Keyframes[1],
		Animation: anim,
	}

	if s.active != nil {
		switch s.policy {
		case PolicyQueue:
			if len(s.queue) >= s.queueSize {
				s.mu.Unlock()
				return nil, fmt.Errorf("launch %s: %d flights pending: %w", payload, len(s.queue), types.ErrQueueFull)
			}
			f.Stage = types.StageQueued
			s.queue = append(s.queue, f)
			pending := len(s.queue)
			out := *f
			s.mu.Unlock()
			s.logger.Debug("flight queued", zap.String("flight_id", string(f.ID)), zap.String("payload", payload), zap.Int("pending", pending))
			s.notify()
			return &out, nil
		default:
			activeID := s.active.ID
			s.mu.Unlock()
			return nil, fmt.Errorf("launch %s: flight %s in progress: %w", payload, activeID, types.ErrBusy)
		}
	}

	s.start(f)
	out := *f
	s.mu.Unlock()

	s.logger.Debug("flight launched",
		zap.String("flight_id", string(f.ID)),
		zap.String("payload", payload),
		zap.Stringer("source", source),
		zap.Stringer("target", *target),
	)
	s.notify()
	return &out, nil
}

// start makes f the active flight and schedules its first leg. Caller must
// hold mu.
func (s *Sequencer) start(f *types.Flight) {
	f.Stage = types.StageStart
	f.Current = f.Animation.Keyframes[0]
	f.Target = f.Animation.Keyframes[1]
	f.LaunchedAt = s.clock.Now()
	s.active = f
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.toCenter, func() { s.reachCenter(gen) })
}

func (s *Sequencer) reachCenter(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.active == nil {
		s.mu.Unlock()
		return
	}
	f := s.active
	f.Stage = types.StageMid
	f.Current = f.Animation.Keyframes[1]
	f.Target = f.Animation.Keyframes[2]
	s.timer = s.clock.AfterFunc(s.toCart, func() { s.land(gen) })
	s.mu.Unlock()

	s.notify()
}

func (s *Sequencer) land(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.active == nil {
		s.mu.Unlock()
		return
	}
	done := *s.active
	done.Stage = types.StageDone
	done.Current = done.Animation.Keyframes[2]
	done.Target = done.Current
	if s.onComplete != nil {
		s.onComplete(done)
	}
	s.active = nil
	s.timer = nil
	if len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.start(next)
	}
	s.mu.Unlock()

	s.logger.Debug("flight landed", zap.String("flight_id", string(done.ID)), zap.String("payload", done.Payload))
	s.notify()
}

// Cancel aborts the active flight and drops any queued ones without
// completing them. It reports whether anything was cancelled.
func (s *Sequencer) Cancel() bool {
	s.mu.Lock()
	if s.active == nil && len(s.queue) == 0 {
		s.mu.Unlock()
		return false
	}
	dropped := len(s.queue)
	s.reset()
	s.mu.Unlock()

	s.logger.Info("flight cancelled", zap.Int("dropped_queued", dropped))
	s.notify()
	return true
}

// Close cancels everything and rejects later launches.
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.reset()
}

// reset stops the pending timer and forgets all flights. Caller must hold mu.
func (s *Sequencer) reset() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.active = nil
	s.queue = nil
}

// Active returns a copy of the flight in the air, or nil.
func (s *Sequencer) Active() *types.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	f := *s.active
	return &f
}

// Inspect calls fn with a copy of the active flight and the queue length
// while holding the sequencer's lock. Reads fn makes of state updated by
// the completion callback are consistent with what it is given.
func (s *Sequencer) Inspect(fn func(active *types.Flight, pending int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active *types.Flight
	if s.active != nil {
		f := *s.active
		active = &f
	}
	fn(active, len(s.queue))
}

// Pending returns the number of queued flights.
func (s *Sequencer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Sequencer) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
