// Package assistant implements the lifecycle of the shopping assistant
// panel: idle, loading, and a collapsed or expanded result set.
package assistant

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/shopfront/internal/clock"
	"github.com/user/shopfront/internal/geometry"
	"github.com/user/shopfront/internal/types"
)

// DefaultLatency is how long the panel shows its loading state.
const DefaultLatency = 7 * time.Second

// Launcher starts a cart flight. *flight.Sequencer implements it.
type Launcher interface {
	Launch(source geometry.Rect, target *geometry.Rect, vp geometry.Viewport, payload string) (*types.Flight, error)
}

// State is a copy of the panel state at one instant.
type State struct {
	Phase      types.Phase
	Query      Query
	Results    []string
	Generation uint64
}

// Expanded reports whether the result list is open.
func (s State) Expanded() bool {
	return s.Phase == types.PhaseResultExpanded
}

// Session owns the panel's phase, its pending query and the result set.
// Every Submit invalidates the completion scheduled by the previous one.
type Session struct {
	mu       sync.Mutex
	provider Provider
	launcher Launcher
	clock    clock.Clock
	logger   *zap.Logger
	latency  time.Duration
	onChange func()

	phase   types.Phase
	query   Query
	results []string
	gen     uint64
	timer   clock.Timer
}

// Option configures a Session.
type Option func(*Session)

func WithLatency(d time.Duration) Option {
	return func(s *Session) { s.latency = d }
}

func WithClock(c clock.Clock) Option {
	return func(s *Session) { s.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithOnChange sets a callback invoked after every transition, outside the
// session lock.
func WithOnChange(fn func()) Option {
	return func(s *Session) { s.onChange = fn }
}

// New creates an idle Session.
func New(provider Provider, launcher Launcher, opts ...Option) *Session {
	s := &Session{
		provider: provider,
		launcher: launcher,
		clock:    clock.Real{},
		logger:   zap.NewNop(),
		latency:  DefaultLatency,
		phase:    types.PhaseIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.provider == nil {
		s.provider = MockProvider{}
	}
	if s.latency < 0 {
		s.latency = 0
	}
	return s
}

// Submit starts a new recommendation round from any phase. Prior results
// are discarded and a pending completion from an earlier Submit is
// cancelled. It returns the id assigned to the query.
func (s *Session) Submit(q Query) types.SubmissionID {
	if q.ID == "" {
		q.ID = types.NewSubmissionID()
	}

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.phase = types.PhaseLoading
	s.query = q
	s.results = nil
	s.timer = s.clock.AfterFunc(s.latency, func() { s.complete(gen) })
	s.mu.Unlock()

	s.logger.Info("query submitted",
		zap.String("submission_id", string(q.ID)),
		zap.Int("text_len", len(q.Text)),
		zap.Bool("has_image", q.HasImage()),
		zap.Duration("latency", s.latency),
	)
	s.notify()
	return q.ID
}

// complete finishes the round started by generation gen. Completions of
// superseded rounds are dropped. A provider answer that is not exactly
// ResultCount images is discarded and the panel returns to idle.
func (s *Session) complete(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.phase != types.PhaseLoading {
		s.mu.Unlock()
		s.logger.Debug("stale completion dropped", zap.Uint64("generation", gen))
		return
	}
	q := s.query
	s.mu.Unlock()

	results := s.provider.Recommend(q)

	s.mu.Lock()
	if gen != s.gen || s.phase != types.PhaseLoading {
		s.mu.Unlock()
		s.logger.Debug("stale completion dropped", zap.Uint64("generation", gen))
		return
	}
	s.timer = nil
	if len(results) != ResultCount {
		s.phase = types.PhaseIdle
		s.results = nil
		s.mu.Unlock()
		s.logger.Warn("provider returned wrong number of results",
			zap.String("submission_id", string(q.ID)),
			zap.Int("results", len(results)),
			zap.Int("want", ResultCount),
		)
		s.notify()
		return
	}
	s.results = append([]string(nil), results...)
	s.phase = types.PhaseResultCollapsed
	s.mu.Unlock()

	s.logger.Info("recommendations ready",
		zap.String("submission_id", string(q.ID)),
		zap.Int("results", len(results)),
	)
	s.notify()
}

// Expand opens the result list. It fails with types.ErrInvalidState unless
// results are present; expanding an open list does nothing.
func (s *Session) Expand() error {
	return s.toggle(types.PhaseResultExpanded)
}

// Collapse closes the result list back to the banner. Results are kept.
func (s *Session) Collapse() error {
	return s.toggle(types.PhaseResultCollapsed)
}

func (s *Session) toggle(to types.Phase) error {
	s.mu.Lock()
	from := s.phase
	if !from.HasResults() {
		s.mu.Unlock()
		return fmt.Errorf("move to %s from %s: %w", to, from, types.ErrInvalidState)
	}
	if from == to {
		s.mu.Unlock()
		return nil
	}
	s.phase = to
	s.mu.Unlock()

	s.logger.Debug("panel toggled", zap.String("from", string(from)), zap.String("to", string(to)))
	s.notify()
	return nil
}

// SelectResult sends the index-th result to the cart. The viewport, the
// result tile and the cart icon are measured once through geo and converted
// to document coordinates with the same scroll offset. The phase is not
// changed.
func (s *Session) SelectResult(index int, geo geometry.Provider) (*types.Flight, error) {
	s.mu.Lock()
	n := len(s.results)
	if index < 0 || index >= n {
		s.mu.Unlock()
		return nil, fmt.Errorf("select result %d of %d: %w", index, n, types.ErrInvalidArgument)
	}
	payload := s.results[index]
	s.mu.Unlock()

	if s.launcher == nil || geo == nil {
		return nil, fmt.Errorf("select result %d: no rendering surface: %w", index, types.ErrNotReady)
	}
	vp, ok := geo.Viewport()
	if !ok {
		return nil, fmt.Errorf("select result %d: viewport unavailable: %w", index, types.ErrNotReady)
	}
	item, ok := geo.Element(geometry.ResultElement(index))
	if !ok {
		return nil, fmt.Errorf("select result %d: tile not mounted: %w", index, types.ErrNotReady)
	}
	var target *geometry.Rect
	if cart, ok := geo.Element(geometry.CartIcon); ok {
		doc := vp.ToDocument(cart)
		target = &doc
	}

	f, err := s.launcher.Launch(vp.ToDocument(item), target, vp, payload)
	if err != nil {
		return nil, fmt.Errorf("select result %d: %w", index, err)
	}
	return f, nil
}

// State returns a copy of the current panel state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Phase:      s.phase,
		Query:      s.query,
		Results:    append([]string(nil), s.results...),
		Generation: s.gen,
	}
}

// Close cancels a pending completion.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
