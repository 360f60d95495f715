// Package storefront wires the assistant panel, the flight sequencer and
// the cart together and publishes a snapshot after every transition.
package storefront

import (
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/shopfront/internal/assistant"
	"github.com/user/shopfront/internal/cart"
	"github.com/user/shopfront/internal/catalog"
	"github.com/user/shopfront/internal/clock"
	"github.com/user/shopfront/internal/config"
	"github.com/user/shopfront/internal/delivery"
	"github.com/user/shopfront/internal/flight"
	"github.com/user/shopfront/internal/types"
)

// Options configures a Storefront. Nil durations and other zero values take
// the package defaults of assistant and flight; a non-nil zero duration is
// honoured.
type Options struct {
	Latency      *time.Duration
	ToCenter     *time.Duration
	ToCart       *time.Duration
	EndScale     float64
	Easing       string
	Policy       flight.Policy
	QueueSize    int
	ProductCount int
	Provider     assistant.Provider
	Clock        clock.Clock
	Logger       *zap.Logger
	Rand         *rand.Rand
}

// OptionsFromConfig maps the config file onto Options. Every duration the
// config validated is passed through, zero included.
func OptionsFromConfig(cfg *config.Config) Options {
	latency := cfg.Assistant.Latency()
	toCenter := cfg.Flight.ToCenter()
	toCart := cfg.Flight.ToCart()
	return Options{
		Latency:      &latency,
		ToCenter:     &toCenter,
		ToCart:       &toCart,
		EndScale:     cfg.Flight.EndScale,
		Easing:       cfg.Flight.Easing,
		Policy:       flight.Policy(cfg.Flight.Policy),
		QueueSize:    cfg.Flight.QueueSize,
		ProductCount: cfg.Catalog.ProductCount,
	}
}

// Storefront is the composition root shared by every rendering surface.
type Storefront struct {
	Session *assistant.Session
	Flights *flight.Sequencer
	Cart    *cart.Counter
	Catalog *catalog.Catalog

	subscribers *delivery.Registry
	clock       clock.Clock
	logger      *zap.Logger

	mu   sync.Mutex
	seq  uint64
	last types.Snapshot
}

// New builds a Storefront in the idle phase with an empty cart.
func New(opts Options) *Storefront {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ProductCount <= 0 {
		opts.ProductCount = catalog.DefaultProductCount
	}

	s := &Storefront{
		Cart:        &cart.Counter{},
		Catalog:     catalog.Generate(opts.ProductCount, opts.Rand),
		subscribers: delivery.NewRegistry(),
		clock:       opts.Clock,
		logger:      opts.Logger,
	}

	flightOpts := []flight.Option{
		flight.WithClock(opts.Clock),
		flight.WithLogger(opts.Logger.Named("flight")),
		flight.WithOnChange(s.publish),
		flight.WithOnComplete(func(f types.Flight) {
			n := s.Cart.Increment()
			s.logger.Info("item added to cart", zap.String("payload", f.Payload), zap.Int("cart_count", n))
		}),
	}
	if opts.ToCenter != nil || opts.ToCart != nil {
		toCenter, toCart := flight.DefaultToCenter, flight.DefaultToCart
		if opts.ToCenter != nil {
			toCenter = *opts.ToCenter
		}
		if opts.ToCart != nil {
			toCart = *opts.ToCart
		}
		flightOpts = append(flightOpts, flight.WithTimings(toCenter, toCart))
	}
	if opts.EndScale > 0 {
		flightOpts = append(flightOpts, flight.WithEndScale(opts.EndScale))
	}
	if opts.Easing != "" {
		flightOpts = append(flightOpts, flight.WithEasing(opts.Easing))
	}
	if opts.Policy != "" {
		flightOpts = append(flightOpts, flight.WithPolicy(opts.Policy))
	}
	if opts.QueueSize > 0 {
		flightOpts = append(flightOpts, flight.WithQueueSize(opts.QueueSize))
	}
	s.Flights = flight.New(flightOpts...)

	sessionOpts := []assistant.Option{
		assistant.WithClock(opts.Clock),
		assistant.WithLogger(opts.Logger.Named("assistant")),
		assistant.WithOnChange(s.publish),
	}
	if opts.Latency != nil {
		sessionOpts = append(sessionOpts, assistant.WithLatency(*opts.Latency))
	}
	s.Session = assistant.New(opts.Provider, s.Flights, sessionOpts...)

	s.last = s.build()
	return s
}

// Subscribe registers a handler for future snapshots and immediately hands
// it the current one.
func (s *Storefront) Subscribe(id types.SubscriberID, h delivery.Handler) {
	s.subscribers.Register(id, h)
	if err := h(s.Snapshot()); err != nil {
		s.logger.Warn("initial snapshot delivery failed", zap.String("subscriber", string(id)), zap.Error(err))
	}
}

func (s *Storefront) Unsubscribe(id types.SubscriberID) {
	s.subscribers.Unregister(id)
}

// Snapshot returns the last published snapshot.
func (s *Storefront) Snapshot() types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Now reads the storefront's clock. Renderers use it to place a flight
// between keyframes.
func (s *Storefront) Now() time.Time {
	return s.clock.Now()
}

// Close stops all pending timers.
func (s *Storefront) Close() {
	s.Session.Close()
	s.Flights.Close()
}

// publish records a fresh snapshot and delivers it. Holding mu across
// delivery keeps Seq order equal to delivery order.
func (s *Storefront) publish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.build()
	s.seq++
	snap.Seq = s.seq
	s.last = snap
	if err := s.subscribers.Deliver(snap); err != nil {
		s.logger.Warn("snapshot delivery failed", zap.Uint64("seq", snap.Seq), zap.Error(err))
	}
}

// build reads the flight and the cart count together under the sequencer's
// lock, where landing increments the cart, so a snapshot never shows a
// landed flight without its item or an item without its landing.
func (s *Storefront) build() types.Snapshot {
	st := s.Session.State()
	results := st.Results
	if results == nil {
		results = []string{}
	}
	snap := types.Snapshot{
		Seq:      s.seq,
		Phase:    st.Phase,
		Query:    st.Query.View(),
		Results:  results,
		Expanded: st.Expanded(),
		At:       s.clock.Now(),
	}
	s.Flights.Inspect(func(active *types.Flight, pending int) {
		snap.Flight = active
		snap.Pending = pending
		snap.CartCount = s.Cart.Count()
	})
	return snap
}
