package storefront

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/shopfront/internal/assistant"
	"github.com/user/shopfront/internal/delivery"
	"github.com/user/shopfront/internal/geometry"
	"github.com/user/shopfront/internal/types"
)

// Script is a headless shopper: one query, then the listed results sent to
// the cart in order.
type Script struct {
	Text   string
	Image  []byte
	Select []int
}

// Run plays sc against the storefront. It submits the query, expands the
// results once they arrive and launches each selection after the previous
// one has landed. Snapshots are passed to observe on the calling goroutine;
// while observe is busy only the newest one is kept. Run returns when the
// last flight lands or ctx is done.
func (s *Storefront) Run(ctx context.Context, sc Script, geo geometry.Provider, observe func(types.Snapshot)) error {
	q := assistant.NewQuery(sc.Text, sc.Image)
	if q.HasImage() && !q.IsImage() {
		return fmt.Errorf("run script: attachment is %s: %w", q.ImageType, types.ErrInvalidArgument)
	}

	events := make(chan types.Snapshot, 1)
	id := types.NewSubscriberID("script", uuid.NewString())
	s.Subscribe(id, delivery.Mailbox(events))
	defer s.Unsubscribe(id)

	submission := s.Session.Submit(q)
	startCart := s.Cart.Count()
	launched := 0
	expandRequested := false
	ready := false

	for {
		var snap types.Snapshot
		select {
		case <-ctx.Done():
			return fmt.Errorf("run script: %w", ctx.Err())
		case snap = <-events:
		}
		if observe != nil {
			observe(snap)
		}

		// Snapshots from before the submission are not ours.
		if snap.Query.ID != submission {
			continue
		}
		switch snap.Phase {
		case types.PhaseResultCollapsed:
			if !expandRequested {
				expandRequested = true
				if err := s.Session.Expand(); err != nil {
					return fmt.Errorf("run script: %w", err)
				}
			}
			continue
		case types.PhaseResultExpanded:
			ready = true
		default:
			continue
		}

		if !ready || snap.Flight != nil || snap.Pending > 0 || snap.CartCount-startCart < launched {
			continue
		}
		if launched == len(sc.Select) {
			return nil
		}
		index := sc.Select[launched]
		f, err := s.Session.SelectResult(index, geo)
		if err != nil {
			return fmt.Errorf("run script: %w", err)
		}
		launched++
		s.logger.Debug("script launched flight", zap.Int("index", index), zap.String("flight_id", string(f.ID)))
	}
}
