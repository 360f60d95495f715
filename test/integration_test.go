//go:build integration

package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/shopfront/internal/flight"
	"github.com/user/shopfront/internal/geometry"
	"github.com/user/shopfront/internal/httpapi"
	"github.com/user/shopfront/internal/storefront"
	"github.com/user/shopfront/internal/types"
)

func startServer(t *testing.T, opts storefront.Options) *httptest.Server {
	t.Helper()
	store := storefront.New(opts)
	ts := httptest.NewServer(httpapi.NewServer(store, nil))
	t.Cleanup(func() {
		ts.Close()
		store.Close()
	})
	return ts
}

func duration(d time.Duration) *time.Duration { return &d }

func post(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	resp, err := http.Post(ts.URL+path, "application/json", &buf)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func state(t *testing.T, ts *httptest.Server) types.Snapshot {
	t.Helper()
	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var snap types.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	return snap
}

// waitFor polls the state endpoint until cond holds.
func waitFor(t *testing.T, ts *httptest.Server, what string, cond func(types.Snapshot) bool) types.Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		snap := state(t, ts)
		if cond(snap) {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s; last snapshot: %+v", what, snap)
		}
	}
	return types.Snapshot{}
}

func selectBody(index int) map[string]any {
	return map[string]any{
		"viewport": geometry.Viewport{Width: 420, Height: 800, ScrollY: 240},
		"item":     geometry.Rect{Top: 660, Left: 54 + float64(index)*108, Width: 96, Height: 96},
		"cart":     geometry.Rect{Top: 16, Left: 380, Width: 24, Height: 24},
	}
}

func TestEndToEnd(t *testing.T) {
	ts := startServer(t, storefront.Options{
		Latency:  duration(50 * time.Millisecond),
		ToCenter: duration(20 * time.Millisecond),
		ToCart:   duration(20 * time.Millisecond),
	})

	// A resubmission before the first completes replaces it.
	if resp := post(t, ts, "/api/assistant/submit", map[string]string{"text": "첫 번째"}); resp.StatusCode != http.StatusAccepted {
		t.Fatalf("submit: status %d", resp.StatusCode)
	}
	post(t, ts, "/api/assistant/submit", map[string]string{"text": "여행갈 때 입을 옷"})

	snap := waitFor(t, ts, "results", func(s types.Snapshot) bool { return s.Phase == types.PhaseResultCollapsed })
	if snap.Query.Text != "여행갈 때 입을 옷" {
		t.Errorf("expected latest query to complete, got %q", snap.Query.Text)
	}
	if len(snap.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(snap.Results))
	}

	if resp := post(t, ts, "/api/assistant/expand", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("expand: status %d", resp.StatusCode)
	}

	resp := post(t, ts, "/api/results/1/select", selectBody(1))
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("select: status %d", resp.StatusCode)
	}
	var f types.Flight
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		t.Fatal(err)
	}
	mid := f.Animation.Keyframes[1].Rect
	if mid.Top != 400-48+240 || mid.Left != 210-48 {
		t.Errorf("unexpected mid keyframe %s", mid)
	}
	end := f.Animation.Keyframes[2]
	if end.Opacity != 0 || end.Scale != 0.2 {
		t.Errorf("unexpected end keyframe %+v", end)
	}

	snap = waitFor(t, ts, "landing", func(s types.Snapshot) bool { return s.CartCount == 1 })
	if snap.Flight != nil {
		t.Error("expected no flight after landing")
	}
	if snap.Phase != types.PhaseResultExpanded {
		t.Errorf("selecting must not change the phase, got %s", snap.Phase)
	}

	if resp := post(t, ts, "/api/assistant/collapse", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("collapse: status %d", resp.StatusCode)
	}
	if got := state(t, ts); got.Phase != types.PhaseResultCollapsed || len(got.Results) != 3 {
		t.Errorf("collapse should keep results, got %+v", got)
	}
}

func TestQueuedFlights(t *testing.T) {
	ts := startServer(t, storefront.Options{
		Latency:   duration(10 * time.Millisecond),
		ToCenter:  duration(200 * time.Millisecond),
		ToCart:    duration(200 * time.Millisecond),
		Policy:    flight.PolicyQueue,
		QueueSize: 2,
	})

	post(t, ts, "/api/assistant/submit", map[string]string{"text": "셔츠"})
	waitFor(t, ts, "results", func(s types.Snapshot) bool { return s.Phase.HasResults() })

	for i := 0; i < 3; i++ {
		if resp := post(t, ts, fmt.Sprintf("/api/results/%d/select", i), selectBody(i)); resp.StatusCode != http.StatusAccepted {
			t.Fatalf("select %d: status %d", i, resp.StatusCode)
		}
	}
	if resp := post(t, ts, "/api/results/0/select", selectBody(0)); resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected queue full, got status %d", resp.StatusCode)
	}

	snap := waitFor(t, ts, "all landings", func(s types.Snapshot) bool { return s.CartCount == 3 })
	if snap.Pending != 0 || snap.Flight != nil {
		t.Errorf("expected idle sequencer, got %+v", snap)
	}
}
