// internal/types/ids_test.go
package types

import (
	"testing"
)

func TestNewFlightID(t *testing.T) {
	id := NewFlightID()
	if id == "" {
		t.Error("expected non-empty FlightID")
	}
	if len(string(id)) != 36 {
		t.Errorf("expected UUID format, got %s", id)
	}
	if id == NewFlightID() {
		t.Error("expected distinct flight ids")
	}
}

func TestSubscriberIDFormat(t *testing.T) {
	key := NewSubscriberID("sse", "127.0.0.1", "1")
	expected := SubscriberID("sse:127.0.0.1:1")
	if key != expected {
		t.Errorf("expected %s, got %s", expected, key)
	}
}
