// internal/types/ids.go
package types

import (
	"strings"

	"github.com/google/uuid"
)

type FlightID string
type SubmissionID string
type SubscriberID string

func NewFlightID() FlightID {
	return FlightID(uuid.New().String())
}

func NewSubmissionID() SubmissionID {
	return SubmissionID(uuid.New().String())
}

func NewSubscriberID(parts ...string) SubscriberID {
	return SubscriberID(strings.Join(parts, ":"))
}
