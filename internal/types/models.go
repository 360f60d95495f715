// internal/types/models.go
package types

import (
	"time"

	"github.com/user/shopfront/internal/geometry"
)

// Phase is the lifecycle state of the assistant panel.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseLoading         Phase = "loading"
	PhaseResultCollapsed Phase = "result_collapsed"
	PhaseResultExpanded  Phase = "result_expanded"
)

// HasResults reports whether the phase carries a result set.
func (p Phase) HasResults() bool {
	return p == PhaseResultCollapsed || p == PhaseResultExpanded
}

// Stage is the position of a flight within its keyframe sequence.
type Stage string

const (
	StageQueued Stage = "queued"
	StageStart  Stage = "start"
	StageMid    Stage = "mid"
	StageDone   Stage = "done"
)

// Keyframe is one target state of a flying element.
type Keyframe struct {
	Offset  time.Duration `json:"offset"`
	Rect    geometry.Rect `json:"rect"`
	Opacity float64       `json:"opacity"`
	Scale   float64       `json:"scale"`
}

// Animation is the declarative descriptor handed to the rendering layer,
// which tweens between consecutive keyframes with the given easing.
type Animation struct {
	Keyframes [3]Keyframe `json:"keyframes"`
	Easing    string      `json:"easing"`
}

// Duration is the offset of the final keyframe.
func (a Animation) Duration() time.Duration {
	return a.Keyframes[len(a.Keyframes)-1].Offset
}

// Flight is one cart-bound animation instance.
type Flight struct {
	ID         FlightID  `json:"id"`
	Payload    string    `json:"payload"`
	Stage      Stage     `json:"stage"`
	Current    Keyframe  `json:"current"`
	Target     Keyframe  `json:"target"`
	Animation  Animation `json:"animation"`
	LaunchedAt time.Time `json:"launched_at"`
}

type QueryView struct {
	ID        SubmissionID `json:"id,omitempty"`
	Text      string       `json:"text"`
	HasImage  bool         `json:"has_image"`
	ImageType string       `json:"image_type,omitempty"`
}

// Snapshot is the observable state emitted after every transition.
type Snapshot struct {
	Seq       uint64    `json:"seq"`
	Phase     Phase     `json:"phase"`
	Query     QueryView `json:"query"`
	Results   []string  `json:"results"`
	Expanded  bool      `json:"expanded"`
	Flight    *Flight   `json:"flight"`
	Pending   int       `json:"pending_flights"`
	CartCount int       `json:"cart_count"`
	At        time.Time `json:"at"`
}
