package flight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/user/shopfront/internal/geometry"
)

func TestPlanKeyframes(t *testing.T) {
	a := Plan(testSource, testCart, testViewport, 400*time.Millisecond, 400*time.Millisecond, 0.2, "ease-in-out")

	assert.Equal(t, time.Duration(0), a.Keyframes[0].Offset)
	assert.Equal(t, testSource, a.Keyframes[0].Rect)
	assert.Equal(t, 400*time.Millisecond, a.Keyframes[1].Offset)
	assert.Equal(t, geometry.Rect{Top: 360, Left: 170, Width: 80, Height: 80}, a.Keyframes[1].Rect)
	assert.Equal(t, 800*time.Millisecond, a.Keyframes[2].Offset)
	assert.Equal(t, geometry.Rect{Top: -18, Left: 272, Width: 80, Height: 80}, a.Keyframes[2].Rect)
	assert.Equal(t, 0.0, a.Keyframes[2].Opacity)
	assert.Equal(t, 0.2, a.Keyframes[2].Scale)
	assert.Equal(t, "ease-in-out", a.Easing)
}

func TestInterpolateLinear(t *testing.T) {
	a := Plan(testSource, testCart, testViewport, 400*time.Millisecond, 400*time.Millisecond, 0.2, "linear")

	assert.Equal(t, a.Keyframes[0], Interpolate(a, -time.Millisecond))
	assert.Equal(t, a.Keyframes[2], Interpolate(a, time.Second))

	half := Interpolate(a, 200*time.Millisecond)
	assert.InDelta(t, 230.0, half.Rect.Top, 1e-9)
	assert.InDelta(t, 110.0, half.Rect.Left, 1e-9)
	assert.Equal(t, 1.0, half.Opacity)

	threeQuarters := Interpolate(a, 600*time.Millisecond)
	assert.InDelta(t, 0.5, threeQuarters.Opacity, 1e-9)
	assert.InDelta(t, 0.6, threeQuarters.Scale, 1e-9)
	assert.Equal(t, a.Keyframes[1].Rect, Interpolate(a, 400*time.Millisecond).Rect)
}

func TestInterpolateZeroSpan(t *testing.T) {
	a := Plan(testSource, testCart, testViewport, 0, 0, 0.2, "linear")
	assert.Equal(t, a.Keyframes[0], Interpolate(a, 0))
	assert.Equal(t, a.Keyframes[2].Rect, Interpolate(a, time.Nanosecond).Rect)
}

func TestEase(t *testing.T) {
	for _, name := range []string{"linear", "ease-in", "ease-out", "ease-in-out", "unknown"} {
		assert.Equal(t, 0.0, Ease(name, 0), name)
		assert.Equal(t, 1.0, Ease(name, 1), name)
		assert.Equal(t, 0.0, Ease(name, -1), name)
		assert.Equal(t, 1.0, Ease(name, 2), name)
	}
	assert.InDelta(t, 0.5, Ease("ease-in-out", 0.5), 1e-9)
	assert.InDelta(t, 0.25, Ease("ease-in", 0.5), 1e-9)
	assert.InDelta(t, 0.75, Ease("ease-out", 0.5), 1e-9)
	assert.InDelta(t, 0.3, Ease("linear", 0.3), 1e-9)
}
