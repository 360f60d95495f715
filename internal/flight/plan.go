package flight

import (
	"time"

	"github.com/user/shopfront/internal/geometry"
	"github.com/user/shopfront/internal/types"
)

// Plan computes the three keyframes of a flight. All rects are in document
// coordinates; vp is the viewport captured at launch and is not re-sampled
// afterwards.
//
//	start: source, opaque, full size, t=0
//	mid:   viewport centre sized as source, t=toCenter
//	end:   source-sized box centred on target, transparent, endScale, t=toCenter+toCart
func Plan(source, target geometry.Rect, vp geometry.Viewport, toCenter, toCart time.Duration, endScale float64, easing string) types.Animation {
	return types.Animation{
		Keyframes: [3]types.Keyframe{
			{Offset: 0, Rect: source, Opacity: 1, Scale: 1},
			{Offset: toCenter, Rect: vp.Center(source), Opacity: 1, Scale: 1},
			{
				Offset:  toCenter + toCart,
				Rect:    source.CenteredOn(target.CenterX(), target.CenterY()),
				Opacity: 0,
				Scale:   endScale,
			},
		},
		Easing: easing,
	}
}

// Interpolate returns the tweened state of a at elapsed time t, applying
// the animation's easing within each leg. Renderers without a transition
// engine of their own use it to draw intermediate frames.
func Interpolate(a types.Animation, t time.Duration) types.Keyframe {
	k := a.Keyframes
	if t <= k[0].Offset {
		return k[0]
	}
	for i := 0; i < len(k)-1; i++ {
		from, to := k[i], k[i+1]
		if t > to.Offset {
			continue
		}
		span := to.Offset - from.Offset
		f := 1.0
		if span > 0 {
			f = float64(t-from.Offset) / float64(span)
		}
		f = Ease(a.Easing, f)
		return types.Keyframe{
			Offset:  t,
			Rect:    from.Rect.Lerp(to.Rect, f),
			Opacity: from.Opacity + (to.Opacity-from.Opacity)*f,
			Scale:   from.Scale + (to.Scale-from.Scale)*f,
		}
	}
	return k[len(k)-1]
}

// Ease maps linear progress f in [0,1] through a named timing function.
// Unknown names fall back to linear.
func Ease(name string, f float64) float64 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 1
	}
	switch name {
	case "ease-in":
		return f * f
	case "ease-out":
		return 1 - (1-f)*(1-f)
	case "ease-in-out":
		if f < 0.5 {
			return 2 * f * f
		}
		g := -2*f + 2
		return 1 - g*g/2
	default:
		return f
	}
}
