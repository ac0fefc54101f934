package emotion

import "math"

// Curve names the easing shape applied across a transition window.
type Curve string

const (
	CurveLinear    Curve = "linear"
	CurveEaseIn    Curve = "ease_in"
	CurveEaseOut   Curve = "ease_out"
	CurveEaseInOut Curve = "ease_in_out"
	CurveBezier    Curve = "bezier"
)

// ControlPoint is one of the two interior control points of a cubic Bezier
// curve anchored at (0,0) and (1,1). Both X and Y must be in [0,1].
type ControlPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ease maps progress in [0,1] to an eased value in [0,1]. Out-of-range
// input is clamped. Bezier requires two control points; callers must
// supply them via EaseBezier instead for that curve.
func Ease(c Curve, progress float64) float64 {
	t := clamp01(progress)

	switch c {
	case CurveEaseIn:
		return t * t
	case CurveEaseOut:
		return 1 - (1-t)*(1-t)
	case CurveEaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - 2*(1-t)*(1-t)
	case CurveLinear:
		return t
	default:
		return t
	}
}

// EaseBezier evaluates a cubic Bezier easing curve anchored at (0,0) and
// (1,1) through control points cp1 and cp2. progress is treated as the
// curve's x coordinate: the curve parameter with that x is found by
// Newton iteration with a bisection fallback, and the y there is
// returned. Control points at (0,0)/(1,1) therefore degenerate to the
// identity. Monotonicity in x is the caller's responsibility.
func EaseBezier(cp1, cp2 ControlPoint, progress float64) float64 {
	x := clamp01(progress)
	t := solveBezierT(cp1.X, cp2.X, x)
	return clamp01(bezier1D(cp1.Y, cp2.Y, t))
}

// bezier1D evaluates the 1-D cubic Bezier
// B(t) = 3(1-t)^2*t*p1 + 3(1-t)t^2*p2 + t^3 with endpoints 0 and 1.
func bezier1D(p1, p2, t float64) float64 {
	mt := 1 - t
	return 3*mt*mt*t*p1 + 3*mt*t*t*p2 + t*t*t
}

func bezier1DDeriv(p1, p2, t float64) float64 {
	mt := 1 - t
	return 3*mt*mt*p1 + 6*mt*t*(p2-p1) + 3*t*t*(1-p2)
}

const bezierSolveEps = 1e-12

// solveBezierT finds the parameter whose x coordinate equals x on the
// curve with x control values x1, x2.
func solveBezierT(x1, x2, x float64) float64 {
	t := x
	for i := 0; i < 12; i++ {
		err := bezier1D(x1, x2, t) - x
		if math.Abs(err) < bezierSolveEps {
			return t
		}
		d := bezier1DDeriv(x1, x2, t)
		if math.Abs(d) < 1e-6 {
			break
		}
		t = clamp01(t - err/d)
	}

	lo, hi := 0.0, 1.0
	t = x
	for i := 0; i < 64; i++ {
		cur := bezier1D(x1, x2, t)
		if math.Abs(cur-x) < bezierSolveEps {
			return t
		}
		if cur < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return t
}

// Lerp linearly interpolates between from and to by eased progress in
// [0,1].
func Lerp(from, to, eased float64) float64 {
	return from + (to-from)*eased
}

// NaturalShape returns a per-emotion override progress value for curves
// that want a non-monotone "natural" easing instead of the closed-form
// curves above, e.g. surprised spikes fast then decays. Intended for
// callers that opt into natural shaping explicitly; it is not applied
// by default.
func NaturalShape(kind Kind, progress float64) float64 {
	t := clamp01(progress)

	switch kind {
	case KindSurprised:
		// Fast rise to peak at t=0.2, then decay back toward 1.0's
		// baseline intensity scale by t=1.
		const peakAt = 0.2
		if t <= peakAt {
			return Ease(CurveEaseOut, t/peakAt)
		}
		decay := (t - peakAt) / (1 - peakAt)
		return 1 - 0.3*Ease(CurveEaseIn, decay)
	case KindAngry:
		return Ease(CurveEaseIn, t)
	case KindFearful:
		return Ease(CurveEaseOut, t)
	default:
		return Ease(CurveEaseInOut, t)
	}
}
