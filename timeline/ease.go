package timeline

// Ease maps linear progress in [0,1] to eased progress.
type Ease func(t float32) float32

func Linear(t float32) float32 { return t }

// Power1InOut is quadratic ease-in-out.
func Power1InOut(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// EaseByName resolves the names used in story files. Unknown names fall back to Linear.
func EaseByName(name string) Ease {
	switch name {
	case "power1.inOut", "power1InOut", "quadInOut":
		return Power1InOut
	default:
		return Linear
	}
}
