package cabin

// SofaCycle is the order the sofa key steps through.
var SofaCycle = []Position{SofaSit1, SofaLie, SofaSit2}

// NextSofa returns the spot after current in SofaCycle, skipping disabled
// spots. Off the sofa it returns the first enabled spot. ok is false when no
// other enabled spot exists.
func NextSofa(current Position, enabled func(Position) bool) (next Position, ok bool) {
	if enabled == nil {
		enabled = func(Position) bool { return true }
	}

	start := -1
	for i, p := range SofaCycle {
		if p == current {
			start = i
			break
		}
	}

	n := len(SofaCycle)
	for step := 1; step <= n; step++ {
		idx := (start + step) % n
		if start < 0 {
			idx = step - 1
		}
		p := SofaCycle[idx]
		if p == current {
			continue
		}
		if enabled(p) {
			return p, true
		}
	}
	return None, false
}
