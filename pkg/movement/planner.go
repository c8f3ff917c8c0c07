package movement

import "github.com/teslashibe/go-cabinwalk/pkg/cabin"

// Plan returns the waypoints from one position to another, excluding from.
// hasEdge reports whether a direct transition exists; it is only consulted
// between sofa spots. The result is empty when from == to or to is None.
//
// Seats connect to each other directly. Everything else funnels through
// Standing, and every sofa spot is entered and left through SofaSit1.
func Plan(from, to cabin.Position, hasEdge func(from, to cabin.Position) bool) []cabin.Position {
	if from == to || to == cabin.None {
		return nil
	}

	var path []cabin.Position
	switch {
	case from.IsSeat() && to.IsSeat():
		return []cabin.Position{to}

	case from.IsSofa() && to.IsSofa():
		if hasEdge != nil && hasEdge(from, to) {
			return []cabin.Position{to}
		}
		if from != cabin.SofaSit1 && to != cabin.SofaSit1 {
			path = append(path, cabin.SofaSit1)
		}
		return append(path, to)

	case from.IsSofa():
		if from != cabin.SofaSit1 {
			path = append(path, cabin.SofaSit1)
		}
		path = append(path, cabin.Standing)
		if to != cabin.Standing {
			path = append(path, to)
		}
		return path

	case from.IsSeat():
		path = append(path, cabin.Standing)
		if to.IsSofa() && to != cabin.SofaSit1 {
			path = append(path, cabin.SofaSit1)
		}
		if to != cabin.Standing {
			path = append(path, to)
		}
		return path

	case from == cabin.Standing && to.IsSofa() && to != cabin.SofaSit1:
		return []cabin.Position{cabin.SofaSit1, to}
	}

	return []cabin.Position{to}
}
