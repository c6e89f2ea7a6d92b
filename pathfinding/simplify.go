package pathfinding

// SimplifyPath collapses runs of collinear steps: a cell is kept only when
// the direction of its outgoing step differs from the last retained
// direction. The first and last cells are always retained, and paths of
// length two or less come back unchanged. Pure post-processing with no
// search-state dependency; applying it twice yields the same result.
func SimplifyPath(path []*Cell) []*Cell {
	if len(path) <= 2 {
		return path
	}
	out := []*Cell{path[0]}
	prevDir := stepDirection(path[0].Coord, path[1].Coord)
	for i := 1; i < len(path)-1; i++ {
		dir := stepDirection(path[i].Coord, path[i+1].Coord)
		if dir != prevDir {
			out = append(out, path[i])
			prevDir = dir
		}
	}
	return append(out, path[len(path)-1])
}

// stepDirection reduces a grid delta to its primitive direction by dividing
// out the gcd, so (4,2) and (2,1) compare equal. Exact integer arithmetic
// in place of float vector normalization.
func stepDirection(from, to PointI) PointI {
	dx, dy := to.X-from.X, to.Y-from.Y
	d := gcd(absInt(dx), absInt(dy))
	if d == 0 {
		return PointI{}
	}
	return PointI{X: dx / d, Y: dy / d}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
