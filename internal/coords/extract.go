package coords

import "github.com/woozymasta/simplemap/internal/geo"

// ExtractPoints returns every point leaf of n in breadth-first order, so the
// points of a sibling group come out in source order before deeper ones.
func ExtractPoints(n Node) []geo.Point {
	var points []geo.Point

	queue := []Node{n}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.IsPoint() {
			points = append(points, current.Point())
			continue
		}
		queue = append(queue, current.Items()...)
	}

	return points
}

// ExtractPaths returns each maximal homogeneous sequence of points in n.
// Descent stops at the first sequence whose items are all points. A top level
// point becomes a one point path and empty sequences yield nothing.
// A sequence mixing points and sequences is a MixedSequenceError.
func ExtractPaths(n Node) ([]geo.Path, error) {
	if n.IsPoint() {
		return []geo.Path{{n.Point()}}, nil
	}

	var paths []geo.Path
	if err := collectPaths(n, &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func collectPaths(n Node, paths *[]geo.Path) error {
	items := n.Items()
	if len(items) == 0 {
		return nil
	}

	points := 0
	for _, item := range items {
		if item.IsPoint() {
			points++
		}
	}

	switch points {
	case len(items):
		path := make(geo.Path, len(items))
		for i, item := range items {
			path[i] = item.Point()
		}
		*paths = append(*paths, path)

	case 0:
		for _, item := range items {
			if err := collectPaths(item, paths); err != nil {
				return err
			}
		}

	default:
		return &MixedSequenceError{Points: points, Others: len(items) - points}
	}

	return nil
}
