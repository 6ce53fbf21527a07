package coords

import "github.com/woozymasta/simplemap/internal/geo"

// Node is a normalized value: a single point or an ordered sequence of nodes.
type Node struct {
	items   []Node
	point   geo.Point
	isPoint bool
}

// PointNode wraps a point as a leaf node.
func PointNode(p geo.Point) Node {
	return Node{point: p, isPoint: true}
}

// SeqNode builds a sequence node.
func SeqNode(items ...Node) Node {
	if items == nil {
		items = []Node{}
	}
	return Node{items: items}
}

// IsPoint reports whether n is a point leaf.
func (n Node) IsPoint() bool { return n.isPoint }

// Point returns the leaf point; it is the zero point for sequence nodes.
func (n Node) Point() geo.Point { return n.point }

// Items returns the children of a sequence node.
func (n Node) Items() []Node { return n.items }
