package model

// Root is one named entry of a store's roots mapping.
type Root struct {
	Key  string
	Node *Node
}

// Tree is a loaded bookmark store. Roots keep the order of the source
// document; their keys carry no meaning for searching.
type Tree struct {
	Roots []Root
}

// Nodes returns the root nodes in order.
func (t *Tree) Nodes() []*Node {
	nodes := make([]*Node, 0, len(t.Roots))
	for _, r := range t.Roots {
		nodes = append(nodes, r.Node)
	}
	return nodes
}

// Records flattens the whole tree.
func (t *Tree) Records() []Record {
	return Flatten(t.Nodes())
}
