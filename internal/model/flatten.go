package model

// Flatten returns every leaf reachable from roots as a Record, dropping
// groups. Traversal is breadth-first over the forest: roots in the given
// order, then each group's children in their order. It uses an explicit
// queue so deeply nested stores cannot exhaust the stack.
//
// The tree must be acyclic. A nil node is a malformed tree and panics.
func Flatten(roots []*Node) []Record {
	records := []Record{}

	queue := make([]*Node, 0, len(roots))
	queue = append(queue, roots...)

	for head := 0; head < len(queue); head++ {
		node := queue[head]
		queue[head] = nil // release visited nodes

		if node == nil {
			panic("model: nil node in bookmark tree")
		}

		if node.IsGroup() {
			queue = append(queue, node.Children...)
			continue
		}
		records = append(records, node.Record())
	}

	return records
}
