package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedNode is returned when a tree node is not an object or its
// children are not an array of objects.
var ErrMalformedNode = errors.New("malformed bookmark node")

// Node is one entry of a bookmark tree. A node that carries a children list
// (even an empty one) is a group; every other node is a leaf.
type Node struct {
	Name     string
	URL      string
	Children []*Node
	group    bool
}

// Group creates a group node with the given children.
func Group(name string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Name: name, Children: children, group: true}
}

// Leaf creates a leaf node.
func Leaf(name, url string) *Node {
	return &Node{Name: name, URL: url}
}

// IsGroup reports whether the node is a group.
func (n *Node) IsGroup() bool {
	return n.group
}

// Record converts the node to a Record.
func (n *Node) Record() Record {
	return Record{Label: n.Name, Target: n.URL}
}

// UnmarshalJSON decodes a Chrome-style bookmark node. The presence of a
// "children" key is the only thing that makes a node a group. Missing or
// non-string "name"/"url" values decode to "".
func (n *Node) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return fmt.Errorf("%w: expected an object, got %.40s", ErrMalformedNode, data)
	}

	*n = Node{
		Name: stringField(fields, "name"),
		URL:  stringField(fields, "url"),
	}

	raw, ok := fields["children"]
	if !ok {
		return nil
	}

	var children []*Node
	if err := json.Unmarshal(raw, &children); err != nil {
		return fmt.Errorf("%w: children of %q: %w", ErrMalformedNode, n.Name, err)
	}
	for i, child := range children {
		// encoding/json leaves null elements as nil without calling UnmarshalJSON
		if child == nil {
			return fmt.Errorf("%w: child %d of %q is null", ErrMalformedNode, i, n.Name)
		}
	}
	if children == nil {
		children = []*Node{}
	}

	n.Children = children
	n.group = true
	return nil
}

// stringField returns the string value of key, or "" if it is absent or not a string.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
