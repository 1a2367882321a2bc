package study

import "github.com/localnerve/studyhub/internal/models"

// PartNode is a part with its nested children
type PartNode struct {
	models.Part
	Children []*PartNode `json:"children,omitempty"`
}

// Tree nests the parts of one chapter under their parents.
// A part whose parent is not in the set is returned as a root.
func Tree(parts []models.Part) []*PartNode {
	nodes := make(map[string]*PartNode, len(parts))
	for _, p := range parts {
		nodes[p.ID] = &PartNode{Part: p}
	}

	var roots []*PartNode
	for _, p := range parts {
		n := nodes[p.ID]
		if p.ParentID != nil {
			if parent, ok := nodes[*p.ParentID]; ok && parent != n {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

// Descendants returns the ids of every part below rootID, deepest first
func Descendants(parts []models.Part, rootID string) []string {
	edges := make([]edge, len(parts))
	for i, p := range parts {
		edges[i] = edge{id: p.ID, parent: p.ParentID}
	}
	return subtree(edges, rootID)
}

type edge struct {
	id     string
	parent *string
}

// subtree walks parent links below rootID and returns post-order ids (children before parents)
func subtree(edges []edge, rootID string) []string {
	children := make(map[string][]string)
	for _, e := range edges {
		if e.parent != nil {
			children[*e.parent] = append(children[*e.parent], e.id)
		}
	}

	var out []string
	seen := map[string]bool{rootID: true}
	var walk func(id string)
	walk = func(id string) {
		for _, c := range children[id] {
			if seen[c] {
				continue
			}
			seen[c] = true
			walk(c)
			out = append(out, c)
		}
	}
	walk(rootID)
	return out
}
