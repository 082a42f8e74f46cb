// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import "iter"

// Traverse returns an iterator over all nodes reachable from the given roots.
// Each node is yielded once, so cyclic graphs terminate.
func Traverse(roots ...*SchemaNode) iter.Seq[*SchemaNode] {
	return func(yield func(*SchemaNode) bool) {
		visited := make(map[*SchemaNode]struct{})
		for _, root := range roots {
			if !traverseWithVisited(root, yield, visited) {
				return
			}
		}
	}
}

// Nodes returns an iterator over every node in the graph.
func (g *Graph) Nodes() iter.Seq[*SchemaNode] {
	return Traverse(g.Roots...)
}

func traverseWithVisited(node *SchemaNode, yield func(*SchemaNode) bool, visited map[*SchemaNode]struct{}) bool {
	if node == nil {
		return true
	}
	if _, ok := visited[node]; ok {
		return true
	}
	visited[node] = struct{}{}

	if !yield(node) {
		return false
	}

	// Objects
	for _, name := range node.OrderedFields() {
		if !traverseWithVisited(node.Fields[name], yield, visited) {
			return false
		}
	}
	if !traverseWithVisited(node.Values, yield, visited) {
		return false
	}

	// Arrays
	if !traverseWithVisited(node.Items, yield, visited) {
		return false
	}

	// Logic
	for _, v := range node.Variants {
		if !traverseWithVisited(v, yield, visited) {
			return false
		}
	}
	for _, p := range node.Parts {
		if !traverseWithVisited(p, yield, visited) {
			return false
		}
	}

	return true
}
