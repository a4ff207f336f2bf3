// Package dag provides the directed graph used for module dependency
// analysis: cycle detection with full path reporting and deterministic
// topological ordering.
package dag

import (
	"fmt"
	"sort"
)

// Graph is a directed graph over string node IDs. It is not safe for
// concurrent mutation; the linker builds and queries it single-threaded.
type Graph struct {
	nodes map[string]bool
	edges map[string][]string
	// order preserves insertion order so traversals are deterministic.
	order []string
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]bool),
		edges: make(map[string][]string),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	if g.nodes[id] {
		return
	}
	g.nodes[id] = true
	g.order = append(g.order, id)
}

// AddEdge creates a directed edge from fromID to toID, meaning fromID
// depends on toID. An error is returned if either node does not exist or
// if the edge would be a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}
	if !g.nodes[fromID] {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	if !g.nodes[toID] {
		return fmt.Errorf("destination node not found: %s", toID)
	}
	for _, existing := range g.edges[fromID] {
		if existing == toID {
			return nil
		}
	}
	g.edges[fromID] = append(g.edges[fromID], toID)
	return nil
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id string) bool { return g.nodes[id] }

// Dependencies returns the IDs the given node depends on, in edge
// insertion order.
func (g *Graph) Dependencies(id string) []string {
	deps := make([]string, len(g.edges[id]))
	copy(deps, g.edges[id])
	return deps
}

// FindCycle searches the graph for a dependency cycle. It returns the full
// cycle path, starting and ending at the same node (for example
// [X Y Z X]), or nil when the graph is acyclic. The search is
// deterministic: nodes are visited in insertion order, neighbors in sorted
// order, so the same graph always reports the same path.
func (g *Graph) FindCycle() []string {
	// Classic three-color depth-first search. The explicit path slice lets
	// us report the whole cycle, not just the edge that closed it.
	permanent := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string

	var visit func(id string) []string
	visit = func(id string) []string {
		if permanent[id] {
			return nil
		}
		if onStack[id] {
			// Slice the path from the first occurrence of id and close it.
			for i, p := range path {
				if p == id {
					cycle := make([]string, 0, len(path)-i+1)
					cycle = append(cycle, path[i:]...)
					return append(cycle, id)
				}
			}
			return []string{id, id}
		}
		onStack[id] = true
		path = append(path, id)

		next := make([]string, len(g.edges[id]))
		copy(next, g.edges[id])
		sort.Strings(next)
		for _, to := range next {
			if cycle := visit(to); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		delete(onStack, id)
		permanent[id] = true
		return nil
	}

	for _, id := range g.order {
		if cycle := visit(id); cycle != nil {
			return cycle
		}
	}
	return nil
}

// TopoSort returns a processing order in which every node appears after
// all of its dependencies. The order is deterministic for a given
// insertion sequence. An error is returned when the graph has a cycle.
func (g *Graph) TopoSort() ([]string, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, fmt.Errorf("graph has a cycle through %s", cycle[0])
	}

	visited := make(map[string]bool)
	var out []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		deps := make([]string, len(g.edges[id]))
		copy(deps, g.edges[id])
		sort.Strings(deps)
		for _, to := range deps {
			visit(to)
		}
		out = append(out, id)
	}

	for _, id := range g.order {
		visit(id)
	}
	return out, nil
}
