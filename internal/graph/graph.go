// Package graph tracks dependencies between components of a patch.
package graph

import (
	"errors"
	"sort"
)

// ErrCycle is returned when graph can't be sorted.
var ErrCycle = errors.New("cycle detected in graph")

// Graph is a directed multigraph over nodes 0..n-1. Parallel edges are
// counted, so removing one of them keeps the dependency.
type Graph struct {
	edges []map[int]int
}

// New returns graph with n nodes and no edges.
func New(n int) *Graph {
	g := &Graph{edges: make([]map[int]int, n)}
	for i := range g.edges {
		g.edges[i] = make(map[int]int)
	}
	return g
}

// Len returns number of nodes.
func (g *Graph) Len() int {
	return len(g.edges)
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{edges: make([]map[int]int, len(g.edges))}
	for i, dependents := range g.edges {
		c.edges[i] = make(map[int]int, len(dependents))
		for to, n := range dependents {
			c.edges[i][to] = n
		}
	}
	return c
}

// Add adds edge from -> to.
func (g *Graph) Add(from, to int) {
	g.edges[from][to]++
}

// Remove removes one edge from -> to if present.
func (g *Graph) Remove(from, to int) {
	n, ok := g.edges[from][to]
	if !ok {
		return
	}
	if n <= 1 {
		delete(g.edges[from], to)
		return
	}
	g.edges[from][to] = n - 1
}

// Reaches returns true if to can be reached from from. Every node reaches
// itself.
func (g *Graph) Reaches(from, to int) bool {
	if from == to {
		return true
	}
	visited := make([]bool, len(g.edges))
	stack := []int{from}
	visited[from] = true
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range g.edges[n] {
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// Sort returns nodes in dependency order. Among nodes that are ready at the
// same time the smallest one goes first, so the result only depends on the
// set of edges.
func (g *Graph) Sort() ([]int, error) {
	n := len(g.edges)
	inDegree := make([]int, n)
	for _, dependents := range g.edges {
		for to := range dependents {
			inDegree[to]++
		}
	}

	ready := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	result := make([]int, 0, n)
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		result = append(result, node)

		released := false
		for to := range g.edges[node] {
			inDegree[to]--
			if inDegree[to] == 0 {
				ready = append(ready, to)
				released = true
			}
		}
		if released {
			sort.Ints(ready)
		}
	}

	if len(result) != n {
		return nil, ErrCycle
	}
	return result, nil
}
