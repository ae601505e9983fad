package graph

import (
	"fmt"
	"slices"
	"strings"
)

// Graph is a directed dependency graph over named nodes. An edge n -> d means
// n depends on d, so d must come first in the order.
//
// Node insertion order and dependency declaration order are both preserved;
// every traversal visits them in that order, so results are deterministic.
type Graph struct {
	names []string
	deps  map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{deps: make(map[string][]string)}
}

// AddNode adds a node with its dependencies. Adding an existing node replaces
// its dependencies and keeps its original position. Duplicate dependencies are
// collapsed onto their first occurrence.
func (g *Graph) AddNode(name string, deps ...string) {
	if _, ok := g.deps[name]; !ok {
		g.names = append(g.names, name)
	}
	unique := make([]string, 0, len(deps))
	for _, d := range deps {
		if !slices.Contains(unique, d) {
			unique = append(unique, d)
		}
	}
	g.deps[name] = unique
}

// Has reports whether the graph contains name.
func (g *Graph) Has(name string) bool {
	_, ok := g.deps[name]
	return ok
}

// Nodes returns node names in insertion order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.names)
}

// Dependencies returns the direct dependencies of name in declaration order.
func (g *Graph) Dependencies(name string) []string {
	return slices.Clone(g.deps[name])
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.names)
}

// MissingDependencyError reports a dependency that names no node.
type MissingDependencyError struct {
	Dependent string
	Missing   string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("'%s' cannot find dependency '%s'", e.Dependent, e.Missing)
}

// CycleError reports a dependency cycle. Path is closed: its last element
// repeats the first.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "Dependency Cycle Found: " + strings.Join(e.Path, " -> ")
}

type color uint8

const (
	white color = iota
	gray
	black
)

type frame struct {
	name string
	next int
}

// Order returns every node such that each node follows all of its
// dependencies. It stops at the first missing dependency or cycle found by a
// depth-first walk from each root in insertion order.
func (g *Graph) Order() ([]string, error) {
	colors := make(map[string]color, len(g.names))
	order := make([]string, 0, len(g.names))

	for _, root := range g.names {
		if colors[root] != white {
			continue
		}

		colors[root] = gray
		stack := []frame{{name: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := g.deps[top.name]

			if top.next == len(deps) {
				colors[top.name] = black
				order = append(order, top.name)
				stack = stack[:len(stack)-1]
				continue
			}

			dep := deps[top.next]
			top.next++

			if _, ok := g.deps[dep]; !ok {
				return nil, &MissingDependencyError{Dependent: top.name, Missing: dep}
			}

			switch colors[dep] {
			case white:
				colors[dep] = gray
				stack = append(stack, frame{name: dep})
			case gray:
				return nil, &CycleError{Path: cyclePath(stack, dep)}
			}
		}
	}

	return order, nil
}

// cyclePath returns the stack from the first occurrence of dep, closed by dep.
func cyclePath(stack []frame, dep string) []string {
	start := 0
	for i, f := range stack {
		if f.name == dep {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.name)
	}
	return append(path, dep)
}

// Levels groups nodes by dependency depth. Level 0 holds nodes without
// dependencies; every other node sits one level above its deepest dependency.
// Nodes within a level keep their position from Order.
func (g *Graph) Levels() ([][]string, error) {
	order, err := g.Order()
	if err != nil {
		return nil, err
	}

	depth := make(map[string]int, len(order))
	var levels [][]string
	for _, name := range order {
		d := 0
		for _, dep := range g.deps[name] {
			if depth[dep]+1 > d {
				d = depth[dep] + 1
			}
		}
		depth[name] = d
		for len(levels) <= d {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], name)
	}
	return levels, nil
}

// Dependents returns every node that transitively depends on name, in
// insertion order. name itself is not included.
func (g *Graph) Dependents(name string) []string {
	reverse := make(map[string][]string, len(g.names))
	for _, n := range g.names {
		for _, d := range g.deps[n] {
			reverse[d] = append(reverse[d], n)
		}
	}

	seen := map[string]bool{name: true}
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range reverse[cur] {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}

	var out []string
	for _, n := range g.names {
		if n != name && seen[n] {
			out = append(out, n)
		}
	}
	return out
}
